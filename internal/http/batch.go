package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/navigator/internal/catalog"
	"github.com/mrlokans/navigator/internal/importers"
)

// BatchApplier runs bulk site actions.
type BatchApplier interface {
	ApplyBatch(ctx context.Context, req catalog.BatchRequest) (catalog.BatchResult, error)
}

// BatchAuditLogger records bulk actions.
type BatchAuditLogger interface {
	LogBatch(action string, ids []uint, affected int64, err error)
}

// idList accepts site ids as JSON numbers or numeric strings.
type idList []uint

func (l *idList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ids := make([]uint, 0, len(raw))
	for _, item := range raw {
		s := strings.Trim(string(bytes.TrimSpace(item)), `"`)
		id, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid id %s", item)
		}
		ids = append(ids, uint(id))
	}
	*l = ids
	return nil
}

// BatchRequest is the body of POST /api/config/batch.
type BatchRequest struct {
	Action  string `json:"action"`
	IDs     idList `json:"ids"`
	Payload struct {
		CategoryID json.Number `json:"categoryId"`
		IsPrivate  any         `json:"isPrivate"`
	} `json:"payload"`
}

type BatchController struct {
	applier BatchApplier
	audit   BatchAuditLogger
}

func NewBatchController(applier BatchApplier, audit BatchAuditLogger) *BatchController {
	return &BatchController{applier: applier, audit: audit}
}

// Apply handles POST /api/config/batch
func (bc *BatchController) Apply(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	batchReq := catalog.BatchRequest{
		Action: catalog.Action(req.Action),
		IDs:    req.IDs,
	}
	if req.Payload.CategoryID != "" {
		id, err := strconv.ParseUint(req.Payload.CategoryID.String(), 10, 32)
		if err != nil {
			respondBadRequest(c, "invalid categoryId")
			return
		}
		batchReq.CategoryID = uint(id)
	}
	if req.Payload.IsPrivate != nil {
		private := importers.Truthy(req.Payload.IsPrivate)
		batchReq.IsPrivate = &private
	}

	result, err := bc.applier.ApplyBatch(c.Request.Context(), batchReq)
	if bc.audit != nil && !errors.Is(err, catalog.ErrInvalid) {
		bc.audit.LogBatch(req.Action, req.IDs, result.Affected, err)
	}
	switch {
	case errors.Is(err, catalog.ErrInvalid):
		respondBadRequest(c, err.Error())
	case errors.Is(err, catalog.ErrNotFound):
		respondNotFound(c, "category")
	case err != nil:
		respondInternalError(c, err, "apply batch")
	default:
		respond(c, http.StatusOK, result.Message(), gin.H{"affected": result.Affected})
	}
}
