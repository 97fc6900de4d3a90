package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/navigator/internal/importers"
)

// DefaultMaxBodySize limits import bodies when no limit is configured.
const DefaultMaxBodySize = 10 << 20

// ConfigImporter merges a normalized payload into the catalog.
type ConfigImporter interface {
	Import(ctx context.Context, p importers.Payload, opts importers.Options) (importers.Summary, error)
}

// PayloadSaver keeps a copy of a raw import body and returns its name.
type PayloadSaver interface {
	SaveRaw(data []byte) (string, error)
}

// ImportAuditLogger records import outcomes.
type ImportAuditLogger interface {
	LogImport(description, payloadFile string, metadata map[string]any, err error)
}

// ImportSummary is the data part of an import response.
type ImportSummary struct {
	Structured        bool `json:"structured"`
	CategoriesCreated int  `json:"categories_created"`
	CategoriesMatched int  `json:"categories_matched"`
	Inserted          int  `json:"inserted"`
	Updated           int  `json:"updated"`
	Skipped           int  `json:"skipped"`
}

func asImportSummary(s importers.Summary) ImportSummary {
	return ImportSummary{
		Structured:        s.Structured,
		CategoriesCreated: s.CategoriesCreated,
		CategoriesMatched: s.CategoriesMatched,
		Inserted:          s.Inserted,
		Updated:           s.Updated,
		Skipped:           s.Skipped,
	}
}

type ConfigImportController struct {
	importer    ConfigImporter
	saver       PayloadSaver
	audit       ImportAuditLogger
	maxBodySize int64
}

// NewConfigImportController creates the import controller. saver and audit
// are optional.
func NewConfigImportController(importer ConfigImporter, saver PayloadSaver, audit ImportAuditLogger, maxBodySize int64) *ConfigImportController {
	if maxBodySize <= 0 {
		maxBodySize = DefaultMaxBodySize
	}
	return &ConfigImportController{
		importer:    importer,
		saver:       saver,
		audit:       audit,
		maxBodySize: maxBodySize,
	}
}

// Import handles POST /api/config/import
// The body is either a structured {"category": [...], "sites": [...]}
// document or a legacy array of sites. ?override=true updates sites whose
// URL already exists.
func (ic *ConfigImportController) Import(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, ic.maxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, "import body is too large")
			return
		}
		respondBadRequest(c, "failed to read request body")
		return
	}

	payloadFile := ic.savePayload(body)

	payload, err := importers.DecodeBytes(body)
	if err != nil {
		ic.logImport("Rejected import payload", payloadFile, importers.Summary{}, err)
		respondBadRequest(c, "Invalid JSON format. Expected {\"category\": [...], \"sites\": [...]} or an array of sites.")
		return
	}

	opts := importers.Options{Override: queryFlag(c, "override")}
	summary, err := ic.importer.Import(c.Request.Context(), payload, opts)
	ic.logImport(summary.Message(), payloadFile, summary, err)

	if err != nil {
		var backendErr *importers.BackendError
		switch {
		case errors.Is(err, importers.ErrValidation), errors.Is(err, importers.ErrInvalidFormat):
			respondBadRequest(c, err.Error())
		case errors.As(err, &backendErr):
			respondInternalError(c, backendErr.Err, backendErr.Op)
		default:
			respondInternalError(c, err, "import config")
		}
		return
	}

	status := http.StatusOK
	if summary.Wrote() {
		status = http.StatusCreated
	}
	respond(c, status, summary.Message(), asImportSummary(summary))
}

func (ic *ConfigImportController) savePayload(body []byte) string {
	if ic.saver == nil || len(body) == 0 {
		return ""
	}
	name, err := ic.saver.SaveRaw(body)
	if err != nil {
		log.Warn("Failed to store import payload", "err", err)
		return ""
	}
	return name
}

func (ic *ConfigImportController) logImport(description, payloadFile string, s importers.Summary, err error) {
	if ic.audit == nil {
		return
	}
	ic.audit.LogImport(description, payloadFile, map[string]any{
		"structured":         s.Structured,
		"categories_created": s.CategoriesCreated,
		"inserted":           s.Inserted,
		"updated":            s.Updated,
		"skipped":            s.Skipped,
	}, err)
}
