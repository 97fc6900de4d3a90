package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/navigator/internal/catalog"
	"github.com/mrlokans/navigator/internal/entities"
	"github.com/mrlokans/navigator/internal/importers"
)

// CategoryEditor lists, creates, updates and removes categories.
type CategoryEditor interface {
	ListCategories(ctx context.Context) ([]catalog.CategoryListing, error)
	CreateCategory(ctx context.Context, in catalog.CategoryUpdate) (*entities.Category, error)
	UpdateCategory(ctx context.Context, id uint, upd catalog.CategoryUpdate) (*entities.Category, error)
	DeleteCategory(ctx context.Context, id uint) error
}

// CategoryUpdateRequest is the body of PUT /api/categories/:id and
// POST /api/categories. Reset deletes the category instead of updating it
// and is ignored on create.
type CategoryUpdateRequest struct {
	Reset     bool   `json:"reset"`
	Name      string `json:"catelog"`
	SortOrder any    `json:"sort_order"`
	ParentID  any    `json:"parent_id"`
	IsPrivate any    `json:"is_private"`
}

type CategoriesController struct {
	editor CategoryEditor
}

func NewCategoriesController(editor CategoryEditor) *CategoriesController {
	return &CategoriesController{editor: editor}
}

// List handles GET /api/categories
func (cc *CategoriesController) List(c *gin.Context) {
	listing, err := cc.editor.ListCategories(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code":  http.StatusOK,
		"data":  listing,
		"total": len(listing),
	})
}

// Create handles POST /api/categories
func (cc *CategoriesController) Create(c *gin.Context) {
	var req CategoryUpdateRequest
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	parentID, ok := parseParentID(req.ParentID)
	if !ok {
		respondBadRequest(c, "invalid parent_id")
		return
	}

	cat, err := cc.editor.CreateCategory(c.Request.Context(), catalog.CategoryUpdate{
		Name:      req.Name,
		SortOrder: importers.NormalizeSortOrder(req.SortOrder),
		ParentID:  parentID,
		IsPrivate: importers.Truthy(req.IsPrivate),
	})
	if err != nil {
		cc.respondEditError(c, err, "create category")
		return
	}
	respond(c, http.StatusCreated, "Category created successfully", cat)
}

// Update handles PUT /api/categories/:id
func (cc *CategoriesController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CategoryUpdateRequest
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if req.Reset {
		if err := cc.editor.DeleteCategory(c.Request.Context(), id); err != nil {
			cc.respondEditError(c, err, "delete category")
			return
		}
		respond(c, http.StatusOK, "Category deleted successfully", nil)
		return
	}

	parentID, ok := parseParentID(req.ParentID)
	if !ok {
		respondBadRequest(c, "invalid parent_id")
		return
	}

	cat, err := cc.editor.UpdateCategory(c.Request.Context(), id, catalog.CategoryUpdate{
		Name:      req.Name,
		SortOrder: importers.NormalizeSortOrder(req.SortOrder),
		ParentID:  parentID,
		IsPrivate: importers.Truthy(req.IsPrivate),
	})
	if err != nil {
		cc.respondEditError(c, err, "update category")
		return
	}
	respond(c, http.StatusOK, "Category updated successfully", cat)
}

func (cc *CategoriesController) respondEditError(c *gin.Context, err error, operation string) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		respondNotFound(c, "category")
	case errors.Is(err, catalog.ErrConflict):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, catalog.ErrInvalid):
		respondBadRequest(c, err.Error())
	default:
		respondInternalError(c, err, operation)
	}
}

// parseParentID reads an optional parent id; a missing value means root.
func parseParentID(v any) (uint, bool) {
	var s string
	switch p := v.(type) {
	case nil:
		return entities.RootCategoryID, true
	case json.Number:
		s = p.String()
	case string:
		if p == "" {
			return entities.RootCategoryID, true
		}
		s = p
	default:
		return 0, false
	}
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
