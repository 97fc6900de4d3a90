package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/mrlokans/navigator/internal/batch"
	"github.com/mrlokans/navigator/internal/database/sites"
	"github.com/mrlokans/navigator/internal/entities"
)

var (
	// ErrNotFound means the referenced category does not exist.
	ErrNotFound = errors.New("category not found")
	// ErrConflict means another category already uses the name under the
	// same parent.
	ErrConflict = errors.New("category name already exists under this parent")
	// ErrInvalid wraps rejected requests.
	ErrInvalid = errors.New("invalid request")
)

// CategoryStore is the category storage used by the service.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]entities.Category, error)
	CreateCategory(ctx context.Context, cat *entities.Category) (created bool, err error)
	GetCategoryByID(ctx context.Context, id uint) (*entities.Category, error)
	NameTaken(ctx context.Context, name string, parentID, excludeID uint) (bool, error)
	HasChildren(ctx context.Context, id uint) (bool, error)
	UpdateCategory(ctx context.Context, cat *entities.Category) error
	DeleteCategory(ctx context.Context, id uint) error
}

// SiteStore answers site membership questions.
type SiteStore interface {
	HasSitesInCategory(ctx context.Context, categoryID uint) (bool, error)
	CountByCategory(ctx context.Context) (map[uint]int64, error)
}

// StatementExecutor applies write statements in bounded batches.
type StatementExecutor interface {
	Exec(ctx context.Context, stmts []batch.Statement) (batch.Result, error)
	ChunkSize() int
}

type Service struct {
	categories CategoryStore
	sites      SiteStore
	exec       StatementExecutor
	now        func() time.Time
}

func NewService(categories CategoryStore, sites SiteStore, exec StatementExecutor) *Service {
	return &Service{
		categories: categories,
		sites:      sites,
		exec:       exec,
		now:        time.Now,
	}
}

// Action is a bulk site operation.
type Action string

const (
	ActionDelete         Action = "delete"
	ActionUpdateCategory Action = "update_category"
	ActionUpdatePrivacy  Action = "update_privacy"
)

// BatchRequest selects sites by id and the change to apply to them.
type BatchRequest struct {
	Action     Action
	IDs        []uint
	CategoryID uint  // update_category
	IsPrivate  *bool // update_privacy
}

// BatchResult reports a completed bulk action.
type BatchResult struct {
	Action    Action
	Requested int
	Affected  int64
}

// Message is the summary returned to API callers.
func (r BatchResult) Message() string {
	switch r.Action {
	case ActionDelete:
		return fmt.Sprintf("Deleted %d items", r.Requested)
	case ActionUpdateCategory:
		return fmt.Sprintf("Moved %d items to the new category", r.Requested)
	default:
		return fmt.Sprintf("Updated privacy of %d items", r.Requested)
	}
}

// ApplyBatch runs a bulk action. Ids are split into IN lists of at most the
// executor's chunk size.
func (s *Service) ApplyBatch(ctx context.Context, req BatchRequest) (BatchResult, error) {
	if len(req.IDs) == 0 {
		return BatchResult{}, fmt.Errorf("%w: no ids provided", ErrInvalid)
	}

	now := s.now()
	chunk := s.exec.ChunkSize()

	var stmts []batch.Statement
	switch req.Action {
	case ActionDelete:
		stmts = sites.SoftDeleteStatements(req.IDs, now, chunk)

	case ActionUpdateCategory:
		if req.CategoryID == 0 {
			return BatchResult{}, fmt.Errorf("%w: categoryId is required", ErrInvalid)
		}
		cat, err := s.getCategory(ctx, req.CategoryID)
		if err != nil {
			return BatchResult{}, err
		}
		stmts = sites.MoveStatements(req.IDs, *cat, now, chunk)

	case ActionUpdatePrivacy:
		if req.IsPrivate == nil {
			return BatchResult{}, fmt.Errorf("%w: isPrivate is required", ErrInvalid)
		}
		stmts = sites.PrivacyStatements(req.IDs, *req.IsPrivate, now, chunk)

	default:
		return BatchResult{}, fmt.Errorf("%w: unknown action %q", ErrInvalid, req.Action)
	}

	result, err := s.exec.Exec(ctx, stmts)
	if err != nil {
		return BatchResult{}, fmt.Errorf("bulk %s: %w", req.Action, err)
	}

	log.Info("bulk action applied", "action", req.Action, "ids", len(req.IDs), "rows", result.RowsAffected, "batches", result.Batches)
	return BatchResult{Action: req.Action, Requested: len(req.IDs), Affected: result.RowsAffected}, nil
}

// CategoryUpdate replaces the editable fields of a category. It also
// carries the fields of a new category.
type CategoryUpdate struct {
	Name      string
	SortOrder int
	ParentID  uint
	IsPrivate bool
}

// CategoryListing is a category with the number of live sites filed in it.
type CategoryListing struct {
	entities.Category
	SiteCount int64 `json:"site_count"`
}

// ListCategories returns every category ordered by sort order, then id,
// with its site count.
func (s *Service) ListCategories(ctx context.Context) ([]CategoryListing, error) {
	cats, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	counts, err := s.sites.CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("count sites: %w", err)
	}

	out := make([]CategoryListing, 0, len(cats))
	for _, cat := range cats {
		out = append(out, CategoryListing{Category: cat, SiteCount: counts[cat.ID]})
	}
	return out, nil
}

// CreateCategory adds a category under an existing parent. A name already
// used under that parent is a conflict.
func (s *Service) CreateCategory(ctx context.Context, in CategoryUpdate) (*entities.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrInvalid)
	}
	if err := s.checkParent(ctx, entities.RootCategoryID, in.ParentID); err != nil {
		return nil, err
	}

	taken, err := s.categories.NameTaken(ctx, name, in.ParentID, 0)
	if err != nil {
		return nil, fmt.Errorf("check category name: %w", err)
	}
	if taken {
		return nil, ErrConflict
	}

	cat := &entities.Category{
		Name:      name,
		ParentID:  in.ParentID,
		SortOrder: in.SortOrder,
		IsPrivate: in.IsPrivate,
	}
	created, err := s.categories.CreateCategory(ctx, cat)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	// Lost a race with another writer for the same (name, parent).
	if !created {
		return nil, ErrConflict
	}

	log.Info("category created", "id", cat.ID, "name", name, "parent_id", in.ParentID)
	return cat, nil
}

// UpdateCategory renames or moves a category. Sites keep their category name
// in sync, and a category made private forces its sites private.
func (s *Service) UpdateCategory(ctx context.Context, id uint, upd CategoryUpdate) (*entities.Category, error) {
	name := strings.TrimSpace(upd.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrInvalid)
	}

	cat, err := s.getCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkParent(ctx, id, upd.ParentID); err != nil {
		return nil, err
	}

	taken, err := s.categories.NameTaken(ctx, name, upd.ParentID, id)
	if err != nil {
		return nil, fmt.Errorf("check category name: %w", err)
	}
	if taken {
		return nil, ErrConflict
	}

	cat.Name = name
	cat.SortOrder = upd.SortOrder
	cat.ParentID = upd.ParentID
	cat.IsPrivate = upd.IsPrivate
	if err := s.categories.UpdateCategory(ctx, cat); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	stmts := []batch.Statement{sites.SyncCategoryNameStatement(id, name)}
	if cat.IsPrivate {
		stmts = append(stmts, sites.CascadePrivacyStatement(id))
	}
	if _, err := s.exec.Exec(ctx, stmts); err != nil {
		return nil, fmt.Errorf("sync sites of category %d: %w", id, err)
	}

	log.Info("category updated", "id", id, "name", name, "parent_id", upd.ParentID, "private", upd.IsPrivate)
	return cat, nil
}

// DeleteCategory removes an empty category. Categories with child
// categories or live sites are refused.
func (s *Service) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.getCategory(ctx, id); err != nil {
		return err
	}

	hasChildren, err := s.categories.HasChildren(ctx, id)
	if err != nil {
		return fmt.Errorf("check child categories: %w", err)
	}
	if hasChildren {
		return fmt.Errorf("%w: category has child categories, delete or move them first", ErrInvalid)
	}

	hasSites, err := s.sites.HasSitesInCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("check category sites: %w", err)
	}
	if hasSites {
		return fmt.Errorf("%w: category has sites, delete or move them first", ErrInvalid)
	}

	if err := s.categories.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete category: %w", err)
	}
	log.Info("category deleted", "id", id)
	return nil
}

func (s *Service) getCategory(ctx context.Context, id uint) (*entities.Category, error) {
	cat, err := s.categories.GetCategoryByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category %d: %w", id, err)
	}
	return cat, nil
}

// checkParent rejects a parent that is missing, the category itself, or one
// of its descendants.
func (s *Service) checkParent(ctx context.Context, id, parentID uint) error {
	seen := make(map[uint]bool)
	for current := parentID; current != entities.RootCategoryID; {
		if current == id || seen[current] {
			return fmt.Errorf("%w: a category cannot be nested under itself", ErrInvalid)
		}
		parent, err := s.categories.GetCategoryByID(ctx, current)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: parent category %d does not exist", ErrInvalid, current)
		}
		if err != nil {
			return fmt.Errorf("get category %d: %w", current, err)
		}
		seen[current] = true
		current = parent.ParentID
	}
	return nil
}
