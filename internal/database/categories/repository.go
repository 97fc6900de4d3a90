// Package categories provides database operations for catalog categories.
//
// # Interface Implementation
//
//	var _ importers.CategoryStore = (*Repository)(nil)
//
// # Usage
//
//	repo := categories.NewRepository(db)
//	cats, err := repo.ListCategories(ctx)
package categories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/navigator/internal/entities"
)

// Repository handles all category database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new categories repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListCategories returns every category ordered by sort order, then id.
func (r *Repository) ListCategories(ctx context.Context) ([]entities.Category, error) {
	var cats []entities.Category
	err := r.db.WithContext(ctx).Order("sort_order ASC, id ASC").Find(&cats).Error
	return cats, err
}

// GetCategoryByID retrieves a category by ID.
func (r *Repository) GetCategoryByID(ctx context.Context, id uint) (*entities.Category, error) {
	var cat entities.Category
	if err := r.db.WithContext(ctx).First(&cat, id).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

// FindByNameAndParent retrieves the category with the given name under parentID.
func (r *Repository) FindByNameAndParent(ctx context.Context, name string, parentID uint) (*entities.Category, error) {
	var cat entities.Category
	err := r.db.WithContext(ctx).Where("catelog = ? AND parent_id = ?", name, parentID).First(&cat).Error
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// CreateCategory inserts cat. If the insert fails because another writer
// already created the same (name, parent) pair, cat is replaced by that row
// and created is false.
func (r *Repository) CreateCategory(ctx context.Context, cat *entities.Category) (bool, error) {
	createErr := r.db.WithContext(ctx).Create(cat).Error
	if createErr == nil {
		return true, nil
	}

	existing, err := r.FindByNameAndParent(ctx, cat.Name, cat.ParentID)
	if err != nil {
		return false, createErr
	}
	*cat = *existing
	return false, nil
}

// NameTaken reports whether a category other than excludeID already uses
// name under parentID.
func (r *Repository) NameTaken(ctx context.Context, name string, parentID, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Category{}).
		Where("catelog = ? AND parent_id = ? AND id <> ?", name, parentID, excludeID).
		Count(&count).Error
	return count > 0, err
}

// HasChildren reports whether any category has id as its parent.
func (r *Repository) HasChildren(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Category{}).Where("parent_id = ?", id).Limit(1).Count(&count).Error
	return count > 0, err
}

// UpdateCategory saves the editable columns of cat.
func (r *Repository) UpdateCategory(ctx context.Context, cat *entities.Category) error {
	return r.db.WithContext(ctx).Model(cat).Updates(map[string]any{
		"catelog":    cat.Name,
		"sort_order": cat.SortOrder,
		"parent_id":  cat.ParentID,
		"is_private": cat.IsPrivate,
	}).Error
}

// DeleteCategory removes a category.
func (r *Repository) DeleteCategory(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entities.Category{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IsNotFound reports whether err means the category does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
