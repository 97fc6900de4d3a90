// Package sites provides database operations for bookmarked sites.
//
// Reads go through the Repository. Bulk writes are expressed as
// batch.Statement values built by the functions in statements.go and applied
// with a batch.Executor, so that no single statement exceeds the backend's
// bound-parameter limit.
//
// # Usage
//
//	repo := sites.NewRepository(db)
//	existing, err := repo.ExistingURLs(ctx, urls, exec.ChunkSize())
package sites

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/navigator/internal/batch"
	"github.com/mrlokans/navigator/internal/entities"
)

// Repository handles site database reads.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new sites repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ExistingURLs returns the subset of urls that belong to live sites. The
// lookup is split into IN lists of at most chunkSize URLs which run
// concurrently.
func (r *Repository) ExistingURLs(ctx context.Context, urls []string, chunkSize int) (map[string]struct{}, error) {
	unique := make([]string, 0, len(urls))
	seen := make(map[string]bool, len(urls))
	for _, u := range urls {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		unique = append(unique, u)
	}

	found, err := batch.QueryChunked(ctx, unique, chunkSize, func(ctx context.Context, chunk []string) ([]string, error) {
		var rows []string
		err := r.db.WithContext(ctx).Model(&entities.Site{}).Where("url IN ?", chunk).Pluck("url", &rows).Error
		return rows, err
	})
	if err != nil {
		return nil, err
	}

	existing := make(map[string]struct{}, len(found))
	for _, u := range found {
		existing[u] = struct{}{}
	}
	return existing, nil
}

// ListSites returns all live sites ordered by sort order, newest first
// within equal sort orders.
func (r *Repository) ListSites(ctx context.Context) ([]entities.Site, error) {
	var sites []entities.Site
	err := r.db.WithContext(ctx).Order("sort_order ASC, create_time DESC, id DESC").Find(&sites).Error
	return sites, err
}

// GetSiteByURL retrieves the live site with the given URL.
func (r *Repository) GetSiteByURL(ctx context.Context, url string) (*entities.Site, error) {
	var site entities.Site
	if err := r.db.WithContext(ctx).Where("url = ?", url).First(&site).Error; err != nil {
		return nil, err
	}
	return &site, nil
}

// GetSiteByID retrieves a live site by ID.
func (r *Repository) GetSiteByID(ctx context.Context, id uint) (*entities.Site, error) {
	var site entities.Site
	if err := r.db.WithContext(ctx).First(&site, id).Error; err != nil {
		return nil, err
	}
	return &site, nil
}

// HasSitesInCategory reports whether any live site belongs to categoryID.
func (r *Repository) HasSitesInCategory(ctx context.Context, categoryID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Site{}).Where("catelog_id = ?", categoryID).Limit(1).Count(&count).Error
	return count > 0, err
}

// CountByCategory returns the number of live sites per category id.
// Categories without sites are absent from the map.
func (r *Repository) CountByCategory(ctx context.Context) (map[uint]int64, error) {
	var rows []struct {
		CategoryID uint
		Count      int64
	}
	err := r.db.WithContext(ctx).Model(&entities.Site{}).
		Select("catelog_id AS category_id, COUNT(*) AS count").
		Group("catelog_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.CategoryID] = row.Count
	}
	return counts, nil
}

// CountSites returns the number of live sites.
func (r *Repository) CountSites(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Site{}).Count(&count).Error
	return count, err
}

// PurgeDeleted permanently removes sites soft-deleted before olderThan.
func (r *Repository) PurgeDeleted(ctx context.Context, olderThan time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", olderThan).
		Delete(&entities.Site{})
	return result.RowsAffected, result.Error
}
