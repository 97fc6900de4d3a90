package exporters

import (
	"context"

	"github.com/mrlokans/navigator/internal/entities"
)

// CatalogReader provides read access to the whole catalog.
type CatalogReader interface {
	ListCategories(ctx context.Context) ([]entities.Category, error)
	ListSites(ctx context.Context) ([]entities.Site, error)
}

// CatalogSource joins separate category and site stores into a CatalogReader.
type CatalogSource struct {
	Categories interface {
		ListCategories(ctx context.Context) ([]entities.Category, error)
	}
	Sites interface {
		ListSites(ctx context.Context) ([]entities.Site, error)
	}
}

func (s CatalogSource) ListCategories(ctx context.Context) ([]entities.Category, error) {
	return s.Categories.ListCategories(ctx)
}

func (s CatalogSource) ListSites(ctx context.Context) ([]entities.Site, error) {
	return s.Sites.ListSites(ctx)
}

type ExportResult struct {
	CategoriesExported int `json:"categories_exported"`
	SitesExported      int `json:"sites_exported"`
}

// CategoryRecord is a category as written to a config export.
type CategoryRecord struct {
	ID        uint   `json:"id"`
	Name      string `json:"catelog"`
	SortOrder int    `json:"sort_order"`
	ParentID  uint   `json:"parent_id"`
	IsPrivate bool   `json:"is_private"`
}

// SiteRecord is a site as written to a config export.
type SiteRecord struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	URL         string  `json:"url"`
	Logo        *string `json:"logo"`
	Description *string `json:"desc"`
	CategoryID  uint    `json:"catelog_id"`
	SortOrder   int     `json:"sort_order"`
	IsPrivate   bool    `json:"is_private"`
}

// Document is the structured export format. It is accepted back by the
// importer unchanged.
type Document struct {
	Categories []CategoryRecord `json:"category"`
	Sites      []SiteRecord     `json:"sites"`
}

func (d Document) Result() ExportResult {
	return ExportResult{
		CategoriesExported: len(d.Categories),
		SitesExported:      len(d.Sites),
	}
}
