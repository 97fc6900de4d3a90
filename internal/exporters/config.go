package exporters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mrlokans/navigator/internal/entities"
)

// ConfigExporter renders the catalog as a structured import document.
type ConfigExporter struct {
	reader CatalogReader
}

func NewConfigExporter(reader CatalogReader) *ConfigExporter {
	return &ConfigExporter{reader: reader}
}

// Build reads the catalog. Categories keep the store order (sort order, then
// id); sites are ordered by sort order with the newest first.
func (e *ConfigExporter) Build(ctx context.Context) (Document, error) {
	cats, err := e.reader.ListCategories(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("failed to list categories: %w", err)
	}
	sites, err := e.reader.ListSites(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("failed to list sites: %w", err)
	}

	doc := Document{
		Categories: make([]CategoryRecord, 0, len(cats)),
		Sites:      make([]SiteRecord, 0, len(sites)),
	}
	for _, cat := range cats {
		doc.Categories = append(doc.Categories, categoryRecord(cat))
	}
	for _, site := range sites {
		doc.Sites = append(doc.Sites, siteRecord(site))
	}
	return doc, nil
}

// Write builds the document and writes it to w as indented JSON.
func (e *ConfigExporter) Write(ctx context.Context, w io.Writer) (ExportResult, error) {
	doc, err := e.Build(ctx)
	if err != nil {
		return ExportResult{}, err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return ExportResult{}, fmt.Errorf("failed to encode export: %w", err)
	}
	return doc.Result(), nil
}

func categoryRecord(cat entities.Category) CategoryRecord {
	return CategoryRecord{
		ID:        cat.ID,
		Name:      cat.Name,
		SortOrder: cat.SortOrder,
		ParentID:  cat.ParentID,
		IsPrivate: cat.IsPrivate,
	}
}

func siteRecord(site entities.Site) SiteRecord {
	return SiteRecord{
		ID:          site.ID,
		Name:        site.Name,
		URL:         site.URL,
		Logo:        site.Logo,
		Description: site.Description,
		CategoryID:  site.CategoryID,
		SortOrder:   site.SortOrder,
		IsPrivate:   site.IsPrivate,
	}
}
