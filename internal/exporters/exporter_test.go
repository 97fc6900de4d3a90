package exporters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/navigator/internal/batch"
	"github.com/mrlokans/navigator/internal/database"
	"github.com/mrlokans/navigator/internal/database/categories"
	"github.com/mrlokans/navigator/internal/database/sites"
	"github.com/mrlokans/navigator/internal/entities"
	"github.com/mrlokans/navigator/internal/importers"
)

type failingReader struct{}

func (failingReader) ListCategories(context.Context) ([]entities.Category, error) {
	return nil, errors.New("db down")
}

func (failingReader) ListSites(context.Context) ([]entities.Site, error) {
	return nil, nil
}

func strPtr(s string) *string { return &s }

func setupCatalog(t *testing.T) (CatalogSource, *importers.Engine) {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "export.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	catRepo := categories.NewRepository(db.DB)
	siteRepo := sites.NewRepository(db.DB)
	exec := batch.NewExecutor(db.DB, batch.DefaultMaxParams, batch.DefaultChunkSize)
	engine := importers.NewEngine(catRepo, siteRepo, exec, importers.NewLogoResolver(""))
	return CatalogSource{Categories: catRepo, Sites: siteRepo}, engine
}

const payload = `{
	"category": [
		{"id": 1, "catelog": "Dev", "sort_order": 1},
		{"id": 2, "catelog": "Go", "parent_id": 1, "sort_order": 2},
		{"id": 3, "catelog": "Secret", "sort_order": 3, "is_private": true}
	],
	"sites": [
		{"name": "Go", "url": "https://go.dev", "desc": "Language", "catelog_id": 2, "sort_order": 1},
		{"name": "GitHub", "url": "https://github.com", "logo": "https://github.com/favicon.ico", "catelog_id": 1, "sort_order": 0},
		{"name": "Vault", "url": "https://vault.example", "catelog_id": 3}
	]
}`

func TestConfigExporter(t *testing.T) {
	ctx := context.Background()

	t.Run("exports structured document", func(t *testing.T) {
		store, engine := setupCatalog(t)
		p, err := importers.DecodeBytes([]byte(payload))
		require.NoError(t, err)
		_, err = engine.Import(ctx, p, importers.Options{})
		require.NoError(t, err)

		doc, err := NewConfigExporter(store).Build(ctx)
		require.NoError(t, err)

		require.Len(t, doc.Categories, 3)
		assert.Equal(t, "Dev", doc.Categories[0].Name)
		assert.Equal(t, doc.Categories[0].ID, doc.Categories[1].ParentID)
		assert.True(t, doc.Categories[2].IsPrivate)

		require.Len(t, doc.Sites, 3)
		assert.Equal(t, "GitHub", doc.Sites[0].Name)
		assert.Equal(t, "Vault", doc.Sites[2].Name)
		assert.True(t, doc.Sites[2].IsPrivate)
		require.NotNil(t, doc.Sites[1].Logo)
		assert.Equal(t, "https://favicon.im/go.dev?larger=true", *doc.Sites[1].Logo)
	})

	t.Run("export reimports without changes", func(t *testing.T) {
		store, engine := setupCatalog(t)
		p, err := importers.DecodeBytes([]byte(payload))
		require.NoError(t, err)
		_, err = engine.Import(ctx, p, importers.Options{})
		require.NoError(t, err)

		var buf bytes.Buffer
		result, err := NewConfigExporter(store).Write(ctx, &buf)
		require.NoError(t, err)
		assert.Equal(t, ExportResult{CategoriesExported: 3, SitesExported: 3}, result)

		again, err := importers.DecodeBytes(buf.Bytes())
		require.NoError(t, err)
		summary, err := engine.Import(ctx, again, importers.Options{})
		require.NoError(t, err)
		assert.Equal(t, 0, summary.CategoriesCreated)
		assert.Equal(t, 0, summary.Inserted)
		assert.Equal(t, 3, summary.Skipped)
	})

	t.Run("uses import field names", func(t *testing.T) {
		store, _ := setupCatalog(t)

		var buf bytes.Buffer
		_, err := NewConfigExporter(store).Write(ctx, &buf)
		require.NoError(t, err)

		var raw map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
		assert.Equal(t, []any{}, raw["category"])
		assert.Equal(t, []any{}, raw["sites"])
	})

	t.Run("propagates read errors", func(t *testing.T) {
		_, err := NewConfigExporter(failingReader{}).Build(ctx)
		assert.ErrorContains(t, err, "db down")
	})
}

func TestGenerateMarkdown(t *testing.T) {
	doc := Document{
		Categories: []CategoryRecord{
			{ID: 1, Name: "Dev"},
			{ID: 2, Name: "Go", ParentID: 1},
			{ID: 3, Name: "Secret", IsPrivate: true},
			{ID: 4, Name: "Loop A", ParentID: 5},
			{ID: 5, Name: "Loop B", ParentID: 4},
		},
		Sites: []SiteRecord{
			{Name: "GitHub", URL: "https://github.com", CategoryID: 1},
			{Name: "Go [site]", URL: "https://go.dev", Description: strPtr("The\nlanguage"), CategoryID: 2},
			{Name: "Vault", URL: "https://vault.example", CategoryID: 3, IsPrivate: true},
			{Name: "Hidden", URL: "https://hidden.example", CategoryID: 1, IsPrivate: true},
		},
	}
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	t.Run("renders nested headings", func(t *testing.T) {
		md := GenerateMarkdown(doc, MarkdownOptions{Now: now})

		assert.Contains(t, md, "created_at: 2024-06-15")
		assert.Contains(t, md, "## Dev\n\n- [GitHub](https://github.com)\n")
		assert.Contains(t, md, "### Go\n\n- [Go \\[site\\]](https://go.dev) - The language\n")
		assert.Contains(t, md, "## Loop A")
		assert.Contains(t, md, "### Loop B")
		assert.NotContains(t, md, "Secret")
		assert.NotContains(t, md, "Hidden")
		assert.Less(t, strings.Index(md, "## Dev"), strings.Index(md, "### Go"))
	})

	t.Run("includes private entries on request", func(t *testing.T) {
		md := GenerateMarkdown(doc, MarkdownOptions{Now: now, IncludePrivate: true})

		assert.Contains(t, md, "## Secret")
		assert.Contains(t, md, "[Vault](https://vault.example)")
		assert.Contains(t, md, "[Hidden](https://hidden.example)")
	})
}
