package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/navigator/internal/audit"
	"github.com/mrlokans/navigator/internal/batch"
	"github.com/mrlokans/navigator/internal/catalog"
	"github.com/mrlokans/navigator/internal/database"
	auditrepo "github.com/mrlokans/navigator/internal/database/audit"
	"github.com/mrlokans/navigator/internal/database/categories"
	"github.com/mrlokans/navigator/internal/database/sites"
	"github.com/mrlokans/navigator/internal/exporters"
	"github.com/mrlokans/navigator/internal/importers"
)

type testServer struct {
	router     *gin.Engine
	db         *database.Database
	categories *categories.Repository
	sites      *sites.Repository
	audit      *audit.Service
	auditDir   string
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "http.db"))
	require.NoError(t, err)

	catRepo := categories.NewRepository(db.DB)
	siteRepo := sites.NewRepository(db.DB)
	exec := batch.NewExecutor(db.DB, batch.DefaultMaxParams, batch.DefaultChunkSize)
	auditService := audit.NewService(auditrepo.NewRepository(db.DB))
	auditDir := t.TempDir()

	t.Cleanup(func() {
		auditService.Wait()
		db.Close()
	})

	router := NewRouter(RouterConfig{
		Importer:     importers.NewEngine(catRepo, siteRepo, exec, importers.NewLogoResolver("")),
		Exporter:     exporters.NewConfigExporter(exporters.CatalogSource{Categories: catRepo, Sites: siteRepo}),
		Catalog:      catalog.NewService(catRepo, siteRepo, exec),
		PayloadSaver: audit.NewAuditor(auditDir),
		AuditLog:     auditService,
		Database:     db,
		Version:      "test",
	})

	return &testServer{
		router:     router,
		db:         db,
		categories: catRepo,
		sites:      siteRepo,
		audit:      auditService,
		auditDir:   auditDir,
	}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
