package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/navigator/internal/exporters"
)

func TestConfigExportController_Export(t *testing.T) {
	t.Run("exports config.json attachment", func(t *testing.T) {
		s := setupServer(t)
		require.Equal(t, http.StatusCreated, s.do(t, "POST", "/api/config/import", importBody).Code)

		w := s.do(t, "GET", "/api/config/export", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `attachment; filename="config.json"`, w.Header().Get("Content-Disposition"))
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

		var doc exporters.Document
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
		assert.Len(t, doc.Categories, 2)
		assert.Len(t, doc.Sites, 2)
	})

	t.Run("exported document re-imports without changes", func(t *testing.T) {
		s := setupServer(t)
		require.Equal(t, http.StatusCreated, s.do(t, "POST", "/api/config/import", importBody).Code)

		exported := s.do(t, "GET", "/api/config/export", "").Body.String()
		w := s.do(t, "POST", "/api/config/import", exported)
		assert.Equal(t, http.StatusOK, w.Code)
		data := importSummary(t, decodeResponse(t, w))
		assert.Equal(t, float64(0), data["categories_created"])
		assert.Equal(t, float64(2), data["skipped"])
	})

	t.Run("empty catalog exports empty arrays", func(t *testing.T) {
		s := setupServer(t)

		w := s.do(t, "GET", "/api/config/export", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"category": [], "sites": []}`, w.Body.String())
	})

	t.Run("markdown format", func(t *testing.T) {
		s := setupServer(t)
		require.Equal(t, http.StatusCreated, s.do(t, "POST", "/api/config/import", importBody).Code)

		w := s.do(t, "GET", "/api/config/export?format=markdown", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/markdown; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), "## Dev")
		assert.Contains(t, w.Body.String(), "### Go")
		assert.Contains(t, w.Body.String(), "- [Go](https://go.dev)")
	})

	t.Run("unknown format returns 400", func(t *testing.T) {
		s := setupServer(t)

		w := s.do(t, "GET", "/api/config/export?format=xml", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

type failingBuilder struct{}

func (failingBuilder) Build(context.Context) (exporters.Document, error) {
	return exporters.Document{}, errors.New("db down")
}

func TestConfigExportController_BuildError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	controller := NewConfigExportController(failingBuilder{}, nil)
	router := gin.New()
	router.GET("/api/config/export", controller.Export)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/config/export", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "db down")
}
