package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/navigator/internal/entities"
)

func TestCategoriesController_Update(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*testServer, *entities.Category, *entities.Category) {
		s := setupServer(t)
		seedCatalog(t, s)
		dev, err := s.categories.FindByNameAndParent(ctx, "Dev", 0)
		require.NoError(t, err)
		golang, err := s.categories.FindByNameAndParent(ctx, "Go", dev.ID)
		require.NoError(t, err)
		return s, dev, golang
	}

	t.Run("renames and syncs site category names", func(t *testing.T) {
		s, dev, golang := setup(t)

		body := fmt.Sprintf(`{"catelog": "Golang", "parent_id": %d, "sort_order": "3"}`, dev.ID)
		w := s.do(t, "PUT", fmt.Sprintf("/api/categories/%d", golang.ID), body)
		assert.Equal(t, http.StatusOK, w.Code)

		updated, err := s.categories.GetCategoryByID(ctx, golang.ID)
		require.NoError(t, err)
		assert.Equal(t, "Golang", updated.Name)
		assert.Equal(t, 3, updated.SortOrder)

		site, err := s.sites.GetSiteByURL(ctx, "https://go.dev")
		require.NoError(t, err)
		assert.Equal(t, "Golang", site.CategoryName)
	})

	t.Run("private category cascades to its sites", func(t *testing.T) {
		s, dev, _ := setup(t)

		w := s.do(t, "PUT", fmt.Sprintf("/api/categories/%d", dev.ID), `{"catelog": "Dev", "is_private": 1}`)
		assert.Equal(t, http.StatusOK, w.Code)

		site, err := s.sites.GetSiteByURL(ctx, "https://github.com")
		require.NoError(t, err)
		assert.True(t, site.IsPrivate)
	})

	t.Run("duplicate name under the same parent returns 409", func(t *testing.T) {
		s, dev, golang := setup(t)

		w := s.do(t, "PUT", fmt.Sprintf("/api/categories/%d", golang.ID), `{"catelog": "Dev", "parent_id": 0}`)
		assert.Equal(t, http.StatusConflict, w.Code)

		unchanged, err := s.categories.GetCategoryByID(ctx, golang.ID)
		require.NoError(t, err)
		assert.Equal(t, dev.ID, unchanged.ParentID)
	})

	t.Run("moving under own descendant returns 400", func(t *testing.T) {
		s, dev, golang := setup(t)

		body := fmt.Sprintf(`{"catelog": "Dev", "parent_id": %d}`, golang.ID)
		w := s.do(t, "PUT", fmt.Sprintf("/api/categories/%d", dev.ID), body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("blank name returns 400", func(t *testing.T) {
		s, dev, _ := setup(t)

		w := s.do(t, "PUT", fmt.Sprintf("/api/categories/%d", dev.ID), `{"catelog": "  "}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown category returns 404", func(t *testing.T) {
		s, _, _ := setup(t)

		w := s.do(t, "PUT", "/api/categories/999", `{"catelog": "Nope"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid id returns 400", func(t *testing.T) {
		s, _, _ := setup(t)

		w := s.do(t, "PUT", "/api/categories/abc", `{"catelog": "Nope"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("reset refuses a category with sites", func(t *testing.T) {
		s, _, golang := setup(t)

		w := s.do(t, "PUT", fmt.Sprintf("/api/categories/%d", golang.ID), `{"reset": true}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("reset deletes an empty category", func(t *testing.T) {
		s := setupServer(t)
		require.Equal(t, http.StatusCreated, s.do(t, "POST", "/api/config/import", `{"category": [{"id": 1, "catelog": "Empty"}], "sites": []}`).Code)
		empty, err := s.categories.FindByNameAndParent(ctx, "Empty", 0)
		require.NoError(t, err)

		w := s.do(t, "PUT", fmt.Sprintf("/api/categories/%d", empty.ID), `{"reset": true}`)
		assert.Equal(t, http.StatusOK, w.Code)

		_, err = s.categories.GetCategoryByID(ctx, empty.ID)
		assert.Error(t, err)
	})
}

func TestCategoriesController_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a category and returns 201", func(t *testing.T) {
		s := setupServer(t)

		w := s.do(t, "POST", "/api/categories", `{"catelog": " Tools ", "sort_order": "4", "is_private": "true"}`)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "Category created successfully", decodeResponse(t, w).Message)

		tools, err := s.categories.FindByNameAndParent(ctx, "Tools", 0)
		require.NoError(t, err)
		assert.Equal(t, 4, tools.SortOrder)
		assert.True(t, tools.IsPrivate)
	})

	t.Run("missing sort order gets the default", func(t *testing.T) {
		s := setupServer(t)

		w := s.do(t, "POST", "/api/categories", `{"catelog": "Misc"}`)
		require.Equal(t, http.StatusCreated, w.Code)

		misc, err := s.categories.FindByNameAndParent(ctx, "Misc", 0)
		require.NoError(t, err)
		assert.Equal(t, entities.DefaultSortOrder, misc.SortOrder)
	})

	t.Run("nests under an existing parent", func(t *testing.T) {
		s := setupServer(t)
		seedCatalog(t, s)
		dev, err := s.categories.FindByNameAndParent(ctx, "Dev", 0)
		require.NoError(t, err)

		w := s.do(t, "POST", "/api/categories", fmt.Sprintf(`{"catelog": "Rust", "parent_id": %d}`, dev.ID))
		require.Equal(t, http.StatusCreated, w.Code)

		_, err = s.categories.FindByNameAndParent(ctx, "Rust", dev.ID)
		assert.NoError(t, err)
	})

	t.Run("duplicate under the same parent returns 409", func(t *testing.T) {
		s := setupServer(t)
		seedCatalog(t, s)

		w := s.do(t, "POST", "/api/categories", `{"catelog": "Dev"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("rejected requests return 400", func(t *testing.T) {
		s := setupServer(t)

		for name, body := range map[string]string{
			"blank name":     `{"catelog": "  "}`,
			"missing parent": `{"catelog": "X", "parent_id": 77}`,
			"bad parent":     `{"catelog": "X", "parent_id": true}`,
			"broken body":    `{"catelog":`,
		} {
			w := s.do(t, "POST", "/api/categories", body)
			assert.Equal(t, http.StatusBadRequest, w.Code, name)
		}
	})
}

func TestCategoriesController_List(t *testing.T) {
	s := setupServer(t)
	seedCatalog(t, s)

	w := s.do(t, "GET", "/api/categories", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Total int `json:"total"`
		Data  []struct {
			Name      string `json:"catelog"`
			SiteCount int64  `json:"site_count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)

	counts := map[string]int64{}
	for _, item := range resp.Data {
		counts[item.Name] = item.SiteCount
	}
	assert.Equal(t, map[string]int64{"Dev": 1, "Go": 1}, counts)
}

func TestParseParentID(t *testing.T) {
	id, ok := parseParentID(nil)
	assert.True(t, ok)
	assert.Equal(t, entities.RootCategoryID, id)

	id, ok = parseParentID("7")
	assert.True(t, ok)
	assert.Equal(t, uint(7), id)

	_, ok = parseParentID("-1")
	assert.False(t, ok)

	_, ok = parseParentID(true)
	assert.False(t, ok)
}
