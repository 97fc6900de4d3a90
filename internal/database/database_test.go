package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/navigator/internal/entities"
)

// setupTestDB creates a fresh test database
func setupTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewDatabase(t *testing.T) {
	t.Run("creates catalog tables", func(t *testing.T) {
		db := setupTestDB(t)

		for _, table := range []string{"category", "sites", "audit_events"} {
			assert.True(t, db.DB.Migrator().HasTable(table), table)
		}
		assert.True(t, db.DB.Migrator().HasColumn(&entities.Site{}, "catelog_name"))
		assert.True(t, db.DB.Migrator().HasIndex(&entities.Category{}, "idx_category_name_parent"))
	})

	t.Run("reopening the same file keeps data", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "reopen.db")
		first, err := NewDatabase(path)
		require.NoError(t, err)
		require.NoError(t, first.DB.Create(&entities.Category{Name: "Dev", SortOrder: 1}).Error)
		require.NoError(t, first.Close())

		second, err := NewDatabase(path)
		require.NoError(t, err)
		defer second.Close()

		var count int64
		require.NoError(t, second.DB.Model(&entities.Category{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("ping", func(t *testing.T) {
		db := setupTestDB(t)
		assert.NoError(t, db.Ping(context.Background()))
	})

	t.Run("duplicate name under one parent is rejected", func(t *testing.T) {
		db := setupTestDB(t)

		require.NoError(t, db.DB.Create(&entities.Category{Name: "Dev"}).Error)
		assert.Error(t, db.DB.Create(&entities.Category{Name: "Dev"}).Error)
		assert.NoError(t, db.DB.Create(&entities.Category{Name: "Dev", ParentID: 1}).Error)
	})
}

func TestDSN(t *testing.T) {
	assert.Equal(t, ":memory:", dsn(":memory:"))
	assert.Equal(t, "file.db?mode=ro", dsn("file.db?mode=ro"))
	assert.Equal(t, "nav.db?_busy_timeout=5000&_journal_mode=WAL", dsn("nav.db"))
}
