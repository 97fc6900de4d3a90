package audit

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	auditRepo "github.com/mrlokans/navigator/internal/database/audit"
	"github.com/mrlokans/navigator/internal/entities"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// Async writes must see the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	repo := auditRepo.NewRepository(db)
	svc := NewService(repo)

	return svc, db
}

func TestService_Log(t *testing.T) {
	svc, db := setupTestService(t)

	event := &entities.AuditEvent{
		EventType:   entities.AuditEventImport,
		Action:      "test_import",
		Description: "Test import event",
		Status:      entities.AuditStatusSuccess,
	}

	err := svc.Log(event)
	require.NoError(t, err)

	var saved entities.AuditEvent
	err = db.First(&saved, event.ID).Error
	require.NoError(t, err)
	assert.Equal(t, "test_import", saved.Action)
}

func TestService_LogImport(t *testing.T) {
	svc, db := setupTestService(t)

	t.Run("successful import", func(t *testing.T) {
		svc.LogImport("Added 5 sites", "abc.json", map[string]any{"inserted": 5}, nil)
		svc.Wait()

		var event entities.AuditEvent
		err := db.Where("action = ?", "config_import").First(&event).Error
		require.NoError(t, err)
		assert.Equal(t, entities.AuditStatusSuccess, event.Status)
		assert.Equal(t, "abc.json", event.PayloadFile)
		assert.Contains(t, event.Metadata, `"inserted":5`)
	})

	t.Run("failed import", func(t *testing.T) {
		svc.LogImport("Import failed", "", nil, errors.New(strings.Repeat("x", 600)))
		svc.Wait()

		var event entities.AuditEvent
		err := db.Where("status = ?", entities.AuditStatusFailed).First(&event).Error
		require.NoError(t, err)
		assert.Len(t, event.ErrorMsg, 500)
		assert.Empty(t, event.Metadata)
	})
}

func TestService_LogExportAndBatch(t *testing.T) {
	svc, db := setupTestService(t)

	svc.LogExport(3, 12, nil)
	svc.LogBatch("delete", []uint{1, 2}, 2, nil)
	svc.Wait()

	var export entities.AuditEvent
	require.NoError(t, db.Where("event_type = ?", entities.AuditEventExport).First(&export).Error)
	assert.Contains(t, export.Metadata, `"sites_count":12`)

	var batch entities.AuditEvent
	require.NoError(t, db.Where("event_type = ?", entities.AuditEventBatch).First(&batch).Error)
	assert.Equal(t, "sites_delete", batch.Action)
}

func TestService_DeleteOldEvents(t *testing.T) {
	svc, _ := setupTestService(t)

	require.NoError(t, svc.Log(&entities.AuditEvent{Action: "old", CreatedAt: time.Now().Add(-40 * 24 * time.Hour)}))
	require.NoError(t, svc.Log(&entities.AuditEvent{Action: "new"}))

	deleted, err := svc.DeleteOldEvents(30 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, total, err := svc.GetEvents(10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
