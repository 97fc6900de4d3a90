package audit

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mrlokans/navigator/internal/database/audit"
	"github.com/mrlokans/navigator/internal/entities"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo    *audit.Repository
	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.LogEvent(event); err != nil {
			log.Error("Failed to log audit event", "action", event.Action, "err", err)
		}
	}()
}

// Wait blocks until every event queued with LogAsync is written.
func (s *Service) Wait() {
	s.pending.Wait()
}

// LogImport records a config import. payloadFile names the stored request
// body, if one was kept.
func (s *Service) LogImport(description, payloadFile string, metadata map[string]any, err error) {
	s.LogAsync(newEvent(entities.AuditEventImport, "config_import", description, payloadFile, metadata, err))
}

// LogExport records a config export.
func (s *Service) LogExport(categories, sites int, err error) {
	s.LogAsync(newEvent(entities.AuditEventExport, "config_export", "Exported catalog", "", map[string]any{
		"categories_count": categories,
		"sites_count":      sites,
	}, err))
}

// LogBatch records a bulk edit of sites.
func (s *Service) LogBatch(action string, ids []uint, affected int64, err error) {
	s.LogAsync(newEvent(entities.AuditEventBatch, "sites_"+action, "Bulk "+action, "", map[string]any{
		"ids_count":     len(ids),
		"rows_affected": affected,
	}, err))
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

func newEvent(eventType entities.AuditEventType, action, description, payloadFile string, metadata map[string]any, err error) *entities.AuditEvent {
	event := &entities.AuditEvent{
		EventType:   eventType,
		Action:      action,
		Description: truncate(description, 500),
		PayloadFile: payloadFile,
		Status:      entities.AuditStatusSuccess,
	}

	if len(metadata) > 0 {
		if mdBytes, e := json.Marshal(metadata); e == nil {
			event.Metadata = string(mdBytes)
		}
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}
	return event
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
