package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mikestefanello/backlite"
)

// DeletedSitesPurger permanently removes soft-deleted sites.
type DeletedSitesPurger interface {
	PurgeDeleted(ctx context.Context, olderThan time.Time) (int64, error)
}

// PurgeDeletedSitesTask hard-deletes sites that were bulk deleted more than
// RetentionDays ago.
type PurgeDeletedSitesTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config returns the queue configuration for purge tasks.
func (t PurgeDeletedSitesTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "purge_deleted_sites",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// PurgeDeletedSitesProcessor creates a processor function for PurgeDeletedSitesTask.
func PurgeDeletedSitesProcessor(purger DeletedSitesPurger) backlite.QueueProcessor[PurgeDeletedSitesTask] {
	return func(ctx context.Context, task PurgeDeletedSitesTask) error {
		if purger == nil {
			return fmt.Errorf("deleted sites purger not configured")
		}

		retentionDays := task.RetentionDays
		if retentionDays <= 0 {
			retentionDays = DefaultAuditRetentionDays
		}
		cutoff := time.Now().Add(-time.Duration(retentionDays) * 24 * time.Hour)

		purged, err := purger.PurgeDeleted(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("purge deleted sites: %w", err)
		}

		if purged > 0 {
			log.Info("Purged deleted sites", "count", purged)
		}
		return nil
	}
}

// NewPurgeDeletedSitesQueue creates a backlite queue for purge tasks.
func NewPurgeDeletedSitesQueue(purger DeletedSitesPurger) backlite.Queue {
	return backlite.NewQueue(PurgeDeletedSitesProcessor(purger))
}
