package entrypoint

import (
	"context"
	"strings"

	"github.com/mrlokans/navigator/internal/scheduler"
	"github.com/mrlokans/navigator/internal/tasks"
)

const (
	jobCleanupAuditEvents = "cleanup_audit_events"
	jobPurgeDeletedSites  = "purge_deleted_sites"
)

// scheduleOf maps the "off" keyword to an empty, disabled schedule.
func scheduleOf(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "off") {
		return ""
	}
	return s
}

// maintenanceJobs builds the periodic jobs. With a task client the jobs only
// enqueue work; without one they run inline on the cron goroutine.
func maintenanceJobs(app *App, queue scheduler.TaskEnqueuer) []scheduler.Job {
	cfg := app.Config
	cleanup := tasks.CleanupAuditEventsTask{RetentionDays: cfg.Audit.RetentionDays}
	purge := tasks.PurgeDeletedSitesTask{RetentionDays: cfg.Maintenance.DeletedSitesRetentionDays}
	cleanupSchedule := scheduleOf(cfg.Maintenance.AuditCleanupSchedule)
	purgeSchedule := scheduleOf(cfg.Maintenance.SitesPurgeSchedule)

	if queue != nil {
		return []scheduler.Job{
			scheduler.EnqueueJob(jobCleanupAuditEvents, cleanupSchedule, queue, cleanup),
			scheduler.EnqueueJob(jobPurgeDeletedSites, purgeSchedule, queue, purge),
		}
	}

	cleanupAudit := tasks.CleanupAuditEventsProcessor(app.AuditLog)
	purgeSites := tasks.PurgeDeletedSitesProcessor(app.Sites)
	return []scheduler.Job{
		{
			Name:     jobCleanupAuditEvents,
			Schedule: cleanupSchedule,
			Run:      func(ctx context.Context) error { return cleanupAudit(ctx, cleanup) },
		},
		{
			Name:     jobPurgeDeletedSites,
			Schedule: purgeSchedule,
			Run:      func(ctx context.Context) error { return purgeSites(ctx, purge) },
		},
	}
}
