package entrypoint

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/navigator/internal/config"
	"github.com/mrlokans/navigator/internal/entities"
	"github.com/mrlokans/navigator/internal/scheduler"
	"github.com/mrlokans/navigator/internal/tasks"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Global:   config.Global{LogLevel: "info"},
		Database: config.Database{Path: filepath.Join(dir, "navigator.db")},
		Import:   config.Import{MaxParams: 100, ChunkSize: 50},
		Audit:    config.Audit{Dir: filepath.Join(dir, "audit"), SavePayloads: true, RetentionDays: 30},
		Maintenance: config.Maintenance{
			AuditCleanupSchedule:      config.DefaultAuditCleanupSchedule,
			SitesPurgeSchedule:        "off",
			DeletedSitesRetentionDays: 1,
		},
	}
}

func TestScheduleOf(t *testing.T) {
	assert.Equal(t, "", scheduleOf("off"))
	assert.Equal(t, "", scheduleOf(" OFF "))
	assert.Equal(t, "0 3 * * *", scheduleOf("0 3 * * *"))
	assert.Equal(t, "", scheduleOf(""))
}

func TestNewApp(t *testing.T) {
	cfg := testConfig(t)
	app, err := NewApp(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })

	assert.NotNil(t, app.Auditor)
	assert.NoError(t, app.DB.Ping(context.Background()))

	cfg2 := testConfig(t)
	cfg2.Audit.SavePayloads = false
	app2, err := NewApp(cfg2)
	require.NoError(t, err)
	t.Cleanup(func() { app2.Close() })
	assert.Nil(t, app2.Auditor)
}

type recordingQueue struct {
	tasks []backlite.Task
}

func (q *recordingQueue) Enqueue(_ context.Context, task backlite.Task) error {
	q.tasks = append(q.tasks, task)
	return nil
}

func TestMaintenanceJobs(t *testing.T) {
	ctx := context.Background()

	t.Run("queued jobs enqueue tasks", func(t *testing.T) {
		app, err := NewApp(testConfig(t))
		require.NoError(t, err)
		t.Cleanup(func() { app.Close() })

		queue := &recordingQueue{}
		s := scheduler.NewMaintenanceScheduler(maintenanceJobs(app, queue)...)
		require.NoError(t, s.RunNow(ctx, jobPurgeDeletedSites))
		require.Len(t, queue.tasks, 1)
		assert.Equal(t, tasks.PurgeDeletedSitesTask{RetentionDays: 1}, queue.tasks[0])
	})

	t.Run("purge schedule off disables the job", func(t *testing.T) {
		app, err := NewApp(testConfig(t))
		require.NoError(t, err)
		t.Cleanup(func() { app.Close() })

		jobs := scheduler.NewMaintenanceScheduler(maintenanceJobs(app, nil)...).Jobs()
		require.Len(t, jobs, 2)
		assert.True(t, jobs[0].Enabled)
		assert.False(t, jobs[1].Enabled)
	})

	t.Run("inline purge removes old soft-deleted sites", func(t *testing.T) {
		app, err := NewApp(testConfig(t))
		require.NoError(t, err)
		t.Cleanup(func() { app.Close() })

		old := time.Now().Add(-48 * time.Hour)
		site := entities.Site{Name: "Old", URL: "https://old.example", CategoryID: 1}
		require.NoError(t, app.DB.DB.Create(&site).Error)
		require.NoError(t, app.DB.DB.Model(&site).Update("deleted_at", old).Error)

		s := scheduler.NewMaintenanceScheduler(maintenanceJobs(app, nil)...)
		require.NoError(t, s.RunNow(ctx, jobPurgeDeletedSites))

		var n int64
		require.NoError(t, app.DB.DB.Unscoped().Model(&entities.Site{}).Count(&n).Error)
		assert.Equal(t, int64(0), n)
	})
}
