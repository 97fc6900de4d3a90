package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ErrUnknownJob is returned by RunNow for a name no job carries.
var ErrUnknownJob = errors.New("unknown maintenance job")

// Job is a named piece of periodic maintenance work.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) error
}

// TaskEnqueuer hands tasks to the background queue.
type TaskEnqueuer interface {
	Enqueue(ctx context.Context, task backlite.Task) error
}

// EnqueueJob builds a job that pushes task onto the queue instead of doing
// the work on the cron goroutine.
func EnqueueJob(name, schedule string, queue TaskEnqueuer, task backlite.Task) Job {
	return Job{
		Name:     name,
		Schedule: schedule,
		Run: func(ctx context.Context) error {
			return queue.Enqueue(ctx, task)
		},
	}
}

// MaintenanceScheduler runs catalog maintenance jobs on cron schedules.
type MaintenanceScheduler struct {
	jobs    []Job
	cron    *cron.Cron
	entries map[string]cron.EntryID

	mu         sync.RWMutex
	isRunning  bool
	runCtx     context.Context
	cancelFunc context.CancelFunc
}

// NewMaintenanceScheduler creates a scheduler for jobs. Jobs with an empty
// schedule are skipped.
func NewMaintenanceScheduler(jobs ...Job) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		jobs:    jobs,
		cron:    cron.New(cron.WithParser(parser)),
		entries: make(map[string]cron.EntryID),
	}
}

// Start registers every job and starts the cron loop. It stops on its own
// when ctx is cancelled.
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	for _, job := range s.jobs {
		if job.Schedule == "" {
			log.Info("Maintenance job disabled", "job", job.Name)
			continue
		}
		if err := ValidateSchedule(job.Schedule); err != nil {
			return fmt.Errorf("invalid cron schedule '%s' for %s: %w", job.Schedule, job.Name, err)
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.runCtx = runCtx
	s.cancelFunc = cancel
	for _, job := range s.jobs {
		if job.Schedule == "" {
			continue
		}
		job := job
		entryID, err := s.cron.AddFunc(job.Schedule, func() {
			run(runCtx, job)
		})
		if err != nil {
			cancel()
			s.cron = cron.New(cron.WithParser(parser))
			s.entries = make(map[string]cron.EntryID)
			s.runCtx = nil
			return fmt.Errorf("failed to schedule %s: %w", job.Name, err)
		}
		s.entries[job.Name] = entryID
		log.Info("Maintenance job scheduled", "job", job.Name, "schedule", job.Schedule, "when", Describe(job.Schedule))
	}

	s.cron.Start()
	s.isRunning = true

	go func() {
		<-runCtx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.runCtx == runCtx {
			s.stopLocked()
		}
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *MaintenanceScheduler) stopLocked() {
	if !s.isRunning {
		return
	}

	done := s.cron.Stop()
	<-done.Done()

	// A stopped cron keeps its entries; start the next run from a clean one.
	s.cron = cron.New(cron.WithParser(parser))
	s.entries = make(map[string]cron.EntryID)

	s.cancelFunc()
	s.runCtx = nil
	s.isRunning = false
	log.Info("Maintenance scheduler stopped")
}

// RunNow runs the named job immediately on the calling goroutine.
func (s *MaintenanceScheduler) RunNow(ctx context.Context, name string) error {
	for _, job := range s.jobs {
		if job.Name == name {
			return job.Run(ctx)
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownJob, name)
}

// JobStatus describes one job for status endpoints.
type JobStatus struct {
	Name        string     `json:"name"`
	Schedule    string     `json:"schedule"`
	Description string     `json:"description"`
	Enabled     bool       `json:"enabled"`
	NextRun     *time.Time `json:"next_run,omitempty"`
}

// Jobs reports every configured job in registration order.
func (s *MaintenanceScheduler) Jobs() []JobStatus {
	out := make([]JobStatus, 0, len(s.jobs))
	for _, job := range s.jobs {
		st := JobStatus{Name: job.Name, Schedule: job.Schedule, Enabled: job.Schedule != ""}
		if st.Enabled {
			st.Description = Describe(job.Schedule)
			st.NextRun = s.NextRun(job.Name)
		}
		out = append(out, st)
	}
	return out
}

// IsRunning returns whether the scheduler is active
func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the named job fires next, or nil if it is not scheduled.
func (s *MaintenanceScheduler) NextRun(name string) *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.entries[name]
	if !ok || !s.isRunning {
		return nil
	}
	next := s.cron.Entry(id).Next
	return &next
}

func run(ctx context.Context, job Job) {
	start := time.Now()
	if err := job.Run(ctx); err != nil {
		log.Error("Maintenance job failed", "job", job.Name, "err", err)
		return
	}
	log.Debug("Maintenance job finished", "job", job.Name, "took", time.Since(start))
}

// ValidateSchedule validates a five-field cron schedule string.
func ValidateSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// Describe returns a human-readable description of a cron schedule.
func Describe(schedule string) string {
	switch schedule {
	case "0 * * * *":
		return "Every hour at :00"
	case "0 0 * * *":
		return "Daily at midnight"
	case "0 3 * * *":
		return "Daily at 03:00"
	case "0 0 * * 0":
		return "Weekly on Sunday at midnight"
	default:
		return "Custom schedule: " + schedule
	}
}

// NextRunTime calculates when schedule fires next after now.
func NextRunTime(schedule string, now time.Time) (time.Time, error) {
	sched, err := parser.Parse(schedule)
	if err != nil {
		return time.Time{}, err
	}
	return sched.Next(now), nil
}
