package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/navigator/internal/config"
	http_controllers "github.com/mrlokans/navigator/internal/http"
	"github.com/mrlokans/navigator/internal/scheduler"
	"github.com/mrlokans/navigator/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	log.Info("Shutting down server", "timeout", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the listener closes
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("Server exiting")
	return nil
}

// Run wires the catalog, the task queue and the maintenance scheduler, and
// serves the HTTP API.
func Run(cfg *config.Config, version string) error {
	ConfigureLogging(cfg.Global.LogLevel)
	log.Info("Starting Navigator", "version", version)

	app, err := NewApp(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Error("Error closing database", "err", err)
		}
	}()

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var queue scheduler.TaskEnqueuer
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize task queue: %w", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Error("Error closing task client", "err", err)
			}
		}()

		taskClient.Register(
			tasks.NewCleanupAuditEventsQueue(app.AuditLog),
			tasks.NewPurgeDeletedSitesQueue(app.Sites),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
		queue = taskClient
	} else {
		log.Info("Task queue disabled, maintenance jobs run inline")
	}

	maintenance := scheduler.NewMaintenanceScheduler(maintenanceJobs(app, queue)...)
	schedCtx, schedCancel := context.WithCancel(context.Background())
	defer schedCancel()
	if err := maintenance.Start(schedCtx); err != nil {
		return fmt.Errorf("failed to start maintenance scheduler: %w", err)
	}

	routerCfg := http_controllers.RouterConfig{
		Importer:    app.Importer,
		Exporter:    app.Exporter,
		Catalog:     app.Catalog,
		MaxBodySize: cfg.Import.MaxBodySize,
		AuditLog:    app.AuditLog,
		Maintenance: maintenance,
		Database:    app.DB,
		Version:     version,
	}
	if app.Auditor != nil {
		routerCfg.PayloadSaver = app.Auditor
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		maintenance.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	return Serve(router, cfg, onShutdown)
}
