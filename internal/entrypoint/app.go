package entrypoint

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mrlokans/navigator/internal/audit"
	"github.com/mrlokans/navigator/internal/batch"
	"github.com/mrlokans/navigator/internal/catalog"
	"github.com/mrlokans/navigator/internal/config"
	"github.com/mrlokans/navigator/internal/database"
	auditrepo "github.com/mrlokans/navigator/internal/database/audit"
	"github.com/mrlokans/navigator/internal/database/categories"
	"github.com/mrlokans/navigator/internal/database/sites"
	"github.com/mrlokans/navigator/internal/exporters"
	"github.com/mrlokans/navigator/internal/importers"
)

// App holds the catalog components shared by the server and the CLI.
type App struct {
	Config     *config.Config
	DB         *database.Database
	Categories *categories.Repository
	Sites      *sites.Repository
	Importer   *importers.Engine
	Exporter   *exporters.ConfigExporter
	Catalog    *catalog.Service
	AuditLog   *audit.Service

	// Auditor is nil when import payloads are not kept.
	Auditor *audit.Auditor
}

// ConfigureLogging sets the global log level from a name such as "debug".
func ConfigureLogging(level string) {
	log.SetOutput(os.Stderr)
	log.SetReportTimestamp(true)
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		log.Warn("Unknown log level, using info", "level", level)
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

// NewApp opens the database and wires the catalog components.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.NewDatabase(cfg.Database.Path,
		database.WithSQLLogging(strings.EqualFold(cfg.Global.LogLevel, "debug")))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	catRepo := categories.NewRepository(db.DB)
	siteRepo := sites.NewRepository(db.DB)
	exec := batch.NewExecutor(db.DB, cfg.Import.MaxParams, cfg.Import.ChunkSize)

	app := &App{
		Config:     cfg,
		DB:         db,
		Categories: catRepo,
		Sites:      siteRepo,
		Importer:   importers.NewEngine(catRepo, siteRepo, exec, importers.NewLogoResolver(cfg.Import.IconAPI)),
		Exporter:   exporters.NewConfigExporter(exporters.CatalogSource{Categories: catRepo, Sites: siteRepo}),
		Catalog:    catalog.NewService(catRepo, siteRepo, exec),
		AuditLog:   audit.NewService(auditrepo.NewRepository(db.DB)),
	}
	if cfg.Audit.SavePayloads {
		app.Auditor = audit.NewAuditor(cfg.Audit.Dir)
	}

	log.Debug("Catalog initialized", "database", cfg.Database.Path, "max_params", exec.MaxParams(), "chunk_size", exec.ChunkSize())
	return app, nil
}

// Close waits for pending audit writes and closes the database.
func (a *App) Close() error {
	a.AuditLog.Wait()
	return a.DB.Close()
}
