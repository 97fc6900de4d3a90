package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/navigator/internal/audit"
	"github.com/mrlokans/navigator/internal/batch"
	"github.com/mrlokans/navigator/internal/catalog"
	"github.com/mrlokans/navigator/internal/database"
	"github.com/mrlokans/navigator/internal/database/categories"
	"github.com/mrlokans/navigator/internal/database/sites"
	"github.com/mrlokans/navigator/internal/exporters"
	"github.com/mrlokans/navigator/internal/http"
	"github.com/mrlokans/navigator/internal/importers"
	"github.com/mrlokans/navigator/internal/scheduler"
	"github.com/mrlokans/navigator/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ importers.CategoryStore = (*categories.Repository)(nil)
var _ importers.SiteStore = (*sites.Repository)(nil)
var _ importers.StatementExecutor = (*batch.Executor)(nil)

var _ catalog.CategoryStore = (*categories.Repository)(nil)
var _ catalog.SiteStore = (*sites.Repository)(nil)
var _ catalog.StatementExecutor = (*batch.Executor)(nil)

var _ exporters.CatalogReader = exporters.CatalogSource{}

// =============================================================================
// HTTP Layer
// =============================================================================

var _ http.ConfigImporter = (*importers.Engine)(nil)
var _ http.DocumentBuilder = (*exporters.ConfigExporter)(nil)
var _ http.CatalogEditor = (*catalog.Service)(nil)
var _ http.AuditTrail = (*audit.Service)(nil)
var _ http.PayloadSaver = (*audit.Auditor)(nil)
var _ http.MaintenanceRunner = (*scheduler.MaintenanceScheduler)(nil)
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
var _ tasks.DeletedSitesPurger = (*sites.Repository)(nil)
var _ scheduler.TaskEnqueuer = (*tasks.Client)(nil)
