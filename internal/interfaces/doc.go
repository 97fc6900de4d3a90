// Package interfaces documents the core abstractions used throughout the application.
//
// The catalog is assembled from small consumer-side interfaces; concrete
// types live in the database, importers, exporters and catalog packages and
// are wired together in internal/entrypoint.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - importers.CategoryStore: category listing and idempotent insert (internal/database/categories)
//   - importers.SiteStore: chunked URL existence lookups (internal/database/sites)
//   - importers.StatementExecutor, catalog.StatementExecutor: batched writes (internal/batch)
//   - catalog.CategoryStore, catalog.SiteStore: admin listings and edits (internal/database/categories, internal/database/sites)
//   - exporters.CatalogReader: full catalog reads (exporters.CatalogSource)
//
// ## HTTP Dependencies
//
//   - http.ConfigImporter, http.DocumentBuilder, http.CatalogEditor
//   - http.AuditTrail, http.PayloadSaver, http.MaintenanceRunner, http.Pinger
//
// ## Background Work
//
//   - tasks.AuditEventCleaner, tasks.DeletedSitesPurger: queue processors
//   - scheduler.TaskEnqueuer: cron jobs handing work to the queue
//
// # Adding a New Export Format
//
//  1. Render an exporters.Document in internal/exporters:
//
//     func GenerateOPML(doc Document) string
//
//  2. Add a case to the format switch of ConfigExportController.Export and
//     to writeDocument in internal/cli.
//
// # Adding a New Maintenance Job
//
//  1. Define a backlite task and processor in internal/tasks, following
//     PurgeDeletedSitesTask.
//
//  2. Register the queue and add a scheduler.Job in internal/entrypoint.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
