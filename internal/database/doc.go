// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and one-time schema migration
//	├── categories/      # Category reads, inserts, updates and deletes
//	├── sites/           # Site reads, URL lookups and write statements
//	└── audit/           # Audit event persistence and retention
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./navigator.db")
//
//	categoriesRepo := categories.NewRepository(db.DB)
//	sitesRepo := sites.NewRepository(db.DB)
//
// Bulk site writes are not executed by the repositories. The sites package
// builds parameterized statements which callers hand to a batch.Executor.
//
// # Interface Implementations
//
//   - categories.Repository: implements importers.CategoryStore and catalog.CategoryStore
//   - sites.Repository: implements importers.SiteStore, catalog.SiteStore and tasks.DeletedSitesPurger
//   - audit.Repository: backs audit.Service, which implements tasks.AuditEventCleaner
package database
