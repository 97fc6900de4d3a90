package http

import (
	"github.com/gin-gonic/gin"
)

// CatalogEditor is the catalog service behind the edit endpoints.
type CatalogEditor interface {
	BatchApplier
	CategoryEditor
}

// AuditTrail records and lists audit events.
type AuditTrail interface {
	ImportAuditLogger
	ExportAuditLogger
	BatchAuditLogger
	AuditReader
}

// RouterConfig contains the dependencies needed to create the HTTP router.
// Optional fields left nil disable the routes that need them.
type RouterConfig struct {
	// Catalog import/export
	Importer    ConfigImporter
	Exporter    DocumentBuilder
	Catalog     CatalogEditor
	MaxBodySize int64

	// Audit trail
	PayloadSaver PayloadSaver
	AuditLog     AuditTrail

	// Maintenance
	Maintenance MaintenanceRunner

	// Health
	Database Pinger
	Version  string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(SecurityHeadersMiddleware())

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	var (
		importAudit ImportAuditLogger
		exportAudit ExportAuditLogger
		batchAudit  BatchAuditLogger
	)
	if cfg.AuditLog != nil {
		importAudit, exportAudit, batchAudit = cfg.AuditLog, cfg.AuditLog, cfg.AuditLog
	}

	api := router.Group("/api")
	{
		importer := NewConfigImportController(cfg.Importer, cfg.PayloadSaver, importAudit, cfg.MaxBodySize)
		api.POST("/config/import", importer.Import)

		exporter := NewConfigExportController(cfg.Exporter, exportAudit)
		api.GET("/config/export", exporter.Export)

		batch := NewBatchController(cfg.Catalog, batchAudit)
		api.POST("/config/batch", batch.Apply)

		categories := NewCategoriesController(cfg.Catalog)
		api.GET("/categories", categories.List)
		api.POST("/categories", categories.Create)
		api.PUT("/categories/:id", categories.Update)

		if cfg.AuditLog != nil {
			audit := NewAuditController(cfg.AuditLog)
			api.GET("/audit", audit.List)
		}

		if cfg.Maintenance != nil {
			maintenance := NewMaintenanceController(cfg.Maintenance)
			api.GET("/maintenance", maintenance.Status)
			api.POST("/maintenance/:job", maintenance.Run)
		}
	}

	return router
}
