package config

const (
	// DefaultDatabasePath is the default path for the catalog database
	DefaultDatabasePath = "./navigator.db"

	// DefaultAuditCleanupSchedule runs audit retention daily at 03:00
	DefaultAuditCleanupSchedule = "0 3 * * *"

	// DefaultSitesPurgeSchedule runs the deleted sites purge daily at 03:30
	DefaultSitesPurgeSchedule = "30 3 * * *"
)
