package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Import
		Audit
		Maintenance
		Tasks
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
		LogLevel                 string
	}
	Database struct {
		Path string
	}
	Import struct {
		IconAPI     string // Favicon service base; empty selects the default service
		MaxParams   int    // Bound-parameter limit of a single statement
		ChunkSize   int    // Max ids per IN list and statements per transaction
		MaxBodySize int64  // Max accepted request body in bytes
	}
	Audit struct {
		Dir           string
		SavePayloads  bool // Keep a copy of every import body in Dir
		RetentionDays int  // Days to keep audit events (default: 30)
	}
	Maintenance struct {
		AuditCleanupSchedule      string // Cron format, "off" disables
		SitesPurgeSchedule        string // Cron format, "off" disables
		DeletedSitesRetentionDays int
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("log_level", "info")
	v.SetDefault("database_path", DefaultDatabasePath)

	// Import defaults
	v.SetDefault("icon_api", "")
	v.SetDefault("import_max_params", 100)
	v.SetDefault("import_chunk_size", 50)
	v.SetDefault("import_max_body_mb", 10)

	v.SetDefault("audit_dir", "./audit")
	v.SetDefault("audit_save_payloads", true)
	v.SetDefault("audit_retention_days", 30)

	// Maintenance defaults
	v.SetDefault("audit_cleanup_schedule", DefaultAuditCleanupSchedule)
	v.SetDefault("sites_purge_schedule", DefaultSitesPurgeSchedule)
	v.SetDefault("deleted_sites_retention_days", 30)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
			LogLevel:                 v.GetString("LOG_LEVEL"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Import: Import{
			IconAPI:     v.GetString("ICON_API"),
			MaxParams:   v.GetInt("IMPORT_MAX_PARAMS"),
			ChunkSize:   v.GetInt("IMPORT_CHUNK_SIZE"),
			MaxBodySize: v.GetInt64("IMPORT_MAX_BODY_MB") << 20,
		},
		Audit: Audit{
			Dir:           v.GetString("AUDIT_DIR"),
			SavePayloads:  v.GetBool("AUDIT_SAVE_PAYLOADS"),
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Maintenance: Maintenance{
			AuditCleanupSchedule:      v.GetString("AUDIT_CLEANUP_SCHEDULE"),
			SitesPurgeSchedule:        v.GetString("SITES_PURGE_SCHEDULE"),
			DeletedSitesRetentionDays: v.GetInt("DELETED_SITES_RETENTION_DAYS"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
	}
}
