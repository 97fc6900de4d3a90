package database

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/navigator/internal/entities"
)

// migrated records the database paths whose schema was already set up by
// this process.
var migrated = struct {
	sync.Mutex
	paths map[string]bool
}{paths: make(map[string]bool)}

type Database struct {
	DB   *gorm.DB
	path string
}

// Option configures NewDatabase.
type Option func(*gorm.Config)

// WithSQLLogging logs every SQL statement at info level.
func WithSQLLogging(enabled bool) Option {
	return func(cfg *gorm.Config) {
		if enabled {
			cfg.Logger = logger.Default.LogMode(logger.Info)
		}
	}
}

func NewDatabase(dbPath string, opts ...Option) (*Database, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	db, err := gorm.Open(sqlite.Open(dsn(dbPath)), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	database := &Database{DB: db, path: dbPath}
	if err := database.migrate(); err != nil {
		return nil, err
	}

	return database, nil
}

// migrate creates the schema once per database path per process.
func (d *Database) migrate() error {
	migrated.Lock()
	defer migrated.Unlock()

	if migrated.paths[d.path] {
		return nil
	}

	log.Info("Initializing database schema", "path", d.path)
	err := d.DB.AutoMigrate(
		&entities.Category{},
		&entities.Site{},
		&entities.AuditEvent{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	migrated.paths[d.path] = true
	log.Info("Database initialized successfully", "path", d.path)
	return nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the database connection is alive.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func dsn(path string) string {
	if path == ":memory:" || strings.Contains(path, "?") {
		return path
	}
	return path + "?_busy_timeout=5000&_journal_mode=WAL"
}
