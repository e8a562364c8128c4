// Package datastore opens the tonecapture catalog database and keeps its
// schema current. SQLite is the default backend; MySQL is selected by
// configuration.
package datastore

import (
	"fmt"
	"io"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/amafra/tonecapture/internal/conf"
	"github.com/amafra/tonecapture/internal/datastore/entities"
	"github.com/amafra/tonecapture/internal/errors"
	"github.com/amafra/tonecapture/internal/logger"
)

// slowQueryThreshold is where the GORM adapter starts warning.
const slowQueryThreshold = 200 * time.Millisecond

// Manager defines the interface for catalog database operations.
type Manager interface {
	// Initialize creates or migrates the schema.
	Initialize() error
	// DB returns the underlying GORM database.
	DB() *gorm.DB
	// Path returns the database location (file path for SQLite, host:port/database for MySQL).
	Path() string
	// Close closes the database connection.
	Close() error
	// IsMySQL returns true if this is a MySQL manager.
	IsMySQL() bool
}

// NewManager opens the backend selected in settings. The returned manager
// is not yet initialized.
func NewManager(settings *conf.Settings, log logger.Logger) (Manager, error) {
	if settings == nil {
		return nil, errors.Newf("datastore: settings are nil").
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Build()
	}

	switch settings.Database.Type {
	case conf.DatabaseSQLite, "":
		return NewSQLiteManager(SQLiteConfig{
			Path:   settings.Database.SQLite.Path,
			Debug:  settings.Database.Debug,
			Logger: log,
		})
	case conf.DatabaseMySQL:
		my := settings.Database.MySQL
		return NewMySQLManager(&MySQLConfig{
			Host:     my.Host,
			Port:     my.Port,
			Username: my.Username,
			Password: my.Password,
			Database: my.Database,
			Debug:    settings.Database.Debug,
			Logger:   log,
		})
	default:
		return nil, errors.Newf("datastore: unsupported database type %q", settings.Database.Type).
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Context("type", settings.Database.Type).
			Build()
	}
}

// gormConfig builds the GORM config shared by both backends. SQL goes
// through the datastore module logger at trace level, or at debug level
// when debug is set.
func gormConfig(log logger.Logger, debug bool) *gorm.Config {
	if log == nil {
		log = logger.NewSlogLogger(io.Discard, logger.LogLevelInfo, nil)
	}

	var gormLog gormlogger.Interface = logger.NewGormLoggerAdapter(log.Module("datastore"), slowQueryThreshold)
	if debug {
		gormLog = gormLog.LogMode(gormlogger.Info)
	}

	return &gorm.Config{
		Logger:         gormLog,
		TranslateError: true,
	}
}

// migrate runs GORM auto-migrations for every catalog entity.
func migrate(db *gorm.DB, backend, location string) error {
	if err := db.AutoMigrate(entities.All()...); err != nil {
		return dbError(fmt.Errorf("failed to migrate schema: %w", err), "auto_migrate", errors.PriorityHigh,
			"backend", backend,
			"location", location)
	}
	return nil
}

// closeDB closes the sql.DB behind db.
func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying database: %w", err)
	}
	return sqlDB.Close()
}
