package datastore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/amafra/tonecapture/internal/logger"
)

// SQLiteConfig holds database configuration for the SQLite manager.
type SQLiteConfig struct {
	// Path is the database file. ":memory:" opens a private in-memory database.
	Path string
	// Debug logs SQL at debug level.
	Debug bool
	// Logger receives datastore logs; nil discards them.
	Logger logger.Logger
}

// SQLiteManager handles the catalog database for SQLite.
type SQLiteManager struct {
	db     *gorm.DB
	dbPath string
}

// NewSQLiteManager opens (creating if needed) the SQLite database at cfg.Path.
func NewSQLiteManager(cfg SQLiteConfig) (*SQLiteManager, error) {
	dbPath := cfg.Path
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite: database path is empty")
	}

	inMemory := isMemoryPath(dbPath)
	if !inMemory {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, openError(fmt.Errorf("failed to create database directory: %w", err), "sqlite", dbPath)
		}
	}

	// Foreign keys are off by default in SQLite.
	dsn := dbPath + "?_foreign_keys=on&_busy_timeout=5000"
	if !inMemory {
		dsn += "&_journal_mode=WAL"
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(cfg.Logger, cfg.Debug))
	if err != nil {
		return nil, openError(fmt.Errorf("failed to open SQLite database: %w", err), "sqlite", dbPath)
	}

	if inMemory {
		// Every new connection would get its own empty database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying database: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return &SQLiteManager{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Initialize creates or migrates the schema.
func (m *SQLiteManager) Initialize() error {
	return migrate(m.db, "sqlite", m.dbPath)
}

// DB returns the underlying GORM database.
func (m *SQLiteManager) DB() *gorm.DB {
	return m.db
}

// Path returns the database file path.
func (m *SQLiteManager) Path() string {
	return m.dbPath
}

// Close closes the database connection.
func (m *SQLiteManager) Close() error {
	return closeDB(m.db)
}

// IsMySQL returns false for SQLite manager.
func (m *SQLiteManager) IsMySQL() bool {
	return false
}

func isMemoryPath(path string) bool {
	return path == ":memory:" || strings.HasPrefix(path, "file::memory:")
}
