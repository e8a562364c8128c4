// Package testutil provides shared test fixtures for tonecapture packages:
// migrated temp-file databases, catalogs and settings.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/amafra/tonecapture/internal/catalog"
	"github.com/amafra/tonecapture/internal/conf"
	"github.com/amafra/tonecapture/internal/datastore"
	"github.com/amafra/tonecapture/internal/logger"
)

// DefaultTestTimeout bounds waits on asynchronous work in tests.
const DefaultTestTimeout = 5 * time.Second

// NewTestDB opens a migrated SQLite database in a temp dir. It is closed
// when the test ends.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	m, err := datastore.NewSQLiteManager(datastore.SQLiteConfig{Path: DBPath(t)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	require.NoError(t, m.Initialize())
	return m.DB()
}

// NewTestCatalog returns a catalog over a fresh NewTestDB.
func NewTestCatalog(t *testing.T, opts ...catalog.Option) *catalog.Catalog {
	t.Helper()
	return catalog.New(NewTestDB(t), opts...)
}

// DBPath returns a database file path inside the test's temp dir.
func DBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "catalog.db")
}

// Settings returns valid settings for a SQLite database in a temp dir with
// logging kept off the test output.
func Settings(t *testing.T) *conf.Settings {
	t.Helper()
	return &conf.Settings{
		Database: conf.DatabaseSettings{
			Type:   conf.DatabaseSQLite,
			SQLite: conf.SQLiteSettings{Path: DBPath(t)},
		},
		Audio: conf.AudioSettings{
			ResampleQuality:      conf.ResampleBalanced,
			OutputBitDepth:       16,
			MaxParallel:          2,
			DirectConvolutionMax: 64,
		},
		Logging: logger.LoggingConfig{
			DefaultLevel: "info",
			Timezone:     "UTC",
			Console:      &logger.ConsoleOutput{Enabled: true, Level: "info"},
		},
	}
}
