package datastore_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amafra/tonecapture/internal/conf"
	"github.com/amafra/tonecapture/internal/datastore"
	"github.com/amafra/tonecapture/internal/datastore/entities"
	"github.com/amafra/tonecapture/internal/errors"
)

func TestSQLiteManagerInitializeCreatesSchema(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data", "catalog.db")
	m, err := datastore.NewSQLiteManager(datastore.SQLiteConfig{Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	require.NoError(t, m.Initialize())
	// Migrating twice is a no-op.
	require.NoError(t, m.Initialize())

	assert.Equal(t, path, m.Path())
	assert.False(t, m.IsMySQL())
	assert.FileExists(t, path)

	migrator := m.DB().Migrator()
	for _, model := range entities.All() {
		assert.True(t, migrator.HasTable(model), "%T table missing", model)
	}
	assert.True(t, migrator.HasColumn(&entities.ToneFileDeviceLink{}, "order"))
	assert.True(t, migrator.HasIndex(&entities.ToneFile{}, "idx_tone_file_path"))
}

func TestSQLiteManagerInMemory(t *testing.T) {
	t.Parallel()

	m, err := datastore.NewSQLiteManager(datastore.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	require.NoError(t, m.Initialize())
	require.NoError(t, m.DB().Create(&entities.Manufacturer{Name: "Celestion"}).Error)

	var count int64
	require.NoError(t, m.DB().Model(&entities.Manufacturer{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSQLiteManagerRejectsEmptyPath(t *testing.T) {
	t.Parallel()

	_, err := datastore.NewSQLiteManager(datastore.SQLiteConfig{})
	require.Error(t, err)
}

func TestNewManagerSelectsBackend(t *testing.T) {
	t.Parallel()

	settings := &conf.Settings{}
	settings.Database.Type = conf.DatabaseSQLite
	settings.Database.SQLite.Path = filepath.Join(t.TempDir(), "tonecapture.db")

	m, err := datastore.NewManager(settings, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	assert.False(t, m.IsMySQL())
	assert.Equal(t, settings.Database.SQLite.Path, m.Path())

	settings.Database.Type = "postgres"
	_, err = datastore.NewManager(settings, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))

	_, err = datastore.NewManager(nil, nil)
	require.Error(t, err)
}

func TestSQLiteEnforcesForeignKeys(t *testing.T) {
	t.Parallel()

	m, err := datastore.NewSQLiteManager(datastore.SQLiteConfig{Path: filepath.Join(t.TempDir(), "fk.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	require.NoError(t, m.Initialize())

	missing := uint(999)
	err = m.DB().Omit("Manufacturer").Create(&entities.Device{
		Name:           "Vintage 30",
		Kind:           entities.DeviceKindSpeaker,
		ManufacturerID: &missing,
	}).Error
	require.Error(t, err)
}

func TestMySQLConfigDSN(t *testing.T) {
	t.Parallel()

	cfg := &datastore.MySQLConfig{Host: "db", Port: 3307, Username: "tone", Password: "pw", Database: "catalog"}
	assert.Equal(t, "tone:pw@tcp(db:3307)/catalog?charset=utf8mb4&parseTime=True&loc=UTC", cfg.DSN())
}
