//go:build integration

package datastore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"

	"github.com/amafra/tonecapture/internal/datastore"
	"github.com/amafra/tonecapture/internal/datastore/entities"
	"github.com/amafra/tonecapture/internal/datastore/repository"
)

// startMySQL runs a throwaway MySQL server and returns a migrated manager.
func startMySQL(t *testing.T) *datastore.MySQLManager {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	container, err := tcmysql.Run(ctx, "mysql:8.0.36",
		tcmysql.WithDatabase("tonecapture"),
		tcmysql.WithUsername("tone"),
		tcmysql.WithPassword("capture"),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "3306/tcp")
	require.NoError(t, err)

	m, err := datastore.NewMySQLManager(&datastore.MySQLConfig{
		Host:     host,
		Port:     port.Int(),
		Username: "tone",
		Password: "capture",
		Database: "tonecapture",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	require.NoError(t, m.Initialize())
	return m
}

func TestMySQLManagerRoundTrip(t *testing.T) {
	m := startMySQL(t)
	assert.True(t, m.IsMySQL())

	ctx := context.Background()
	repos := repository.NewSet(m.DB())

	maker := &entities.Manufacturer{Name: "Shure"}
	require.NoError(t, repos.Manufacturers.Create(ctx, maker))
	require.ErrorIs(t, repos.Manufacturers.Create(ctx, &entities.Manufacturer{Name: "Shure"}), repository.ErrDuplicateKey)

	mic := &entities.Device{Name: "SM-57", Kind: entities.DeviceKindMicrophone, ManufacturerID: &maker.ID}
	require.NoError(t, repos.Devices.Create(ctx, mic))

	tf := &entities.ToneFile{Path: "/irs/sm57.wav", Filename: "sm57.wav", FileType: entities.ToneFileKindIR}
	require.NoError(t, repos.ToneFiles.Create(ctx, tf))
	require.NoError(t, repos.ToneFiles.CreateVariant(ctx, entities.ToneFileKindIR, tf.ID))

	for _, order := range []int{2, 0, 1} {
		require.NoError(t, repos.Links.Create(ctx, &entities.ToneFileDeviceLink{
			ToneFileID: tf.ID, DeviceID: mic.ID, Order: order,
		}))
	}

	links, err := repos.Links.ListByToneFile(ctx, tf.ID)
	require.NoError(t, err)
	require.Len(t, links, 3)
	for i, l := range links {
		assert.Equal(t, i, l.Order)
		assert.Equal(t, "Shure", l.Device.Manufacturer.Name)
	}

	// Renaming to the same name reports zero changed rows on MySQL.
	require.NoError(t, repos.Devices.UpdateName(ctx, mic.ID, "SM-57"))

	err = repos.Devices.Delete(ctx, mic.ID)
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}
