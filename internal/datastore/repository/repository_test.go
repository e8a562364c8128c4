package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amafra/tonecapture/internal/datastore/entities"
	"github.com/amafra/tonecapture/internal/datastore/repository"
	"github.com/amafra/tonecapture/internal/errors"
	"github.com/amafra/tonecapture/internal/testutil"
)

func TestManufacturerRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := repository.NewManufacturerRepository(testutil.NewTestDB(t))

	shure := &entities.Manufacturer{Name: "Shure"}
	require.NoError(t, repo.Create(ctx, shure))
	assert.NotZero(t, shure.ID)
	require.NoError(t, repo.Create(ctx, &entities.Manufacturer{Name: "Celestion"}))

	err := repo.Create(ctx, &entities.Manufacturer{Name: "Shure"})
	require.ErrorIs(t, err, repository.ErrDuplicateKey)
	require.ErrorIs(t, repo.Create(ctx, &entities.Manufacturer{}), repository.ErrInvalidInput)

	got, err := repo.GetByName(ctx, "Shure")
	require.NoError(t, err)
	assert.Equal(t, shure.ID, got.ID)

	_, err = repo.GetByID(ctx, 999)
	require.ErrorIs(t, err, repository.ErrManufacturerNotFound)
	_, err = repo.GetByName(ctx, "Marshall")
	require.ErrorIs(t, err, repository.ErrManufacturerNotFound)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Celestion", all[0].Name)

	exists, err := repo.Exists(ctx, shure.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDeviceRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repos := repository.NewSet(testutil.NewTestDB(t))

	maker := &entities.Manufacturer{Name: "Celestion"}
	require.NoError(t, repos.Manufacturers.Create(ctx, maker))

	v30 := &entities.Device{Name: "Vintage 30", Kind: entities.DeviceKindSpeaker, ManufacturerID: &maker.ID}
	require.NoError(t, repos.Devices.Create(ctx, v30))
	pedal := &entities.Device{Name: "Tube Screamer", Kind: entities.DeviceKindPedal}
	require.NoError(t, repos.Devices.Create(ctx, pedal))

	require.ErrorIs(t, repos.Devices.Create(ctx, &entities.Device{Name: "x", Kind: "cabinet"}), repository.ErrInvalidInput)

	got, err := repos.Devices.GetByID(ctx, v30.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.DeviceKindSpeaker, got.Kind)
	require.NotNil(t, got.Manufacturer)
	assert.Equal(t, "Celestion", got.Manufacturer.Name)

	got, err = repos.Devices.GetByID(ctx, pedal.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Manufacturer)

	speakers, err := repos.Devices.GetAll(ctx, entities.DeviceKindSpeaker)
	require.NoError(t, err)
	require.Len(t, speakers, 1)
	assert.Equal(t, v30.ID, speakers[0].ID)

	all, err := repos.Devices.GetAll(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byID, err := repos.Devices.GetByIDs(ctx, []uint{v30.ID, 404})
	require.NoError(t, err)
	assert.Len(t, byID, 1)
	assert.Contains(t, byID, v30.ID)

	require.NoError(t, repos.Devices.UpdateName(ctx, v30.ID, "V30"))
	require.NoError(t, repos.Devices.UpdateName(ctx, v30.ID, "V30"))
	require.ErrorIs(t, repos.Devices.UpdateName(ctx, 404, "ghost"), repository.ErrDeviceNotFound)

	count, err := repos.Devices.Count(ctx, entities.DeviceKindPedal)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repos.Devices.Delete(ctx, pedal.ID))
	require.ErrorIs(t, repos.Devices.Delete(ctx, pedal.ID), repository.ErrDeviceNotFound)
	_, err = repos.Devices.GetByID(ctx, pedal.ID)
	require.ErrorIs(t, err, repository.ErrDeviceNotFound)
}

func TestDeviceRepositoryRejectsMissingManufacturer(t *testing.T) {
	t.Parallel()

	missing := uint(42)
	err := repository.NewDeviceRepository(testutil.NewTestDB(t)).Create(context.Background(),
		&entities.Device{Name: "SM-57", Kind: entities.DeviceKindMicrophone, ManufacturerID: &missing})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}

func TestToneFileRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := repository.NewToneFileRepository(testutil.NewTestDB(t))

	ir := &entities.ToneFile{Path: "/irs/v30.wav", Filename: "v30.wav", FileType: entities.ToneFileKindIR}
	require.NoError(t, repo.Create(ctx, ir))
	require.NoError(t, repo.CreateVariant(ctx, entities.ToneFileKindIR, ir.ID))

	nam := &entities.ToneFile{Path: "/nam/plexi.nam", Filename: "plexi.nam", FileType: entities.ToneFileKindNAM}
	require.NoError(t, repo.Create(ctx, nam))
	require.NoError(t, repo.CreateVariant(ctx, entities.ToneFileKindNAM, nam.ID))

	err := repo.Create(ctx, &entities.ToneFile{Path: "/irs/v30.wav", Filename: "copy.wav", FileType: entities.ToneFileKindIR})
	require.ErrorIs(t, err, repository.ErrDuplicateKey)
	require.ErrorIs(t, repo.CreateVariant(ctx, "wav", ir.ID), repository.ErrInvalidInput)

	exists, err := repo.VariantExists(ctx, entities.ToneFileKindIR, ir.ID)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.VariantExists(ctx, entities.ToneFileKindNAM, ir.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	got, err := repo.GetByPath(ctx, "/nam/plexi.nam")
	require.NoError(t, err)
	assert.Equal(t, nam.ID, got.ID)
	assert.Nil(t, got.Embedding)

	irs, err := repo.GetAll(ctx, entities.ToneFileKindIR)
	require.NoError(t, err)
	require.Len(t, irs, 1)
	assert.Equal(t, ir.ID, irs[0].ID)

	before, err := repo.GetByID(ctx, ir.ID)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, repo.Update(ctx, ir.ID, map[string]any{"embedding": []byte{1, 2, 3}}))

	after, err := repo.GetByID(ctx, ir.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, after.Embedding)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
	assert.True(t, after.CreatedAt.Equal(before.CreatedAt))

	require.ErrorIs(t, repo.Update(ctx, 404, map[string]any{"notes": "x"}), repository.ErrToneFileNotFound)

	require.NoError(t, repo.DeleteVariant(ctx, entities.ToneFileKindIR, ir.ID))
	require.NoError(t, repo.Delete(ctx, ir.ID))
	require.ErrorIs(t, repo.Delete(ctx, ir.ID), repository.ErrToneFileNotFound)

	count, err := repo.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestLinkRepositoryOrdersChain(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repos := repository.NewSet(testutil.NewTestDB(t))

	tf := &entities.ToneFile{Path: "/irs/chain.wav", Filename: "chain.wav", FileType: entities.ToneFileKindIR}
	require.NoError(t, repos.ToneFiles.Create(ctx, tf))

	spk := &entities.Device{Name: "Greenback", Kind: entities.DeviceKindSpeaker}
	require.NoError(t, repos.Devices.Create(ctx, spk))

	var ids []uint
	for _, order := range []int{3, 1, 2, 1} {
		l := &entities.ToneFileDeviceLink{ToneFileID: tf.ID, DeviceID: spk.ID, Role: "Speaker", Order: order}
		require.NoError(t, repos.Links.Create(ctx, l))
		ids = append(ids, l.ID)
	}

	links, err := repos.Links.ListByToneFile(ctx, tf.ID)
	require.NoError(t, err)
	require.Len(t, links, 4)

	var orders []int
	var linkIDs []uint
	for _, l := range links {
		orders = append(orders, l.Order)
		linkIDs = append(linkIDs, l.ID)
		require.NotNil(t, l.Device)
		assert.Equal(t, "Greenback", l.Device.Name)
	}
	assert.Equal(t, []int{1, 1, 2, 3}, orders)
	// Ties on order fall back to insertion (link id) order.
	assert.Equal(t, []uint{ids[1], ids[3], ids[2], ids[0]}, linkIDs)

	n, err := repos.Links.CountByDevice(ctx, spk.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	require.NoError(t, repos.Links.Delete(ctx, ids[0]))
	require.ErrorIs(t, repos.Links.Delete(ctx, ids[0]), repository.ErrLinkNotFound)

	removed, err := repos.Links.DeleteByToneFile(ctx, tf.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	n, err = repos.Links.CountByToneFile(ctx, tf.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLinkRepositoryRejectsMissingParents(t *testing.T) {
	t.Parallel()

	repo := repository.NewLinkRepository(testutil.NewTestDB(t))
	err := repo.Create(context.Background(), &entities.ToneFileDeviceLink{ToneFileID: 1, DeviceID: 1})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)

	require.ErrorIs(t, repo.Create(context.Background(), &entities.ToneFileDeviceLink{}), repository.ErrInvalidInput)
}

func TestRunInTxRollsBack(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := testutil.NewTestDB(t)
	boom := errors.NewStd("boom")

	err := repository.RunInTx(ctx, db, func(repos *repository.Set) error {
		if err := repos.Manufacturers.Create(ctx, &entities.Manufacturer{Name: "Marshall"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = repository.NewManufacturerRepository(db).GetByName(ctx, "Marshall")
	require.ErrorIs(t, err, repository.ErrManufacturerNotFound)

	err = repository.RunInTx(ctx, db, func(repos *repository.Set) error {
		return repos.Manufacturers.Create(ctx, &entities.Manufacturer{Name: "Marshall"})
	})
	require.NoError(t, err)
}
