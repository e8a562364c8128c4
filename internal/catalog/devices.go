package catalog

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/amafra/tonecapture/internal/datastore/entities"
	"github.com/amafra/tonecapture/internal/datastore/repository"
	"github.com/amafra/tonecapture/internal/logger"
	"github.com/amafra/tonecapture/internal/observability/metrics"
)

func deviceCacheKey(id uint) string {
	return "device:" + strconv.FormatUint(uint64(id), 10)
}

// CreateDevice adds a device of kind. manufacturerID may be nil; when set it
// must reference an existing manufacturer.
func (c *Catalog) CreateDevice(ctx context.Context, kind DeviceKind, name string, manufacturerID *uint) (d Device, err error) {
	defer func(start time.Time) { c.observe(ctx, metrics.OpCreateDevice, start, err) }(time.Now())

	if !kind.Valid() {
		return nil, invalidKind("device", string(kind))
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidInput("device name", "is empty")
	}

	var row *entities.Device
	err = c.tx(ctx, func(repos *repository.Set) error {
		if manufacturerID != nil {
			ok, err := repos.Manufacturers.Exists(ctx, *manufacturerID)
			if err != nil {
				return err
			}
			if !ok {
				return notFound("manufacturer", *manufacturerID)
			}
		}

		created := &entities.Device{Name: name, Kind: kind, ManufacturerID: manufacturerID}
		if err := repos.Devices.Create(ctx, created); err != nil {
			return err
		}

		var err error
		row, err = repos.Devices.GetByID(ctx, created.ID)
		return err
	})
	if err != nil {
		return nil, mapRepoError(metrics.OpCreateDevice, "device", name, err)
	}

	c.log.WithContext(ctx).Debug("device created",
		logger.Uint64("id", uint64(row.ID)),
		logger.String("kind", string(kind)),
		logger.String("name", name))
	return toDevice(row)
}

// FindDevice returns the device with id resolved to its variant.
func (c *Catalog) FindDevice(ctx context.Context, id uint) (d Device, err error) {
	defer func(start time.Time) { c.observe(ctx, metrics.OpFindDevice, start, err) }(time.Now())

	row, err := c.loadDevice(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDevice(&row)
}

// loadDevice reads a device row through the cache. The cache holds row
// values, so every caller gets its own Device.
func (c *Catalog) loadDevice(ctx context.Context, id uint) (entities.Device, error) {
	if c.devices != nil {
		if cached, ok := c.devices.Get(deviceCacheKey(id)); ok {
			c.recordCache(metrics.CacheHit)
			return cached.(entities.Device), nil
		}
		c.recordCache(metrics.CacheMiss)
	}

	row, err := c.repos.Devices.GetByID(ctx, id)
	if err != nil {
		return entities.Device{}, mapRepoError(metrics.OpFindDevice, "device", id, err)
	}

	if c.devices != nil {
		c.devices.SetDefault(deviceCacheKey(id), *row)
	}
	return *row, nil
}

func (c *Catalog) forgetDevice(id uint) {
	if c.devices != nil {
		c.devices.Delete(deviceCacheKey(id))
	}
}

// ListDevices returns devices of kind ordered by id; an empty kind lists
// every device.
func (c *Catalog) ListDevices(ctx context.Context, kind DeviceKind) (ds []Device, err error) {
	defer func(start time.Time) { c.observe(ctx, metrics.OpListDevices, start, err) }(time.Now())

	if kind != "" && !kind.Valid() {
		return nil, invalidKind("device", string(kind))
	}

	rows, err := c.repos.Devices.GetAll(ctx, kind)
	if err != nil {
		return nil, mapRepoError(metrics.OpListDevices, "device", kind, err)
	}

	ds = make([]Device, 0, len(rows))
	for _, row := range rows {
		d, err := toDevice(row)
		if err != nil {
			return nil, err
		}
		ds = append(ds, d)
	}
	return ds, nil
}

// RenameDevice changes a device's name and returns the updated device.
func (c *Catalog) RenameDevice(ctx context.Context, id uint, name string) (d Device, err error) {
	defer func(start time.Time) { c.observe(ctx, metrics.OpRenameDevice, start, err) }(time.Now())

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidInput("device name", "is empty")
	}

	var row *entities.Device
	err = c.tx(ctx, func(repos *repository.Set) error {
		if err := repos.Devices.UpdateName(ctx, id, name); err != nil {
			return err
		}
		var err error
		row, err = repos.Devices.GetByID(ctx, id)
		return err
	})
	c.forgetDevice(id)
	if err != nil {
		return nil, mapRepoError(metrics.OpRenameDevice, "device", id, err)
	}
	return toDevice(row)
}

// DeleteDevice removes a device. A device still linked from any tone file
// is not deleted; ErrReferentialIntegrity is returned instead.
func (c *Catalog) DeleteDevice(ctx context.Context, id uint) (err error) {
	defer func(start time.Time) { c.observe(ctx, metrics.OpDeleteDevice, start, err) }(time.Now())

	err = c.tx(ctx, func(repos *repository.Set) error {
		if _, err := repos.Devices.GetByID(ctx, id); err != nil {
			return err
		}

		refs, err := repos.Links.CountByDevice(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return integrity("device", id, refs)
		}

		return repos.Devices.Delete(ctx, id)
	})
	c.forgetDevice(id)
	if err != nil {
		return mapRepoError(metrics.OpDeleteDevice, "device", id, err)
	}

	c.log.WithContext(ctx).Info("device deleted", logger.Uint64("id", uint64(id)))
	return nil
}
