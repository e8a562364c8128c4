package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/amafra/tonecapture/internal/datastore/entities"
	"github.com/amafra/tonecapture/internal/datastore/repository"
	"github.com/amafra/tonecapture/internal/logger"
	"github.com/amafra/tonecapture/internal/observability/metrics"
)

// Link appends a device to a tone file's chain at order. Both ids must
// exist. The same device may be linked more than once.
func (c *Catalog) Link(ctx context.Context, toneFileID, deviceID uint, role string, order int) (l *DeviceLink, err error) {
	defer func(start time.Time) { c.observe(ctx, metrics.OpLink, start, err) }(time.Now())

	row := &entities.ToneFileDeviceLink{
		ToneFileID: toneFileID,
		DeviceID:   deviceID,
		Role:       strings.TrimSpace(role),
		Order:      order,
	}
	err = c.tx(ctx, func(repos *repository.Set) error {
		if _, err := repos.ToneFiles.GetByID(ctx, toneFileID); err != nil {
			return mapRepoError(metrics.OpLink, "tone file", toneFileID, err)
		}
		if _, err := repos.Devices.GetByID(ctx, deviceID); err != nil {
			return mapRepoError(metrics.OpLink, "device", deviceID, err)
		}
		return repos.Links.Create(ctx, row)
	})
	if err != nil {
		return nil, mapRepoError(metrics.OpLink, "device link", toneFileID, err)
	}

	c.log.WithContext(ctx).Debug("device linked",
		logger.Uint64("tone_file_id", uint64(toneFileID)),
		logger.Uint64("device_id", uint64(deviceID)),
		logger.Int("order", order))
	return toDeviceLink(row), nil
}

// ChainOf returns the device chain of a tone file ascending by order, ties
// broken by link id.
func (c *Catalog) ChainOf(ctx context.Context, toneFileID uint) (chain []ChainEntry, err error) {
	defer func(start time.Time) { c.observe(ctx, metrics.OpChain, start, err) }(time.Now())

	err = c.tx(ctx, func(repos *repository.Set) error {
		if _, err := repos.ToneFiles.GetByID(ctx, toneFileID); err != nil {
			return mapRepoError(metrics.OpChain, "tone file", toneFileID, err)
		}
		chain, err = loadChain(ctx, repos, toneFileID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return chain, nil
}

// Unlink removes one link. The orders of the remaining links are kept.
func (c *Catalog) Unlink(ctx context.Context, linkID uint) (err error) {
	defer func(start time.Time) { c.observe(ctx, metrics.OpUnlink, start, err) }(time.Now())

	err = c.tx(ctx, func(repos *repository.Set) error {
		return repos.Links.Delete(ctx, linkID)
	})
	return mapRepoError(metrics.OpUnlink, "device link", linkID, err)
}

// loadChain reads and resolves the links of a tone file.
func loadChain(ctx context.Context, repos *repository.Set, toneFileID uint) ([]ChainEntry, error) {
	links, err := repos.Links.ListByToneFile(ctx, toneFileID)
	if err != nil {
		return nil, mapRepoError(metrics.OpChain, "tone file", toneFileID, err)
	}

	chain := make([]ChainEntry, 0, len(links))
	for _, link := range links {
		if link.Device == nil {
			return nil, notFound("device", link.DeviceID)
		}
		device, err := toDevice(link.Device)
		if err != nil {
			return nil, err
		}
		chain = append(chain, ChainEntry{
			LinkID: link.ID,
			Device: device,
			Role:   link.Role,
			Order:  link.Order,
		})
	}
	return chain, nil
}
