package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/amafra/tonecapture/internal/datastore/entities"
	"github.com/amafra/tonecapture/internal/datastore/repository"
	"github.com/amafra/tonecapture/internal/errors"
	"github.com/amafra/tonecapture/internal/logger"
	"github.com/amafra/tonecapture/internal/observability/metrics"
)

// CreateManufacturer adds a manufacturer. Names are unique; a taken name
// returns ErrDuplicateRecord and leaves the existing row untouched.
func (c *Catalog) CreateManufacturer(ctx context.Context, name string) (m *Manufacturer, err error) {
	defer func(start time.Time) { c.observe(ctx, metrics.OpCreateManufacturer, start, err) }(time.Now())

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidInput("manufacturer name", "is empty")
	}

	row := &entities.Manufacturer{Name: name}
	err = c.tx(ctx, func(repos *repository.Set) error {
		return repos.Manufacturers.Create(ctx, row)
	})
	if errors.Is(err, repository.ErrDuplicateKey) {
		return nil, duplicate("manufacturer", "name", name)
	}
	if err != nil {
		return nil, mapRepoError(metrics.OpCreateManufacturer, "manufacturer", name, err)
	}

	c.log.WithContext(ctx).Debug("manufacturer created",
		logger.Uint64("id", uint64(row.ID)),
		logger.String("name", name))
	return &Manufacturer{ID: row.ID, Name: row.Name}, nil
}

// FindManufacturer returns the manufacturer with id.
func (c *Catalog) FindManufacturer(ctx context.Context, id uint) (m *Manufacturer, err error) {
	defer func(start time.Time) { c.observe(ctx, metrics.OpFindManufacturer, start, err) }(time.Now())

	row, err := c.repos.Manufacturers.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(metrics.OpFindManufacturer, "manufacturer", id, err)
	}
	return &Manufacturer{ID: row.ID, Name: row.Name}, nil
}

// FindManufacturerByName returns the manufacturer with the exact name.
func (c *Catalog) FindManufacturerByName(ctx context.Context, name string) (m *Manufacturer, err error) {
	defer func(start time.Time) { c.observe(ctx, metrics.OpFindManufacturer, start, err) }(time.Now())

	row, err := c.repos.Manufacturers.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, mapRepoError(metrics.OpFindManufacturer, "manufacturer", name, err)
	}
	return &Manufacturer{ID: row.ID, Name: row.Name}, nil
}

// ListManufacturers returns every manufacturer ordered by name.
func (c *Catalog) ListManufacturers(ctx context.Context) (ms []*Manufacturer, err error) {
	defer func(start time.Time) { c.observe(ctx, metrics.OpListManufacturers, start, err) }(time.Now())

	rows, err := c.repos.Manufacturers.GetAll(ctx)
	if err != nil {
		return nil, mapRepoError(metrics.OpListManufacturers, "manufacturer", "*", err)
	}

	ms = make([]*Manufacturer, len(rows))
	for i, row := range rows {
		ms[i] = &Manufacturer{ID: row.ID, Name: row.Name}
	}
	return ms, nil
}
