package repository

import (
	"context"

	"github.com/amafra/tonecapture/internal/datastore/entities"
)

// ManufacturerRepository provides access to the manufacturers table.
type ManufacturerRepository interface {
	// Create inserts m and fills its ID.
	// Returns ErrDuplicateKey if the name is taken.
	Create(ctx context.Context, m *entities.Manufacturer) error

	// GetByID retrieves a manufacturer by its ID.
	// Returns ErrManufacturerNotFound if not found.
	GetByID(ctx context.Context, id uint) (*entities.Manufacturer, error)

	// GetByName retrieves a manufacturer by its exact name.
	// Returns ErrManufacturerNotFound if not found.
	GetByName(ctx context.Context, name string) (*entities.Manufacturer, error)

	// GetAll retrieves all manufacturers ordered by name.
	GetAll(ctx context.Context) ([]*entities.Manufacturer, error)

	// Exists checks if a manufacturer with the given ID exists.
	Exists(ctx context.Context, id uint) (bool, error)
}
