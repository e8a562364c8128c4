package repository

import (
	"context"

	"github.com/amafra/tonecapture/internal/datastore/entities"
)

// DeviceRepository provides access to the devices table.
type DeviceRepository interface {
	// Create inserts d and fills its ID. The Kind must be valid.
	// Returns ErrForeignKeyViolation if the manufacturer does not exist
	// and the backend enforces foreign keys.
	Create(ctx context.Context, d *entities.Device) error

	// GetByID retrieves a device with its manufacturer preloaded.
	// Returns ErrDeviceNotFound if not found.
	GetByID(ctx context.Context, id uint) (*entities.Device, error)

	// GetByIDs retrieves several devices in one query, keyed by ID.
	// Missing IDs are simply absent from the map.
	GetByIDs(ctx context.Context, ids []uint) (map[uint]*entities.Device, error)

	// GetAll retrieves devices of kind ordered by ID; an empty kind returns
	// every device.
	GetAll(ctx context.Context, kind entities.DeviceKind) ([]*entities.Device, error)

	// UpdateName renames a device.
	// Returns ErrDeviceNotFound if not found.
	UpdateName(ctx context.Context, id uint, name string) error

	// Delete removes a device by ID.
	// Returns ErrDeviceNotFound if not found.
	Delete(ctx context.Context, id uint) error

	// Count returns the number of devices of kind; an empty kind counts all.
	Count(ctx context.Context, kind entities.DeviceKind) (int64, error)
}
