package repository

import (
	"context"

	"github.com/amafra/tonecapture/internal/datastore/entities"
)

// LinkRepository provides access to the tone_file_device_links table.
type LinkRepository interface {
	// Create inserts l and fills its ID. Duplicate (tone file, device)
	// pairs are allowed.
	Create(ctx context.Context, l *entities.ToneFileDeviceLink) error

	// GetByID retrieves a link by its ID.
	// Returns ErrLinkNotFound if not found.
	GetByID(ctx context.Context, id uint) (*entities.ToneFileDeviceLink, error)

	// ListByToneFile returns the chain of a tone file ordered by "order"
	// then link id, with each Device and its Manufacturer preloaded.
	ListByToneFile(ctx context.Context, toneFileID uint) ([]*entities.ToneFileDeviceLink, error)

	// CountByDevice returns how many links reference a device.
	CountByDevice(ctx context.Context, deviceID uint) (int64, error)

	// CountByToneFile returns how many links a tone file has.
	CountByToneFile(ctx context.Context, toneFileID uint) (int64, error)

	// Delete removes one link.
	// Returns ErrLinkNotFound if not found.
	Delete(ctx context.Context, id uint) error

	// DeleteByToneFile removes every link of a tone file and returns how
	// many were removed.
	DeleteByToneFile(ctx context.Context, toneFileID uint) (int64, error)
}
