package repository

import (
	"context"

	"github.com/amafra/tonecapture/internal/datastore/entities"
)

// ToneFileRepository provides access to the tone_files table and its
// variant subtables.
type ToneFileRepository interface {
	// Create inserts the base row and fills its ID. The variant row is
	// written separately with CreateVariant.
	// Returns ErrDuplicateKey if the path is taken.
	Create(ctx context.Context, tf *entities.ToneFile) error

	// CreateVariant inserts the subtable row for the tone file id.
	CreateVariant(ctx context.Context, kind entities.ToneFileKind, id uint) error

	// VariantExists reports whether the subtable row for id exists.
	VariantExists(ctx context.Context, kind entities.ToneFileKind, id uint) (bool, error)

	// GetByID retrieves a base row by its ID.
	// Returns ErrToneFileNotFound if not found.
	GetByID(ctx context.Context, id uint) (*entities.ToneFile, error)

	// GetByPath retrieves a base row by its unique path.
	// Returns ErrToneFileNotFound if not found.
	GetByPath(ctx context.Context, path string) (*entities.ToneFile, error)

	// GetAll retrieves tone files of kind ordered by ID; an empty kind
	// returns every tone file.
	GetAll(ctx context.Context, kind entities.ToneFileKind) ([]*entities.ToneFile, error)

	// Update applies column updates to one row. updated_at is refreshed.
	// Returns ErrToneFileNotFound if not found.
	Update(ctx context.Context, id uint, updates map[string]any) error

	// DeleteVariant removes the subtable row for id. A missing row is not
	// an error.
	DeleteVariant(ctx context.Context, kind entities.ToneFileKind, id uint) error

	// Delete removes the base row.
	// Returns ErrToneFileNotFound if not found.
	Delete(ctx context.Context, id uint) error

	// Count returns the number of tone files of kind; an empty kind counts all.
	Count(ctx context.Context, kind entities.ToneFileKind) (int64, error)
}
