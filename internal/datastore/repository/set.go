package repository

import (
	"context"

	"gorm.io/gorm"
)

// Set bundles the repositories of every catalog table over one *gorm.DB.
type Set struct {
	Manufacturers ManufacturerRepository
	Devices       DeviceRepository
	ToneFiles     ToneFileRepository
	Links         LinkRepository
}

// NewSet creates a Set over db.
func NewSet(db *gorm.DB) *Set {
	return &Set{
		Manufacturers: NewManufacturerRepository(db),
		Devices:       NewDeviceRepository(db),
		ToneFiles:     NewToneFileRepository(db),
		Links:         NewLinkRepository(db),
	}
}

// RunInTx runs fn with a Set bound to a single transaction. The
// transaction commits if fn returns nil and rolls back otherwise; fn's
// error is returned unchanged.
func RunInTx(ctx context.Context, db *gorm.DB, fn func(repos *Set) error) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewSet(tx))
	})
}
