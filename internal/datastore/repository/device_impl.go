package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/amafra/tonecapture/internal/datastore/entities"
)

// deviceRepository implements DeviceRepository.
type deviceRepository struct {
	db *gorm.DB
}

// NewDeviceRepository creates a new DeviceRepository.
func NewDeviceRepository(db *gorm.DB) DeviceRepository {
	return &deviceRepository{db: db}
}

func (r *deviceRepository) Create(ctx context.Context, d *entities.Device) error {
	if d == nil || d.Name == "" || !d.Kind.Valid() {
		return ErrInvalidInput
	}
	// Omit the association so a populated Manufacturer is never upserted.
	err := r.db.WithContext(ctx).Omit("Manufacturer").Create(d).Error
	return translate(err, ErrDeviceNotFound)
}

func (r *deviceRepository) GetByID(ctx context.Context, id uint) (*entities.Device, error) {
	var d entities.Device
	err := r.db.WithContext(ctx).
		Preload("Manufacturer").
		First(&d, id).Error
	if err != nil {
		return nil, translate(err, ErrDeviceNotFound)
	}
	return &d, nil
}

func (r *deviceRepository) GetByIDs(ctx context.Context, ids []uint) (map[uint]*entities.Device, error) {
	result := make(map[uint]*entities.Device, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var devices []*entities.Device
	err := r.db.WithContext(ctx).
		Preload("Manufacturer").
		Where("id IN ?", ids).
		Find(&devices).Error
	if err != nil {
		return nil, translate(err, ErrDeviceNotFound)
	}
	for _, d := range devices {
		result[d.ID] = d
	}
	return result, nil
}

func (r *deviceRepository) GetAll(ctx context.Context, kind entities.DeviceKind) ([]*entities.Device, error) {
	query := r.db.WithContext(ctx).Preload("Manufacturer").Order("id ASC")
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}

	var devices []*entities.Device
	if err := query.Find(&devices).Error; err != nil {
		return nil, translate(err, ErrDeviceNotFound)
	}
	return devices, nil
}

func (r *deviceRepository) UpdateName(ctx context.Context, id uint, name string) error {
	if name == "" {
		return ErrInvalidInput
	}
	result := r.db.WithContext(ctx).Model(&entities.Device{ID: id}).Update("name", name)
	if result.Error != nil {
		return translate(result.Error, ErrDeviceNotFound)
	}
	if result.RowsAffected == 0 {
		// MySQL reports changed rows, so an unchanged name also lands here.
		return r.mustExist(ctx, id)
	}
	return nil
}

func (r *deviceRepository) mustExist(ctx context.Context, id uint) error {
	var count int64
	if err := r.db.WithContext(ctx).Table(tableDevices).Where("id = ?", id).Count(&count).Error; err != nil {
		return translate(err, ErrDeviceNotFound)
	}
	if count == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

func (r *deviceRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Table(tableDevices).Delete(&entities.Device{}, id)
	if result.Error != nil {
		return translate(result.Error, ErrDeviceNotFound)
	}
	if result.RowsAffected == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

func (r *deviceRepository) Count(ctx context.Context, kind entities.DeviceKind) (int64, error) {
	query := r.db.WithContext(ctx).Table(tableDevices)
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}

	var count int64
	err := query.Count(&count).Error
	return count, translate(err, ErrDeviceNotFound)
}
