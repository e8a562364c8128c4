package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amafra/tonecapture/internal/datastore/entities"
)

// chainOrder sorts by the quoted "order" column, then by id. clause.Column
// is quoted per dialect, which matters because ORDER is a keyword.
var chainOrder = clause.OrderBy{Columns: []clause.OrderByColumn{
	{Column: clause.Column{Name: "order"}},
	{Column: clause.Column{Name: "id"}},
}}

// linkRepository implements LinkRepository.
type linkRepository struct {
	db *gorm.DB
}

// NewLinkRepository creates a new LinkRepository.
func NewLinkRepository(db *gorm.DB) LinkRepository {
	return &linkRepository{db: db}
}

func (r *linkRepository) Create(ctx context.Context, l *entities.ToneFileDeviceLink) error {
	if l == nil || l.ToneFileID == 0 || l.DeviceID == 0 {
		return ErrInvalidInput
	}
	err := r.db.WithContext(ctx).Omit("ToneFile", "Device").Create(l).Error
	return translate(err, ErrLinkNotFound)
}

func (r *linkRepository) GetByID(ctx context.Context, id uint) (*entities.ToneFileDeviceLink, error) {
	var l entities.ToneFileDeviceLink
	if err := r.db.WithContext(ctx).Table(tableLinks).First(&l, id).Error; err != nil {
		return nil, translate(err, ErrLinkNotFound)
	}
	return &l, nil
}

func (r *linkRepository) ListByToneFile(ctx context.Context, toneFileID uint) ([]*entities.ToneFileDeviceLink, error) {
	var links []*entities.ToneFileDeviceLink
	err := r.db.WithContext(ctx).
		Preload("Device").
		Preload("Device.Manufacturer").
		Where("tone_file_id = ?", toneFileID).
		Clauses(chainOrder).
		Find(&links).Error
	if err != nil {
		return nil, translate(err, ErrLinkNotFound)
	}
	return links, nil
}

func (r *linkRepository) CountByDevice(ctx context.Context, deviceID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table(tableLinks).
		Where("device_id = ?", deviceID).
		Count(&count).Error
	return count, translate(err, ErrLinkNotFound)
}

func (r *linkRepository) CountByToneFile(ctx context.Context, toneFileID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table(tableLinks).
		Where("tone_file_id = ?", toneFileID).
		Count(&count).Error
	return count, translate(err, ErrLinkNotFound)
}

func (r *linkRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Table(tableLinks).Delete(&entities.ToneFileDeviceLink{}, id)
	if result.Error != nil {
		return translate(result.Error, ErrLinkNotFound)
	}
	if result.RowsAffected == 0 {
		return ErrLinkNotFound
	}
	return nil
}

func (r *linkRepository) DeleteByToneFile(ctx context.Context, toneFileID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("tone_file_id = ?", toneFileID).
		Delete(&entities.ToneFileDeviceLink{})
	return result.RowsAffected, translate(result.Error, ErrLinkNotFound)
}
