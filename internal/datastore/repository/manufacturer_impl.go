package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/amafra/tonecapture/internal/datastore/entities"
)

// manufacturerRepository implements ManufacturerRepository.
type manufacturerRepository struct {
	db *gorm.DB
}

// NewManufacturerRepository creates a new ManufacturerRepository.
func NewManufacturerRepository(db *gorm.DB) ManufacturerRepository {
	return &manufacturerRepository{db: db}
}

func (r *manufacturerRepository) Create(ctx context.Context, m *entities.Manufacturer) error {
	if m == nil || m.Name == "" {
		return ErrInvalidInput
	}
	return translate(r.db.WithContext(ctx).Table(tableManufacturers).Create(m).Error, ErrManufacturerNotFound)
}

func (r *manufacturerRepository) GetByID(ctx context.Context, id uint) (*entities.Manufacturer, error) {
	var m entities.Manufacturer
	if err := r.db.WithContext(ctx).Table(tableManufacturers).First(&m, id).Error; err != nil {
		return nil, translate(err, ErrManufacturerNotFound)
	}
	return &m, nil
}

func (r *manufacturerRepository) GetByName(ctx context.Context, name string) (*entities.Manufacturer, error) {
	var m entities.Manufacturer
	err := r.db.WithContext(ctx).Table(tableManufacturers).
		Where("name = ?", name).
		First(&m).Error
	if err != nil {
		return nil, translate(err, ErrManufacturerNotFound)
	}
	return &m, nil
}

func (r *manufacturerRepository) GetAll(ctx context.Context) ([]*entities.Manufacturer, error) {
	var ms []*entities.Manufacturer
	err := r.db.WithContext(ctx).Table(tableManufacturers).
		Order("name ASC").
		Find(&ms).Error
	return ms, translate(err, ErrManufacturerNotFound)
}

func (r *manufacturerRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Table(tableManufacturers).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, translate(err, ErrManufacturerNotFound)
}
