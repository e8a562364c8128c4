package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/amafra/tonecapture/internal/datastore/entities"
)

// toneFileRepository implements ToneFileRepository.
type toneFileRepository struct {
	db *gorm.DB
}

// NewToneFileRepository creates a new ToneFileRepository.
func NewToneFileRepository(db *gorm.DB) ToneFileRepository {
	return &toneFileRepository{db: db}
}

// variantTable returns the subtable of kind.
func variantTable(kind entities.ToneFileKind) (string, error) {
	switch kind {
	case entities.ToneFileKindIR:
		return tableIRFiles, nil
	case entities.ToneFileKindNAM:
		return tableNAMFiles, nil
	default:
		return "", ErrInvalidInput
	}
}

func (r *toneFileRepository) Create(ctx context.Context, tf *entities.ToneFile) error {
	if tf == nil || tf.Path == "" || tf.Filename == "" || !tf.FileType.Valid() {
		return ErrInvalidInput
	}
	return translate(r.db.WithContext(ctx).Table(tableToneFiles).Create(tf).Error, ErrToneFileNotFound)
}

func (r *toneFileRepository) CreateVariant(ctx context.Context, kind entities.ToneFileKind, id uint) error {
	var err error
	switch kind {
	case entities.ToneFileKindIR:
		err = r.db.WithContext(ctx).Omit("ToneFile").Create(&entities.IRFile{ToneFileID: id}).Error
	case entities.ToneFileKindNAM:
		err = r.db.WithContext(ctx).Omit("ToneFile").Create(&entities.NAMFile{ToneFileID: id}).Error
	default:
		return ErrInvalidInput
	}
	return translate(err, ErrToneFileNotFound)
}

func (r *toneFileRepository) VariantExists(ctx context.Context, kind entities.ToneFileKind, id uint) (bool, error) {
	table, err := variantTable(kind)
	if err != nil {
		return false, err
	}

	var count int64
	err = r.db.WithContext(ctx).Table(table).
		Where("tone_file_id = ?", id).
		Count(&count).Error
	return count > 0, translate(err, ErrToneFileNotFound)
}

func (r *toneFileRepository) GetByID(ctx context.Context, id uint) (*entities.ToneFile, error) {
	var tf entities.ToneFile
	if err := r.db.WithContext(ctx).Table(tableToneFiles).First(&tf, id).Error; err != nil {
		return nil, translate(err, ErrToneFileNotFound)
	}
	return &tf, nil
}

func (r *toneFileRepository) GetByPath(ctx context.Context, path string) (*entities.ToneFile, error) {
	var tf entities.ToneFile
	err := r.db.WithContext(ctx).Table(tableToneFiles).
		Where("path = ?", path).
		First(&tf).Error
	if err != nil {
		return nil, translate(err, ErrToneFileNotFound)
	}
	return &tf, nil
}

func (r *toneFileRepository) GetAll(ctx context.Context, kind entities.ToneFileKind) ([]*entities.ToneFile, error) {
	query := r.db.WithContext(ctx).Table(tableToneFiles).Order("id ASC")
	if kind != "" {
		query = query.Where("file_type = ?", kind)
	}

	var files []*entities.ToneFile
	if err := query.Find(&files).Error; err != nil {
		return nil, translate(err, ErrToneFileNotFound)
	}
	return files, nil
}

func (r *toneFileRepository) Update(ctx context.Context, id uint, updates map[string]any) error {
	if len(updates) == 0 {
		return ErrInvalidInput
	}

	// Model (not Table) so GORM refreshes updated_at.
	result := r.db.WithContext(ctx).Model(&entities.ToneFile{ID: id}).Updates(updates)
	if result.Error != nil {
		return translate(result.Error, ErrToneFileNotFound)
	}
	if result.RowsAffected == 0 {
		return ErrToneFileNotFound
	}
	return nil
}

func (r *toneFileRepository) DeleteVariant(ctx context.Context, kind entities.ToneFileKind, id uint) error {
	table, err := variantTable(kind)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Exec("DELETE FROM "+table+" WHERE tone_file_id = ?", id).Error
	return translate(err, ErrToneFileNotFound)
}

func (r *toneFileRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Table(tableToneFiles).Delete(&entities.ToneFile{}, id)
	if result.Error != nil {
		return translate(result.Error, ErrToneFileNotFound)
	}
	if result.RowsAffected == 0 {
		return ErrToneFileNotFound
	}
	return nil
}

func (r *toneFileRepository) Count(ctx context.Context, kind entities.ToneFileKind) (int64, error) {
	query := r.db.WithContext(ctx).Table(tableToneFiles)
	if kind != "" {
		query = query.Where("file_type = ?", kind)
	}

	var count int64
	err := query.Count(&count).Error
	return count, translate(err, ErrToneFileNotFound)
}
