package repository

import (
	"strings"

	"gorm.io/gorm"

	"github.com/amafra/tonecapture/internal/errors"
)

// Sentinel errors for repository operations.
var (
	// ErrManufacturerNotFound indicates the requested manufacturer does not exist.
	ErrManufacturerNotFound = errors.NewStd("manufacturer not found")

	// ErrDeviceNotFound indicates the requested device does not exist.
	ErrDeviceNotFound = errors.NewStd("device not found")

	// ErrToneFileNotFound indicates the requested tone file does not exist.
	ErrToneFileNotFound = errors.NewStd("tone file not found")

	// ErrLinkNotFound indicates the requested device link does not exist.
	ErrLinkNotFound = errors.NewStd("device link not found")

	// ErrDuplicateKey indicates a unique constraint violation.
	ErrDuplicateKey = errors.NewStd("duplicate key")

	// ErrForeignKeyViolation indicates a row references a missing parent or
	// is still referenced by a child.
	ErrForeignKeyViolation = errors.NewStd("foreign key violation")

	// ErrInvalidInput indicates invalid input parameters.
	ErrInvalidInput = errors.NewStd("invalid input")
)

// translate maps GORM and driver errors onto the sentinels above. Errors it
// does not recognize are returned unchanged. notFound is used for
// gorm.ErrRecordNotFound.
func translate(err, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isDuplicateMessage(err):
		return ErrDuplicateKey
	case errors.Is(err, gorm.ErrForeignKeyViolated), isForeignKeyMessage(err):
		return ErrForeignKeyViolation
	}
	return err
}

// isDuplicateMessage catches unique violations when the dialector did not
// translate them (TranslateError disabled or an unknown driver error code).
func isDuplicateMessage(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") || // SQLite
		strings.Contains(msg, "duplicate entry") // MySQL 1062
}

func isForeignKeyMessage(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key constraint failed") || // SQLite
		strings.Contains(msg, "a foreign key constraint fails") // MySQL 1451/1452
}
