package catalog

import (
	"fmt"

	"github.com/amafra/tonecapture/internal/datastore/repository"
	"github.com/amafra/tonecapture/internal/errors"
	"github.com/amafra/tonecapture/internal/observability/metrics"
)

var (
	// ErrRecordNotFound is returned when a referenced id or key does not exist
	ErrRecordNotFound = errors.Newf("record not found").
				Component("catalog").
				Category(errors.CategoryNotFound).
				Build()

	// ErrDuplicateRecord is returned when a unique field value is already taken
	ErrDuplicateRecord = errors.Newf("duplicate record").
				Component("catalog").
				Category(errors.CategoryConflict).
				Build()

	// ErrInvalidKind is returned for device or tone file kinds the catalog does not know
	ErrInvalidKind = errors.Newf("invalid kind").
			Component("catalog").
			Category(errors.CategoryValidation).
			Build()

	// ErrReferentialIntegrity is returned when a delete would orphan links
	ErrReferentialIntegrity = errors.Newf("referential integrity violation").
				Component("catalog").
				Category(errors.CategoryConflict).
				Build()

	// ErrInvalidInput is returned for empty names, paths and similar
	ErrInvalidInput = errors.Newf("invalid input").
			Component("catalog").
			Category(errors.CategoryValidation).
			Build()
)

// notFound builds the error for a missing record.
func notFound(model string, key any) error {
	return errors.New(fmt.Errorf("%w: %s %v", ErrRecordNotFound, model, key)).
		Component("catalog").
		Category(errors.CategoryNotFound).
		Context("model", model).
		Context("key", fmt.Sprint(key)).
		Build()
}

// duplicate builds the error for a unique constraint violation.
func duplicate(model, field, value string) error {
	return errors.New(fmt.Errorf("%w: a %s with %s %q already exists", ErrDuplicateRecord, model, field, value)).
		Component("catalog").
		Category(errors.CategoryConflict).
		Context("model", model).
		Context("field", field).
		Build()
}

func invalidKind(model, kind string) error {
	return errors.New(fmt.Errorf("%w: %q is not a %s kind", ErrInvalidKind, kind, model)).
		Component("catalog").
		Category(errors.CategoryValidation).
		Context("model", model).
		Context("kind", kind).
		Build()
}

func invalidInput(field, reason string) error {
	return errors.New(fmt.Errorf("%w: %s %s", ErrInvalidInput, field, reason)).
		Component("catalog").
		Category(errors.CategoryValidation).
		Context("field", field).
		Build()
}

func integrity(model string, id uint, references int64) error {
	return errors.New(fmt.Errorf("%w: %s %d is referenced by %d link(s)", ErrReferentialIntegrity, model, id, references)).
		Component("catalog").
		Category(errors.CategoryConflict).
		Context("model", model).
		Context("id", id).
		Context("references", references).
		Build()
}

// storageError wraps a failure the catalog cannot classify.
func storageError(operation string, err error) error {
	return errors.New(fmt.Errorf("catalog %s: %w", operation, err)).
		Component("catalog").
		Category(errors.CategoryDatabase).
		Priority(errors.PriorityHigh).
		Context("operation", operation).
		Build()
}

// isCatalogError reports whether err already carries one of the sentinels.
func isCatalogError(err error) bool {
	return errors.Is(err, ErrRecordNotFound) ||
		errors.Is(err, ErrDuplicateRecord) ||
		errors.Is(err, ErrInvalidKind) ||
		errors.Is(err, ErrReferentialIntegrity) ||
		errors.Is(err, ErrInvalidInput)
}

// mapRepoError turns a repository error into the catalog taxonomy. model
// and key describe the record the operation was about.
func mapRepoError(operation, model string, key any, err error) error {
	switch {
	case err == nil:
		return nil
	case isCatalogError(err):
		return err
	case errors.Is(err, repository.ErrManufacturerNotFound):
		return notFound("manufacturer", key)
	case errors.Is(err, repository.ErrDeviceNotFound):
		return notFound("device", key)
	case errors.Is(err, repository.ErrToneFileNotFound):
		return notFound("tone file", key)
	case errors.Is(err, repository.ErrLinkNotFound):
		return notFound("device link", key)
	case errors.Is(err, repository.ErrDuplicateKey):
		return duplicate(model, "key", fmt.Sprint(key))
	case errors.Is(err, repository.ErrForeignKeyViolation):
		return errors.New(fmt.Errorf("%w: %s %v", ErrReferentialIntegrity, model, key)).
			Component("catalog").
			Category(errors.CategoryConflict).
			Context("model", model).
			Build()
	case errors.Is(err, repository.ErrInvalidInput):
		return invalidInput(model, "is invalid")
	}
	return storageError(operation, err)
}

// statusOf maps an error to a metrics status label.
func statusOf(err error) string {
	switch {
	case err == nil:
		return metrics.StatusSuccess
	case errors.Is(err, ErrRecordNotFound):
		return metrics.StatusNotFound
	case errors.Is(err, ErrDuplicateRecord), errors.Is(err, ErrReferentialIntegrity):
		return metrics.StatusConflict
	case errors.Is(err, ErrInvalidKind), errors.Is(err, ErrInvalidInput):
		return metrics.StatusInvalid
	}
	return metrics.StatusError
}
