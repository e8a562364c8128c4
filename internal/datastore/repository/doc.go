// Package repository provides table-level access to the tonecapture catalog.
//
// # Error Handling
//
// Repositories return the sentinel errors in errors.go instead of GORM or
// driver errors, so callers never depend on the storage engine's error
// shapes. Unique constraint violations surface as ErrDuplicateKey and
// foreign key violations as ErrForeignKeyViolation.
//
// # Transactions
//
// A Set bundles one repository per table over the same *gorm.DB. RunInTx
// hands the callback a Set bound to a transaction, so a multi-table write
// either fully happens or not at all.
package repository
