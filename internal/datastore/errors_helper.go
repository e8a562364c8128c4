package datastore

import (
	"strings"

	"github.com/amafra/tonecapture/internal/errors"
)

// dbError creates a properly categorized database error with context
func dbError(err error, operation, priority string, context ...any) error {
	builder := errors.New(err).
		Component("datastore").
		Category(errors.CategoryDatabase).
		Context("operation", operation)

	if priority != "" {
		builder = builder.Priority(priority)
	}

	// Add context pairs
	for i := 0; i < len(context)-1; i += 2 {
		if key, ok := context[i].(string); ok {
			builder = builder.Context(key, context[i+1])
		}
	}

	return builder.Build()
}

// openError categorizes a failure to open a backend. Unreachable servers and
// missing files are escalated; credentials problems are configuration errors.
func openError(err error, backend, location string) error {
	msg := strings.ToLower(err.Error())

	category := errors.CategoryDatabase
	priority := errors.PriorityHigh
	switch {
	case strings.Contains(msg, "access denied"):
		category = errors.CategoryConfiguration
		priority = errors.PriorityMedium
	case strings.Contains(msg, "unable to open database file"),
		strings.Contains(msg, "no such file"):
		category = errors.CategoryFileIO
	}

	return errors.New(err).
		Component("datastore").
		Category(category).
		Priority(priority).
		Context("operation", "open").
		Context("backend", backend).
		Context("location", location).
		Build()
}
