package postgres

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Helper functions for PostgreSQL error checking
func isUniqueConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isNotNullConstraintViolation(err error) bool {
	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "null value") ||
		strings.Contains(errMsg, "not null") ||
		strings.Contains(errMsg, "23502") // PostgreSQL not_null_violation error code
}

// isConcurrencyConflict reports whether the error is a serialization failure
// or a deadlock abort. Both are safe to retry on a fresh transaction.
func isConcurrencyConflict(err error) bool {
	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "40001") || // serialization_failure
		strings.Contains(errMsg, "40p01") || // deadlock_detected
		strings.Contains(errMsg, "could not serialize access") ||
		strings.Contains(errMsg, "deadlock detected")
}
