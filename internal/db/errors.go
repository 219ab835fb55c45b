package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrStoreUnavailable indicates the local store could not be opened or has
// been closed. Callers treat it as fatal for the current operation.
var ErrStoreUnavailable = errors.New("store unavailable")

// Classify maps connection-level failures onto ErrStoreUnavailable and
// leaves every other error untouched.
func Classify(err error) error {
	if err == nil || errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	if errors.Is(err, sql.ErrConnDone) || strings.Contains(err.Error(), "database is closed") {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return err
}

// IsUniqueViolation reports whether err came from a UNIQUE or PRIMARY KEY
// constraint.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "PRIMARY KEY constraint failed")
}
