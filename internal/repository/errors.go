package repository

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/babybond/internal/db"
)

// ErrNotFound is returned (wrapped) when a lookup by id or key matches no row.
var ErrNotFound = errors.New("not found")

// storeErr wraps a database failure with the operation that produced it,
// surfacing connection loss as db.ErrStoreUnavailable.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, db.Classify(err))
}
