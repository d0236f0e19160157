// Package apperr holds the error kinds shared by every entity package so the HTTP layer can
// map them to status codes without knowing each package's sentinels.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrInvalid   = errors.New("invalid")
	ErrForbidden = errors.New("forbidden")
)

// NotFound returns a sentinel such as "budget not found" that matches ErrNotFound.
func NotFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

// Invalid returns a sentinel such as "invalid budget" that matches ErrInvalid.
func Invalid(entity string) error {
	return fmt.Errorf("%w %s", ErrInvalid, entity)
}
