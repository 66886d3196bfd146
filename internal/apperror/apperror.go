// Package apperror holds the error kinds the HTTP layer knows how to map.
// Domain packages wrap these with %w to add context.
package apperror

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrConflict        = errors.New("already exists")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
)
