package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")

	// ErrParentNotFound is raised when a referenced parent folder is missing
	// or soft-deleted. It matches ErrNotFound.
	ErrParentNotFound = fmt.Errorf("parent folder %w", ErrNotFound)

	// ErrInvalidMove is raised when a move would put a folder inside its own
	// subtree. It matches ErrValidation.
	ErrInvalidMove = fmt.Errorf("invalid move: %w", ErrValidation)
)

// ValidationError carries field-level request validation messages
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// StatusCode implements the HTTPError interface
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

// Is allows errors.Is() to match against ErrValidation
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
