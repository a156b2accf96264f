package memory

import (
	"errors"
	"fmt"
	"strings"
)

// Predefined errors.
var (
	// ErrNotFound is wrapped by NotFoundError.
	ErrNotFound = errors.New("memory not found")

	// ErrNoLocator means a record has no content locator.
	ErrNoLocator = errors.New("no file path")

	// ErrInvalidStatus is returned for a status filter other than active, retired or all.
	ErrInvalidStatus = errors.New("invalid status (valid: active, retired, all)")

	// ErrInvalidConfidence is returned for a confidence outside [0, 1].
	ErrInvalidConfidence = errors.New("confidence must be between 0.0 and 1.0")

	// ErrTooFewIDs is returned when consolidate gets fewer than two ids.
	ErrTooFewIDs = errors.New("consolidate requires at least 2 memory IDs")
)

// ValidationError reports a missing required field.
type ValidationError struct {
	Action string
	Field  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required for %s action", e.Field, e.Action)
}

// NotFoundError lists ids absent from the index.
type NotFoundError struct {
	IDs []string
}

func (e *NotFoundError) Error() string {
	if len(e.IDs) == 1 {
		return fmt.Sprintf("memory %s not found", e.IDs[0])
	}
	return fmt.Sprintf("memories not found: %s", strings.Join(e.IDs, ", "))
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// DuplicateError is the soft conflict raised by the create duplicate guard.
type DuplicateError struct {
	ID         string
	Summary    string
	Similarity float64
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("similar memory found: %s - %q", e.ID, e.Summary)
}

// UnknownActionError is returned by Manage for an unrecognised action.
type UnknownActionError struct {
	Action string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action %q", e.Action)
}
