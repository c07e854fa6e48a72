// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is the sentinel error wrapped by InvalidInputError.
	ErrInvalidInput = errors.New("invalid input")
	// ErrResolutionConflict is the sentinel error wrapped by ResolutionConflictError.
	ErrResolutionConflict = errors.New("resolution conflict")
)

type (
	// InvalidInputError is returned when an input path is neither an existing
	// file with a recognized extension nor a directory.
	InvalidInputError struct {
		// Path is the input exactly as the caller gave it.
		Path string
		// Reason is a short human-readable explanation.
		Reason string
		// Err is the underlying filesystem error, if any.
		Err error
	}

	// ResolutionConflictError is returned when two inputs would resolve to the
	// same Root identity or the same staged file.
	ResolutionConflictError struct {
		First  string
		Second string
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid input %q: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid input %q: %s", e.Path, e.Reason)
}

// Unwrap returns ErrInvalidInput and the underlying cause.
func (e *InvalidInputError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidInput, e.Err}
	}
	return []error{ErrInvalidInput}
}

// Error implements the error interface.
func (e *ResolutionConflictError) Error() string {
	return fmt.Sprintf("conflicting inputs %q and %q: %s", e.First, e.Second, e.Reason)
}

// Unwrap returns ErrResolutionConflict for errors.Is() compatibility.
func (e *ResolutionConflictError) Unwrap() error { return ErrResolutionConflict }
