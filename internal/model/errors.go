package model

import "errors"

// ValidationError reports malformed or missing input. Its message is safe
// to return to the caller verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validation failures.
var (
	ErrMissingField     = &ValidationError{Message: "missing required field"}
	ErrInvalidCode      = &ValidationError{Message: "invalid code format"}
	ErrUnsupportedImage = &ValidationError{Message: "unsupported image type"}
)

// ErrDuplicate is returned when a record with the same partial NSN exists.
var ErrDuplicate = errors.New("item with this NSN already exists")

// StoreError wraps a failure of the document or object store. Op describes
// what was being attempted and may be shown to callers; Err must not be.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }
