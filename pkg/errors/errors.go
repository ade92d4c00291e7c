package errors

import (
	"errors"
	"fmt"
)

// Common application errors with proper types for error handling

var (
	// ErrNotFound indicates a requested slot, record or page is absent
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates a malformed document or an invalid positional edit
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates missing or invalid authentication
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConflict indicates a stale version was submitted
	ErrConflict = errors.New("conflict")

	// ErrStorageUnavailable indicates the underlying document store failed
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal error")
)

// ValidationError describes why a document or edit was rejected.
// It matches ErrInvalidInput with errors.Is.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", e.Field, e.Reason, ErrInvalidInput)
}

// Is enables errors.Is matching against ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NotFoundError creates a not found error with context
func NotFoundError(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// InvalidInputError creates a validation error for a field
func InvalidInputError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ConflictError creates a conflict error with context
func ConflictError(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrConflict)
}

// StorageError wraps an adapter failure so callers can surface it as a server error.
// The original cause stays reachable through errors.Unwrap chains.
func StorageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}

// InternalError creates an internal error with context
func InternalError(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrInternal)
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
