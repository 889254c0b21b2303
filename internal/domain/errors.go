package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")

	// ErrEmptyQueue is returned when a session operation requires a card
	// but the session queue is exhausted. Answering an empty queue is a
	// programming error and is never retried.
	ErrEmptyQueue = errors.New("session queue is empty")

	// ErrSchedulerUnavailable marks a transient scheduler failure that
	// persisted through the retry. No store mutation happened.
	ErrSchedulerUnavailable = errors.New("scheduler unavailable")

	// ErrInconsistentCommit marks a review commit whose two writes
	// (card update, review-log append) diverged. Requires reconciliation.
	ErrInconsistentCommit = errors.New("inconsistent review commit")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}
