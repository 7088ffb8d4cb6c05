package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is wrapped by every lookup miss.
	ErrNotFound        = errors.New("not found")
	ErrTaskNotFound    = fmt.Errorf("task %w", ErrNotFound)
	ErrSubtaskNotFound = fmt.Errorf("subtask %w", ErrNotFound)

	// ErrPersistence means the store did not acknowledge the expected effect of a write.
	ErrPersistence = errors.New("persistence failure")
)

// ValidationError reports malformed or missing input, rejected before any store access.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}
