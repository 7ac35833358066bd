package domain

import "fmt"

// ValidationError reports malformed input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError reports a uniqueness violation.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// NotFoundError reports an unknown id or a dangling reference.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s not found", e.Entity) }

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func NewConflictError(field, message string) error {
	return &ConflictError{Field: field, Message: message}
}

func NewNotFoundError(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}
