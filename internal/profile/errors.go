package profile

import (
	"errors"
	"fmt"
)

// Errors.
var (
	ErrNotFound   = errors.New("profile not found")
	ErrForbidden  = errors.New("default profile is read-only")
	ErrValidation = errors.New("invalid profile")
)

// ValidationError names the first field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap lets callers match with errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
