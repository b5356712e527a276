// Package apperr holds the errors that cross package boundaries and carry an
// HTTP meaning.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownEmail       = errors.New("no account for this email")
	ErrEmailTaken         = errors.New("email already registered")
	ErrStorage            = errors.New("storage failure")
)

// ValidationError rejects one input field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func Invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Storage wraps err so that errors.Is(err, ErrStorage) holds while the cause
// stays reachable for logging.
func Storage(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
