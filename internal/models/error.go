package models

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the stores and the library service.
var (
	ErrGameNotFound   = errors.New("game not found")
	ErrReviewNotFound = errors.New("review not found")
	ErrDuplicateTitle = errors.New("a game with this title already exists")
)

// ValidationError reports a record that failed required-field or bounds checks.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError returns a ValidationError with the given message.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// NewValidationErrorf returns a ValidationError with a formatted message.
func NewValidationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
