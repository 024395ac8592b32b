package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrNotFound       = errors.New("not found")
	ErrInboxProtected = errors.New("the Inbox project cannot be deleted")
)

// ValidationError reports a malformed entity field. It is returned
// synchronously by entity constructors and mutators.
type ValidationError struct {
	Field   string // Offending field: "title", "dueDate", etc.
	Message string // Human-readable context
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func validationErr(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
