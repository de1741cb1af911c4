package order

import (
	"errors"
	"fmt"
)

// ValidationError is returned when input blocks submission. It is shown
// inline next to the offending field.
type ValidationError struct {
	Field   string // "phone" or "cart"
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
