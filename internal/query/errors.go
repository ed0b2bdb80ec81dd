package query

import (
	"errors"
	"fmt"
)

// InvalidArgumentError reports a structurally impossible request.
//
// It is returned before any SQL is built and is never retried. Filters
// that merely match nothing are not invalid arguments.
type InvalidArgumentError struct {
	// Field names the offending descriptor field.
	Field string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsInvalidArgument reports whether err is an *InvalidArgumentError.
// Uses errors.As to handle wrapped errors.
func IsInvalidArgument(err error) bool {
	var ia *InvalidArgumentError
	return errors.As(err, &ia)
}

func invalidf(field, format string, args ...any) *InvalidArgumentError {
	return &InvalidArgumentError{Field: field, Message: fmt.Sprintf(format, args...)}
}
