package calculation

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the only error the engine produces. Use errors.Is to test
// for it; errors.As with *InputError recovers the offending field.
var ErrInvalidInput = errors.New("invalid input")

// InputError describes a compensation field that is missing, non-numeric or negative
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// NewInputError builds an *InputError for field
func NewInputError(field, reason string) error {
	return &InputError{Field: field, Reason: reason}
}
