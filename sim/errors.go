package sim

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is the sentinel wrapped by every ParameterError.
var ErrInvalidParameter = errors.New("invalid parameter")

// ParameterError reports one rejected input field.
type ParameterError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%v: %s = %v (%s)", ErrInvalidParameter, e.Field, e.Value, e.Reason)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}

// InvalidParameter builds a ParameterError.
func InvalidParameter(field string, value any, reason string) error {
	return &ParameterError{Field: field, Value: value, Reason: reason}
}
