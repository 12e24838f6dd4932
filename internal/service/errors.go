package service

import (
	"errors"
	"fmt"
)

var ErrNoRegionalDefaults = errors.New("no regional default payment methods for this tenant")

// ValidationError rejects a request field that passed binding but breaks a
// business rule.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
