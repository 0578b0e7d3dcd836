package task

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a task does not exist or is owned by
// another user. The two cases are deliberately indistinguishable so
// task ids cannot be enumerated across accounts.
var ErrNotFound = errors.New("task not found")

// ValidationError reports a malformed field in a create or update request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Message)
}

func errRequired(field string) *ValidationError {
	return &ValidationError{Field: field, Message: "is required"}
}

func errInvalid(field, value string) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf("has unrecognized value %q", value)}
}
