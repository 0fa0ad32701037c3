package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by read operations when the referenced id does not
// exist. Update and Delete deliberately do not return it: a missing id is a
// silent no-op there.
var ErrNotFound = errors.New("record not found")

// ValidationError reports a missing or invalid required field. The boundary
// maps it to a 400 response with the field name in the message.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func requiredField(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "is required"}
}
