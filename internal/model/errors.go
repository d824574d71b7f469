package model

import "fmt"

// ValidationError reports a malformed or out-of-domain filter value. It is
// raised before any collaborator is contacted and maps to a client-visible
// rejection at the HTTP boundary.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError creates a validation error for the given field
func NewValidationError(field, reason string) ValidationError {
	return ValidationError{Field: field, Reason: reason}
}
