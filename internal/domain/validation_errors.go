package domain

import (
	"fmt"
	"strings"
)

// FieldError describes a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every invalid field in a request.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasErrors reports whether any field failed validation.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

func NewMissingFieldError(field string) FieldError {
	return FieldError{Field: field, Message: "is required"}
}

func NewInvalidFormatError(field, value string) FieldError {
	return FieldError{Field: field, Message: fmt.Sprintf("has invalid format: %q", value)}
}

func NewOutOfRangeError(field string, value, min, max int) FieldError {
	return FieldError{Field: field, Message: fmt.Sprintf("must be between %d and %d, got %d", min, max, value)}
}
