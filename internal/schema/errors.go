package schema

import (
	"fmt"
	"strings"
)

// Reasons reported for a rejected field.
const (
	ReasonMissing    = "missing"
	ReasonWrongType  = "wrong_type"
	ReasonOutOfRange = "out_of_range"
	ReasonEmpty      = "empty"
	ReasonMalformed  = "malformed"
	ReasonInvalid    = "invalid"
)

// FieldError describes one offending input field.
type FieldError struct {
	Field   string `json:"field"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// ValidationError enumerates every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasField reports whether field is among the failures.
func (e *ValidationError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

func fieldError(field, reason, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Reason: reason, Message: message}}}
}
