package services

import (
	"errors"
	"fmt"
	"strings"

	"aviablog/internal/db/repositories"
)

// Store-level failures bubble up unchanged so callers can test with errors.Is.
var (
	ErrNotFound  = repositories.ErrNotFound
	ErrDuplicate = repositories.ErrDuplicate
)

// ErrIncompleteTrip indicates a stored trip is missing its meal or one of
// its departure/arrival rows, so the detail view cannot be assembled.
var ErrIncompleteTrip = errors.New("trip data is incomplete")

// ErrForbidden indicates the acting user does not own the trip
var ErrForbidden = errors.New("not the trip owner")

// ValidationError carries field-level input problems detected before any
// store mutation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a field error, allocating the map lazily
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	e.Fields[field] = msg
}

// HasErrors reports whether any field failed
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}
