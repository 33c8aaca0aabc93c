package handlers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/giannis84/star-catalog/internal/models"
)

// maxNameLength bounds user-supplied alias strings.
const maxNameLength = 250

// ValidationError holds per-field validation messages, serialised verbatim
// into 400 response bodies. Cross-field failures (such as the uniqueness of
// the user/item pair) go under the "non_field_errors" key.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], "; ")))
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, "; "))
}

// NewValidationError builds a single-field ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {message}}}
}

// Add appends a message to a field's error list.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// aliasField returns the request/response field name carrying the alias for a
// catalog kind: movies use custom_title, planets use custom_name.
func aliasField(kind models.Kind) string {
	if kind == models.KindMovie {
		return "custom_title"
	}
	return "custom_name"
}
