// Package model defines the core domain types for the activity planner.
//
// Every entity is built through its New* constructor, which runs the entity's
// validation and either returns a fully valid value or a *ValidationError.
package model

import (
	"regexp"
	"strings"
)

// emailPattern is deliberately light: local part, a domain with at least one
// dot and a top-level domain of two or more letters.
var emailPattern = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)

// ValidationError reports the first violated invariant of an entity.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// IsBlank reports whether s is empty once surrounding whitespace is removed.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsValidEmail reports whether email has the local@domain.tld shape.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ErrorResponse is the JSON error envelope returned by the API.
//
// Route handlers fill ErrorMessage with Status "error"; authorization
// failures fill Message with Status "application error".
type ErrorResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	Message      string `json:"message,omitempty"`
}

// StatusResponse is the body of the health check.
type StatusResponse struct {
	Message string `json:"message"`
}
