package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Account errors
var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrEmailTaken       = errors.New("email address already registered")
	ErrAccountNotActive = errors.New("account is not active")
	ErrAccountDeleted   = errors.New("account has been deleted")
	ErrAccountSuspended = errors.New("account is suspended")
)

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotAuthenticated   = errors.New("not authenticated")
)

// Token errors
var (
	ErrTokenInvalid         = errors.New("invalid or expired token")
	ErrEmailAlreadyVerified = errors.New("email address already verified")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is a structured input-validation failure. It short-circuits
// an operation before any state mutation and is itemized per field at the
// HTTP boundary.
type ValidationError struct {
	Details []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Details))
	for i, d := range e.Details {
		parts[i] = fmt.Sprintf("%s: %s", d.Field, d.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a single-field validation failure.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Details: []FieldError{{Field: field, Message: message}}}
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
