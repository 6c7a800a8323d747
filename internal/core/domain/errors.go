package domain

import (
	"errors"
	"strings"
)

// Error classes. Every sentinel below wraps exactly one of these so the
// transport layer can map by class with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrInternal     = errors.New("internal error")
)

var (
	ErrEmailTaken         = classed(ErrConflict, "email already registered")
	ErrStaleBalance       = classed(ErrConflict, "account balance changed concurrently")
	ErrInvalidCredentials = classed(ErrUnauthorized, "invalid email or password")
	ErrUnauthenticated    = classed(ErrUnauthorized, "authentication required")
	ErrUserNotFound       = classed(ErrNotFound, "user not found")
	ErrAccountNotFound    = classed(ErrNotFound, "account not found")
	ErrSessionNotFound    = classed(ErrNotFound, "session not found")
	ErrRecordMissing      = classed(ErrInternal, "record missing after write")
	ErrSessionNotRevoked  = classed(ErrInternal, "session still present after delete")
	ErrInsufficientFunds  = classed(ErrValidation, "insufficient funds")
)

type classedError struct {
	class error
	msg   string
}

func classed(class error, msg string) error {
	return &classedError{class: class, msg: msg}
}

func (e *classedError) Error() string { return e.msg }
func (e *classedError) Unwrap() error { return e.class }

// FieldError describes why a single input field was rejected.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError carries one or more field-level rejections. It matches
// ErrValidation under errors.Is.
type ValidationError struct {
	Fields []FieldError
}

// NewFieldError returns a ValidationError holding a single field failure.
func NewFieldError(field, reason string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Reason: reason}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Reason)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
