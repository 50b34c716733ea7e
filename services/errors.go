package services

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map these to HTTP status codes with errors.Is.
var (
	ErrValidation   = errors.New("validation_error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not_found")
	ErrConflict     = errors.New("conflict")
)

// Error is a domain error carrying a user-facing message and, for
// validation failures, per-field messages.
type Error struct {
	Kind    error
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Kind }

func validationError(message string) *Error {
	return &Error{Kind: ErrValidation, Message: message}
}

func fieldError(field, message string) *Error {
	return &Error{Kind: ErrValidation, Message: message, Fields: map[string]string{field: message}}
}

func fieldErrors(fields map[string]string) *Error {
	return &Error{Kind: ErrValidation, Message: "Invalid data.", Fields: fields}
}

func unauthorized(message string) *Error {
	return &Error{Kind: ErrUnauthorized, Message: message}
}

func forbidden(message string) *Error {
	return &Error{Kind: ErrForbidden, Message: message}
}

func notFound(message string) *Error {
	return &Error{Kind: ErrNotFound, Message: message}
}

func conflict(message string) *Error {
	return &Error{Kind: ErrConflict, Message: message}
}
