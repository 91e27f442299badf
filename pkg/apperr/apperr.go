// Package apperr defines the API's error taxonomy.
//
// Stores and services return *Error values tagged with a Kind; the handler
// layer maps the Kind to an HTTP status without inspecting message text.
//
//	if err := store.Get(id); err != nil {
//	    return apperr.NotFound("Product not found")
//	}
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error into the API's failure taxonomy.
type Kind int

const (
	KindInternal   Kind = iota // unexpected failure
	KindBadRequest             // malformed or missing input
	KindValidation             // field-level validation failures
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

// Error is a tagged API error with an optional field-error map.
type Error struct {
	Kind    Kind
	Message string
	// Fields carries per-field messages for KindValidation errors.
	Fields map[string]string
	// Err is the wrapped cause, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "internal error"
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status code for the error's kind.
func (e *Error) Status() int {
	switch e.Kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// New builds an *Error with an arbitrary kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// BadRequest tags a malformed-input failure.
func BadRequest(message string) *Error { return New(KindBadRequest, message) }

// Validation tags a schema-level failure carrying every failing field.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "Validation failed", Fields: fields}
}

// Unauthorized tags a missing/invalid-credential failure.
func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }

// Forbidden tags an authenticated-but-not-permitted failure.
func Forbidden(message string) *Error { return New(KindForbidden, message) }

// NotFound tags an absent entity, an absent referenced id, or an empty
// relation result.
func NotFound(message string) *Error { return New(KindNotFound, message) }

// Conflict tags a uniqueness violation (duplicate email, duplicate
// order-product pair).
func Conflict(message string) *Error { return New(KindConflict, message) }

// Internal wraps an unexpected failure. The cause is kept for logs; the
// message is what callers see.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "An error occurred", Err: err}
}

// From extracts an *Error from err, wrapping unknown errors as internal.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
