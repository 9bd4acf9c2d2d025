// Package errors provides standardized domain errors with codes for the
// Episodeo sync engine. Connectivity failures get their own code because
// they surface a user-facing "no connection" message rather than a
// technical one; plain absence of an entity is usually modelled as an
// empty result, so CodeNotFound appears only where callers must
// distinguish it.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeNotFound     Code = "NOT_FOUND"
	CodeValidation   Code = "VALIDATION"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeOffline      Code = "OFFLINE"
	CodeInvalidCode  Code = "INVALID_CODE"
	CodeConflict     Code = "CONFLICT"
	CodeInternal     Code = "INTERNAL"
)

// HTTPStatus returns the appropriate HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation, CodeInvalidCode:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeOffline:
		return http.StatusServiceUnavailable
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional cause.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int { return e.Code.HTTPStatus() }

// WithCause returns a copy wrapping the underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, cause: err}
}

// Sentinel values for errors.Is checks.
var (
	ErrNotFound     = &Error{Code: CodeNotFound, Message: "not found"}
	ErrValidation   = &Error{Code: CodeValidation, Message: "validation failed"}
	ErrUnauthorized = &Error{Code: CodeUnauthorized, Message: "not signed in"}
	ErrOffline      = &Error{Code: CodeOffline, Message: "no connection, changes cannot be saved"}
	ErrInvalidCode  = &Error{Code: CodeInvalidCode, Message: "invalid share code"}
	ErrConflict     = &Error{Code: CodeConflict, Message: "conflict"}
)

// NotFound creates a not-found error with a custom message.
func NotFound(msg string) *Error { return &Error{Code: CodeNotFound, Message: msg} }

// Validation creates a validation error with a custom message.
func Validation(msg string) *Error { return &Error{Code: CodeValidation, Message: msg} }

// Unauthorized creates an unauthorized error with a custom message.
func Unauthorized(msg string) *Error { return &Error{Code: CodeUnauthorized, Message: msg} }

// Offline creates a connectivity error with a user-facing message and the
// underlying transport error as cause.
func Offline(msg string, cause error) *Error {
	return &Error{Code: CodeOffline, Message: msg, cause: cause}
}

// Internal creates an internal error wrapping a cause.
func Internal(msg string, cause error) *Error {
	return &Error{Code: CodeInternal, Message: msg, cause: cause}
}
