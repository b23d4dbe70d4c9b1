// Package apperror provides the standardized error taxonomy for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for HTTP mapping and client handling.
type Kind string

const (
	KindUnauthorized      Kind = "unauthorized"
	KindValidation        Kind = "validation_error"
	KindNotFound          Kind = "not_found"
	KindInsufficientStock Kind = "insufficient_stock"
	KindInvalidAmount     Kind = "invalid_amount"
	KindExceedsBalance    Kind = "exceeds_balance"
	KindConflict          Kind = "conflict"
	KindInternal          Kind = "internal_error"
)

// Error is the canonical application error. Message is safe to show to
// clients; Err (if set) is the internal cause and is only logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
	// Fields carries per-field validation tags, when applicable.
	Fields map[string]string
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error with the given kind and client-safe message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches an internal cause. The cause never reaches the client.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// Convenience constructors for the common kinds.

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", Err: err}
}

// KindOf extracts the Kind from an error chain, defaulting to KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool { return KindOf(err) == kind }

// HTTPStatus maps a Kind to its HTTP status code.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindValidation, KindInvalidAmount:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindInsufficientStock, KindExceedsBalance, KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Response is the JSON envelope written for every 4xx/5xx.
type Response struct {
	Code   string            `json:"code"`
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields,omitempty"`
}

// ToResponse converts any error into the client-facing envelope.
// Non-apperror errors are masked as internal.
func ToResponse(err error) (int, Response) {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError, Response{
			Code:   string(KindInternal),
			Detail: "internal server error",
		}
	}
	return HTTPStatus(e.Kind), Response{Code: string(e.Kind), Detail: e.Message, Fields: e.Fields}
}

// ValidationFields builds a validation error carrying per-field tags.
func ValidationFields(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "validation error", Fields: fields}
}
