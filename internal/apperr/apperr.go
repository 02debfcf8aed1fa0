// Package apperr provides typed application errors. Handlers return them
// and the dispatch layer maps each kind to an HTTP status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind string

// Error kinds.
const (
	KindInvalidParam Kind = "INVALID_PARAM"
	KindNotFound     Kind = "NOT_FOUND"
	KindDatabase     Kind = "DATABASE_ERROR"
	KindInternal     Kind = "INTERNAL_ERROR"
)

// Error is an application error with a kind and a client-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code for this error. Malformed
// parameters are not distinguished from server failures.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// InvalidParam reports a query parameter that could not be coerced.
func InvalidParam(name string, err error) *Error {
	return &Error{
		Kind:    KindInvalidParam,
		Message: fmt.Sprintf("invalid value for %s: %v", name, err),
		Err:     err,
	}
}

// NotFound reports a missing resource with the given message.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Database wraps a connection or query failure. The message carries the
// underlying error text.
func Database(err error) *Error {
	return &Error{Kind: KindDatabase, Message: err.Error(), Err: err}
}

// Internal wraps any other failure.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: err.Error(), Err: err}
}

// From returns err as an *Error, classifying unknown errors as internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	return From(err).Kind
}
