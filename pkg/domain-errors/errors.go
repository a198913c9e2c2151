// Package derrors defines the domain error type shared across modules.
//
// Services return *Error values carrying a stable machine-readable code;
// the HTTP layer translates codes to status codes and JSON envelopes via
// httputil.WriteError. Wrapping preserves the cause chain for errors.Is/As.
package derrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a stable, machine-readable error category.
type Code string

const (
	// CodeInvalidInput marks malformed or out-of-domain parameters
	// (non-positive sample size, non-positive standard deviation,
	// unknown confidence level).
	CodeInvalidInput Code = "invalid_input"

	// CodeEmptyInput marks statistics requested over zero observations.
	CodeEmptyInput Code = "empty_input"

	// CodeBadRequest marks transport-level request problems (bad JSON,
	// missing fields).
	CodeBadRequest Code = "bad_request"

	// CodeNotFound marks lookups for records that do not exist.
	CodeNotFound Code = "not_found"

	// CodeInternal marks unexpected failures. Descriptions for internal
	// errors are never surfaced to clients.
	CodeInternal Code = "internal_error"
)

// Error is a domain error with a code and human-readable message.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the cause for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a domain error with the given code and message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a domain error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap annotates err with a code and message while keeping the cause chain.
// Returns nil when err is nil so call sites can wrap unconditionally.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or any error in its chain) carries code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.cause
	}
	return false
}

// CodeOf extracts the outermost domain error code, defaulting to
// CodeInternal for plain errors so unknown failures never leak details.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a domain error code to an HTTP status code.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidInput, CodeEmptyInput, CodeBadRequest:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
