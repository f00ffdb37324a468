package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unified error code across the engine.
type ErrorCode string

const (
	// ErrInvalidConfiguration marks bad constructor arguments: batch size
	// out of range, zero worker count, empty dataset. Raised synchronously
	// at construction, never recovered internally.
	ErrInvalidConfiguration ErrorCode = "INVALID_CONFIGURATION"

	// ErrEvaluationFailure marks any error or cancellation occurring inside
	// a submitted batch evaluation. A single failing batch invalidates the
	// whole aggregate for that call.
	ErrEvaluationFailure ErrorCode = "EVALUATION_FAILURE"

	// ErrPoolClosed marks a submission to a worker pool that has already
	// been shut down.
	ErrPoolClosed ErrorCode = "POOL_CLOSED"
)

// Error represents a structured error with code, message, and cause.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Errorf creates a new Error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WrapError wraps err in an Error with the given code and message.
// A nil err returns nil.
func WrapError(code ErrorCode, message string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Cause: err}
}

// GetErrorCode extracts the error code from an error, unwrapping as needed.
func GetErrorCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given error code.
func IsCode(err error, code ErrorCode) bool {
	return GetErrorCode(err) == code
}
