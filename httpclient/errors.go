package httpclient

import (
	"errors"
	"fmt"
)

// ErrorCode classifies transport errors.
type ErrorCode int

const (
	// ErrCodeTimeout indicates the request deadline or context expired.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeConnection indicates the request never produced a response
	// (refused, DNS, TLS handshake, truncated body).
	ErrCodeConnection
	// ErrCodeValidation indicates the request could not be built.
	ErrCodeValidation
	// ErrCodeCanceled indicates the caller canceled the context.
	ErrCodeCanceled
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeValidation:
		return "validation"
	case ErrCodeCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Error is a transport-level failure. A response with any status code is
// never reported as an Error.
type Error struct {
	// Code classifies the error.
	Code ErrorCode
	// Message describes the error.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewTimeoutError creates a timeout error.
func NewTimeoutError(err error) *Error {
	return &Error{Code: ErrCodeTimeout, Message: err.Error(), Err: err}
}

// NewConnectionError creates a connection error.
func NewConnectionError(err error) *Error {
	return &Error{Code: ErrCodeConnection, Message: err.Error(), Err: err}
}

// NewCanceledError creates a cancellation error.
func NewCanceledError(err error) *Error {
	return &Error{Code: ErrCodeCanceled, Message: err.Error(), Err: err}
}

// NewValidationError creates a request-building error.
func NewValidationError(msg string) *Error {
	return &Error{Code: ErrCodeValidation, Message: msg}
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeTimeout
}

// IsConnection checks if an error is a connection error.
func IsConnection(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeConnection
}

// IsCanceled checks if an error is a cancellation error.
func IsCanceled(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeCanceled
}

// IsTransport reports whether err came from this package.
func IsTransport(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
