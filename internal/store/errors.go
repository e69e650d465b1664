package store

import (
	"errors"
	"fmt"
	"time"
)

// Code classifies a store error the way the backend reports it. The retry
// runner keys its transient-error handling off these codes.
type Code string

const (
	CodeNotFound        Code = "NOT_FOUND"
	CodeAlreadyExists   Code = "ALREADY_EXISTS"
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeInternal        Code = "INTERNAL"
	CodeUnavailable     Code = "UNAVAILABLE"
	CodeAborted         Code = "ABORTED"
	// CodeRetry is a caller-requested retry sentinel: an operation may return
	// it to ask the retry runner for another attempt even though the store
	// itself did not fail transiently.
	CodeRetry Code = "RETRY"
)

// Error is a coded store failure. RetryAfter, when non-zero, suggests a delay
// before the next attempt and overrides the retry policy's fixed delay.
type Error struct {
	Code       Code
	Message    string
	RetryAfter time.Duration
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a coded store error.
func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError creates a coded store error preserving its cause.
func WrapError(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf extracts the store code carried by err. Errors of unexpected shape
// yield the empty code and are treated as non-retriable by callers.
func CodeOf(err error) Code {
	var storeErr *Error
	if errors.As(err, &storeErr) {
		return storeErr.Code
	}
	return ""
}

// RetryAfterOf extracts the suggested retry delay, or zero when none is set.
func RetryAfterOf(err error) time.Duration {
	var storeErr *Error
	if errors.As(err, &storeErr) {
		return storeErr.RetryAfter
	}
	return 0
}

// IsNotFound reports whether err is a missing-document store error.
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}

// IsAlreadyExists reports whether err is a duplicate-create store error.
func IsAlreadyExists(err error) bool {
	return CodeOf(err) == CodeAlreadyExists
}
