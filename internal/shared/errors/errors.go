package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a domain error condition. Codes are stable strings so they can
// travel through logs and API responses unchanged.
type Code string

const (
	// Repository errors
	CodeDocumentNotFound        Code = "DOCUMENT_NOT_FOUND"
	CodeRelatedDocumentNotFound Code = "RELATED_DOCUMENT_NOT_FOUND"
	CodeMaxRetriesReached       Code = "MAX_RETRIES_REACHED"
	CodeMalformedID             Code = "MALFORMED_ID"
	CodeInvalidCollectionPath   Code = "INVALID_COLLECTION_PATH"
	CodeMissingAncestorID       Code = "MISSING_ANCESTOR_ID"

	// Request/service errors surfaced by the HTTP layer
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeConflict     Code = "CONFLICT"
	CodeInternal     Code = "INTERNAL_ERROR"
)

// AppError is the error type exchanged between the repository layer, the domain
// services and the HTTP handlers.
type AppError struct {
	Code     Code                   `json:"code"`
	Message  string                 `json:"message"`
	HTTPCode int                    `json:"-"`
	Details  map[string]interface{} `json:"details,omitempty"`
	Cause    error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is match on the code, so sentinel comparison works across
// independently constructed instances.
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if errors.As(target, &appErr) {
		return appErr.Code == e.Code
	}
	return false
}

// WithCause attaches the underlying error.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail attaches a structured detail field.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func newError(code Code, message string, httpCode int) *AppError {
	return &AppError{Code: code, Message: message, HTTPCode: httpCode}
}

// Constructors

// NewDocumentNotFound reports that the target of an update or delete does not exist.
func NewDocumentNotFound(id string) *AppError {
	return newError(CodeDocumentNotFound, "document not found", http.StatusNotFound).
		WithDetail("id", id)
}

// NewRelatedDocumentNotFound reports that a referenced document (typically the
// immediate parent on a nested create) does not exist.
func NewRelatedDocumentNotFound(path string) *AppError {
	return newError(CodeRelatedDocumentNotFound, "related document not found", http.StatusNotFound).
		WithDetail("path", path)
}

// NewMaxRetriesReached reports an exhausted transient-error budget. The last
// error observed is preserved as the cause.
func NewMaxRetriesReached(attempts int, last error) *AppError {
	return newError(CodeMaxRetriesReached, "max retries reached", http.StatusServiceUnavailable).
		WithDetail("attempts", attempts).
		WithCause(last)
}

// NewMalformedID reports a compound id that cannot be decoded for its template.
func NewMalformedID(id string, expectedTokens int) *AppError {
	return newError(CodeMalformedID, "malformed compound id", http.StatusBadRequest).
		WithDetail("id", id).
		WithDetail("expected_tokens", expectedTokens)
}

// NewInvalidCollectionPath reports a collection path template that fails to parse.
func NewInvalidCollectionPath(path, reason string) *AppError {
	return newError(CodeInvalidCollectionPath, "invalid collection path", http.StatusInternalServerError).
		WithDetail("path", path).
		WithDetail("reason", reason)
}

// NewMissingAncestorID reports a path resolution attempted without a required
// ancestor id.
func NewMissingAncestorID(label string) *AppError {
	return newError(CodeMissingAncestorID, "missing ancestor id", http.StatusBadRequest).
		WithDetail("label", label)
}

// NewValidationError reports invalid caller input.
func NewValidationError(message string) *AppError {
	return newError(CodeValidation, message, http.StatusBadRequest)
}

// NewUnauthorizedError reports missing or invalid credentials.
func NewUnauthorizedError(message string) *AppError {
	return newError(CodeUnauthorized, message, http.StatusUnauthorized)
}

// NewForbiddenError reports an authenticated caller without access.
func NewForbiddenError(message string) *AppError {
	return newError(CodeForbidden, message, http.StatusForbidden)
}

// NewConflictError reports a state conflict, e.g. a duplicate create.
func NewConflictError(message string) *AppError {
	return newError(CodeConflict, message, http.StatusConflict)
}

// NewInternalError reports an unexpected failure.
func NewInternalError(message string) *AppError {
	return newError(CodeInternal, message, http.StatusInternalServerError)
}

// Classifiers

// CodeOf returns the domain code carried by err, or "" when err carries none.
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// HTTPStatus maps err to the response status the handlers should emit.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.HTTPCode != 0 {
		return appErr.HTTPCode
	}
	return http.StatusInternalServerError
}

// IsNotFound reports whether err is a missing-document condition.
func IsNotFound(err error) bool {
	code := CodeOf(err)
	return code == CodeDocumentNotFound || code == CodeRelatedDocumentNotFound
}

// IsValidation reports whether err is caller misuse (bad input, malformed ids,
// structurally broken templates).
func IsValidation(err error) bool {
	switch CodeOf(err) {
	case CodeValidation, CodeMalformedID, CodeInvalidCollectionPath, CodeMissingAncestorID:
		return true
	}
	return false
}

// IsMaxRetriesReached reports whether err is an exhausted retry budget.
func IsMaxRetriesReached(err error) bool {
	return CodeOf(err) == CodeMaxRetriesReached
}
