package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Error kinds surfaced at the HTTP boundary. Unauthorized and Forbidden match
// the wire contract exactly: 401/403 responses carry the kind verbatim in the
// "error" field.
const (
	KindValidation   = "ValidationFailed"
	KindNotFound     = "NotFound"
	KindUnauthorized = "Unauthorized"
	KindForbidden    = "Forbidden"
	KindConflict     = "Conflict"
	KindRateLimited  = "TooManyRequests"
	KindInternal     = "InternalError"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(KindValidation, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	return NewDomainError(KindNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound, details)
}

func NewUnauthorized(message string) error {
	return NewDomainError(KindUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(KindForbidden, message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(KindConflict, message, http.StatusConflict, details)
}

func NewRateLimited(message string) error {
	return NewDomainError(KindRateLimited, message, http.StatusTooManyRequests, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       KindInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError. Unknown errors map to
// an internal error so their detail never reaches a response body.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NewNotFound("resource", nil).(*DomainError)
	}
	return NewInternalError(err).(*DomainError)
}

// MapError converts generic errors to the boundary error type.
func MapError(err error) error {
	return ToDomainError(err)
}
