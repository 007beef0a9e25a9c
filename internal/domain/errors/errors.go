// Package errors provides domain-specific error types.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for domain errors.
const (
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeConnection         = "CONNECTION_ERROR"
	ErrCodeAuth               = "AUTH_ERROR"
	ErrCodeDecode             = "DECODE_ERROR"
	ErrCodeEncode             = "ENCODE_ERROR"
	ErrCodeUnsupportedDriver  = "UNSUPPORTED_DRIVER"
)

// DomainError represents a domain-specific error.
type DomainError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new not found error.
func NewNotFoundError(resource, identifier string) *DomainError {
	return &DomainError{
		Code:       ErrCodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		Details:    identifier,
		HTTPStatus: http.StatusNotFound,
	}
}

// NewValidationError creates a new validation error.
func NewValidationError(message string, details string) *DomainError {
	return &DomainError{
		Code:       ErrCodeValidation,
		Message:    message,
		Details:    details,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, err error) *DomainError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &DomainError{
		Code:       ErrCodeInternal,
		Message:    message,
		Details:    details,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewBadRequestError creates a new bad request error.
func NewBadRequestError(message string, details string) *DomainError {
	return &DomainError{
		Code:       ErrCodeBadRequest,
		Message:    message,
		Details:    details,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewServiceUnavailableError creates a new service unavailable error.
func NewServiceUnavailableError(service string, err error) *DomainError {
	return &DomainError{
		Code:       ErrCodeServiceUnavailable,
		Message:    fmt.Sprintf("%s is unavailable", service),
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

// NewConnectionError creates an error for a failed connect to addr.
// Details carry the transport message.
func NewConnectionError(addr string, err error) *DomainError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &DomainError{
		Code:       ErrCodeConnection,
		Message:    fmt.Sprintf("failed to connect to %s", addr),
		Details:    details,
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

// NewAuthError creates an error for a rejected credential.
func NewAuthError(err error) *DomainError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &DomainError{
		Code:       ErrCodeAuth,
		Message:    "connection auth failed",
		Details:    details,
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewDecodeError creates an error for a stored value that is not valid JSON.
func NewDecodeError(key string, err error) *DomainError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &DomainError{
		Code:       ErrCodeDecode,
		Message:    fmt.Sprintf("json decode of key %s failed", key),
		Details:    details,
		HTTPStatus: http.StatusUnprocessableEntity,
		Err:        err,
	}
}

// NewEncodeError creates an error for a value that cannot be encoded as JSON.
func NewEncodeError(key string, err error) *DomainError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &DomainError{
		Code:       ErrCodeEncode,
		Message:    fmt.Sprintf("json encode of key %s failed", key),
		Details:    details,
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
	}
}

// NewUnsupportedDriverError creates an error for a cache type with no driver.
func NewUnsupportedDriverError(driver string) *DomainError {
	return &DomainError{
		Code:       ErrCodeUnsupportedDriver,
		Message:    "cache driver missing",
		Details:    driver,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// IsDomainError checks if the error is a domain error.
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error.
func GetDomainError(err error) (*DomainError, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}

func hasCode(err error, code string) bool {
	domainErr, ok := GetDomainError(err)
	return ok && domainErr.Code == code
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

// IsValidationError checks if the error is a validation error.
func IsValidationError(err error) bool {
	return hasCode(err, ErrCodeValidation)
}

// IsConnectionError checks if the error is a connection error.
func IsConnectionError(err error) bool {
	return hasCode(err, ErrCodeConnection)
}

// IsAuthError checks if the error is an auth error.
func IsAuthError(err error) bool {
	return hasCode(err, ErrCodeAuth)
}

// IsDecodeError checks if the error is a JSON decode error.
func IsDecodeError(err error) bool {
	return hasCode(err, ErrCodeDecode)
}

// IsEncodeError checks if the error is a JSON encode error.
func IsEncodeError(err error) bool {
	return hasCode(err, ErrCodeEncode)
}
