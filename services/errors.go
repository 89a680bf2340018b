package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeExternal   ErrorType = "external"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches another DomainError of the same type and message, so wrapped
// instances still satisfy errors.Is against the sentinels below.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// Domain error variables

var (
	// ErrInvalidTransaction is returned when an inbound transaction cannot be routed
	ErrInvalidTransaction = NewDomainError(ErrorTypeValidation, "invalid transaction", nil)

	// ErrScorerUnavailable marks a failed risk scorer call. It never reaches
	// callers of the router; the scorer substitutes a default score instead.
	ErrScorerUnavailable = NewDomainError(ErrorTypeExternal, "risk scorer unavailable", nil)

	// ErrProviderUnavailable marks a failed PSP dispatch. It is reported inside
	// the routing result rather than failing the request.
	ErrProviderUnavailable = NewDomainError(ErrorTypeExternal, "psp unavailable", nil)

	// ErrUnknownProvider is returned when no endpoint is configured for a PSP name
	ErrUnknownProvider = NewDomainError(ErrorTypeExternal, "psp not configured", nil)
)

// Error type checking helper functions

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return GetErrorType(err) == ErrorTypeValidation
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorDetails returns the details map of a domain error, or nil if not a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// Wrap returns a new error of the same kind as sentinel carrying cause.
// errors.Is(Wrap(s, c), s) and errors.Is(Wrap(s, c), c) both hold.
func Wrap(sentinel *DomainError, cause error) *DomainError {
	return NewDomainError(sentinel.Type, sentinel.Message, cause)
}
