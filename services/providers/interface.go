// Package providers dispatches transactions to payment service providers.
//
// Each PSP is reached through a Provider: either an HTTP endpoint speaking
// the PSP process protocol, or an in-process simulation backed by the
// failure model. The Registry maps configured PSP names to providers.
package providers

import (
	"context"
	"fmt"

	"github.com/upb/psp-router/models"
)

// Provider represents a PSP backend that settles transactions
type Provider interface {
	// Name returns the PSP name (e.g., "Axis_PSP")
	Name() string

	// Process submits a transaction and returns the PSP's verdict.
	// A returned error means the PSP could not be reached or answered with
	// something that is not a verdict; a declined payment is not an error.
	Process(ctx context.Context, txn models.Transaction) (models.ProviderResponse, error)
}

// ProviderError represents a failed dispatch to a PSP
type ProviderError struct {
	// Provider that generated the error
	Provider string

	// Code is a short machine-readable reason
	Code string

	// Message is the error message
	Message string

	// StatusCode is the HTTP status code (if applicable)
	StatusCode int

	// Cause is the underlying error
	Cause error
}

// Error codes reported in ProviderError.Code
const (
	CodeRequestError   = "REQUEST_ERROR"
	CodeHTTPError      = "HTTP_ERROR"
	CodeBadStatus      = "BAD_STATUS"
	CodeUnmarshalError = "UNMARSHAL_ERROR"
	CodeInvalidVerdict = "INVALID_VERDICT"
)

// Error implements the error interface
func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Provider, e.Message)
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap implements error unwrapping
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewProviderError creates a new provider error
func NewProviderError(provider, code, message string, statusCode int, cause error) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Cause:      cause,
	}
}
