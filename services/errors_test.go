package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDomainError(t *testing.T) {
	baseErr := errors.New("base error")
	domainErr := NewDomainError(ErrorTypeExternal, "psp unavailable", baseErr)

	assert.Equal(t, ErrorTypeExternal, domainErr.Type)
	assert.Equal(t, "psp unavailable", domainErr.Message)
	assert.Equal(t, baseErr, domainErr.Err)
	assert.NotNil(t, domainErr.Details)
}

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *DomainError
		wantMsg string
	}{
		{
			name: "error with wrapped error",
			err: &DomainError{
				Type:    ErrorTypeExternal,
				Message: "psp unavailable",
				Err:     errors.New("connection refused"),
			},
			wantMsg: "psp unavailable: connection refused",
		},
		{
			name: "error without wrapped error",
			err: &DomainError{
				Type:    ErrorTypeValidation,
				Message: "invalid transaction",
			},
			wantMsg: "invalid transaction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())
		})
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	baseErr := errors.New("base error")
	domainErr := NewDomainError(ErrorTypeExternal, "risk scorer unavailable", baseErr)

	assert.Equal(t, baseErr, errors.Unwrap(domainErr))
}

func TestWrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := fmt.Errorf("dispatch: %w", Wrap(ErrProviderUnavailable, cause))

	assert.True(t, errors.Is(err, ErrProviderUnavailable))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrScorerUnavailable))
	assert.Equal(t, ErrorTypeExternal, GetErrorType(err))

	nested := Wrap(ErrProviderUnavailable, Wrap(ErrUnknownProvider, errors.New("Kotak_PSP")))
	assert.True(t, errors.Is(nested, ErrProviderUnavailable))
	assert.True(t, errors.Is(nested, ErrUnknownProvider))
	assert.Equal(t, "psp unavailable: psp not configured: Kotak_PSP", nested.Error())
}

func TestDomainError_WithDetail(t *testing.T) {
	err := NewDomainError(ErrorTypeValidation, "invalid transaction", nil).
		WithDetail("amount", "amount must be greater than or equal to 0")

	assert.Equal(t, "amount must be greater than or equal to 0", err.Details["amount"])
	assert.Equal(t, err.Details, GetErrorDetails(fmt.Errorf("wrapped: %w", err)))
	assert.Nil(t, GetErrorDetails(errors.New("plain")))
}

func TestErrorTypeHelpers(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		validation bool
		errType    ErrorType
	}{
		{"invalid transaction", ErrInvalidTransaction, true, ErrorTypeValidation},
		{"wrapped invalid transaction", Wrap(ErrInvalidTransaction, errors.New("unexpected EOF")), true, ErrorTypeValidation},
		{"scorer unavailable", ErrScorerUnavailable, false, ErrorTypeExternal},
		{"provider unavailable", ErrProviderUnavailable, false, ErrorTypeExternal},
		{"unknown provider", Wrap(ErrUnknownProvider, errors.New("Kotak_PSP")), false, ErrorTypeExternal},
		{"plain error", errors.New("plain"), false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.validation, IsValidationError(tt.err))
			assert.Equal(t, tt.errType, GetErrorType(tt.err))
		})
	}
}
