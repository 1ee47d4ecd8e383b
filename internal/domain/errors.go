package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business logic error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeConfigurationIncomplete = "CONFIGURATION_INCOMPLETE"
	ErrCodeAuthenticityFailure     = "AUTHENTICITY_FAILURE"
	ErrCodeTransportFailure        = "TRANSPORT_FAILURE"
	ErrCodeValidationFailure       = "VALIDATION_FAILURE"
	ErrCodePersistenceFailure      = "PERSISTENCE_FAILURE"
	ErrCodeSettlementPending       = "SETTLEMENT_PENDING"
	ErrCodeAmountBelowMinimum      = "AMOUNT_BELOW_MINIMUM"
	ErrCodeUnknownTier             = "UNKNOWN_TIER"
)

func NewConfigurationIncompleteError(missing string) *DomainError {
	return &DomainError{
		Code:    ErrCodeConfigurationIncomplete,
		Message: fmt.Sprintf("provider settings are incomplete: %s is not set", missing),
	}
}

func NewAuthenticityFailureError(sourceIP string) *DomainError {
	return &DomainError{
		Code:    ErrCodeAuthenticityFailure,
		Message: fmt.Sprintf("notification source %s is not the provider", sourceIP),
	}
}

func NewTransportFailureError(operation string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeTransportFailure,
		Message: fmt.Sprintf("%s failed", operation),
		Err:     err,
	}
}

func NewValidationFailureError(messages []string) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidationFailure,
		Message: fmt.Sprintf("accounting record rejected: %v", messages),
	}
}

func NewPersistenceFailureError(operation string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodePersistenceFailure,
		Message: fmt.Sprintf("%s failed", operation),
		Err:     err,
	}
}

func NewSettlementPendingError(cashOutState string) *DomainError {
	return &DomainError{
		Code:    ErrCodeSettlementPending,
		Message: fmt.Sprintf("funds not yet transferred, cash-out state is %q", cashOutState),
	}
}

func NewAmountBelowMinimumError(amountCents, minimumCents int64) *DomainError {
	return &DomainError{
		Code:    ErrCodeAmountBelowMinimum,
		Message: fmt.Sprintf("amount %d is lower than the tier minimum %d", amountCents, minimumCents),
	}
}

func NewUnknownTierError(id int) *DomainError {
	return &DomainError{
		Code:    ErrCodeUnknownTier,
		Message: fmt.Sprintf("pricing tier %d does not exist or is not payable", id),
	}
}

// IsErrorCode checks if an error is a DomainError with a specific code
func IsErrorCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
