package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases.
// Use errors.Is() to check against these.
var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrBackend             = errors.New("commerce backend error")
	ErrGateway             = errors.New("payment gateway error")
	ErrGatewayCapability   = errors.New("gateway capability unsupported")
	ErrNeedsReconciliation = errors.New("manual reconciliation required")
)

// APIError represents a structured error for API responses.
// Implements error interface and supports unwrapping.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"` // HTTP status, not serialized
	Err        error  `json:"-"` // Wrapped error, not serialized
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a 400 error for a missing or invalid
// user-supplied field. Validation failures never reach the network.
func NewValidationError(field, reason string) *APIError {
	return &APIError{
		Code:       "VALIDATION_ERROR",
		Message:    fmt.Sprintf("invalid %s: %s", field, reason),
		StatusCode: 400,
		Err:        ErrInvalidRequest,
	}
}

// NewUnsupportedCurrencyError creates a fatal configuration error for a
// settlement currency missing from the gateway exponent table. There is no
// silent fallback: the order response aborts.
func NewUnsupportedCurrencyError(currency string) *APIError {
	return &APIError{
		Code:       "UNSUPPORTED_CURRENCY",
		Message:    fmt.Sprintf("currency %s is not supported by the payment gateway", currency),
		StatusCode: 500,
		Err:        fmt.Errorf("%w: %s", ErrUnsupportedCurrency, currency),
	}
}

// NewBackendError creates a 500-class error for a commerce backend
// non-success response. The backend order may already exist at this point;
// there is no compensating rollback.
func NewBackendError(op string, err error) *APIError {
	return &APIError{
		Code:       "BACKEND_ERROR",
		Message:    fmt.Sprintf("commerce backend %s failed", op),
		StatusCode: 500,
		Err:        fmt.Errorf("%w: %v", ErrBackend, err),
	}
}

// NewGatewayError creates a 502 error for a payment gateway failure.
func NewGatewayError(op string, err error) *APIError {
	return &APIError{
		Code:       "GATEWAY_ERROR",
		Message:    fmt.Sprintf("payment gateway %s failed", op),
		StatusCode: 502,
		Err:        fmt.Errorf("%w: %v", ErrGateway, err),
	}
}

// NewCapabilityError reports a client runtime too old for the invoice flow.
// Reported once, never retried.
func NewCapabilityError(required string) *APIError {
	return &APIError{
		Code:       "UPGRADE_REQUIRED",
		Message:    fmt.Sprintf("telegram payment requires app version %s or higher", required),
		StatusCode: 426,
		Err:        ErrGatewayCapability,
	}
}

// NewInternalError creates a 500 error for unexpected failures.
func NewInternalError(err error) *APIError {
	return &APIError{
		Code:       "INTERNAL_ERROR",
		Message:    "an internal error occurred",
		StatusCode: 500,
		Err:        err,
	}
}

// ReconciliationError is raised when the gateway confirmed a payment but the
// backend mark-paid call failed. The money moved; the order row did not.
// It carries every identifier a human operator needs to reconcile by hand.
// This path is terminal: no automatic retry.
type ReconciliationError struct {
	OrderID          int
	TelegramChargeID string
	ProviderChargeID string
	Err              error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("payment received but order %d not marked paid (telegram charge %s, provider charge %s): %v",
		e.OrderID, e.TelegramChargeID, e.ProviderChargeID, e.Err)
}

func (e *ReconciliationError) Unwrap() error {
	return ErrNeedsReconciliation
}

// UserMessage renders the support-contact text shown in chat, embedding the
// correlation identifiers for manual reconciliation.
func (e *ReconciliationError) UserMessage() string {
	return fmt.Sprintf("Error registering payment, contact support!\norderId: %d\n%s\n%s",
		e.OrderID, e.TelegramChargeID, e.ProviderChargeID)
}
