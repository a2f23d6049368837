package errors

import (
	"fmt"
)

// ErrorCategory represents the category of error for handling
type ErrorCategory string

const (
	CategoryApproved       ErrorCategory = "approved"
	CategoryDeclined       ErrorCategory = "declined"
	CategoryInvalidCard    ErrorCategory = "invalid_card"
	CategoryFraud          ErrorCategory = "fraud"
	CategorySystemError    ErrorCategory = "system_error"
	CategoryNetworkError   ErrorCategory = "network_error"
	CategoryInvalidRequest ErrorCategory = "invalid_request"
)

// PaymentError represents a payment processing error with detailed context
type PaymentError struct {
	Code           string
	Message        string
	GatewayMessage string
	Category       ErrorCategory
}

func (e *PaymentError) Error() string {
	if e.GatewayMessage != "" {
		return fmt.Sprintf("%s: %s (gateway: %s)", e.Code, e.Message, e.GatewayMessage)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewPaymentError creates a new payment error
func NewPaymentError(code, message string, category ErrorCategory) *PaymentError {
	return &PaymentError{
		Code:     code,
		Message:  message,
		Category: category,
	}
}

// ValidationError represents input validation errors.
// It always fails before any network call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// MissingContinuousAuthorityError indicates that a continuous-authority
// transaction was requested with an authorization whose continuous-authority
// segment is empty. Raised before any network call.
type MissingContinuousAuthorityError struct {
	Authorization string
}

func (e *MissingContinuousAuthorityError) Error() string {
	return fmt.Sprintf("authorization %q carries no continuous authority reference", e.Authorization)
}

// NewMissingContinuousAuthorityError creates a new continuous-authority error
func NewMissingContinuousAuthorityError(authorization string) *MissingContinuousAuthorityError {
	return &MissingContinuousAuthorityError{Authorization: authorization}
}

// MalformedResponseError indicates a processor reply that could not be decoded
// as the expected wire format. Adapters convert it into a synthetic failure
// Result rather than returning it, so the raw body stays available for
// diagnostics.
type MalformedResponseError struct {
	RawBody string
	Cause   error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed processor response: %v", e.Cause)
	}
	return "malformed processor response"
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// NewMalformedResponseError creates a new malformed-response error
func NewMalformedResponseError(rawBody string, cause error) *MalformedResponseError {
	return &MalformedResponseError{RawBody: rawBody, Cause: cause}
}
