package model

import "errors"

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeOrderNotFound        = "ORD001"
	ErrCodeOrderCannotCancel    = "ORD002"
	ErrCodeInsufficientStock    = "ORD003"
	ErrCodeCartEmpty            = "ORD004"
	ErrCodeInvalidPaymentMethod = "ORD005"
	ErrCodeUnauthorized         = "ORD006"
	ErrCodeInvalidStatus        = "ORD007"
	ErrCodeInvalidTransition    = "ORD008"
	ErrCodeItemUnavailable      = "ORD009"
	ErrCodeOrderNotDeletable    = "ORD010"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderCannotCancel    = errors.New("order cannot be cancelled")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrCartEmpty            = errors.New("cart is empty")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrUnauthorized         = errors.New("unauthorized access")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrInvalidTransition    = errors.New("illegal order status transition")
	ErrItemUnavailable      = errors.New("item is no longer available")
	ErrOrderNotDeletable    = errors.New("order cannot be deleted")
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type OrderError struct {
	Code    string
	Message string
	Err     error
}

func (e *OrderError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *OrderError) Unwrap() error {
	return e.Err
}

// NewOrderError creates a new OrderError
func NewOrderError(code, message string, err error) *OrderError {
	return &OrderError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
