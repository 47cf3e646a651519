package gateway

import (
	"context"

	"github.com/shopspring/decimal"
)

// =====================================================
// GATEWAY INTERFACE
// =====================================================

// Gateway abstracts the hosted payment provider. VNPay is the only
// implementation today.
type Gateway interface {
	// CreatePaymentURL generates the hosted checkout URL
	CreatePaymentURL(ctx context.Context, req PaymentRequest) (string, error)

	// VerifyCallback verifies the signature on a gateway callback
	VerifyCallback(params map[string]string) bool

	// GetReturnURL gets the frontend return URL
	GetReturnURL() string
}

// PaymentRequest describes one hosted checkout session.
type PaymentRequest struct {
	TxnRef    string          // Order number, echoed back in callbacks
	Amount    decimal.Decimal // Order total
	OrderInfo string          // Description shown on the gateway page
	ClientIP  string          // Buyer IP, required by VNPay fraud checks
}
