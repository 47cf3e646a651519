package vnpay

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"laptopshop-backend/internal/domains/payment/gateway"
)

// =====================================================
// VNPAY CLIENT
// =====================================================

type Client struct {
	config *Config
	now    func() time.Time
}

func NewClient(config *Config) (gateway.Gateway, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid VNPay config: %w", err)
	}

	return &Client{
		config: config,
		now:    time.Now,
	}, nil
}

// CreatePaymentURL builds the hosted checkout URL for one order.
func (c *Client) CreatePaymentURL(ctx context.Context, req gateway.PaymentRequest) (string, error) {
	if req.TxnRef == "" {
		return "", fmt.Errorf("txn_ref is required")
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return "", fmt.Errorf("amount must be positive")
	}

	clientIP := req.ClientIP
	if clientIP == "" || clientIP == "::1" {
		// VNPay requires an IPv4 address
		clientIP = "127.0.0.1"
	}

	now := c.now()
	params := map[string]string{
		"vnp_Version":    c.config.Version,
		"vnp_Command":    c.config.Command,
		"vnp_TmnCode":    c.config.TmnCode,
		"vnp_Amount":     c.formatAmount(req.Amount),
		"vnp_CurrCode":   c.config.CurrCode,
		"vnp_TxnRef":     req.TxnRef,
		"vnp_OrderInfo":  req.OrderInfo,
		"vnp_OrderType":  "other",
		"vnp_Locale":     c.config.Locale,
		"vnp_ReturnUrl":  c.config.ReturnURL,
		"vnp_IpAddr":     clientIP,
		"vnp_CreateDate": now.Format("20060102150405"),
		"vnp_ExpireDate": now.Add(30 * time.Minute).Format("20060102150405"),
	}
	if c.config.IPNURL != "" {
		params["vnp_IpnUrl"] = c.config.IPNURL
	}

	return BuildPaymentURL(c.config.GetPaymentURL(), params, c.config.HashSecret), nil
}

// VerifyCallback checks the signature on return/IPN parameters.
func (c *Client) VerifyCallback(params map[string]string) bool {
	return VerifySignature(params, c.config.HashSecret)
}

func (c *Client) GetReturnURL() string {
	return c.config.ReturnURL
}

// formatAmount formats an amount for VNPay: VND has no decimal part and
// VNPay expects the integer amount multiplied by 100.
// Example: 100,000 VND -> "10000000".
func (c *Client) formatAmount(amount decimal.Decimal) string {
	return amount.Round(0).Mul(decimal.NewFromInt(100)).StringFixed(0)
}

// ParseAmount parses a VNPay amount string back to a decimal.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	amountInt, err := strconv.ParseInt(amountStr, 10, 64)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount: %w", err)
	}
	return decimal.NewFromInt(amountInt).Div(decimal.NewFromInt(100)), nil
}
