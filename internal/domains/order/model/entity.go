package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// ORDER STATUS CONSTANTS
// =====================================================
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCanceled  = "canceled"
)

// =====================================================
// PAYMENT METHOD CONSTANTS
// =====================================================
const (
	PaymentMethodCOD   = "cod"
	PaymentMethodVNPay = "vnpay"
)

// =====================================================
// PAYMENT STATUS CONSTANTS
// =====================================================
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// =====================================================
// CANCEL ACTORS
// =====================================================
const (
	CancelActorCustomer = "CUSTOMER"
	CancelActorAdmin    = "ADMIN"
	CancelActorSystem   = "SYSTEM"

	DefaultCancelReason = "Khách hàng hủy đơn"
)

// validTransitions lists the admin-driven status moves
var validTransitions = map[string][]string{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCanceled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCanceled},
	OrderStatusShipped:   {OrderStatusDelivered},
	OrderStatusDelivered: {},
	OrderStatusCanceled:  {},
}

// CanTransition reports whether from -> to is a legal status move
func CanTransition(from, to string) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// =====================================================
// ENTITY: Order
// =====================================================
type Order struct {
	ID          uuid.UUID `json:"id"`
	OrderNumber string    `json:"order_number"`
	UserID      uuid.UUID `json:"user_id"`

	// Shipping snapshot taken at checkout
	ReceiverName  string `json:"receiver_name"`
	ReceiverPhone string `json:"receiver_phone"`
	ShippingAddr  string `json:"shipping_address"`

	// Discount snapshot
	DiscountCode    *string `json:"discount_code,omitempty"`
	DiscountPercent *int    `json:"discount_percent,omitempty"`

	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`

	PaymentMethod string     `json:"payment_method"`
	PaymentStatus string     `json:"payment_status"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`

	Status       string     `json:"status"`
	CancelReason *string    `json:"cancel_reason,omitempty"`
	CanceledBy   *string    `json:"canceled_by,omitempty"`
	CanceledAt   *time.Time `json:"canceled_at,omitempty"`
	DeliveredAt  *time.Time `json:"delivered_at,omitempty"`

	CustomerNote *string `json:"customer_note,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []OrderItem `json:"items,omitempty"`
}

// CanBeCancelled checks if order can be cancelled.
// Only pending/confirmed orders are cancellable.
func (o *Order) CanBeCancelled() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusConfirmed
}

// IsCanceled reports whether the order already reached the canceled state
func (o *Order) IsCanceled() bool {
	return o.Status == OrderStatusCanceled
}

// IsCOD checks if order is cash on delivery
func (o *Order) IsCOD() bool {
	return o.PaymentMethod == PaymentMethodCOD
}

// RequiresOnlinePayment checks if order requires online payment
func (o *Order) RequiresOnlinePayment() bool {
	return o.PaymentMethod == PaymentMethodVNPay
}

// IsPaymentCompleted checks if payment is completed
func (o *Order) IsPaymentCompleted() bool {
	return o.PaymentStatus == PaymentStatusPaid
}

// =====================================================
// ENTITY: OrderItem
// =====================================================
type OrderItem struct {
	ID         uuid.UUID       `json:"id"`
	OrderID    uuid.UUID       `json:"order_id"`
	LaptopID   uuid.UUID       `json:"laptop_id"`
	LaptopName string          `json:"laptop_name"`
	LaptopSlug string          `json:"laptop_slug"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	CreatedAt  time.Time       `json:"created_at"`
}

// CalculateSubtotal calculates item subtotal
func (oi *OrderItem) CalculateSubtotal() decimal.Decimal {
	return oi.Price.Mul(decimal.NewFromInt(int64(oi.Quantity)))
}
