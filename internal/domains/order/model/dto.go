package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// =====================================================
// REQUEST DTOs
// =====================================================

type CheckoutRequest struct {
	ReceiverName  string  `json:"receiver_name"`
	ReceiverPhone string  `json:"receiver_phone"`
	ShippingAddr  string  `json:"shipping_address"`
	PaymentMethod string  `json:"payment_method"`
	DiscountCode  string  `json:"discount_code"`
	CustomerNote  *string `json:"customer_note"`
}

func (r CheckoutRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ReceiverName, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.ReceiverPhone, validation.Required, validation.Length(8, 15)),
		validation.Field(&r.ShippingAddr, validation.Required, validation.Length(5, 500)),
		validation.Field(&r.PaymentMethod, validation.Required,
			validation.In(PaymentMethodCOD, PaymentMethodVNPay)),
	)
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (r UpdateStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required,
			validation.In(OrderStatusConfirmed, OrderStatusShipped,
				OrderStatusDelivered, OrderStatusCanceled)),
	)
}

// ListOrdersQuery filters the admin order list
type ListOrdersQuery struct {
	Status string
	Page   int
	Limit  int
}

// =====================================================
// RESPONSE DTOs
// =====================================================

type OrderItemResponse struct {
	LaptopID   uuid.UUID `json:"laptop_id"`
	LaptopName string    `json:"laptop_name"`
	LaptopSlug string    `json:"laptop_slug"`
	Quantity   int       `json:"quantity"`
	Price      string    `json:"price"`
	Subtotal   string    `json:"subtotal"`
}

type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	ReceiverName    string              `json:"receiver_name"`
	ReceiverPhone   string              `json:"receiver_phone"`
	ShippingAddr    string              `json:"shipping_address"`
	DiscountCode    *string             `json:"discount_code,omitempty"`
	DiscountPercent *int                `json:"discount_percent,omitempty"`
	Subtotal        string              `json:"subtotal"`
	DiscountAmount  string              `json:"discount_amount"`
	Total           string              `json:"total"`
	PaymentMethod   string              `json:"payment_method"`
	PaymentStatus   string              `json:"payment_status"`
	Status          string              `json:"status"`
	CancelReason    *string             `json:"cancel_reason,omitempty"`
	CanceledBy      *string             `json:"canceled_by,omitempty"`
	DeliveredAt     *time.Time          `json:"delivered_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	Items           []OrderItemResponse `json:"items,omitempty"`
}

// ToResponse converts entity to response DTO
func (o *Order) ToResponse() OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			LaptopID:   it.LaptopID,
			LaptopName: it.LaptopName,
			LaptopSlug: it.LaptopSlug,
			Quantity:   it.Quantity,
			Price:      it.Price.StringFixed(2),
			Subtotal:   it.Subtotal.StringFixed(2),
		})
	}

	return OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		ReceiverName:    o.ReceiverName,
		ReceiverPhone:   o.ReceiverPhone,
		ShippingAddr:    o.ShippingAddr,
		DiscountCode:    o.DiscountCode,
		DiscountPercent: o.DiscountPercent,
		Subtotal:        o.Subtotal.StringFixed(2),
		DiscountAmount:  o.DiscountAmount.StringFixed(2),
		Total:           o.Total.StringFixed(2),
		PaymentMethod:   o.PaymentMethod,
		PaymentStatus:   o.PaymentStatus,
		Status:          o.Status,
		CancelReason:    o.CancelReason,
		CanceledBy:      o.CanceledBy,
		DeliveredAt:     o.DeliveredAt,
		CreatedAt:       o.CreatedAt,
		Items:           items,
	}
}

// CheckoutResponse carries the created order plus the VNPay redirect when
// the order was placed with online payment.
type CheckoutResponse struct {
	Order      OrderResponse `json:"order"`
	PaymentURL *string       `json:"payment_url,omitempty"`
}
