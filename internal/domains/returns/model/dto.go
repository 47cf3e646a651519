package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// =====================================================
// REQUEST DTOs
// =====================================================

type ReturnItemRequest struct {
	OrderItemID string `json:"order_item_id"`
	Quantity    int    `json:"quantity"`
}

func (r ReturnItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OrderItemID, validation.Required, is.UUID),
		validation.Field(&r.Quantity, validation.Required, validation.Min(1)),
	)
}

type CreateReturnRequest struct {
	OrderID string              `json:"order_id"`
	Reason  string              `json:"reason"`
	Items   []ReturnItemRequest `json:"items"`
	Photos  []string            `json:"photos"`
}

func (r CreateReturnRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OrderID, validation.Required, is.UUID),
		validation.Field(&r.Reason, validation.Required, validation.Length(3, 500)),
		validation.Field(&r.Items, validation.Required, validation.Length(1, 50)),
		validation.Field(&r.Photos, validation.Length(0, 5)),
	)
}

// AdminActionRequest carries an optional note on approve/reject.
type AdminActionRequest struct {
	Note string `json:"note"`
}

func (r AdminActionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Note, validation.Length(0, 500)),
	)
}

// =====================================================
// RESPONSE DTOs
// =====================================================

type ReturnItemResponse struct {
	OrderItemID string `json:"order_item_id"`
	LaptopID    string `json:"laptop_id"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
}

type ReturnResponse struct {
	ID           string               `json:"id"`
	OrderID      string               `json:"order_id"`
	OrderNumber  string               `json:"order_number,omitempty"`
	Status       string               `json:"status"`
	Reason       string               `json:"reason"`
	Items        []ReturnItemResponse `json:"items"`
	RefundAmount string               `json:"refund_amount"`
	Photos       []string             `json:"photos,omitempty"`
	AdminNote    *string              `json:"admin_note,omitempty"`
	ProcessedAt  *time.Time           `json:"processed_at,omitempty"`
	ReceivedAt   *time.Time           `json:"received_at,omitempty"`
	RefundedAt   *time.Time           `json:"refunded_at,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

func (r *ReturnRequest) ToResponse() ReturnResponse {
	items := make([]ReturnItemResponse, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, ReturnItemResponse{
			OrderItemID: item.OrderItemID.String(),
			LaptopID:    item.LaptopID.String(),
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.StringFixed(2),
		})
	}

	return ReturnResponse{
		ID:           r.ID.String(),
		OrderID:      r.OrderID.String(),
		OrderNumber:  r.OrderNumber,
		Status:       r.Status,
		Reason:       r.Reason,
		Items:        items,
		RefundAmount: r.RefundAmount.StringFixed(2),
		Photos:       r.Photos,
		AdminNote:    r.AdminNote,
		ProcessedAt:  r.ProcessedAt,
		ReceivedAt:   r.ReceivedAt,
		RefundedAt:   r.RefundedAt,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
