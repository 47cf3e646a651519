package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// RETURN STATUS
// =====================================================

const (
	StatusRequested    = "REQUESTED"
	StatusApproved     = "APPROVED"
	StatusRejected     = "REJECTED"
	StatusItemReceived = "ITEM_RECEIVED"
	StatusRefunded     = "REFUNDED"
	StatusCancelled    = "CANCELLED"
)

// validTransitions encodes the legal lifecycle. CANCELLED is reserved
// for the customer and only leaves REQUESTED or APPROVED.
var validTransitions = map[string][]string{
	StatusRequested:    {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:     {StatusItemReceived, StatusCancelled},
	StatusItemReceived: {StatusRefunded},
	StatusRefunded:     {},
	StatusRejected:     {},
	StatusCancelled:    {},
}

// CanTransition reports whether a request may move from one status to
// another.
func CanTransition(from, to string) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// RequiredPriorStatus names the only status a transition to target may
// start from. Used to build state errors that tell the admin what is
// missing.
func RequiredPriorStatus(target string) string {
	switch target {
	case StatusApproved, StatusRejected:
		return StatusRequested
	case StatusItemReceived:
		return StatusApproved
	case StatusRefunded:
		return StatusItemReceived
	}
	return ""
}

// ActiveStatuses are the statuses that block a second request on the
// same order.
var ActiveStatuses = []string{StatusRequested, StatusApproved, StatusItemReceived}

// =====================================================
// ENTITIES
// =====================================================

// ReturnItem is one returned line, snapshotted into the request so
// restock and refund math survive later catalog edits.
type ReturnItem struct {
	OrderItemID uuid.UUID       `json:"order_item_id"`
	LaptopID    uuid.UUID       `json:"laptop_id"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type ReturnRequest struct {
	ID           uuid.UUID       `json:"id"`
	OrderID      uuid.UUID       `json:"order_id"`
	UserID       uuid.UUID       `json:"user_id"`
	Status       string          `json:"status"`
	Reason       string          `json:"reason"`
	Items        []ReturnItem    `json:"items"`
	RefundAmount decimal.Decimal `json:"refund_amount"`

	// Photos are minio object keys the customer attached as evidence.
	Photos []string `json:"photos,omitempty"`

	// AdminNote explains an approval or rejection to the customer.
	AdminNote *string `json:"admin_note,omitempty"`

	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	ReceivedAt  *time.Time `json:"received_at,omitempty"`
	RefundedAt  *time.Time `json:"refunded_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined for list views
	OrderNumber string `json:"order_number,omitempty"`
}

// IsActive reports whether the request still blocks a new one on the
// same order.
func (r *ReturnRequest) IsActive() bool {
	for _, s := range ActiveStatuses {
		if r.Status == s {
			return true
		}
	}
	return false
}
