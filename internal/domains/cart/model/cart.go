package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Carts live in Redis keyed by user and expire after this TTL
const CartTTL = 7 * 24 * time.Hour

var (
	ErrCartEmpty       = errors.New("cart is empty")
	ErrItemNotInCart   = errors.New("item is not in the cart")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// CartItem is what gets stored in Redis: just the reference and quantity.
// Product details are resolved live on read so price and stock are current.
type CartItem struct {
	LaptopID uuid.UUID `json:"laptop_id"`
	Quantity int       `json:"quantity"`
}

// Cart is the stored representation
type Cart struct {
	UserID    uuid.UUID  `json:"user_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// FindItem returns the index of the laptop in the cart, or -1
func (c *Cart) FindItem(laptopID uuid.UUID) int {
	for i, item := range c.Items {
		if item.LaptopID == laptopID {
			return i
		}
	}
	return -1
}

// =====================================================
// REQUEST / RESPONSE DTOs
// =====================================================

type AddItemRequest struct {
	LaptopID string `json:"laptop_id"`
	Quantity int    `json:"quantity"`
}

func (r AddItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.LaptopID, validation.Required),
		validation.Field(&r.Quantity, validation.Required, validation.Min(1)),
	)
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (r UpdateItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Quantity, validation.Required, validation.Min(1)),
	)
}

// CartItemView is a cart line joined with live product data
type CartItemView struct {
	LaptopID     uuid.UUID       `json:"laptop_id"`
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	LineTotal    decimal.Decimal `json:"line_total"`
	InStock      bool            `json:"in_stock"`
	AvailableQty int             `json:"available_qty"`
}

type CartView struct {
	Items    []CartItemView  `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}
