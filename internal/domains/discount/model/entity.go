package model

import (
	"time"

	"github.com/google/uuid"
)

// DiscountCode represents a percentage discount code.
// A code only applies while Active and inside its validity window.
type DiscountCode struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Code      string     `json:"code" db:"code"`
	Percent   int        `json:"percent" db:"percent"`
	Active    bool       `json:"active" db:"active"`
	StartsAt  *time.Time `json:"starts_at,omitempty" db:"starts_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" db:"expires_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// IsUsable reports whether the code applies at the given instant
func (d *DiscountCode) IsUsable(now time.Time) bool {
	if !d.Active {
		return false
	}
	if d.StartsAt != nil && now.Before(*d.StartsAt) {
		return false
	}
	if d.ExpiresAt != nil && now.After(*d.ExpiresAt) {
		return false
	}
	return true
}
