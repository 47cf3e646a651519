package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type CreateDiscountRequest struct {
	Code      string     `json:"code"`
	Percent   int        `json:"percent"`
	Active    *bool      `json:"active"`
	StartsAt  *time.Time `json:"starts_at"`
	ExpiresAt *time.Time `json:"expires_at"`
}

func (r CreateDiscountRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required, validation.Length(2, 50)),
		validation.Field(&r.Percent, validation.Required, validation.Min(1), validation.Max(100)),
	)
}

type UpdateDiscountRequest struct {
	Percent   *int       `json:"percent"`
	Active    *bool      `json:"active"`
	StartsAt  *time.Time `json:"starts_at"`
	ExpiresAt *time.Time `json:"expires_at"`
}

func (r UpdateDiscountRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Percent, validation.Min(1), validation.Max(100)),
	)
}

type CheckDiscountResponse struct {
	Code    string `json:"code"`
	Valid   bool   `json:"valid"`
	Percent *int   `json:"percent,omitempty"`
}
