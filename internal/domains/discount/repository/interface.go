package repository

import (
	"context"

	"laptopshop-backend/internal/domains/discount/model"

	"github.com/google/uuid"
)

type DiscountRepository interface {
	Create(ctx context.Context, discount *model.DiscountCode) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.DiscountCode, error)
	// GetByCode matches codes case-insensitively
	GetByCode(ctx context.Context, code string) (*model.DiscountCode, error)
	List(ctx context.Context) ([]model.DiscountCode, error)
	Update(ctx context.Context, discount *model.DiscountCode) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeactivateExpired flips Active off for codes past their expiry,
	// returning how many rows changed.
	DeactivateExpired(ctx context.Context) (int64, error)
}
