package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"laptopshop-backend/internal/domains/discount/model"
	"laptopshop-backend/internal/domains/discount/repository"
	"laptopshop-backend/pkg/logger"

	"github.com/google/uuid"
)

type DiscountService struct {
	discounts repository.DiscountRepository
	now       func() time.Time
}

func NewDiscountService(discounts repository.DiscountRepository) *DiscountService {
	return &DiscountService{discounts: discounts, now: time.Now}
}

// GetDiscountPercent resolves a code to its percentage.
// Returns nil (no error) when the code is blank, unknown, inactive or
// outside its validity window. Checkout treats nil as "no discount".
func (s *DiscountService) GetDiscountPercent(ctx context.Context, code string) (*int, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}

	discount, err := s.discounts.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, model.ErrDiscountNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if !discount.IsUsable(s.now()) {
		return nil, nil
	}

	percent := discount.Percent
	return &percent, nil
}

// Check is the public lookup used by the storefront before checkout
func (s *DiscountService) Check(ctx context.Context, code string) (*model.CheckDiscountResponse, error) {
	percent, err := s.GetDiscountPercent(ctx, code)
	if err != nil {
		return nil, err
	}
	return &model.CheckDiscountResponse{
		Code:    strings.TrimSpace(code),
		Valid:   percent != nil,
		Percent: percent,
	}, nil
}

func (s *DiscountService) Create(ctx context.Context, req model.CreateDiscountRequest) (*model.DiscountCode, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	discount := &model.DiscountCode{
		ID:        uuid.New(),
		Code:      strings.ToUpper(strings.TrimSpace(req.Code)),
		Percent:   req.Percent,
		Active:    active,
		StartsAt:  req.StartsAt,
		ExpiresAt: req.ExpiresAt,
	}

	if err := s.discounts.Create(ctx, discount); err != nil {
		return nil, err
	}
	return discount, nil
}

func (s *DiscountService) Update(ctx context.Context, id uuid.UUID, req model.UpdateDiscountRequest) (*model.DiscountCode, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	discount, err := s.discounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Percent != nil {
		discount.Percent = *req.Percent
	}
	if req.Active != nil {
		discount.Active = *req.Active
	}
	if req.StartsAt != nil {
		discount.StartsAt = req.StartsAt
	}
	if req.ExpiresAt != nil {
		discount.ExpiresAt = req.ExpiresAt
	}

	if err := s.discounts.Update(ctx, discount); err != nil {
		return nil, err
	}
	return discount, nil
}

func (s *DiscountService) List(ctx context.Context) ([]model.DiscountCode, error) {
	return s.discounts.List(ctx)
}

func (s *DiscountService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.discounts.Delete(ctx, id)
}

// ExpireCodes is triggered by the scheduler to switch off stale codes
func (s *DiscountService) ExpireCodes(ctx context.Context) error {
	n, err := s.discounts.DeactivateExpired(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Info("expired discount codes deactivated", map[string]interface{}{
			"count": n,
		})
	}
	return nil
}
