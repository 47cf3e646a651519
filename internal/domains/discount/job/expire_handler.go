package job

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"laptopshop-backend/internal/domains/discount/service"
)

// ExpireDiscountsHandler tắt các mã giảm giá đã qua expires_at
type ExpireDiscountsHandler struct {
	discounts *service.DiscountService
}

func NewExpireDiscountsHandler(discounts *service.DiscountService) *ExpireDiscountsHandler {
	return &ExpireDiscountsHandler{discounts: discounts}
}

func (h *ExpireDiscountsHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	if err := h.discounts.ExpireCodes(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to expire discount codes")
		return err
	}
	return nil
}
