package job

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"laptopshop-backend/internal/domains/order/service"
)

// defaultPendingOrderTTL là thời gian tối đa một đơn VNPay được giữ stock
// khi chưa thanh toán. VNPay payment URL hết hạn sau 30 phút nên 1 giờ là
// đủ rộng cho callback chậm.
const defaultPendingOrderTTL = time.Hour

// ExpirePendingOrdersHandler hủy các đơn VNPay treo quá hạn và trả lại stock
type ExpirePendingOrdersHandler struct {
	orders *service.OrderService
	maxAge time.Duration
}

func NewExpirePendingOrdersHandler(orders *service.OrderService) *ExpirePendingOrdersHandler {
	return &ExpirePendingOrdersHandler{
		orders: orders,
		maxAge: defaultPendingOrderTTL,
	}
}

func (h *ExpirePendingOrdersHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	expired, err := h.orders.ExpirePendingOrders(ctx, h.maxAge)
	if err != nil {
		log.Error().Err(err).Msg("Failed to expire pending orders")
		return err
	}
	if expired > 0 {
		log.Info().Int("count", expired).Msg("Expired stale pending orders")
	}
	return nil
}
