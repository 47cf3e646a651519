package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	cartrepo "laptopshop-backend/internal/domains/cart/repository"
	catalogmodel "laptopshop-backend/internal/domains/catalog/model"
	catalogrepo "laptopshop-backend/internal/domains/catalog/repository"
	"laptopshop-backend/internal/domains/order/model"
	"laptopshop-backend/internal/domains/order/repository"
	"laptopshop-backend/internal/shared"
	"laptopshop-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountResolver resolves a code to a percentage, nil when the code
// does not apply.
type DiscountResolver interface {
	GetDiscountPercent(ctx context.Context, code string) (*int, error)
}

type OrderService struct {
	orders    repository.OrderRepository
	carts     cartrepo.CartRepository
	laptops   catalogrepo.LaptopRepository
	discounts DiscountResolver
	enqueuer  shared.Enqueuer
	now       func() time.Time
}

func NewOrderService(
	orders repository.OrderRepository,
	carts cartrepo.CartRepository,
	laptops catalogrepo.LaptopRepository,
	discounts DiscountResolver,
	enqueuer shared.Enqueuer,
) *OrderService {
	return &OrderService{
		orders:    orders,
		carts:     carts,
		laptops:   laptops,
		discounts: discounts,
		enqueuer:  enqueuer,
		now:       time.Now,
	}
}

// =====================================================
// CHECKOUT
// =====================================================

// Checkout turns the user's cart into an order.
//
// Stock is taken with conditional UPDATEs inside one transaction, so two
// concurrent checkouts can never oversell: the second one fails and the
// whole transaction rolls back leaving stock untouched.
//
// COD orders start confirmed. VNPay orders start pending and hold their
// stock until the payment callback or the pending-order expiry job
// resolves them.
func (s *OrderService) Checkout(ctx context.Context, userID uuid.UUID, req model.CheckoutRequest) (*model.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, model.NewOrderError(model.ErrCodeCartEmpty, "Giỏ hàng trống", model.ErrCartEmpty)
	}

	ids := make([]uuid.UUID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.LaptopID)
	}
	laptops, err := s.laptops.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalogmodel.Laptop, len(laptops))
	for i := range laptops {
		byID[laptops[i].ID] = &laptops[i]
	}

	items := make([]model.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		laptop, ok := byID[line.LaptopID]
		if !ok || !laptop.IsActive {
			return nil, model.NewOrderError(model.ErrCodeItemUnavailable,
				"Sản phẩm không còn kinh doanh", model.ErrItemUnavailable)
		}
		if !laptop.InStock(line.Quantity) {
			return nil, model.NewOrderError(model.ErrCodeInsufficientStock,
				fmt.Sprintf("Sản phẩm %s chỉ còn %d chiếc", laptop.Name, laptop.Quantity),
				model.ErrInsufficientStock)
		}
		items = append(items, model.OrderItem{
			ID:         uuid.New(),
			LaptopID:   laptop.ID,
			LaptopName: laptop.Name,
			LaptopSlug: laptop.Slug,
			Quantity:   line.Quantity,
			Price:      laptop.Price,
			Subtotal:   laptop.Price.Mul(decimal.NewFromInt(int64(line.Quantity))),
		})
	}

	percent, err := s.discounts.GetDiscountPercent(ctx, req.DiscountCode)
	if err != nil {
		return nil, err
	}
	pricing := model.ComputePricing(items, percent)

	order := &model.Order{
		ID:              uuid.New(),
		OrderNumber:     s.generateOrderNumber(),
		UserID:          userID,
		ReceiverName:    req.ReceiverName,
		ReceiverPhone:   req.ReceiverPhone,
		ShippingAddr:    req.ShippingAddr,
		Subtotal:        pricing.Subtotal,
		DiscountAmount:  pricing.DiscountAmount,
		Total:           pricing.Total,
		DiscountPercent: pricing.DiscountPercent,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   model.PaymentStatusPending,
		CustomerNote:    req.CustomerNote,
		Items:           items,
	}
	if percent != nil {
		code := strings.ToUpper(strings.TrimSpace(req.DiscountCode))
		order.DiscountCode = &code
	}

	switch req.PaymentMethod {
	case model.PaymentMethodCOD:
		order.Status = model.OrderStatusConfirmed
	case model.PaymentMethodVNPay:
		order.Status = model.OrderStatusPending
	default:
		return nil, model.NewOrderError(model.ErrCodeInvalidPaymentMethod,
			"Phương thức thanh toán không hợp lệ", model.ErrInvalidPaymentMethod)
	}

	tx, err := s.orders.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer s.orders.RollbackTx(ctx, tx)

	for _, item := range order.Items {
		if err := s.orders.DecrementStockWithTx(ctx, tx, item.LaptopID, item.Quantity); err != nil {
			return nil, model.NewOrderError(model.ErrCodeInsufficientStock,
				fmt.Sprintf("Sản phẩm %s không đủ hàng", item.LaptopName), err)
		}
	}

	if err := s.orders.CreateWithTx(ctx, tx, order); err != nil {
		return nil, err
	}

	if err := s.orders.CommitTx(ctx, tx); err != nil {
		return nil, err
	}

	// Cart cleanup is best effort, the order is already committed
	if err := s.carts.Delete(ctx, userID); err != nil {
		logger.Warn("failed to clear cart after checkout", map[string]interface{}{
			"user_id": userID.String(),
			"error":   err.Error(),
		})
	}

	if order.Status == model.OrderStatusConfirmed {
		s.enqueueConfirmationEmail(ctx, order.ID)
	}

	logger.Info("order placed", map[string]interface{}{
		"order_id":     order.ID.String(),
		"order_number": order.OrderNumber,
		"total":        order.Total.StringFixed(2),
		"payment":      order.PaymentMethod,
	})

	return order, nil
}

// =====================================================
// CANCELLATION
// =====================================================

// Cancel cancels an order and restocks its items.
//
// Customers can only cancel their own pending/confirmed orders. Repeating
// the call on an already canceled order is a no-op so double clicks on
// the cancel button do not surface errors.
func (s *OrderService) Cancel(ctx context.Context, orderID, actorID uuid.UUID, isAdmin bool, reason string) (*model.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !isAdmin && order.UserID != actorID {
		return nil, model.NewOrderError(model.ErrCodeUnauthorized,
			"Bạn không có quyền hủy đơn này", model.ErrUnauthorized)
	}

	// Idempotent on already canceled orders
	if order.IsCanceled() {
		return order, nil
	}

	if !order.CanBeCancelled() {
		return nil, model.NewOrderError(model.ErrCodeOrderCannotCancel,
			"Đơn hàng không thể hủy ở trạng thái hiện tại", model.ErrOrderCannotCancel)
	}

	if strings.TrimSpace(reason) == "" {
		reason = model.DefaultCancelReason
	}
	actor := model.CancelActorCustomer
	if isAdmin {
		actor = model.CancelActorAdmin
	}
	now := s.now()

	order.Status = model.OrderStatusCanceled
	order.CancelReason = &reason
	order.CanceledBy = &actor
	order.CanceledAt = &now

	tx, err := s.orders.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer s.orders.RollbackTx(ctx, tx)

	for _, item := range order.Items {
		if err := s.orders.RestoreStockWithTx(ctx, tx, item.LaptopID, item.Quantity); err != nil {
			return nil, err
		}
	}

	if err := s.orders.CancelWithTx(ctx, tx, order); err != nil {
		if errors.Is(err, model.ErrOrderCannotCancel) {
			// Lost the race to a concurrent cancel or status change.
			// The rollback takes the restock above back out.
			return nil, model.NewOrderError(model.ErrCodeOrderCannotCancel,
				"Đơn hàng vừa được xử lý bởi thao tác khác", err)
		}
		return nil, err
	}

	if err := s.orders.CommitTx(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("order canceled", map[string]interface{}{
		"order_id": order.ID.String(),
		"actor":    actor,
	})

	return order, nil
}

// =====================================================
// STATUS MANAGEMENT (admin)
// =====================================================

func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, adminID uuid.UUID, req model.UpdateStatusRequest) (*model.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if req.Status == model.OrderStatusCanceled {
		return s.Cancel(ctx, orderID, adminID, true, "")
	}

	if !model.CanTransition(order.Status, req.Status) {
		return nil, model.NewOrderError(model.ErrCodeInvalidTransition,
			fmt.Sprintf("Không thể chuyển từ %s sang %s", order.Status, req.Status),
			model.ErrInvalidTransition)
	}

	var deliveredAt *time.Time
	if req.Status == model.OrderStatusDelivered {
		now := s.now()
		deliveredAt = &now
	}

	if err := s.orders.UpdateStatus(ctx, orderID, req.Status, deliveredAt); err != nil {
		return nil, err
	}

	order.Status = req.Status
	order.DeliveredAt = deliveredAt

	return order, nil
}

// Delete removes an order permanently. Only canceled orders qualify:
// they hold no stock and no longer appear in revenue, so nothing else
// references them.
func (s *OrderService) Delete(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !order.IsCanceled() {
		return model.NewOrderError(model.ErrCodeOrderNotDeletable,
			"Chỉ có thể xóa đơn hàng đã hủy", model.ErrOrderNotDeletable)
	}

	if err := s.orders.Delete(ctx, orderID); err != nil {
		return err
	}

	logger.Info("order deleted", map[string]interface{}{
		"order_id":     orderID.String(),
		"order_number": order.OrderNumber,
	})
	return nil
}

// =====================================================
// PAYMENT CALLBACKS
// =====================================================

// HandlePaymentSuccess confirms a pending VNPay order once the gateway
// reports success.
func (s *OrderService) HandlePaymentSuccess(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.IsPaymentCompleted() {
		return nil // duplicate callback
	}

	if err := s.orders.MarkPaid(ctx, orderID, s.now()); err != nil {
		return err
	}

	s.enqueueConfirmationEmail(ctx, orderID)
	return nil
}

// HandlePaymentFailure records the failed attempt. The order keeps its
// stock hold until it is canceled or expired.
func (s *OrderService) HandlePaymentFailure(ctx context.Context, orderID uuid.UUID) error {
	return s.orders.MarkPaymentFailed(ctx, orderID)
}

// ExpirePendingOrders cancels unpaid VNPay orders older than maxAge and
// releases their stock hold. The worker runs this on a schedule.
func (s *OrderService) ExpirePendingOrders(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := s.now().Add(-maxAge)
	stale, err := s.orders.ListStalePending(ctx, model.PaymentMethodVNPay, cutoff)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range stale {
		if err := s.expireOrder(ctx, &stale[i]); err != nil {
			logger.Error("failed to expire pending order", err)
			continue
		}
		expired++
	}

	if expired > 0 {
		logger.Info("expired pending orders", map[string]interface{}{
			"count": expired,
		})
	}
	return expired, nil
}

func (s *OrderService) expireOrder(ctx context.Context, order *model.Order) error {
	reason := "Quá hạn thanh toán VNPay"
	actor := model.CancelActorSystem
	now := s.now()

	order.Status = model.OrderStatusCanceled
	order.CancelReason = &reason
	order.CanceledBy = &actor
	order.CanceledAt = &now

	tx, err := s.orders.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer s.orders.RollbackTx(ctx, tx)

	for _, item := range order.Items {
		if err := s.orders.RestoreStockWithTx(ctx, tx, item.LaptopID, item.Quantity); err != nil {
			return err
		}
	}
	if err := s.orders.CancelWithTx(ctx, tx, order); err != nil {
		return err
	}
	return s.orders.CommitTx(ctx, tx)
}

// =====================================================
// READS
// =====================================================

func (s *OrderService) Get(ctx context.Context, orderID, requesterID uuid.UUID, isAdmin bool) (*model.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && order.UserID != requesterID {
		return nil, model.NewOrderError(model.ErrCodeUnauthorized,
			"Bạn không có quyền xem đơn này", model.ErrUnauthorized)
	}
	return order, nil
}

func (s *OrderService) ListMy(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Order, int, error) {
	return s.orders.ListByUser(ctx, userID, page, limit)
}

func (s *OrderService) ListAll(ctx context.Context, query model.ListOrdersQuery) ([]model.Order, int, error) {
	return s.orders.List(ctx, query)
}

// =====================================================
// HELPERS
// =====================================================

func (s *OrderService) generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", s.now().Format("20060102"), suffix)
}

func (s *OrderService) enqueueConfirmationEmail(ctx context.Context, orderID uuid.UUID) {
	err := s.enqueuer.EnqueueTask(ctx, shared.TypeSendOrderConfirmation, shared.OrderEmailPayload{
		OrderID: orderID.String(),
	})
	if err != nil {
		logger.Warn("failed to enqueue confirmation email", map[string]interface{}{
			"order_id": orderID.String(),
			"error":    err.Error(),
		})
	}
}
