package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	ordermodel "laptopshop-backend/internal/domains/order/model"
	"laptopshop-backend/internal/domains/returns/model"
	"laptopshop-backend/internal/domains/returns/repository"
	"laptopshop-backend/internal/shared"
	"laptopshop-backend/pkg/logger"
)

// OrderStore is the slice of the order repository the return flow
// needs: lookup, forced cancellation on approval, refund marking.
type OrderStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ordermodel.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, deliveredAt *time.Time) error
	MarkRefunded(ctx context.Context, id uuid.UUID) error
}

// =====================================================
// RETURN SERVICE
// =====================================================

type ReturnService struct {
	returns    repository.ReturnRepository
	orders     OrderStore
	enqueuer   shared.Enqueuer
	windowDays int
	now        func() time.Time
}

func NewReturnService(returns repository.ReturnRepository, orders OrderStore, enqueuer shared.Enqueuer, windowDays int) *ReturnService {
	return &ReturnService{
		returns:    returns,
		orders:     orders,
		enqueuer:   enqueuer,
		windowDays: windowDays,
		now:        time.Now,
	}
}

// =====================================================
// CUSTOMER OPERATIONS
// =====================================================

// Create files a return request against a delivered order. The order
// must still be inside the return window and carry no other active
// request.
func (s *ReturnService) Create(ctx context.Context, userID uuid.UUID, req model.CreateReturnRequest) (*model.ReturnRequest, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return nil, model.ErrInvalidReturnItems
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, model.ErrNotOwner
	}
	if order.Status != ordermodel.OrderStatusDelivered || order.DeliveredAt == nil {
		return nil, model.ErrOrderNotDelivered
	}

	deadline := order.DeliveredAt.AddDate(0, 0, s.windowDays)
	if s.now().After(deadline) {
		return nil, model.ErrReturnWindowExpired
	}

	active, err := s.returns.HasActiveByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, model.ErrActiveReturnExists
	}

	items, refund, err := buildReturnItems(order, req.Items)
	if err != nil {
		return nil, err
	}

	request := &model.ReturnRequest{
		ID:           uuid.New(),
		OrderID:      orderID,
		UserID:       userID,
		Status:       model.StatusRequested,
		Reason:       req.Reason,
		Items:        items,
		RefundAmount: refund,
		Photos:       req.Photos,
		OrderNumber:  order.OrderNumber,
	}

	if err := s.returns.Create(ctx, request); err != nil {
		return nil, err
	}

	logger.Info("Tạo yêu cầu trả hàng", map[string]interface{}{
		"return_id":     request.ID.String(),
		"order_number":  order.OrderNumber,
		"refund_amount": refund.StringFixed(2),
	})
	return request, nil
}

// buildReturnItems validates requested lines against the order and
// snapshots laptop id and unit price for later restock and refund.
func buildReturnItems(order *ordermodel.Order, reqItems []model.ReturnItemRequest) ([]model.ReturnItem, decimal.Decimal, error) {
	byID := make(map[uuid.UUID]ordermodel.OrderItem, len(order.Items))
	for _, item := range order.Items {
		byID[item.ID] = item
	}

	seen := make(map[uuid.UUID]bool, len(reqItems))
	items := make([]model.ReturnItem, 0, len(reqItems))
	refund := decimal.Zero

	for _, ri := range reqItems {
		if err := ri.Validate(); err != nil {
			return nil, decimal.Zero, err
		}

		itemID, err := uuid.Parse(ri.OrderItemID)
		if err != nil {
			return nil, decimal.Zero, model.ErrInvalidReturnItems
		}

		orderItem, ok := byID[itemID]
		if !ok || seen[itemID] {
			return nil, decimal.Zero, model.ErrInvalidReturnItems
		}
		if ri.Quantity < 1 || ri.Quantity > orderItem.Quantity {
			return nil, decimal.Zero, model.ErrInvalidReturnItems
		}
		seen[itemID] = true

		items = append(items, model.ReturnItem{
			OrderItemID: itemID,
			LaptopID:    orderItem.LaptopID,
			Quantity:    ri.Quantity,
			UnitPrice:   orderItem.Price,
		})
		line := orderItem.Price.Mul(decimal.NewFromInt(int64(ri.Quantity)))
		refund = refund.Add(line)
	}

	return items, refund.Round(2), nil
}

// CancelByCustomer withdraws a request that has not yet been received
// back. Only the owner may cancel, and only from REQUESTED or APPROVED.
func (s *ReturnService) CancelByCustomer(ctx context.Context, id, userID uuid.UUID) (*model.ReturnRequest, error) {
	request, err := s.returns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.UserID != userID {
		return nil, model.ErrNotOwner
	}
	if !model.CanTransition(request.Status, model.StatusCancelled) {
		return nil, model.NewTransitionError(request.Status, model.StatusCancelled)
	}

	if err := s.returns.UpdateStatus(ctx, id, model.StatusCancelled); err != nil {
		return nil, err
	}
	request.Status = model.StatusCancelled
	return request, nil
}

// =====================================================
// ADMIN OPERATIONS
// =====================================================

// Approve accepts a return and cancels the parent order so it no
// longer counts toward revenue. The optional note is shown to the
// customer.
func (s *ReturnService) Approve(ctx context.Context, id uuid.UUID, note string) (*model.ReturnRequest, error) {
	request, err := s.transition(ctx, id, model.StatusApproved)
	if err != nil {
		return nil, err
	}
	s.attachNote(ctx, request, note)

	if err := s.orders.UpdateStatus(ctx, request.OrderID, ordermodel.OrderStatusCanceled, nil); err != nil {
		logger.Error("Không thể hủy đơn sau khi duyệt trả hàng", err)
	}
	return request, nil
}

func (s *ReturnService) Reject(ctx context.Context, id uuid.UUID, note string) (*model.ReturnRequest, error) {
	request, err := s.transition(ctx, id, model.StatusRejected)
	if err != nil {
		return nil, err
	}
	s.attachNote(ctx, request, note)
	return request, nil
}

func (s *ReturnService) attachNote(ctx context.Context, request *model.ReturnRequest, note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		return
	}
	if err := s.returns.SetAdminNote(ctx, request.ID, note); err != nil {
		logger.Error("Không thể lưu ghi chú cho yêu cầu trả hàng", err)
		return
	}
	request.AdminNote = &note
}

// MarkReceived records that the goods came back and restocks them.
// Status change and stock movement share one transaction.
func (s *ReturnService) MarkReceived(ctx context.Context, id uuid.UUID) (*model.ReturnRequest, error) {
	request, err := s.returns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(request.Status, model.StatusItemReceived) {
		return nil, model.NewTransitionError(request.Status, model.StatusItemReceived)
	}

	tx, err := s.returns.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer s.returns.RollbackTx(ctx, tx)

	if err := s.returns.UpdateStatusWithTx(ctx, tx, id, model.StatusItemReceived); err != nil {
		return nil, err
	}
	for _, item := range request.Items {
		if err := s.returns.RestoreStockWithTx(ctx, tx, item.LaptopID, item.Quantity); err != nil {
			return nil, err
		}
	}

	if err := s.returns.CommitTx(ctx, tx); err != nil {
		return nil, err
	}

	request.Status = model.StatusItemReceived
	receivedAt := s.now()
	request.ReceivedAt = &receivedAt
	return request, nil
}

// MarkRefunded closes the request, flags the parent order as refunded
// and notifies the customer by email.
func (s *ReturnService) MarkRefunded(ctx context.Context, id uuid.UUID) (*model.ReturnRequest, error) {
	request, err := s.transition(ctx, id, model.StatusRefunded)
	if err != nil {
		return nil, err
	}

	if err := s.orders.MarkRefunded(ctx, request.OrderID); err != nil {
		logger.Error("Không thể đánh dấu đơn đã hoàn tiền", err)
	}

	payload := shared.OrderEmailPayload{
		OrderID: request.OrderID.String(),
		Amount:  request.RefundAmount.StringFixed(2),
	}
	if err := s.enqueuer.EnqueueTask(ctx, shared.TypeSendRefundNotice, payload); err != nil {
		logger.Warn("Không thể xếp hàng email hoàn tiền", map[string]interface{}{
			"return_id": id.String(),
			"error":     err.Error(),
		})
	}
	return request, nil
}

func (s *ReturnService) transition(ctx context.Context, id uuid.UUID, target string) (*model.ReturnRequest, error) {
	request, err := s.returns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(request.Status, target) {
		return nil, model.NewTransitionError(request.Status, target)
	}

	if err := s.returns.UpdateStatus(ctx, id, target); err != nil {
		return nil, err
	}
	request.Status = target

	now := s.now()
	switch target {
	case model.StatusApproved, model.StatusRejected:
		request.ProcessedAt = &now
	case model.StatusItemReceived:
		request.ReceivedAt = &now
	case model.StatusRefunded:
		request.RefundedAt = &now
	}
	return request, nil
}

// =====================================================
// READS
// =====================================================

func (s *ReturnService) Get(ctx context.Context, id, requesterID uuid.UUID, isAdmin bool) (*model.ReturnRequest, error) {
	request, err := s.returns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && request.UserID != requesterID {
		return nil, model.ErrNotOwner
	}
	return request, nil
}

func (s *ReturnService) ListMy(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.ReturnRequest, int, error) {
	return s.returns.ListByUser(ctx, userID, page, limit)
}

func (s *ReturnService) ListAll(ctx context.Context, status string, page, limit int) ([]model.ReturnRequest, int, error) {
	return s.returns.List(ctx, status, page, limit)
}
