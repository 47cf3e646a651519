package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"laptopshop-backend/internal/domains/payment/gateway"
	"laptopshop-backend/internal/domains/payment/gateway/vnpay"
	"laptopshop-backend/internal/domains/payment/model"
	ordermodel "laptopshop-backend/internal/domains/order/model"
	"laptopshop-backend/pkg/logger"
)

// =====================================================
// COLLABORATOR INTERFACES
// =====================================================

// OrderFinder resolves the order behind a gateway transaction reference.
type OrderFinder interface {
	GetByOrderNumber(ctx context.Context, orderNumber string) (*ordermodel.Order, error)
}

// OrderPaymentUpdater applies the callback outcome to the order.
type OrderPaymentUpdater interface {
	HandlePaymentSuccess(ctx context.Context, orderID uuid.UUID) error
	HandlePaymentFailure(ctx context.Context, orderID uuid.UUID) error
}

// =====================================================
// PAYMENT SERVICE
// =====================================================

type PaymentService struct {
	gw     gateway.Gateway
	orders OrderFinder
	status OrderPaymentUpdater
}

func NewPaymentService(gw gateway.Gateway, orders OrderFinder, status OrderPaymentUpdater) *PaymentService {
	return &PaymentService{
		gw:     gw,
		orders: orders,
		status: status,
	}
}

// BuildPaymentURL creates the hosted checkout URL for a pending order.
// The order number doubles as the gateway transaction reference.
func (s *PaymentService) BuildPaymentURL(order *ordermodel.Order, clientIP string) (string, error) {
	req := gateway.PaymentRequest{
		TxnRef:    order.OrderNumber,
		Amount:    order.Total,
		OrderInfo: fmt.Sprintf("Thanh toan don hang %s", order.OrderNumber),
		ClientIP:  clientIP,
	}

	return s.gw.CreatePaymentURL(context.Background(), req)
}

// ProcessCallback verifies and applies one VNPay callback. Both the
// return redirect and the IPN webhook funnel through here, so replays
// are expected and handled idempotently downstream.
func (s *PaymentService) ProcessCallback(ctx context.Context, rawQuery string) (*model.CallbackResult, error) {
	params, err := vnpay.ParseCallbackParams(rawQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedParams, err)
	}

	if !s.gw.VerifyCallback(params) {
		logger.Warn("Chữ ký VNPay không hợp lệ", map[string]interface{}{
			"txn_ref": params["vnp_TxnRef"],
		})
		return nil, model.ErrInvalidSignature
	}

	orderNumber := params["vnp_TxnRef"]
	responseCode := params["vnp_ResponseCode"]

	order, err := s.orders.GetByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownReference, orderNumber)
	}

	result := &model.CallbackResult{
		OrderNumber:  orderNumber,
		ResponseCode: responseCode,
		Message:      vnpay.GetResponseMessage(responseCode),
	}

	if responseCode == vnpay.ResponseCodeSuccess {
		if err := s.status.HandlePaymentSuccess(ctx, order.ID); err != nil {
			return nil, err
		}
		result.Success = true
		return result, nil
	}

	if err := s.status.HandlePaymentFailure(ctx, order.ID); err != nil {
		return nil, err
	}
	return result, nil
}
