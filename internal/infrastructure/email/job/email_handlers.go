package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	ordermodel "laptopshop-backend/internal/domains/order/model"
	"laptopshop-backend/internal/domains/user"
	"laptopshop-backend/internal/infrastructure/email"
	"laptopshop-backend/internal/shared"
)

// OrderGetter loads the order an email is about.
type OrderGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ordermodel.Order, error)
}

// UserGetter resolves the recipient address.
type UserGetter interface {
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// ============================================
// Order Confirmation Handler
// ============================================

type OrderConfirmationHandler struct {
	emailService email.EmailService
	orders       OrderGetter
	users        UserGetter
}

func NewOrderConfirmationHandler(emailService email.EmailService, orders OrderGetter, users UserGetter) *OrderConfirmationHandler {
	return &OrderConfirmationHandler{
		emailService: emailService,
		orders:       orders,
		users:        users,
	}
}

func (h *OrderConfirmationHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.OrderEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal OrderConfirmation payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	order, recipient, err := h.resolve(ctx, payload)
	if err != nil {
		return err
	}

	data := email.OrderConfirmationData{
		Email:       recipient,
		OrderID:     order.OrderNumber,
		TotalAmount: order.Total.StringFixed(2),
	}
	if err := h.emailService.SendOrderConfirmationEmail(ctx, data); err != nil {
		log.Error().Err(err).Str("order", order.OrderNumber).Msg("Failed to send order confirmation email")
		return fmt.Errorf("send order confirmation email: %w", err)
	}

	log.Info().
		Str("order", order.OrderNumber).
		Str("email", recipient).
		Msg("Order confirmation email sent")

	return nil
}

// resolve tra cứu order và email người nhận nếu payload không mang sẵn
func (h *OrderConfirmationHandler) resolve(ctx context.Context, payload shared.OrderEmailPayload) (*ordermodel.Order, string, error) {
	orderID, err := uuid.Parse(payload.OrderID)
	if err != nil {
		return nil, "", fmt.Errorf("invalid order id %q: %w", payload.OrderID, err)
	}

	order, err := h.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, "", fmt.Errorf("load order: %w", err)
	}

	recipient := payload.Email
	if recipient == "" {
		u, err := h.users.FindByID(ctx, order.UserID)
		if err != nil {
			return nil, "", fmt.Errorf("load order owner: %w", err)
		}
		recipient = u.Email
	}
	return order, recipient, nil
}

// ============================================
// Refund Notice Handler
// ============================================

type RefundNoticeHandler struct {
	emailService email.EmailService
	orders       OrderGetter
	users        UserGetter
}

func NewRefundNoticeHandler(emailService email.EmailService, orders OrderGetter, users UserGetter) *RefundNoticeHandler {
	return &RefundNoticeHandler{
		emailService: emailService,
		orders:       orders,
		users:        users,
	}
}

func (h *RefundNoticeHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.OrderEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal RefundNotice payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	orderID, err := uuid.Parse(payload.OrderID)
	if err != nil {
		return fmt.Errorf("invalid order id %q: %w", payload.OrderID, err)
	}

	order, err := h.orders.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("load order: %w", err)
	}

	recipient := payload.Email
	if recipient == "" {
		u, err := h.users.FindByID(ctx, order.UserID)
		if err != nil {
			return fmt.Errorf("load order owner: %w", err)
		}
		recipient = u.Email
	}

	amount := payload.Amount
	if amount == "" {
		amount = order.Total.StringFixed(2)
	}

	data := email.RefundNoticeData{
		Email:        recipient,
		OrderID:      order.OrderNumber,
		RefundAmount: amount,
	}
	if err := h.emailService.SendRefundNoticeEmail(ctx, data); err != nil {
		log.Error().Err(err).Str("order", order.OrderNumber).Msg("Failed to send refund notice email")
		return fmt.Errorf("send refund notice email: %w", err)
	}

	log.Info().
		Str("order", order.OrderNumber).
		Str("email", recipient).
		Msg("Refund notice email sent")

	return nil
}

// ============================================
// Reset Password Email Handler
// ============================================

type ResetPasswordEmailHandler struct {
	emailService email.EmailService
}

func NewResetPasswordEmailHandler(emailService email.EmailService) *ResetPasswordEmailHandler {
	return &ResetPasswordEmailHandler{emailService: emailService}
}

func (h *ResetPasswordEmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ResetEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal ResetPasswordEmail payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	data := email.ResetPasswordData{
		Email:     payload.Email,
		Token:     payload.Token,
		ExpiresIn: "30 phút",
	}
	if err := h.emailService.SendResetPasswordEmail(ctx, data); err != nil {
		log.Error().Err(err).Msg("Failed to send reset password email")
		return fmt.Errorf("send reset password email: %w", err)
	}

	log.Info().
		Str("email", payload.Email).
		Msg("Reset password email sent")

	return nil
}
