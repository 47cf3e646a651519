package handler

import (
	"errors"
	"net/http"
	"strconv"

	"laptopshop-backend/internal/domains/order/model"
	"laptopshop-backend/internal/domains/order/service"
	"laptopshop-backend/internal/shared/response"
	"laptopshop-backend/internal/shared/utils"
	"laptopshop-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// PaymentURLBuilder builds the gateway redirect for online payments
type PaymentURLBuilder interface {
	BuildPaymentURL(order *model.Order, clientIP string) (string, error)
}

type Handler struct {
	orders   *service.OrderService
	payments PaymentURLBuilder
}

func NewHandler(orders *service.OrderService, payments PaymentURLBuilder) *Handler {
	return &Handler{orders: orders, payments: payments}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get("userID")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func isAdmin(c *gin.Context) bool {
	role, _ := c.Get("role")
	r, ok := role.(string)
	return ok && r == "admin"
}

// Checkout - POST /v1/orders/checkout
func (h *Handler) Checkout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req model.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	order, err := h.orders.Checkout(c.Request.Context(), userID, req)
	if handleOrderFailure(c, err) {
		return
	}

	res := model.CheckoutResponse{Order: order.ToResponse()}

	if order.RequiresOnlinePayment() {
		url, err := h.payments.BuildPaymentURL(order, c.ClientIP())
		if err != nil {
			// Order is placed; the client can retry payment from the order page
			logger.Error("failed to build payment url", err)
		} else {
			res.PaymentURL = &url
		}
	}

	response.Success(c, http.StatusCreated, res)
}

// GetOrder - GET /v1/orders/:id
func (h *Handler) GetOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id := c.Param("id")
	if !utils.IsValidUUID(id) {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orders.Get(c.Request.Context(), uuid.MustParse(id), userID, isAdmin(c))
	if handleOrderFailure(c, err) {
		return
	}
	response.Success(c, http.StatusOK, order.ToResponse())
}

// ListMyOrders - GET /v1/orders
func (h *Handler) ListMyOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	page, limit := parsePagination(c)
	orders, total, err := h.orders.ListMy(c.Request.Context(), userID, page, limit)
	if handleOrderFailure(c, err) {
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, toResponses(orders), &response.Meta{
		Page: page, Limit: limit, Total: total,
	})
}

// CancelOrder - POST /v1/orders/:id/cancel
func (h *Handler) CancelOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id := c.Param("id")
	if !utils.IsValidUUID(id) {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req model.CancelOrderRequest
	// Body is optional for cancellation
	_ = c.ShouldBindJSON(&req)

	order, err := h.orders.Cancel(c.Request.Context(), uuid.MustParse(id), userID, isAdmin(c), req.Reason)
	if handleOrderFailure(c, err) {
		return
	}
	response.Success(c, http.StatusOK, order.ToResponse())
}

// ListOrders - GET /v1/admin/orders
func (h *Handler) ListOrders(c *gin.Context) {
	page, limit := parsePagination(c)
	query := model.ListOrdersQuery{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	}

	orders, total, err := h.orders.ListAll(c.Request.Context(), query)
	if handleOrderFailure(c, err) {
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, toResponses(orders), &response.Meta{
		Page: page, Limit: limit, Total: total,
	})
}

// UpdateStatus - PUT /v1/admin/orders/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id := c.Param("id")
	if !utils.IsValidUUID(id) {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), uuid.MustParse(id), adminID, req)
	if handleOrderFailure(c, err) {
		return
	}
	response.Success(c, http.StatusOK, order.ToResponse())
}

// DeleteOrder - DELETE /v1/admin/orders/:id
func (h *Handler) DeleteOrder(c *gin.Context) {
	id := c.Param("id")
	if !utils.IsValidUUID(id) {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	err := h.orders.Delete(c.Request.Context(), uuid.MustParse(id))
	if handleOrderFailure(c, err) {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// =====================================================
// HELPERS
// =====================================================

func parsePagination(c *gin.Context) (int, int) {
	page, limit := 1, 20
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	return page, limit
}

func toResponses(orders []model.Order) []model.OrderResponse {
	out := make([]model.OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, orders[i].ToResponse())
	}
	return out
}

var orderErrorStatus = map[string]int{
	model.ErrCodeOrderNotFound:        http.StatusNotFound,
	model.ErrCodeOrderCannotCancel:    http.StatusConflict,
	model.ErrCodeInsufficientStock:    http.StatusConflict,
	model.ErrCodeCartEmpty:            http.StatusBadRequest,
	model.ErrCodeInvalidPaymentMethod: http.StatusBadRequest,
	model.ErrCodeUnauthorized:         http.StatusForbidden,
	model.ErrCodeInvalidStatus:        http.StatusBadRequest,
	model.ErrCodeInvalidTransition:    http.StatusConflict,
	model.ErrCodeItemUnavailable:      http.StatusConflict,
	model.ErrCodeOrderNotDeletable:    http.StatusConflict,
}

func handleOrderFailure(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VAL_INVALID_INPUT", "Validation failed", verrs)
		return true
	}

	var orderErr *model.OrderError
	if errors.As(err, &orderErr) {
		status, ok := orderErrorStatus[orderErr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		response.ErrorResponse(c, status, orderErr.Code, orderErr.Message)
		return true
	}

	if errors.Is(err, model.ErrOrderNotFound) {
		response.NotFound(c, "Order not found")
		return true
	}

	logger.Error("order request failed", err)
	response.InternalServerError(c, "Internal server error")
	return true
}
