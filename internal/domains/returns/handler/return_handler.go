package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	ordermodel "laptopshop-backend/internal/domains/order/model"
	"laptopshop-backend/internal/domains/returns/model"
	"laptopshop-backend/internal/domains/returns/service"
	"laptopshop-backend/internal/shared/response"
	"laptopshop-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type Handler struct {
	returns *service.ReturnService
}

func NewHandler(returns *service.ReturnService) *Handler {
	return &Handler{returns: returns}
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

// =====================================================
// CUSTOMER ENDPOINTS
// =====================================================

// CreateReturn - POST /v1/returns
func (h *Handler) CreateReturn(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req model.CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	request, err := h.returns.Create(c.Request.Context(), userID, req)
	if handleReturnFailure(c, err) {
		return
	}
	response.Success(c, http.StatusCreated, request.ToResponse())
}

// GetReturn - GET /v1/returns/:id
func (h *Handler) GetReturn(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id := c.Param("id")
	if !utils.IsValidUUID(id) {
		response.BadRequest(c, "Invalid return request ID")
		return
	}

	request, err := h.returns.Get(c.Request.Context(), uuid.MustParse(id), userID, isAdmin(c))
	if handleReturnFailure(c, err) {
		return
	}
	response.Success(c, http.StatusOK, request.ToResponse())
}

// ListMyReturns - GET /v1/returns
func (h *Handler) ListMyReturns(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	page, limit := parsePagination(c)
	requests, total, err := h.returns.ListMy(c.Request.Context(), userID, page, limit)
	if handleReturnFailure(c, err) {
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, toResponses(requests), &response.Meta{
		Page: page, Limit: limit, Total: total,
	})
}

// CancelReturn - POST /v1/returns/:id/cancel
func (h *Handler) CancelReturn(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id := c.Param("id")
	if !utils.IsValidUUID(id) {
		response.BadRequest(c, "Invalid return request ID")
		return
	}

	request, err := h.returns.CancelByCustomer(c.Request.Context(), uuid.MustParse(id), userID)
	if handleReturnFailure(c, err) {
		return
	}
	response.Success(c, http.StatusOK, request.ToResponse())
}

// =====================================================
// ADMIN ENDPOINTS
// =====================================================

// ListReturns - GET /v1/admin/returns
func (h *Handler) ListReturns(c *gin.Context) {
	page, limit := parsePagination(c)
	requests, total, err := h.returns.ListAll(c.Request.Context(), c.Query("status"), page, limit)
	if handleReturnFailure(c, err) {
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, toResponses(requests), &response.Meta{
		Page: page, Limit: limit, Total: total,
	})
}

// ApproveReturn - POST /v1/admin/returns/:id/approve
func (h *Handler) ApproveReturn(c *gin.Context) {
	note := readAdminNote(c)
	h.adminTransition(c, func(ctx context.Context, id uuid.UUID) (*model.ReturnRequest, error) {
		return h.returns.Approve(ctx, id, note)
	})
}

// RejectReturn - POST /v1/admin/returns/:id/reject
func (h *Handler) RejectReturn(c *gin.Context) {
	note := readAdminNote(c)
	h.adminTransition(c, func(ctx context.Context, id uuid.UUID) (*model.ReturnRequest, error) {
		return h.returns.Reject(ctx, id, note)
	})
}

// readAdminNote pulls the optional note from the request body.
func readAdminNote(c *gin.Context) string {
	var req model.AdminActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return ""
	}
	return req.Note
}

// ReceiveReturn - POST /v1/admin/returns/:id/receive
func (h *Handler) ReceiveReturn(c *gin.Context) {
	h.adminTransition(c, h.returns.MarkReceived)
}

// RefundReturn - POST /v1/admin/returns/:id/refund
func (h *Handler) RefundReturn(c *gin.Context) {
	h.adminTransition(c, h.returns.MarkRefunded)
}

func (h *Handler) adminTransition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*model.ReturnRequest, error)) {
	id := c.Param("id")
	if !utils.IsValidUUID(id) {
		response.BadRequest(c, "Invalid return request ID")
		return
	}

	request, err := fn(c.Request.Context(), uuid.MustParse(id))
	if handleReturnFailure(c, err) {
		return
	}
	response.Success(c, http.StatusOK, request.ToResponse())
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

func toResponses(requests []model.ReturnRequest) []model.ReturnResponse {
	out := make([]model.ReturnResponse, 0, len(requests))
	for i := range requests {
		out = append(out, requests[i].ToResponse())
	}
	return out
}

func handleReturnFailure(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VAL_INVALID_INPUT", "Validation failed", verrs)
		return true
	}

	// Order lookups surface order-domain errors
	var orderErr *ordermodel.OrderError
	if errors.As(err, &orderErr) {
		status := http.StatusInternalServerError
		if orderErr.Code == ordermodel.ErrCodeOrderNotFound {
			status = http.StatusNotFound
		}
		response.ErrorResponse(c, status, orderErr.Code, orderErr.Message)
		return true
	}
	if errors.Is(err, ordermodel.ErrOrderNotFound) {
		response.NotFound(c, "Order not found")
		return true
	}

	return model.HandleReturnError(c, err)
}
