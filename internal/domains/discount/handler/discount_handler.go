package handler

import (
	"errors"
	"net/http"

	"laptopshop-backend/internal/domains/discount/model"
	"laptopshop-backend/internal/domains/discount/service"
	"laptopshop-backend/internal/shared/response"
	"laptopshop-backend/internal/shared/utils"
	"laptopshop-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type Handler struct {
	discounts *service.DiscountService
}

func NewHandler(discounts *service.DiscountService) *Handler {
	return &Handler{discounts: discounts}
}

// CheckDiscount - GET /v1/discounts/check?code=SAVE10
func (h *Handler) CheckDiscount(c *gin.Context) {
	res, err := h.discounts.Check(c.Request.Context(), c.Query("code"))
	if err != nil {
		logger.Error("discount check failed", err)
		response.InternalServerError(c, "Internal server error")
		return
	}
	response.Success(c, http.StatusOK, res)
}

// ListDiscounts - GET /v1/admin/discounts
func (h *Handler) ListDiscounts(c *gin.Context) {
	discounts, err := h.discounts.List(c.Request.Context())
	if err != nil {
		logger.Error("discount list failed", err)
		response.InternalServerError(c, "Internal server error")
		return
	}
	response.Success(c, http.StatusOK, discounts)
}

// CreateDiscount - POST /v1/admin/discounts
func (h *Handler) CreateDiscount(c *gin.Context) {
	var req model.CreateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	discount, err := h.discounts.Create(c.Request.Context(), req)
	if handleDiscountFailure(c, err) {
		return
	}
	response.Success(c, http.StatusCreated, discount)
}

// UpdateDiscount - PUT /v1/admin/discounts/:id
func (h *Handler) UpdateDiscount(c *gin.Context) {
	id := c.Param("id")
	if !utils.IsValidUUID(id) {
		response.BadRequest(c, "Invalid discount ID")
		return
	}

	var req model.UpdateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	discount, err := h.discounts.Update(c.Request.Context(), uuid.MustParse(id), req)
	if handleDiscountFailure(c, err) {
		return
	}
	response.Success(c, http.StatusOK, discount)
}

// DeleteDiscount - DELETE /v1/admin/discounts/:id
func (h *Handler) DeleteDiscount(c *gin.Context) {
	id := c.Param("id")
	if !utils.IsValidUUID(id) {
		response.BadRequest(c, "Invalid discount ID")
		return
	}

	err := h.discounts.Delete(c.Request.Context(), uuid.MustParse(id))
	if handleDiscountFailure(c, err) {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func handleDiscountFailure(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VAL_INVALID_INPUT", "Validation failed", verrs)
	case errors.Is(err, model.ErrDiscountNotFound):
		response.NotFound(c, "Discount code not found")
	case errors.Is(err, model.ErrDuplicateCode):
		response.Conflict(c, "Discount code already exists")
	default:
		logger.Error("discount request failed", err)
		response.InternalServerError(c, "Internal server error")
	}
	return true
}
