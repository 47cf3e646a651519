package handler

import (
	"errors"
	"net/http"

	cartmodel "laptopshop-backend/internal/domains/cart/model"
	"laptopshop-backend/internal/domains/cart/service"
	catalogmodel "laptopshop-backend/internal/domains/catalog/model"
	"laptopshop-backend/internal/shared/response"
	"laptopshop-backend/internal/shared/utils"
	"laptopshop-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type Handler struct {
	carts *service.CartService
}

func NewHandler(carts *service.CartService) *Handler {
	return &Handler{carts: carts}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get("userID")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// GetCart - GET /v1/cart
func (h *Handler) GetCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	view, err := h.carts.GetCart(c.Request.Context(), userID)
	if handleCartFailure(c, err) {
		return
	}
	response.Success(c, http.StatusOK, view)
}

// AddItem - POST /v1/cart/items
func (h *Handler) AddItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req cartmodel.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	view, err := h.carts.AddItem(c.Request.Context(), userID, req)
	if handleCartFailure(c, err) {
		return
	}
	response.Success(c, http.StatusOK, view)
}

// UpdateItem - PUT /v1/cart/items/:laptopId
func (h *Handler) UpdateItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	laptopID := c.Param("laptopId")
	if !utils.IsValidUUID(laptopID) {
		response.BadRequest(c, "Invalid laptop ID")
		return
	}

	var req cartmodel.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	view, err := h.carts.UpdateItem(c.Request.Context(), userID, uuid.MustParse(laptopID), req)
	if handleCartFailure(c, err) {
		return
	}
	response.Success(c, http.StatusOK, view)
}

// RemoveItem - DELETE /v1/cart/items/:laptopId
func (h *Handler) RemoveItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	laptopID := c.Param("laptopId")
	if !utils.IsValidUUID(laptopID) {
		response.BadRequest(c, "Invalid laptop ID")
		return
	}

	view, err := h.carts.RemoveItem(c.Request.Context(), userID, uuid.MustParse(laptopID))
	if handleCartFailure(c, err) {
		return
	}
	response.Success(c, http.StatusOK, view)
}

// ClearCart - DELETE /v1/cart
func (h *Handler) ClearCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	if err := h.carts.Clear(c.Request.Context(), userID); handleCartFailure(c, err) {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cleared": true})
}

func handleCartFailure(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VAL_INVALID_INPUT", "Validation failed", verrs)
	case errors.Is(err, cartmodel.ErrItemNotInCart):
		response.NotFound(c, "Item is not in the cart")
	case errors.Is(err, catalogmodel.ErrLaptopNotFound):
		response.NotFound(c, "Laptop not found")
	default:
		logger.Error("cart request failed", err)
		response.InternalServerError(c, "Internal server error")
	}
	return true
}
