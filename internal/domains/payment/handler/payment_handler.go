package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"laptopshop-backend/internal/domains/payment/model"
	"laptopshop-backend/internal/domains/payment/service"
	"laptopshop-backend/internal/shared/response"
	"laptopshop-backend/pkg/logger"
)

type Handler struct {
	payments *service.PaymentService
}

func NewHandler(payments *service.PaymentService) *Handler {
	return &Handler{payments: payments}
}

// VNPayReturn handles the browser redirect after the buyer leaves the
// gateway page.
// GET /api/v1/payments/vnpay/return
func (h *Handler) VNPayReturn(c *gin.Context) {
	result, err := h.payments.ProcessCallback(c.Request.Context(), c.Request.URL.RawQuery)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrMalformedParams):
			response.ErrorResponse(c, http.StatusBadRequest, "PAY_INVALID_PARAMS", "Tham số thanh toán không hợp lệ")
		case errors.Is(err, model.ErrInvalidSignature):
			response.ErrorResponse(c, http.StatusBadRequest, "PAY_INVALID_SIGNATURE", "Chữ ký không hợp lệ")
		case errors.Is(err, model.ErrUnknownReference):
			response.ErrorResponse(c, http.StatusNotFound, "PAY_ORDER_NOT_FOUND", "Không tìm thấy đơn hàng")
		default:
			logger.Error("Xử lý callback VNPay thất bại", err)
			response.ErrorResponse(c, http.StatusInternalServerError, "PAY_PROCESS_FAILED", "Không thể xử lý kết quả thanh toán")
		}
		return
	}

	response.Success(c, http.StatusOK, result)
}

// VNPayIPN handles the server-to-server webhook. VNPay retries until it
// receives RspCode 00, so the handler always answers 200 and encodes
// the outcome in the body.
// GET /api/v1/payments/vnpay/ipn
func (h *Handler) VNPayIPN(c *gin.Context) {
	_, err := h.payments.ProcessCallback(c.Request.Context(), c.Request.URL.RawQuery)
	if err != nil {
		rspCode := "99"
		message := "Processing error"
		switch {
		case errors.Is(err, model.ErrInvalidSignature):
			rspCode = "97"
			message = "Invalid signature"
		case errors.Is(err, model.ErrUnknownReference):
			rspCode = "01"
			message = "Order not found"
		default:
			logger.Error("Xử lý IPN VNPay thất bại", err)
		}
		c.JSON(http.StatusOK, gin.H{"RspCode": rspCode, "Message": message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"RspCode": "00", "Message": "Confirm Success"})
}
