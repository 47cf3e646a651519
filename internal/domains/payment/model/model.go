package model

import "errors"

// =====================================================
// PAYMENT ERRORS
// =====================================================

var (
	ErrInvalidSignature = errors.New("chữ ký callback không hợp lệ")
	ErrUnknownReference = errors.New("không tìm thấy đơn hàng cho giao dịch")
	ErrMalformedParams  = errors.New("tham số callback không hợp lệ")
)

// =====================================================
// CALLBACK RESULT
// =====================================================

// CallbackResult is the processed outcome of one gateway callback,
// returned to the frontend after a return-URL redirect.
type CallbackResult struct {
	OrderNumber  string `json:"order_number"`
	Success      bool   `json:"success"`
	ResponseCode string `json:"response_code"`
	Message      string `json:"message"`
}
