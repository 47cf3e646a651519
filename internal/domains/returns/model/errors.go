package model

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"laptopshop-backend/internal/shared/response"
	"laptopshop-backend/pkg/logger"
)

// =====================================================
// RETURN ERRORS
// =====================================================

var (
	ErrReturnNotFound      = errors.New("không tìm thấy yêu cầu trả hàng")
	ErrOrderNotDelivered   = errors.New("chỉ đơn hàng đã giao mới được trả")
	ErrReturnWindowExpired = errors.New("đã quá thời hạn trả hàng")
	ErrActiveReturnExists  = errors.New("đơn hàng đã có yêu cầu trả đang xử lý")
	ErrInvalidReturnItems  = errors.New("danh sách sản phẩm trả không hợp lệ")
	ErrNotOwner            = errors.New("bạn không có quyền trên yêu cầu này")
	ErrInvalidTransition   = errors.New("chuyển trạng thái không hợp lệ")
)

// NewTransitionError wraps ErrInvalidTransition with the status the
// request must be in before the attempted move.
func NewTransitionError(current, target string) error {
	required := RequiredPriorStatus(target)
	if required == "" {
		return fmt.Errorf("%w: không thể chuyển sang %s từ %s", ErrInvalidTransition, target, current)
	}
	return fmt.Errorf("%w: yêu cầu phải ở trạng thái %s (hiện tại %s)", ErrInvalidTransition, required, current)
}

type errorInfo struct {
	Status  int
	Code    string
	Message string
}

var returnErrorMap = map[error]errorInfo{
	ErrReturnNotFound:      {http.StatusNotFound, "RET_NOT_FOUND", "Không tìm thấy yêu cầu trả hàng"},
	ErrOrderNotDelivered:   {http.StatusConflict, "RET_ORDER_NOT_DELIVERED", "Chỉ đơn hàng đã giao mới được trả"},
	ErrReturnWindowExpired: {http.StatusConflict, "RET_WINDOW_EXPIRED", "Đã quá thời hạn trả hàng"},
	ErrActiveReturnExists:  {http.StatusConflict, "RET_ACTIVE_EXISTS", "Đơn hàng đã có yêu cầu trả đang xử lý"},
	ErrInvalidReturnItems:  {http.StatusBadRequest, "RET_INVALID_ITEMS", "Danh sách sản phẩm trả không hợp lệ"},
	ErrNotOwner:            {http.StatusForbidden, "RET_FORBIDDEN", "Bạn không có quyền trên yêu cầu này"},
	ErrInvalidTransition:   {http.StatusConflict, "RET_INVALID_TRANSITION", "Chuyển trạng thái không hợp lệ"},
}

// HandleReturnError writes the HTTP response for a returns-domain
// error. Returns true when the error was recognized and handled.
func HandleReturnError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	for sentinel, info := range returnErrorMap {
		if errors.Is(err, sentinel) {
			response.ErrorResponse(c, info.Status, info.Code, err.Error())
			return true
		}
	}

	logger.Error("Lỗi xử lý yêu cầu trả hàng", err)
	response.ErrorResponse(c, http.StatusInternalServerError, "RET_INTERNAL", "Đã xảy ra lỗi, vui lòng thử lại sau")
	return true
}
