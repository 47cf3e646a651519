package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"laptopshop-backend/internal/domains/user"
	"laptopshop-backend/internal/shared/response"
	"laptopshop-backend/internal/shared/utils"
	"laptopshop-backend/pkg/logger"
)

type Handler struct {
	users *user.UserService
}

func NewHandler(users *user.UserService) *Handler {
	return &Handler{users: users}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get("userID")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// =====================================================
// AUTH ENDPOINTS
// =====================================================

// Register - POST /v1/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	dto, err := h.users.Register(c.Request.Context(), req)
	if handleUserFailure(c, err) {
		return
	}
	response.Success(c, http.StatusCreated, dto)
}

// Login - POST /v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	res, err := h.users.Login(c.Request.Context(), req)
	if handleUserFailure(c, err) {
		return
	}
	response.Success(c, http.StatusOK, res)
}

// Refresh - POST /v1/auth/refresh
func (h *Handler) Refresh(c *gin.Context) {
	var req user.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	res, err := h.users.RefreshToken(c.Request.Context(), req.RefreshToken)
	if handleUserFailure(c, err) {
		return
	}
	response.Success(c, http.StatusOK, res)
}

// ForgotPassword - POST /v1/auth/forgot-password
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req user.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	if handleUserFailure(c, h.users.ForgotPassword(c.Request.Context(), req)) {
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"message": "Nếu email tồn tại, hướng dẫn đặt lại mật khẩu đã được gửi",
	})
}

// ResetPassword - POST /v1/auth/reset-password
func (h *Handler) ResetPassword(c *gin.Context) {
	var req user.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	if handleUserFailure(c, h.users.ResetPassword(c.Request.Context(), req)) {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Đặt lại mật khẩu thành công"})
}

// =====================================================
// PROFILE ENDPOINTS
// =====================================================

// GetProfile - GET /v1/users/me
func (h *Handler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	dto, err := h.users.GetProfile(c.Request.Context(), userID)
	if handleUserFailure(c, err) {
		return
	}
	response.Success(c, http.StatusOK, dto)
}

// UpdateProfile - PUT /v1/users/me
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req user.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	dto, err := h.users.UpdateProfile(c.Request.Context(), userID, req)
	if handleUserFailure(c, err) {
		return
	}
	response.Success(c, http.StatusOK, dto)
}

// ChangePassword - PUT /v1/users/me/password
func (h *Handler) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req user.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	if handleUserFailure(c, h.users.ChangePassword(c.Request.Context(), userID, req)) {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Đổi mật khẩu thành công"})
}

// =====================================================
// ADMIN ENDPOINTS
// =====================================================

// ListUsers - GET /v1/admin/users
func (h *Handler) ListUsers(c *gin.Context) {
	var req user.ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	req.Normalize()

	users, total, err := h.users.ListUsers(c.Request.Context(), req)
	if handleUserFailure(c, err) {
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, users, &response.Meta{
		Page: req.Page, Limit: req.Limit, Total: total,
	})
}

// UpdateUserRole - PUT /v1/admin/users/:id/role
func (h *Handler) UpdateUserRole(c *gin.Context) {
	id := c.Param("id")
	if !utils.IsValidUUID(id) {
		response.BadRequest(c, "Invalid user ID")
		return
	}

	var req user.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	if handleUserFailure(c, h.users.UpdateUserRole(c.Request.Context(), uuid.MustParse(id), req)) {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Cập nhật vai trò thành công"})
}

// UpdateUserStatus - PUT /v1/admin/users/:id/status
func (h *Handler) UpdateUserStatus(c *gin.Context) {
	id := c.Param("id")
	if !utils.IsValidUUID(id) {
		response.BadRequest(c, "Invalid user ID")
		return
	}

	var req user.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	if handleUserFailure(c, h.users.UpdateUserStatus(c.Request.Context(), uuid.MustParse(id), req)) {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Cập nhật trạng thái thành công"})
}

// =====================================================
// ERROR MAPPING
// =====================================================

func handleUserFailure(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VAL_INVALID_INPUT", "Validation failed", verrs)
		return true
	}

	switch {
	case errors.Is(err, user.ErrUserNotFound):
		response.NotFound(c, "Không tìm thấy tài khoản")
	case errors.Is(err, user.ErrEmailAlreadyExists):
		response.Conflict(c, "Email đã được sử dụng")
	case errors.Is(err, user.ErrUsernameAlreadyExists):
		response.Conflict(c, "Tên đăng nhập đã được sử dụng")
	case errors.Is(err, user.ErrInvalidCredentials):
		response.Unauthorized(c, "Tên đăng nhập hoặc mật khẩu không đúng")
	case errors.Is(err, user.ErrUserInactive):
		response.Forbidden(c, "Tài khoản đã bị khóa")
	case errors.Is(err, user.ErrInvalidToken):
		response.Unauthorized(c, "Token không hợp lệ hoặc đã hết hạn")
	case errors.Is(err, user.ErrSamePassword):
		response.BadRequest(c, "Mật khẩu mới không được trùng mật khẩu cũ")
	case errors.Is(err, user.ErrInvalidRole):
		response.BadRequest(c, "Vai trò không hợp lệ")
	default:
		logger.Error("Lỗi xử lý tài khoản", err)
		response.InternalServerError(c, "Internal server error")
	}
	return true
}
