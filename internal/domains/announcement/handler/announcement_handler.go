package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"laptopshop-backend/internal/domains/announcement/model"
	"laptopshop-backend/internal/domains/announcement/service"
	"laptopshop-backend/internal/shared/response"
	"laptopshop-backend/internal/shared/utils"
	"laptopshop-backend/pkg/logger"
)

type Handler struct {
	announcements *service.AnnouncementService
}

func NewHandler(announcements *service.AnnouncementService) *Handler {
	return &Handler{announcements: announcements}
}

// ListAnnouncements - GET /v1/announcements
func (h *Handler) ListAnnouncements(c *gin.Context) {
	items, err := h.announcements.ListPublic(c.Request.Context())
	if handleAnnouncementFailure(c, err) {
		return
	}
	response.Success(c, http.StatusOK, items)
}

// ListAllAnnouncements - GET /v1/admin/announcements
func (h *Handler) ListAllAnnouncements(c *gin.Context) {
	items, err := h.announcements.ListAll(c.Request.Context())
	if handleAnnouncementFailure(c, err) {
		return
	}
	response.Success(c, http.StatusOK, items)
}

// CreateAnnouncement - POST /v1/admin/announcements
func (h *Handler) CreateAnnouncement(c *gin.Context) {
	var req model.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	a, err := h.announcements.Create(c.Request.Context(), req)
	if handleAnnouncementFailure(c, err) {
		return
	}
	response.Success(c, http.StatusCreated, a)
}

// UpdateAnnouncement - PUT /v1/admin/announcements/:id
func (h *Handler) UpdateAnnouncement(c *gin.Context) {
	id := c.Param("id")
	if !utils.IsValidUUID(id) {
		response.BadRequest(c, "Invalid announcement ID")
		return
	}

	var req model.UpdateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	a, err := h.announcements.Update(c.Request.Context(), uuid.MustParse(id), req)
	if handleAnnouncementFailure(c, err) {
		return
	}
	response.Success(c, http.StatusOK, a)
}

// DeleteAnnouncement - DELETE /v1/admin/announcements/:id
func (h *Handler) DeleteAnnouncement(c *gin.Context) {
	id := c.Param("id")
	if !utils.IsValidUUID(id) {
		response.BadRequest(c, "Invalid announcement ID")
		return
	}

	if handleAnnouncementFailure(c, h.announcements.Delete(c.Request.Context(), uuid.MustParse(id))) {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Xóa thông báo thành công"})
}

func handleAnnouncementFailure(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VAL_INVALID_INPUT", "Validation failed", verrs)
		return true
	}
	if errors.Is(err, model.ErrAnnouncementNotFound) {
		response.NotFound(c, "Không tìm thấy thông báo")
		return true
	}

	logger.Error("Lỗi xử lý thông báo", err)
	response.InternalServerError(c, "Internal server error")
	return true
}
