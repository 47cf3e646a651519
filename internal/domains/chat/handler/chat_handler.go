package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gorilla/websocket"

	"laptopshop-backend/internal/domains/chat/model"
	"laptopshop-backend/internal/domains/chat/service"
	"laptopshop-backend/internal/domains/chat/ws"
	"laptopshop-backend/internal/shared/response"
	"laptopshop-backend/pkg/logger"
)

type Handler struct {
	chat           *service.ChatService
	hub            *ws.Hub
	allowedOrigins []string
	upgrader       websocket.Upgrader
}

func NewHandler(chat *service.ChatService, hub *ws.Hub, allowedOrigins string) *Handler {
	h := &Handler{
		chat:           chat,
		hub:            hub,
		allowedOrigins: parseOrigins(allowedOrigins),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// parseOrigins tách danh sách origin ngăn cách bởi dấu phẩy.
// Chuỗi rỗng hoặc "*" cho phép tất cả, giống middleware CORS.
func parseOrigins(origins string) []string {
	if origins == "" {
		return nil
	}
	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed == "*" {
			return nil
		}
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if len(h.allowedOrigins) == 0 {
		return true
	}
	for _, allowed := range h.allowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

func currentUsername(c *gin.Context) (string, bool) {
	v, exists := c.Get("username")
	if !exists {
		return "", false
	}
	name, ok := v.(string)
	return name, ok && name != ""
}

func isAdmin(c *gin.Context) bool {
	role, _ := c.Get("role")
	r, ok := role.(string)
	return ok && r == "admin"
}

// Connect - GET /v1/chat/ws (WebSocket upgrade)
func (h *Handler) Connect(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}
	senderIsAdmin := isAdmin(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := ws.NewClient(h.hub, conn, username, func(sender string, data []byte) {
		var req model.SendMessageRequest
		if err := json.Unmarshal(data, &req); err != nil {
			logger.Debug("Bỏ qua frame chat không hợp lệ")
			return
		}
		// The request context dies once the upgrade handler returns
		if _, err := h.chat.SendMessage(context.Background(), sender, senderIsAdmin, req); err != nil {
			logger.Warn("Không thể chuyển tin nhắn", map[string]interface{}{
				"sender": sender,
				"error":  err.Error(),
			})
		}
	})
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

// SendMessage - POST /v1/chat/messages
// REST fallback for clients without a live socket.
func (h *Handler) SendMessage(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	msg, err := h.chat.SendMessage(c.Request.Context(), username, isAdmin(c), req)
	if handleChatFailure(c, err) {
		return
	}
	response.Success(c, http.StatusCreated, msg)
}

// GetHistory - GET /v1/chat/history?with=<username>&limit=<n>
func (h *Handler) GetHistory(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	messages, err := h.chat.History(c.Request.Context(), username, isAdmin(c), c.Query("with"), limit)
	if handleChatFailure(c, err) {
		return
	}
	response.Success(c, http.StatusOK, messages)
}

// GetUnreadCount - GET /v1/chat/unread
func (h *Handler) GetUnreadCount(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	count, err := h.chat.UnreadCount(c.Request.Context(), username, isAdmin(c))
	if handleChatFailure(c, err) {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"unread": count})
}

// MarkRead - POST /v1/chat/read?with=<username>
func (h *Handler) MarkRead(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	err := h.chat.MarkRead(c.Request.Context(), username, isAdmin(c), c.Query("with"))
	if handleChatFailure(c, err) {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"marked": true})
}

// ListPartners - GET /v1/admin/chat/partners
func (h *Handler) ListPartners(c *gin.Context) {
	partners, err := h.chat.Partners(c.Request.Context())
	if handleChatFailure(c, err) {
		return
	}
	response.Success(c, http.StatusOK, partners)
}

func handleChatFailure(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VAL_INVALID_INPUT", "Validation failed", verrs)
		return true
	}

	switch {
	case errors.Is(err, model.ErrBlankRecipient):
		response.BadRequest(c, "Người nhận không được để trống")
	case errors.Is(err, model.ErrSelfRecipient):
		response.BadRequest(c, "Không thể gửi tin nhắn cho chính mình")
	default:
		logger.Error("Lỗi xử lý tin nhắn", err)
		response.InternalServerError(c, "Internal server error")
	}
	return true
}
