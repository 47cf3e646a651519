package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/google/uuid"
)

// =====================================================
// CHAT ERRORS
// =====================================================

var (
	ErrBlankRecipient = errors.New("người nhận không được để trống")
	ErrSelfRecipient  = errors.New("không thể gửi tin nhắn cho chính mình")
)

// =====================================================
// ENTITIES
// =====================================================

// ChatMessage is one persisted message. Messages addressed to any
// configured admin alias are stored under the canonical alias so the
// whole conversation lands in one thread.
type ChatMessage struct {
	ID        uuid.UUID `json:"id"`
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// =====================================================
// DTOs
// =====================================================

type SendMessageRequest struct {
	Recipient string `json:"recipient"`
	Content   string `json:"content"`
}

func (r SendMessageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Required, validation.Length(1, 2000)),
		validation.Field(&r.Recipient, validation.Length(0, 100)),
	)
}
