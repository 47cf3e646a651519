package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"laptopshop-backend/internal/domains/chat/model"
	"laptopshop-backend/internal/domains/chat/repository"
	"laptopshop-backend/internal/domains/chat/ws"
	"laptopshop-backend/pkg/logger"
)

// =====================================================
// CHAT SERVICE
// =====================================================

// ChatService relays two-party messages between customers and the
// support desk. All configured admin aliases share one conversation
// thread stored under the first, canonical, alias.
type ChatService struct {
	messages     repository.ChatRepository
	hub          *ws.Hub
	adminAliases []string
}

func NewChatService(messages repository.ChatRepository, hub *ws.Hub, adminAliases []string) *ChatService {
	return &ChatService{
		messages:     messages,
		hub:          hub,
		adminAliases: adminAliases,
	}
}

// CanonicalAdmin is the alias chat history is stored under.
func (s *ChatService) CanonicalAdmin() string {
	return s.adminAliases[0]
}

// IsAdminAlias reports whether the username is one of the configured
// support aliases.
func (s *ChatService) IsAdminAlias(username string) bool {
	for _, alias := range s.adminAliases {
		if strings.EqualFold(alias, username) {
			return true
		}
	}
	return false
}

// SendMessage persists and relays one message.
//
// A customer message always goes to the support desk, whatever
// recipient the client sent. An admin message needs an explicit
// recipient that is not the admin themself.
func (s *ChatService) SendMessage(ctx context.Context, sender string, senderIsAdmin bool, req model.SendMessageRequest) (*model.ChatMessage, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	recipient := strings.TrimSpace(req.Recipient)
	if senderIsAdmin {
		if recipient == "" {
			return nil, model.ErrBlankRecipient
		}
		// Whichever alias answers, the customer sees one support identity
		sender = s.CanonicalAdmin()
	} else {
		recipient = s.CanonicalAdmin()
	}

	// Messages to any support alias land in the canonical thread
	if s.IsAdminAlias(recipient) {
		recipient = s.CanonicalAdmin()
	}
	if senderIsAdmin && strings.EqualFold(recipient, sender) {
		return nil, model.ErrSelfRecipient
	}

	msg := &model.ChatMessage{
		ID:        uuid.New(),
		Sender:    sender,
		Recipient: recipient,
		Content:   req.Content,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.deliver(msg)
	return msg, nil
}

// deliver pushes the message over the realtime channel. Support
// messages go to whichever alias is currently connected; offline
// recipients pick the message up from history.
func (s *ChatService) deliver(msg *model.ChatMessage) {
	event := &ws.Event{Type: "message", Payload: msg}

	if msg.Recipient != s.CanonicalAdmin() {
		s.hub.SendToUser(msg.Recipient, event)
		return
	}

	for _, alias := range s.adminAliases {
		if s.hub.IsOnline(alias) {
			s.hub.SendToUser(alias, event)
			return
		}
	}
	logger.Debug("Không có admin trực tuyến, tin nhắn chờ trong lịch sử")
}

// History returns the conversation between the requester and the
// other party. Customers always read their support thread.
func (s *ChatService) History(ctx context.Context, requester string, requesterIsAdmin bool, withUser string, limit int) ([]model.ChatMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	if !requesterIsAdmin {
		return s.messages.GetConversation(ctx, requester, s.CanonicalAdmin(), limit)
	}

	withUser = strings.TrimSpace(withUser)
	if withUser == "" {
		return nil, model.ErrBlankRecipient
	}
	return s.messages.GetConversation(ctx, s.CanonicalAdmin(), withUser, limit)
}

// Partners lists the customers who have written to the support desk,
// most recent first.
func (s *ChatService) Partners(ctx context.Context) ([]string, error) {
	return s.messages.ListPartners(ctx, s.CanonicalAdmin())
}

// UnreadCount counts the messages waiting for the requester. Admin
// aliases all watch the canonical inbox.
func (s *ChatService) UnreadCount(ctx context.Context, requester string, requesterIsAdmin bool) (int, error) {
	inbox := requester
	if requesterIsAdmin {
		inbox = s.CanonicalAdmin()
	}
	return s.messages.CountUnread(ctx, inbox)
}

// MarkRead flags the conversation with the other party as read from
// the requester's side. Customers always read their support thread.
func (s *ChatService) MarkRead(ctx context.Context, requester string, requesterIsAdmin bool, withUser string) error {
	if !requesterIsAdmin {
		return s.messages.MarkRead(ctx, requester, s.CanonicalAdmin())
	}

	withUser = strings.TrimSpace(withUser)
	if withUser == "" {
		return model.ErrBlankRecipient
	}
	return s.messages.MarkRead(ctx, s.CanonicalAdmin(), withUser)
}
