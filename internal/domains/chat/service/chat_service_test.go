package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laptopshop-backend/internal/domains/chat/model"
	"laptopshop-backend/internal/domains/chat/ws"
)

type fakeChatRepo struct {
	messages []*model.ChatMessage
	partners []string
}

func (r *fakeChatRepo) Create(ctx context.Context, msg *model.ChatMessage) error {
	r.messages = append(r.messages, msg)
	return nil
}

func (r *fakeChatRepo) GetConversation(ctx context.Context, userA, userB string, limit int) ([]model.ChatMessage, error) {
	var out []model.ChatMessage
	for _, m := range r.messages {
		pair := (strings.EqualFold(m.Sender, userA) && strings.EqualFold(m.Recipient, userB)) ||
			(strings.EqualFold(m.Sender, userB) && strings.EqualFold(m.Recipient, userA))
		if pair {
			out = append(out, *m)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (r *fakeChatRepo) ListPartners(ctx context.Context, recipient string) ([]string, error) {
	return r.partners, nil
}

func (r *fakeChatRepo) CountUnread(ctx context.Context, recipient string) (int, error) {
	count := 0
	for _, m := range r.messages {
		if strings.EqualFold(m.Recipient, recipient) && !m.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeChatRepo) MarkRead(ctx context.Context, recipient, sender string) error {
	for _, m := range r.messages {
		if strings.EqualFold(m.Recipient, recipient) && strings.EqualFold(m.Sender, sender) {
			m.IsRead = true
		}
	}
	return nil
}

func newChatService(repo *fakeChatRepo) *ChatService {
	// A hub with no Redis and no running loop still buffers deliveries
	return NewChatService(repo, ws.NewHub(nil), []string{"admin", "support"})
}

func send(content, recipient string) model.SendMessageRequest {
	return model.SendMessageRequest{Content: content, Recipient: recipient}
}

func TestCustomerMessageGoesToSupportDesk(t *testing.T) {
	repo := &fakeChatRepo{}
	svc := newChatService(repo)

	msg, err := svc.SendMessage(context.Background(), "khach1", false, send("Laptop của tôi không lên nguồn", "someone-else"))
	require.NoError(t, err)

	assert.Equal(t, "admin", msg.Recipient, "customer messages ignore the client-sent recipient")
	assert.Equal(t, "khach1", msg.Sender)
	require.Len(t, repo.messages, 1)
}

func TestAdminMessageRequiresRecipient(t *testing.T) {
	svc := newChatService(&fakeChatRepo{})

	_, err := svc.SendMessage(context.Background(), "admin", true, send("Chào bạn", "  "))
	assert.ErrorIs(t, err, model.ErrBlankRecipient)
}

func TestAdminCannotMessageThemself(t *testing.T) {
	svc := newChatService(&fakeChatRepo{})

	_, err := svc.SendMessage(context.Background(), "admin", true, send("hi", "Admin"))
	assert.ErrorIs(t, err, model.ErrSelfRecipient)

	// Alias to alias is still the same identity
	_, err = svc.SendMessage(context.Background(), "support", true, send("hi", "admin"))
	assert.ErrorIs(t, err, model.ErrSelfRecipient)
}

func TestAdminRepliesUnderCanonicalAlias(t *testing.T) {
	repo := &fakeChatRepo{}
	svc := newChatService(repo)

	msg, err := svc.SendMessage(context.Background(), "support", true, send("Đã nhận yêu cầu", "khach1"))
	require.NoError(t, err)

	assert.Equal(t, "admin", msg.Sender, "replies carry the canonical identity")
	assert.Equal(t, "khach1", msg.Recipient)

	// The customer sees the reply in their own thread
	history, err := svc.History(context.Background(), "khach1", false, "", 50)
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestAliasRecipientCollapsesToCanonical(t *testing.T) {
	repo := &fakeChatRepo{}
	svc := newChatService(repo)

	msg, err := svc.SendMessage(context.Background(), "khach1", false, send("xin chào", "support"))
	require.NoError(t, err)

	assert.Equal(t, "admin", msg.Recipient, "every support alias shares one thread")
}

func TestSendRejectsEmptyContent(t *testing.T) {
	svc := newChatService(&fakeChatRepo{})

	_, err := svc.SendMessage(context.Background(), "khach1", false, send("", ""))
	assert.Error(t, err)
}

func TestCustomerHistoryIsOwnThread(t *testing.T) {
	repo := &fakeChatRepo{}
	svc := newChatService(repo)

	_, err := svc.SendMessage(context.Background(), "khach1", false, send("tin 1", ""))
	require.NoError(t, err)
	_, err = svc.SendMessage(context.Background(), "khach2", false, send("tin 2", ""))
	require.NoError(t, err)

	history, err := svc.History(context.Background(), "khach1", false, "", 50)
	require.NoError(t, err)

	require.Len(t, history, 1)
	assert.Equal(t, "tin 1", history[0].Content)
}

func TestAdminHistoryNeedsPartner(t *testing.T) {
	svc := newChatService(&fakeChatRepo{})

	_, err := svc.History(context.Background(), "admin", true, "", 50)
	assert.ErrorIs(t, err, model.ErrBlankRecipient)
}

func TestAdminHistoryReadsCanonicalThread(t *testing.T) {
	repo := &fakeChatRepo{}
	svc := newChatService(repo)

	_, err := svc.SendMessage(context.Background(), "khach1", false, send("cần hỗ trợ", ""))
	require.NoError(t, err)

	// The second alias reads the same thread the first one owns
	history, err := svc.History(context.Background(), "support", true, "khach1", 50)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "cần hỗ trợ", history[0].Content)
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	repo := &fakeChatRepo{}
	svc := newChatService(repo)

	_, err := svc.SendMessage(context.Background(), "khach1", false, send("tin 1", ""))
	require.NoError(t, err)
	_, err = svc.SendMessage(context.Background(), "khach1", false, send("tin 2", ""))
	require.NoError(t, err)

	count, err := svc.UnreadCount(context.Background(), "support", true)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "all aliases watch the canonical inbox")

	require.NoError(t, svc.MarkRead(context.Background(), "admin", true, "khach1"))

	count, err = svc.UnreadCount(context.Background(), "admin", true)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestAdminMarkReadNeedsPartner(t *testing.T) {
	svc := newChatService(&fakeChatRepo{})

	err := svc.MarkRead(context.Background(), "admin", true, " ")
	assert.ErrorIs(t, err, model.ErrBlankRecipient)
}

func TestIsAdminAliasCaseInsensitive(t *testing.T) {
	svc := newChatService(&fakeChatRepo{})

	assert.True(t, svc.IsAdminAlias("ADMIN"))
	assert.True(t, svc.IsAdminAlias("Support"))
	assert.False(t, svc.IsAdminAlias("khach1"))
}
