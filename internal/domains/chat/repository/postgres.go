package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"laptopshop-backend/internal/domains/chat/model"
)

// ChatRepository persists chat messages.
type ChatRepository interface {
	Create(ctx context.Context, msg *model.ChatMessage) error

	// GetConversation loads the message history between two usernames,
	// oldest first, capped at limit.
	GetConversation(ctx context.Context, userA, userB string, limit int) ([]model.ChatMessage, error)

	// ListPartners returns the usernames that have ever messaged the
	// given recipient, most recent first.
	ListPartners(ctx context.Context, recipient string) ([]string, error)

	// CountUnread counts messages to the recipient not yet marked read.
	CountUnread(ctx context.Context, recipient string) (int, error)

	// MarkRead flags everything the sender wrote to the recipient as read.
	MarkRead(ctx context.Context, recipient, sender string) error
}

type chatRepository struct {
	db *pgxpool.Pool
}

func NewChatRepository(db *pgxpool.Pool) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, msg *model.ChatMessage) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO chat_messages (id, sender, recipient, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		msg.ID, msg.Sender, msg.Recipient, msg.Content,
	).Scan(&msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create chat message: %w", err)
	}
	return nil
}

func (r *chatRepository) GetConversation(ctx context.Context, userA, userB string, limit int) ([]model.ChatMessage, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, sender, recipient, content, is_read, created_at
		FROM (
			SELECT id, sender, recipient, content, is_read, created_at
			FROM chat_messages
			WHERE (sender = $1 AND recipient = $2) OR (sender = $2 AND recipient = $1)
			ORDER BY created_at DESC
			LIMIT $3
		) recent
		ORDER BY created_at ASC`,
		userA, userB, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	defer rows.Close()

	messages := make([]model.ChatMessage, 0)
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.Sender, &m.Recipient, &m.Content, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read chat messages: %w", err)
	}
	return messages, nil
}

func (r *chatRepository) CountUnread(ctx context.Context, recipient string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM chat_messages
		WHERE recipient = $1 AND is_read = FALSE`,
		recipient).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}

func (r *chatRepository) MarkRead(ctx context.Context, recipient, sender string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE chat_messages SET is_read = TRUE
		WHERE recipient = $1 AND sender = $2 AND is_read = FALSE`,
		recipient, sender)
	if err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}
	return nil
}

func (r *chatRepository) ListPartners(ctx context.Context, recipient string) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT sender, MAX(created_at) AS last_at
		FROM chat_messages
		WHERE recipient = $1
		GROUP BY sender
		ORDER BY last_at DESC`,
		recipient)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat partners: %w", err)
	}
	defer rows.Close()

	partners := make([]string, 0)
	for rows.Next() {
		var sender string
		var lastAt time.Time
		if err := rows.Scan(&sender, &lastAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat partner: %w", err)
		}
		partners = append(partners, sender)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read chat partners: %w", err)
	}
	return partners, nil
}
