package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository là contract cho data access layer. Interface cho phép
// mock trong unit tests và giữ service độc lập với Postgres.
type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error

	// FindByResetToken chỉ trả về user khi reset_token_expires_at > NOW()
	FindByResetToken(ctx context.Context, token string) (*User, error)

	// UpdatePassword cập nhật password và clear reset token
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	SetResetToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	UpdateLastLogin(ctx context.Context, userID uuid.UUID) error

	// Admin
	List(ctx context.Context, req ListUsersRequest) ([]User, int, error)
	UpdateRole(ctx context.Context, userID uuid.UUID, role Role) error
	UpdateStatus(ctx context.Context, userID uuid.UUID, isActive bool) error
}
