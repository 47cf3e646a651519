package repository

import (
	"context"
	"time"

	"laptopshop-backend/internal/domains/order/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OrderRepository persists orders. Multi-step writes (checkout, cancel)
// run inside an explicit transaction so stock and order rows move together.
type OrderRepository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
	CommitTx(ctx context.Context, tx pgx.Tx) error
	RollbackTx(ctx context.Context, tx pgx.Tx) error

	CreateWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// DecrementStockWithTx atomically takes qty units off the laptop row.
	// Returns model.ErrInsufficientStock when not enough units remain.
	DecrementStockWithTx(ctx context.Context, tx pgx.Tx, laptopID uuid.UUID, qty int) error
	RestoreStockWithTx(ctx context.Context, tx pgx.Tx, laptopID uuid.UUID, qty int) error

	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*model.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Order, int, error)
	List(ctx context.Context, query model.ListOrdersQuery) ([]model.Order, int, error)

	// ListStalePending returns unpaid orders of one payment method stuck in
	// pending since before the cutoff. Items are loaded so callers can restock.
	ListStalePending(ctx context.Context, paymentMethod string, olderThan time.Time) ([]model.Order, error)

	// CancelWithTx writes the cancel fields. Only pending/confirmed rows
	// match, so a cancel that loses a race returns ErrOrderCannotCancel
	// and the caller's rollback undoes any restock in the same tx.
	CancelWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// Delete removes the order and its items permanently.
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, deliveredAt *time.Time) error
	MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) error
	MarkPaymentFailed(ctx context.Context, id uuid.UUID) error
	MarkRefunded(ctx context.Context, id uuid.UUID) error
}
