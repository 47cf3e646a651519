package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"laptopshop-backend/internal/domains/returns/model"
)

// ReturnRepository persists return requests. Receipt of returned goods
// moves stock and status together, so those writes run in one
// transaction.
type ReturnRepository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
	CommitTx(ctx context.Context, tx pgx.Tx) error
	RollbackTx(ctx context.Context, tx pgx.Tx) error

	Create(ctx context.Context, req *model.ReturnRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ReturnRequest, error)

	// HasActiveByOrder reports whether the order already carries a
	// request in REQUESTED, APPROVED, or ITEM_RECEIVED.
	HasActiveByOrder(ctx context.Context, orderID uuid.UUID) (bool, error)

	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.ReturnRequest, int, error)
	List(ctx context.Context, status string, page, limit int) ([]model.ReturnRequest, int, error)

	// UpdateStatus moves the request and stamps the matching lifecycle
	// timestamp (processed, received, or refunded).
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error

	SetAdminNote(ctx context.Context, id uuid.UUID, note string) error
	UpdateStatusWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string) error
	RestoreStockWithTx(ctx context.Context, tx pgx.Tx, laptopID uuid.UUID, qty int) error
}
