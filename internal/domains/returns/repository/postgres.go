package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"laptopshop-backend/internal/domains/returns/model"
)

type returnRepository struct {
	db *pgxpool.Pool
}

func NewReturnRepository(db *pgxpool.Pool) ReturnRepository {
	return &returnRepository{db: db}
}

// =====================================================
// TRANSACTIONS
// =====================================================

func (r *returnRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

func (r *returnRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	return tx.Commit(ctx)
}

func (r *returnRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	err := tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}

// =====================================================
// WRITES
// =====================================================

func (r *returnRepository) Create(ctx context.Context, req *model.ReturnRequest) error {
	itemsJSON, err := json.Marshal(req.Items)
	if err != nil {
		return fmt.Errorf("failed to encode return items: %w", err)
	}

	photosJSON, err := json.Marshal(req.Photos)
	if err != nil {
		return fmt.Errorf("failed to encode return photos: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO return_requests (id, order_id, user_id, status, reason, items, refund_amount, photos)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		req.ID, req.OrderID, req.UserID, req.Status, req.Reason, itemsJSON, req.RefundAmount, photosJSON,
	).Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create return request: %w", err)
	}
	return nil
}

// updateStatusSQL also stamps the lifecycle timestamp matching the
// target status, leaving the others untouched.
const updateStatusSQL = `
	UPDATE return_requests
	SET status = $2,
	    processed_at = CASE WHEN $2 IN ('APPROVED', 'REJECTED') THEN NOW() ELSE processed_at END,
	    received_at  = CASE WHEN $2 = 'ITEM_RECEIVED' THEN NOW() ELSE received_at END,
	    refunded_at  = CASE WHEN $2 = 'REFUNDED' THEN NOW() ELSE refunded_at END,
	    updated_at = NOW()
	WHERE id = $1`

func (r *returnRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.db.Exec(ctx, updateStatusSQL, id, status)
	if err != nil {
		return fmt.Errorf("failed to update return status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrReturnNotFound
	}
	return nil
}

func (r *returnRepository) UpdateStatusWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string) error {
	tag, err := tx.Exec(ctx, updateStatusSQL, id, status)
	if err != nil {
		return fmt.Errorf("failed to update return status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrReturnNotFound
	}
	return nil
}

func (r *returnRepository) SetAdminNote(ctx context.Context, id uuid.UUID, note string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE return_requests SET admin_note = $2, updated_at = NOW() WHERE id = $1`,
		id, note)
	if err != nil {
		return fmt.Errorf("failed to set admin note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrReturnNotFound
	}
	return nil
}

func (r *returnRepository) RestoreStockWithTx(ctx context.Context, tx pgx.Tx, laptopID uuid.UUID, qty int) error {
	_, err := tx.Exec(ctx, `
		UPDATE laptops
		SET quantity = quantity + $2, sold = GREATEST(sold - $2, 0), updated_at = NOW()
		WHERE id = $1`,
		laptopID, qty)
	if err != nil {
		return fmt.Errorf("failed to restore stock: %w", err)
	}
	return nil
}

// =====================================================
// READS
// =====================================================

const returnColumns = `
	r.id, r.order_id, r.user_id, r.status, r.reason, r.items, r.refund_amount,
	r.photos, r.admin_note, r.processed_at, r.received_at, r.refunded_at,
	r.created_at, r.updated_at, o.order_number`

func scanReturn(row pgx.Row) (*model.ReturnRequest, error) {
	var req model.ReturnRequest
	var itemsJSON, photosJSON []byte

	err := row.Scan(
		&req.ID, &req.OrderID, &req.UserID, &req.Status, &req.Reason, &itemsJSON,
		&req.RefundAmount, &photosJSON, &req.AdminNote,
		&req.ProcessedAt, &req.ReceivedAt, &req.RefundedAt,
		&req.CreatedAt, &req.UpdatedAt, &req.OrderNumber,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(itemsJSON, &req.Items); err != nil {
		return nil, fmt.Errorf("failed to decode return items: %w", err)
	}
	if len(photosJSON) > 0 {
		if err := json.Unmarshal(photosJSON, &req.Photos); err != nil {
			return nil, fmt.Errorf("failed to decode return photos: %w", err)
		}
	}
	return &req, nil
}

func (r *returnRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ReturnRequest, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+returnColumns+`
		FROM return_requests r
		JOIN orders o ON o.id = r.order_id
		WHERE r.id = $1`,
		id)

	req, err := scanReturn(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReturnNotFound
		}
		return nil, fmt.Errorf("failed to get return request: %w", err)
	}
	return req, nil
}

func (r *returnRepository) HasActiveByOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM return_requests
			WHERE order_id = $1 AND status = ANY($2)
		)`,
		orderID, model.ActiveStatuses).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check active return: %w", err)
	}
	return exists, nil
}

func (r *returnRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.ReturnRequest, int, error) {
	var total int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM return_requests WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count return requests: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+returnColumns+`
		FROM return_requests r
		JOIN orders o ON o.id = r.order_id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list return requests: %w", err)
	}
	defer rows.Close()

	requests, err := collectReturns(rows)
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (r *returnRepository) List(ctx context.Context, status string, page, limit int) ([]model.ReturnRequest, int, error) {
	where := ""
	countArgs := []interface{}{}
	pageArgs := []interface{}{limit, (page - 1) * limit}
	if status != "" {
		where = "WHERE r.status = $1"
		countArgs = append(countArgs, status)
		pageArgs = []interface{}{status, limit, (page - 1) * limit}
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM return_requests r ` + where
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count return requests: %w", err)
	}

	query := `
		SELECT ` + returnColumns + `
		FROM return_requests r
		JOIN orders o ON o.id = r.order_id
		` + where + `
		ORDER BY r.created_at DESC`
	if status != "" {
		query += ` LIMIT $2 OFFSET $3`
	} else {
		query += ` LIMIT $1 OFFSET $2`
	}

	rows, err := r.db.Query(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list return requests: %w", err)
	}
	defer rows.Close()

	requests, err := collectReturns(rows)
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func collectReturns(rows pgx.Rows) ([]model.ReturnRequest, error) {
	requests := make([]model.ReturnRequest, 0)
	for rows.Next() {
		req, err := scanReturn(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan return request: %w", err)
		}
		requests = append(requests, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read return requests: %w", err)
	}
	return requests, nil
}
