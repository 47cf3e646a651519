package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"laptopshop-backend/internal/domains/order/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type orderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) OrderRepository {
	return &orderRepository{db: db}
}

// =====================================================
// TRANSACTION MANAGEMENT
// =====================================================

func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

func (r *orderRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	return tx.Commit(ctx)
}

func (r *orderRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	return tx.Rollback(ctx)
}

// =====================================================
// WRITES
// =====================================================

func (r *orderRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO orders (
			id, order_number, user_id,
			receiver_name, receiver_phone, shipping_address,
			discount_code, discount_percent,
			subtotal, discount_amount, total,
			payment_method, payment_status, status, customer_note
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at`,
		order.ID, order.OrderNumber, order.UserID,
		order.ReceiverName, order.ReceiverPhone, order.ShippingAddr,
		order.DiscountCode, order.DiscountPercent,
		order.Subtotal, order.DiscountAmount, order.Total,
		order.PaymentMethod, order.PaymentStatus, order.Status, order.CustomerNote,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		err := tx.QueryRow(ctx, `
			INSERT INTO order_items (
				id, order_id, laptop_id, laptop_name, laptop_slug,
				quantity, price, subtotal
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING created_at`,
			item.ID, item.OrderID, item.LaptopID, item.LaptopName, item.LaptopSlug,
			item.Quantity, item.Price, item.Subtotal,
		).Scan(&item.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return nil
}

// DecrementStockWithTx relies on the conditional UPDATE to close the
// oversell race: the quantity check and the decrement happen in one
// statement.
func (r *orderRepository) DecrementStockWithTx(ctx context.Context, tx pgx.Tx, laptopID uuid.UUID, qty int) error {
	tag, err := tx.Exec(ctx, `
		UPDATE laptops
		SET quantity = quantity - $2, sold = sold + $2, updated_at = NOW()
		WHERE id = $1 AND quantity >= $2 AND is_active = true`,
		laptopID, qty)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrInsufficientStock
	}
	return nil
}

func (r *orderRepository) RestoreStockWithTx(ctx context.Context, tx pgx.Tx, laptopID uuid.UUID, qty int) error {
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

func (r *orderRepository) CancelWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	tag, err := tx.Exec(ctx, `
		UPDATE orders
		SET status = $2, cancel_reason = $3, canceled_by = $4,
		    canceled_at = $5, updated_at = NOW()
		WHERE id = $1 AND status IN ('pending', 'confirmed')`,
		order.ID, order.Status, order.CancelReason, order.CanceledBy, order.CanceledAt)
	if err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Missing, or a concurrent request resolved the order first.
		// Rolling back the surrounding transaction undoes the restock.
		return model.ErrOrderCannotCancel
	}
	return nil
}

func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete order items: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}
	return tx.Commit(ctx)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, deliveredAt *time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE orders
		SET status = $2, delivered_at = COALESCE($3, delivered_at), updated_at = NOW()
		WHERE id = $1`,
		id, status, deliveredAt)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE orders
		SET payment_status = $2, paid_at = $3, status = $4, updated_at = NOW()
		WHERE id = $1`,
		id, model.PaymentStatusPaid, paidAt, model.OrderStatusConfirmed)
	if err != nil {
		return fmt.Errorf("failed to mark order paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) MarkPaymentFailed(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE orders SET payment_status = $2, updated_at = NOW() WHERE id = $1`,
		id, model.PaymentStatusFailed)
	if err != nil {
		return fmt.Errorf("failed to mark payment failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) MarkRefunded(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE orders SET payment_status = $2, updated_at = NOW() WHERE id = $1`,
		id, model.PaymentStatusRefunded)
	if err != nil {
		return fmt.Errorf("failed to mark order refunded: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

// =====================================================
// READS
// =====================================================

const orderColumns = `
	id, order_number, user_id,
	receiver_name, receiver_phone, shipping_address,
	discount_code, discount_percent,
	subtotal, discount_amount, total,
	payment_method, payment_status, paid_at,
	status, cancel_reason, canceled_by, canceled_at, delivered_at,
	customer_note, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID,
		&o.ReceiverName, &o.ReceiverPhone, &o.ShippingAddr,
		&o.DiscountCode, &o.DiscountPercent,
		&o.Subtotal, &o.DiscountAmount, &o.Total,
		&o.PaymentMethod, &o.PaymentStatus, &o.PaidAt,
		&o.Status, &o.CancelReason, &o.CanceledBy, &o.CanceledAt, &o.DeliveredAt,
		&o.CustomerNote, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := scanOrder(r.db.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

func (r *orderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	order, err := scanOrder(r.db.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM orders WHERE order_number = $1`, orderColumns), orderNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by number: %w", err)
	}

	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, laptop_id, laptop_name, laptop_slug,
		       quantity, price, subtotal, created_at
		FROM order_items WHERE order_id = $1
		ORDER BY created_at`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.LaptopID, &it.LaptopName,
			&it.LaptopSlug, &it.Quantity, &it.Price, &it.Subtotal, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Order, int, error) {
	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, orderColumns),
		userID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepository) List(ctx context.Context, query model.ListOrdersQuery) ([]model.Order, int, error) {
	where := "1=1"
	args := []interface{}{}
	if query.Status != "" {
		where = "status = $1"
		args = append(args, query.Status)
	}

	var total int
	if err := r.db.QueryRow(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM orders WHERE %s`, where), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	limitIdx := len(args) + 1
	args = append(args, query.Limit, (query.Page-1)*query.Limit)

	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, orderColumns, where, limitIdx, limitIdx+1),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepository) ListStalePending(ctx context.Context, paymentMethod string, olderThan time.Time) ([]model.Order, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE status = $1 AND payment_status = $2
		  AND payment_method = $3 AND created_at < $4
		ORDER BY created_at`, orderColumns),
		model.OrderStatusPending, model.PaymentStatusPending, paymentMethod, olderThan)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale pending orders: %w", err)
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func collectOrders(rows pgx.Rows) ([]model.Order, error) {
	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}
