package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"laptopshop-backend/internal/domains/report/model"
)

// ReportRepository aggregates revenue over orders. Only orders that
// were actually committed to (confirmed, shipped, delivered) count.
type ReportRepository interface {
	RevenueByDay(ctx context.Context, from, to time.Time) ([]model.RevenuePoint, error)
	RevenueByMonth(ctx context.Context, from, to time.Time) ([]model.RevenuePoint, error)
	CountByStatus(ctx context.Context) ([]model.StatusCount, error)
	CountActiveReturns(ctx context.Context) (int, error)

	// TopSelling ranks laptops by units sold over the range, using the
	// name snapshot on the order line so renamed laptops still report.
	TopSelling(ctx context.Context, from, to time.Time, limit int) ([]model.TopProduct, error)
}

// revenueStatuses are the order statuses included in revenue sums.
var revenueStatuses = []string{"confirmed", "shipped", "delivered"}

type reportRepository struct {
	db *pgxpool.Pool
}

func NewReportRepository(db *pgxpool.Pool) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) RevenueByDay(ctx context.Context, from, to time.Time) ([]model.RevenuePoint, error) {
	return r.revenueBuckets(ctx, "YYYY-MM-DD", from, to)
}

func (r *reportRepository) RevenueByMonth(ctx context.Context, from, to time.Time) ([]model.RevenuePoint, error) {
	return r.revenueBuckets(ctx, "YYYY-MM", from, to)
}

func (r *reportRepository) revenueBuckets(ctx context.Context, format string, from, to time.Time) ([]model.RevenuePoint, error) {
	rows, err := r.db.Query(ctx, `
		SELECT to_char(created_at, $1) AS period,
		       COALESCE(SUM(total), 0) AS revenue,
		       COUNT(*) AS order_count
		FROM orders
		WHERE status = ANY($2) AND created_at BETWEEN $3 AND $4
		GROUP BY period
		ORDER BY period`,
		format, revenueStatuses, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query revenue: %w", err)
	}
	defer rows.Close()

	return collectPoints(rows)
}

func collectPoints(rows pgx.Rows) ([]model.RevenuePoint, error) {
	points := make([]model.RevenuePoint, 0)
	for rows.Next() {
		var p model.RevenuePoint
		if err := rows.Scan(&p.Period, &p.Revenue, &p.OrderCount); err != nil {
			return nil, fmt.Errorf("failed to scan revenue point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read revenue points: %w", err)
	}
	return points, nil
}

func (r *reportRepository) CountByStatus(ctx context.Context) ([]model.StatusCount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT status, COUNT(*) FROM orders GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders by status: %w", err)
	}
	defer rows.Close()

	counts := make([]model.StatusCount, 0)
	for rows.Next() {
		var sc model.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts = append(counts, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read status counts: %w", err)
	}
	return counts, nil
}

func (r *reportRepository) TopSelling(ctx context.Context, from, to time.Time, limit int) ([]model.TopProduct, error) {
	rows, err := r.db.Query(ctx, `
		SELECT oi.laptop_id, oi.laptop_name,
		       SUM(oi.quantity) AS units,
		       COALESCE(SUM(oi.subtotal), 0) AS revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.status = ANY($1) AND o.created_at BETWEEN $2 AND $3
		GROUP BY oi.laptop_id, oi.laptop_name
		ORDER BY units DESC, revenue DESC
		LIMIT $4`,
		revenueStatuses, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top sellers: %w", err)
	}
	defer rows.Close()

	products := make([]model.TopProduct, 0)
	for rows.Next() {
		var p model.TopProduct
		if err := rows.Scan(&p.LaptopID, &p.Name, &p.QuantitySold, &p.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan top seller: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read top sellers: %w", err)
	}
	return products, nil
}

func (r *reportRepository) CountActiveReturns(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM return_requests
		WHERE status IN ('REQUESTED', 'APPROVED', 'ITEM_RECEIVED')`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active returns: %w", err)
	}
	return count, nil
}
