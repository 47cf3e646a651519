package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// =====================================================
// REPORT ERRORS
// =====================================================

var (
	ErrInvalidDateRange = errors.New("khoảng thời gian báo cáo không hợp lệ")
)

// =====================================================
// QUERY
// =====================================================

// ReportQuery bounds a revenue report. Dates are inclusive, formatted
// YYYY-MM-DD; both empty means the last 30 days.
type ReportQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
}

func (q ReportQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.From, validation.Date("2006-01-02")),
		validation.Field(&q.To, validation.Date("2006-01-02")),
	)
}

// Range resolves the query into concrete bounds.
func (q ReportQuery) Range(now time.Time) (time.Time, time.Time, error) {
	to := now
	from := now.AddDate(0, 0, -30)

	var err error
	if q.From != "" {
		from, err = time.Parse("2006-01-02", q.From)
		if err != nil {
			return time.Time{}, time.Time{}, ErrInvalidDateRange
		}
	}
	if q.To != "" {
		to, err = time.Parse("2006-01-02", q.To)
		if err != nil {
			return time.Time{}, time.Time{}, ErrInvalidDateRange
		}
		// inclusive end of day
		to = to.Add(24*time.Hour - time.Nanosecond)
	}

	if to.Before(from) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return from, to, nil
}

// =====================================================
// REPORT TYPES
// =====================================================

// RevenuePoint is one aggregated bucket, daily ("2026-01-15") or
// monthly ("2026-01").
type RevenuePoint struct {
	Period     string          `json:"period"`
	Revenue    decimal.Decimal `json:"revenue"`
	OrderCount int             `json:"order_count"`
}

type RevenueReport struct {
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalOrders  int             `json:"total_orders"`
	Daily        []RevenuePoint  `json:"daily"`
	Monthly      []RevenuePoint  `json:"monthly"`
	TopProducts  []TopProduct    `json:"top_products"`
}

// TopProduct is one best-selling laptop over the reported range,
// ranked by units sold.
type TopProduct struct {
	LaptopID     string          `json:"laptop_id"`
	Name         string          `json:"name"`
	QuantitySold int             `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// StatusCount pairs an order status with how many orders hold it.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// DashboardSummary backs the admin landing page.
type DashboardSummary struct {
	RevenueToday     decimal.Decimal `json:"revenue_today"`
	RevenueThisMonth decimal.Decimal `json:"revenue_this_month"`
	OrdersToday      int             `json:"orders_today"`
	PendingOrders    int             `json:"pending_orders"`
	ActiveReturns    int             `json:"active_returns"`
	OrdersByStatus   []StatusCount   `json:"orders_by_status"`
}
