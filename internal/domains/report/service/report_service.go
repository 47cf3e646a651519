package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"laptopshop-backend/internal/domains/report/model"
	"laptopshop-backend/internal/domains/report/repository"
)

// =====================================================
// REPORT SERVICE
// =====================================================

const topProductLimit = 10

type ReportService struct {
	reports repository.ReportRepository
	now     func() time.Time
}

func NewReportService(reports repository.ReportRepository) *ReportService {
	return &ReportService{
		reports: reports,
		now:     time.Now,
	}
}

// GetRevenueReport aggregates revenue over the queried range, bucketed
// both daily and monthly.
func (s *ReportService) GetRevenueReport(ctx context.Context, query model.ReportQuery) (*model.RevenueReport, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	from, to, err := query.Range(s.now())
	if err != nil {
		return nil, err
	}

	daily, err := s.reports.RevenueByDay(ctx, from, to)
	if err != nil {
		return nil, err
	}
	monthly, err := s.reports.RevenueByMonth(ctx, from, to)
	if err != nil {
		return nil, err
	}
	topProducts, err := s.reports.TopSelling(ctx, from, to, topProductLimit)
	if err != nil {
		return nil, err
	}

	report := &model.RevenueReport{
		From:         from,
		To:           to,
		TotalRevenue: decimal.Zero,
		Daily:        daily,
		Monthly:      monthly,
		TopProducts:  topProducts,
	}
	for _, p := range daily {
		report.TotalRevenue = report.TotalRevenue.Add(p.Revenue)
		report.TotalOrders += p.OrderCount
	}
	return report, nil
}

// GetDashboardSummary backs the admin landing page with today's and
// this month's numbers.
func (s *ReportService) GetDashboardSummary(ctx context.Context) (*model.DashboardSummary, error) {
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	today, err := s.reports.RevenueByDay(ctx, dayStart, now)
	if err != nil {
		return nil, err
	}
	thisMonth, err := s.reports.RevenueByMonth(ctx, monthStart, now)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.reports.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	activeReturns, err := s.reports.CountActiveReturns(ctx)
	if err != nil {
		return nil, err
	}

	summary := &model.DashboardSummary{
		RevenueToday:     decimal.Zero,
		RevenueThisMonth: decimal.Zero,
		OrdersByStatus:   byStatus,
		ActiveReturns:    activeReturns,
	}
	for _, p := range today {
		summary.RevenueToday = summary.RevenueToday.Add(p.Revenue)
		summary.OrdersToday += p.OrderCount
	}
	for _, p := range thisMonth {
		summary.RevenueThisMonth = summary.RevenueThisMonth.Add(p.Revenue)
	}
	for _, sc := range byStatus {
		if sc.Status == "pending" {
			summary.PendingOrders = sc.Count
		}
	}
	return summary, nil
}

// ExportRevenueToExcel renders the revenue report as an xlsx file with
// one sheet per bucket granularity.
func (s *ReportService) ExportRevenueToExcel(ctx context.Context, query model.ReportQuery) (*excelize.File, error) {
	report, err := s.GetRevenueReport(ctx, query)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()

	dailySheet := "Revenue by day"
	f.SetSheetName("Sheet1", dailySheet)
	if err := writeRevenueSheet(f, dailySheet, report.Daily); err != nil {
		return nil, err
	}

	monthlySheet := "Revenue by month"
	if _, err := f.NewSheet(monthlySheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := writeRevenueSheet(f, monthlySheet, report.Monthly); err != nil {
		return nil, err
	}

	topSheet := "Top products"
	if _, err := f.NewSheet(topSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := writeTopProductsSheet(f, topSheet, report.TopProducts); err != nil {
		return nil, err
	}

	return f, nil
}

func writeTopProductsSheet(f *excelize.File, sheetName string, products []model.TopProduct) error {
	headers := []string{"Laptop", "Units Sold", "Revenue"}
	for colIdx, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		f.SetCellStyle(sheetName, "A1", "C1", headerStyle)
	}

	for i, p := range products {
		rowNum := i + 2
		cellName := func(col int) string {
			cell, _ := excelize.CoordinatesToCellName(col, rowNum)
			return cell
		}
		f.SetCellValue(sheetName, cellName(1), p.Name)
		f.SetCellValue(sheetName, cellName(2), p.QuantitySold)
		f.SetCellValue(sheetName, cellName(3), p.Revenue.InexactFloat64())
	}
	return nil
}

func writeRevenueSheet(f *excelize.File, sheetName string, points []model.RevenuePoint) error {
	headers := []string{"Period", "Revenue", "Order Count"}
	for colIdx, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		f.SetCellStyle(sheetName, "A1", "C1", headerStyle)
	}

	total := decimal.Zero
	totalOrders := 0
	for i, p := range points {
		rowNum := i + 2
		cellName := func(col int) string {
			cell, _ := excelize.CoordinatesToCellName(col, rowNum)
			return cell
		}

		f.SetCellValue(sheetName, cellName(1), p.Period)
		f.SetCellValue(sheetName, cellName(2), p.Revenue.InexactFloat64())
		f.SetCellValue(sheetName, cellName(3), p.OrderCount)

		total = total.Add(p.Revenue)
		totalOrders += p.OrderCount
	}

	// Tổng cộng ở dòng cuối
	sumRow := len(points) + 2
	cellName := func(col int) string {
		cell, _ := excelize.CoordinatesToCellName(col, sumRow)
		return cell
	}
	f.SetCellValue(sheetName, cellName(1), "Total")
	f.SetCellValue(sheetName, cellName(2), total.InexactFloat64())
	f.SetCellValue(sheetName, cellName(3), totalOrders)

	return nil
}
