package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"laptopshop-backend/internal/domains/report/model"
	"laptopshop-backend/internal/domains/report/service"
	"laptopshop-backend/internal/shared/response"
	"laptopshop-backend/pkg/logger"
)

type Handler struct {
	reports *service.ReportService
}

func NewHandler(reports *service.ReportService) *Handler {
	return &Handler{reports: reports}
}

// GetRevenueReport - GET /v1/admin/reports/revenue
func (h *Handler) GetRevenueReport(c *gin.Context) {
	var query model.ReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	report, err := h.reports.GetRevenueReport(c.Request.Context(), query)
	if handleReportFailure(c, err) {
		return
	}
	response.Success(c, http.StatusOK, report)
}

// GetDashboardSummary - GET /v1/admin/reports/summary
func (h *Handler) GetDashboardSummary(c *gin.Context) {
	summary, err := h.reports.GetDashboardSummary(c.Request.Context())
	if handleReportFailure(c, err) {
		return
	}
	response.Success(c, http.StatusOK, summary)
}

// ExportRevenue - GET /v1/admin/reports/revenue/export
// Streams the report as an xlsx download.
func (h *Handler) ExportRevenue(c *gin.Context) {
	var query model.ReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	f, err := h.reports.ExportRevenueToExcel(c.Request.Context(), query)
	if handleReportFailure(c, err) {
		return
	}

	filename := "revenue-report.xlsx"
	if query.From != "" || query.To != "" {
		filename = fmt.Sprintf("revenue-report-%s_%s.xlsx", query.From, query.To)
	}
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if _, err := f.WriteTo(c.Writer); err != nil {
		logger.Error("Không thể ghi file báo cáo", err)
	}
}

func handleReportFailure(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VAL_INVALID_INPUT", "Validation failed", verrs)
		return true
	}
	if errors.Is(err, model.ErrInvalidDateRange) {
		response.BadRequest(c, "Khoảng thời gian báo cáo không hợp lệ")
		return true
	}

	logger.Error("Lỗi tạo báo cáo", err)
	response.InternalServerError(c, "Internal server error")
	return true
}
