package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/export"
	"github.com/dafibh/fintrack/fintrack-backend/internal/middleware"
	"github.com/dafibh/fintrack/fintrack-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// ReportHandler handles report-related HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
	now           func() time.Time
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		now:           time.Now,
	}
}

// SpendingTrendPointResponse is the expense total of one month
type SpendingTrendPointResponse struct {
	MonthYear     string  `json:"monthYear"`
	TotalExpenses float64 `json:"totalExpenses"`
}

// ArchiveExportRequest represents the archive export request body
type ArchiveExportRequest struct {
	StartDate  string   `json:"startDate"`
	EndDate    string   `json:"endDate"`
	Categories []string `json:"categories"`
	Format     string   `json:"format"`
}

// ExportArchiveResponse links to an archived export
type ExportArchiveResponse struct {
	Key       string `json:"key"`
	URL       string `json:"url"`
	ExpiresAt string `json:"expiresAt"`
}

// GetCategories returns the distinct categories the user has used
// GET /reports/categories
func (h *ReportHandler) GetCategories(c echo.Context) error {
	categories, err := h.reportService.GetCategories(c.Request().Context(), middleware.GetUserID(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to retrieve categories")
	}
	return c.JSON(http.StatusOK, categories)
}

// GetSpendingTrend returns monthly expense totals
// GET /reports/spending-trend?startDate&endDate&category
func (h *ReportHandler) GetSpendingTrend(c echo.Context) error {
	query, err := reportQueryFromParams(c)
	if err != nil {
		return badRequest(c, err)
	}

	points, err := h.reportService.GetSpendingTrend(c.Request().Context(), middleware.GetUserID(c), query)
	if err != nil {
		return handleServiceError(c, err, "Failed to retrieve spending trend")
	}

	result := make([]SpendingTrendPointResponse, len(points))
	for i, p := range points {
		result[i] = SpendingTrendPointResponse{
			MonthYear:     p.MonthYear,
			TotalExpenses: domain.DisplayAmount(p.TotalExpenses),
		}
	}
	return c.JSON(http.StatusOK, result)
}

// GetDetailedReport returns every matching transaction, newest first
// GET /reports/transactions?startDate&endDate&category
func (h *ReportHandler) GetDetailedReport(c echo.Context) error {
	query, err := reportQueryFromParams(c)
	if err != nil {
		return badRequest(c, err)
	}

	txs, err := h.reportService.GetDetailedReport(c.Request().Context(), middleware.GetUserID(c), query)
	if err != nil {
		return handleServiceError(c, err, "Failed to retrieve report")
	}
	return c.JSON(http.StatusOK, toTransactionResponses(txs))
}

// ExportReport downloads the detailed report as CSV or XLSX
// GET /reports/export?format=csv|xlsx
func (h *ReportHandler) ExportReport(c echo.Context) error {
	query, err := reportQueryFromParams(c)
	if err != nil {
		return badRequest(c, err)
	}
	format := exportFormat(c.QueryParam("format"))

	// Rendered in memory so a failure can still produce a problem response
	var buf bytes.Buffer
	if err := h.reportService.Export(c.Request().Context(), middleware.GetUserID(c), query, format, &buf); err != nil {
		return handleServiceError(c, err, "Failed to export report")
	}

	filename := export.Filename(format, formatDate(h.now()))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, format.ContentType(), buf.Bytes())
}

// ArchiveExport stores the export and returns a temporary download link
// POST /reports/exports
func (h *ReportHandler) ArchiveExport(c echo.Context) error {
	var req ArchiveExportRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.StartDate == "" {
		return invalidField(c, "startDate", "Start date is required")
	}
	if req.EndDate == "" {
		return invalidField(c, "endDate", "End date is required")
	}
	start, err := parseDate("startDate", req.StartDate)
	if err != nil {
		return badRequest(c, err)
	}
	end, err := parseDate("endDate", req.EndDate)
	if err != nil {
		return badRequest(c, err)
	}

	query := service.ReportQuery{
		StartDate:  start,
		EndDate:    end,
		Categories: parseCategories(req.Categories),
	}
	archive, err := h.reportService.ArchiveExport(c.Request().Context(), middleware.GetUserID(c), query, exportFormat(req.Format))
	if err != nil {
		return handleServiceError(c, err, "Failed to archive export")
	}

	return c.JSON(http.StatusCreated, ExportArchiveResponse{
		Key:       archive.Key,
		URL:       archive.URL,
		ExpiresAt: formatTimestamp(archive.ExpiresAt),
	})
}

func reportQueryFromParams(c echo.Context) (service.ReportQuery, error) {
	start, end, err := parseRequiredDates(c)
	if err != nil {
		return service.ReportQuery{}, err
	}
	return service.ReportQuery{
		StartDate:  start,
		EndDate:    end,
		Categories: parseCategories(c.QueryParams()["category"]),
	}, nil
}

// exportFormat defaults to CSV
func exportFormat(raw string) domain.ExportFormat {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return domain.ExportFormatCSV
	}
	return domain.ExportFormat(raw)
}
