package handler

import (
	"net/http"
	"strconv"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/middleware"
	"github.com/dafibh/fintrack/fintrack-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// CategoryTotalResponse is an expense total for one category
type CategoryTotalResponse struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// DashboardSummaryResponse represents the dashboard summary
type DashboardSummaryResponse struct {
	TotalIncome        float64                 `json:"totalIncome"`
	TotalExpenses      float64                 `json:"totalExpenses"`
	NetBalance         float64                 `json:"netBalance"`
	ExpensesByCategory []CategoryTotalResponse `json:"expensesByCategory"`
}

// QuickSummaryResponse is the current month's net balance
type QuickSummaryResponse struct {
	MonthYear  string  `json:"monthYear"`
	NetBalance float64 `json:"netBalance"`
}

// GetSummary returns totals and expenses by category, optionally limited
// to startDate..endDate
// GET /dashboard/summary
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	r, err := parseOptionalRange(c)
	if err != nil {
		return badRequest(c, err)
	}

	summary, err := h.dashboardService.GetSummary(c.Request().Context(), middleware.GetUserID(c), r)
	if err != nil {
		return handleServiceError(c, err, "Failed to retrieve dashboard summary")
	}

	byCategory := make([]CategoryTotalResponse, len(summary.ExpensesByCategory))
	for i, ct := range summary.ExpensesByCategory {
		byCategory[i] = CategoryTotalResponse{Name: ct.Name, Value: domain.DisplayAmount(ct.Value)}
	}

	return c.JSON(http.StatusOK, DashboardSummaryResponse{
		TotalIncome:        domain.DisplayAmount(summary.TotalIncome),
		TotalExpenses:      domain.DisplayAmount(summary.TotalExpenses),
		NetBalance:         domain.DisplayAmount(summary.NetBalance),
		ExpensesByCategory: byCategory,
	})
}

// GetQuickSummary returns the net balance of the current month
// GET /dashboard/quick-summary
func (h *DashboardHandler) GetQuickSummary(c echo.Context) error {
	summary, err := h.dashboardService.GetQuickSummary(c.Request().Context(), middleware.GetUserID(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to retrieve quick summary")
	}
	return c.JSON(http.StatusOK, QuickSummaryResponse{
		MonthYear:  summary.MonthYear,
		NetBalance: domain.DisplayAmount(summary.NetBalance),
	})
}

// GetRecentTransactions returns the latest transactions
// GET /transactions/recent?limit=N
func (h *DashboardHandler) GetRecentTransactions(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return invalidField(c, "limit", "Must be a number")
		}
		limit = n
	}

	txs, err := h.dashboardService.GetRecentTransactions(c.Request().Context(), middleware.GetUserID(c), limit)
	if err != nil {
		return handleServiceError(c, err, "Failed to retrieve recent transactions")
	}
	return c.JSON(http.StatusOK, toTransactionResponses(txs))
}
