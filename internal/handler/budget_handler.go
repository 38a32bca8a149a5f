package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/middleware"
	"github.com/dafibh/fintrack/fintrack-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// BudgetHandler handles budget-related HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
	}
}

// UpsertBudgetRequest represents the set budget request body
type UpsertBudgetRequest struct {
	Category string `json:"category"`
	Month    int    `json:"month"`
	Year     int    `json:"year"`
	Amount   string `json:"amount"`
}

// BudgetResponse represents a budget in API responses
type BudgetResponse struct {
	ID        string  `json:"id"`
	Category  string  `json:"category"`
	Month     int     `json:"month"`
	Year      int     `json:"year"`
	Amount    float64 `json:"amount"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

// BudgetStatusResponse compares a category's budget with its spend
type BudgetStatusResponse struct {
	Category    string  `json:"category"`
	Budgeted    float64 `json:"budgeted"`
	Spent       float64 `json:"spent"`
	Remaining   float64 `json:"remaining"`
	Progress    int     `json:"progress"`
	RawProgress float64 `json:"rawProgress"`
}

// GetBudgets lists the budgets of one month
// GET /budgets/:year/:month
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	year, month, err := parseYearMonth(c)
	if err != nil {
		return badRequest(c, err)
	}

	budgets, err := h.budgetService.ListBudgets(c.Request().Context(), middleware.GetUserID(c), month, year)
	if err != nil {
		return handleServiceError(c, err, "Failed to retrieve budgets")
	}

	result := make([]BudgetResponse, len(budgets))
	for i, b := range budgets {
		result[i] = toBudgetResponse(b)
	}
	return c.JSON(http.StatusOK, result)
}

// UpsertBudget creates or overwrites the budget of a category for a month
// PUT /budgets
func (h *BudgetHandler) UpsertBudget(c echo.Context) error {
	var req UpsertBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		return invalidField(c, "amount", "Must be a valid decimal number")
	}

	budget, err := h.budgetService.UpsertBudget(c.Request().Context(), middleware.GetUserID(c), service.BudgetInput{
		Category: req.Category,
		Month:    req.Month,
		Year:     req.Year,
		Amount:   amount,
	})
	if err != nil {
		return handleServiceError(c, err, "Failed to save budget")
	}
	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// DeleteBudget removes the budget of a category for a month
// DELETE /budgets/:year/:month/:category
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	year, month, err := parseYearMonth(c)
	if err != nil {
		return badRequest(c, err)
	}
	category, err := url.PathUnescape(c.Param("category"))
	if err != nil {
		return invalidField(c, "category", "Invalid category")
	}

	if err := h.budgetService.DeleteBudget(c.Request().Context(), middleware.GetUserID(c), category, month, year); err != nil {
		return handleServiceError(c, err, "Failed to delete budget")
	}
	return c.NoContent(http.StatusNoContent)
}

// GetBudgetStatus compares every budgeted or spent category of a month
// GET /budgets/:year/:month/status
func (h *BudgetHandler) GetBudgetStatus(c echo.Context) error {
	year, month, err := parseYearMonth(c)
	if err != nil {
		return badRequest(c, err)
	}

	statuses, err := h.budgetService.GetBudgetStatus(c.Request().Context(), middleware.GetUserID(c), month, year)
	if err != nil {
		return handleServiceError(c, err, "Failed to retrieve budget status")
	}

	result := make([]BudgetStatusResponse, len(statuses))
	for i, s := range statuses {
		result[i] = BudgetStatusResponse{
			Category:    s.Category,
			Budgeted:    domain.DisplayAmount(s.Budgeted),
			Spent:       domain.DisplayAmount(s.Spent),
			Remaining:   domain.DisplayAmount(s.Remaining),
			Progress:    s.Progress,
			RawProgress: domain.DisplayAmount(s.RawProgress),
		}
	}
	return c.JSON(http.StatusOK, result)
}

func parseYearMonth(c echo.Context) (int, int, error) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return 0, 0, &paramError{Field: "year", Message: "Must be a number"}
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		return 0, 0, &paramError{Field: "month", Message: "Must be a number"}
	}
	return year, month, nil
}

func toBudgetResponse(b *domain.Budget) BudgetResponse {
	return BudgetResponse{
		ID:        b.ID.String(),
		Category:  b.Category,
		Month:     b.Month,
		Year:      b.Year,
		Amount:    domain.DisplayAmount(b.Amount),
		CreatedAt: formatTimestamp(b.CreatedAt),
		UpdatedAt: formatTimestamp(b.UpdatedAt),
	}
}
