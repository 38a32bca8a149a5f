package handler

import (
	"github.com/dafibh/fintrack/fintrack-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// Handlers groups every HTTP handler served by the API
type Handlers struct {
	Health      *HealthHandler
	Auth        *AuthHandler
	Transaction *TransactionHandler
	Budget      *BudgetHandler
	Dashboard   *DashboardHandler
	Report      *ReportHandler
	WebSocket   *WebSocketHandler
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, h Handlers) {
	// API version 1
	api := e.Group("/api/v1")

	// Public routes
	api.GET("/health", h.Health.Check)
	api.POST("/auth/signup", h.Auth.Signup)
	api.POST("/auth/login", h.Auth.Login)

	// The websocket authenticates with a query token instead of a header
	api.GET("/ws", h.WebSocket.HandleWS)

	// Authenticated routes are rate limited per user
	protected := []echo.MiddlewareFunc{
		authMiddleware.Authenticate(),
		middleware.RateLimitMiddleware(rateLimiter),
	}

	auth := api.Group("/auth", protected...)
	auth.GET("/me", h.Auth.Me)

	// Transaction routes (protected)
	transactions := api.Group("/transactions", protected...)
	transactions.POST("", h.Transaction.CreateTransaction)
	transactions.GET("", h.Transaction.GetTransactions)
	transactions.GET("/recent", h.Dashboard.GetRecentTransactions)
	transactions.GET("/:id", h.Transaction.GetTransaction)
	transactions.PUT("/:id", h.Transaction.UpdateTransaction)
	transactions.DELETE("/:id", h.Transaction.DeleteTransaction)

	// Budget routes (protected)
	budgets := api.Group("/budgets", protected...)
	budgets.PUT("", h.Budget.UpsertBudget)
	budgets.GET("/:year/:month", h.Budget.GetBudgets)
	budgets.GET("/:year/:month/status", h.Budget.GetBudgetStatus)
	budgets.DELETE("/:year/:month/:category", h.Budget.DeleteBudget)

	// Dashboard routes (protected)
	dashboard := api.Group("/dashboard", protected...)
	dashboard.GET("/summary", h.Dashboard.GetSummary)
	dashboard.GET("/quick-summary", h.Dashboard.GetQuickSummary)

	// Report routes (protected)
	reports := api.Group("/reports", protected...)
	reports.GET("/categories", h.Report.GetCategories)
	reports.GET("/spending-trend", h.Report.GetSpendingTrend)
	reports.GET("/transactions", h.Report.GetDetailedReport)
	reports.GET("/export", h.Report.ExportReport)
	reports.POST("/exports", h.Report.ArchiveExport)
}
