package handler

import (
	"net/http"
	"strings"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/middleware"
	"github.com/dafibh/fintrack/fintrack-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// TransactionRequest represents the create and update transaction request body
type TransactionRequest struct {
	Type        string  `json:"type"`
	Amount      string  `json:"amount"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Description *string `json:"description,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Description *string `json:"description,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// CreateTransaction creates an income or expense
// POST /transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	input, err := bindTransactionInput(c)
	if err != nil {
		return badRequest(c, err)
	}

	tx, err := h.transactionService.CreateTransaction(c.Request().Context(), middleware.GetUserID(c), input)
	if err != nil {
		return handleServiceError(c, err, "Failed to create transaction")
	}
	return c.JSON(http.StatusCreated, toTransactionResponse(tx))
}

// GetTransactions lists the user's transactions, newest first.
// Optional filters: type, startDate/endDate, category (repeatable).
// GET /transactions
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	r, err := parseOptionalRange(c)
	if err != nil {
		return badRequest(c, err)
	}

	filter := domain.TransactionFilter{
		Range:      r,
		Categories: parseCategories(c.QueryParams()["category"]),
	}
	if raw := c.QueryParam("type"); raw != "" {
		t := domain.TransactionType(strings.ToUpper(raw))
		filter.Type = &t
	}

	txs, err := h.transactionService.ListTransactions(c.Request().Context(), middleware.GetUserID(c), filter)
	if err != nil {
		return handleServiceError(c, err, "Failed to retrieve transactions")
	}
	return c.JSON(http.StatusOK, toTransactionResponses(txs))
}

// GetTransaction returns one transaction
// GET /transactions/:id
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, err)
	}

	tx, err := h.transactionService.GetTransaction(c.Request().Context(), middleware.GetUserID(c), id)
	if err != nil {
		return handleServiceError(c, err, "Failed to retrieve transaction")
	}
	return c.JSON(http.StatusOK, toTransactionResponse(tx))
}

// UpdateTransaction replaces the editable fields of a transaction
// PUT /transactions/:id
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, err)
	}
	input, err := bindTransactionInput(c)
	if err != nil {
		return badRequest(c, err)
	}

	tx, err := h.transactionService.UpdateTransaction(c.Request().Context(), middleware.GetUserID(c), id, input)
	if err != nil {
		return handleServiceError(c, err, "Failed to update transaction")
	}
	return c.JSON(http.StatusOK, toTransactionResponse(tx))
}

// DeleteTransaction removes a transaction
// DELETE /transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, err)
	}

	if err := h.transactionService.DeleteTransaction(c.Request().Context(), middleware.GetUserID(c), id); err != nil {
		return handleServiceError(c, err, "Failed to delete transaction")
	}
	return c.NoContent(http.StatusNoContent)
}

func bindTransactionInput(c echo.Context) (domain.TransactionInput, error) {
	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return domain.TransactionInput{}, &paramError{Field: "body", Message: "Invalid request body"}
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		return domain.TransactionInput{}, &paramError{Field: "amount", Message: "Must be a valid decimal number"}
	}

	if strings.TrimSpace(req.Date) == "" {
		return domain.TransactionInput{}, &paramError{Field: "date", Message: "Date is required"}
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return domain.TransactionInput{}, err
	}

	return domain.TransactionInput{
		Type:        domain.TransactionType(strings.ToUpper(strings.TrimSpace(req.Type))),
		Amount:      amount,
		Date:        date,
		Category:    req.Category,
		Description: req.Description,
	}, nil
}

func toTransactionResponse(tx *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          tx.ID.String(),
		Type:        string(tx.Type),
		Amount:      domain.DisplayAmount(tx.Amount),
		Date:        formatDate(tx.Date),
		Category:    tx.Category,
		Description: tx.Description,
		CreatedAt:   formatTimestamp(tx.CreatedAt),
		UpdatedAt:   formatTimestamp(tx.UpdatedAt),
	}
}

func toTransactionResponses(txs []*domain.Transaction) []TransactionResponse {
	result := make([]TransactionResponse, len(txs))
	for i, tx := range txs {
		result[i] = toTransactionResponse(tx)
	}
	return result
}
