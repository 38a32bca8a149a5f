package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget is a spending ceiling for one category in one calendar month.
// (UserID, Category, Month, Year) is unique.
type Budget struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"userId"`
	Category  string          `json:"category"`
	Month     int             `json:"month"`
	Year      int             `json:"year"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// BudgetStatus compares a category's budget with its actual spend for a month
type BudgetStatus struct {
	Category  string
	Budgeted  decimal.Decimal
	Spent     decimal.Decimal
	Remaining decimal.Decimal
	// Progress is the consumed percentage rounded to an integer and capped
	// at MaxBudgetProgress.
	Progress int
	// RawProgress is the uncapped consumed percentage. Zero when nothing is
	// budgeted.
	RawProgress decimal.Decimal
}

// MaxBudgetProgress caps Progress for display
const MaxBudgetProgress = 150

type BudgetRepository interface {
	Upsert(ctx context.Context, budget *Budget) (*Budget, error)
	ListByMonth(ctx context.Context, userID uuid.UUID, month, year int) ([]*Budget, error)
	Delete(ctx context.Context, userID uuid.UUID, category string, month, year int) error
}
