package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// Valid reports whether t is one of the known transaction types
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// AmountScale is the number of decimal places stored for money
const AmountScale = 2

// maxAmount is the first value that no longer fits a NUMERIC(14, 2) column
var maxAmount = decimal.New(1, 12)

// ValidAmount reports whether amount is positive, fits the money columns,
// and needs no rounding to AmountScale places.
func ValidAmount(amount decimal.Decimal) bool {
	return amount.IsPositive() &&
		amount.LessThan(maxAmount) &&
		amount.Equal(amount.Truncate(AmountScale))
}

type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Category    string          `json:"category"`
	Description *string         `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// TransactionInput carries the user-editable fields of a transaction
type TransactionInput struct {
	Type        TransactionType
	Amount      decimal.Decimal
	Date        time.Time
	Category    string
	Description *string
}

const (
	DefaultRecentLimit = 5
	MaxRecentLimit     = 50
)

type TransactionRepository interface {
	Create(ctx context.Context, transaction *Transaction) (*Transaction, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Transaction, error)
	List(ctx context.Context, userID uuid.UUID, filter TransactionFilter) ([]*Transaction, error)
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*Transaction, error)
	ListCategories(ctx context.Context, userID uuid.UUID) ([]string, error)
	Update(ctx context.Context, userID, id uuid.UUID, input *TransactionInput) (*Transaction, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
