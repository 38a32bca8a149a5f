package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func validInput() domain.TransactionInput {
	return domain.TransactionInput{
		Type:        domain.TransactionTypeExpense,
		Amount:      decimal.RequireFromString("12.34"),
		Date:        time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC),
		Category:    "  Groceries ",
		Description: strPtr("  weekly shop  "),
	}
}

func newTestTransactionService() (*TransactionService, *testutil.MockTransactionRepository, *testutil.MockEventPublisher) {
	repo := testutil.NewMockTransactionRepository()
	publisher := testutil.NewMockEventPublisher()
	svc := NewTransactionService(repo)
	svc.SetEventPublisher(publisher)
	return svc, repo, publisher
}

func TestTransactionService_CreateTransaction(t *testing.T) {
	svc, repo, publisher := newTestTransactionService()
	userID := uuid.New()

	tx, err := svc.CreateTransaction(context.Background(), userID, validInput())
	require.NoError(t, err)

	assert.Equal(t, userID, tx.UserID)
	assert.Equal(t, "Groceries", tx.Category)
	require.NotNil(t, tx.Description)
	assert.Equal(t, "weekly shop", *tx.Description)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), tx.Date)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("12.34")))
	assert.Len(t, repo.Transactions, 1)

	events := publisher.Published()
	require.Len(t, events, 1)
	assert.Equal(t, userID, events[0].UserID)
	assert.Equal(t, "transaction.created", events[0].Event.Type)
}

func TestTransactionService_CreateTransaction_BlankDescriptionDropped(t *testing.T) {
	svc, _, _ := newTestTransactionService()
	input := validInput()
	input.Description = strPtr("   ")

	tx, err := svc.CreateTransaction(context.Background(), uuid.New(), input)
	require.NoError(t, err)
	assert.Nil(t, tx.Description)
}

func TestTransactionService_CreateTransaction_Validation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*domain.TransactionInput)
		wantField string
		wantErr   error
	}{
		{"zero amount", func(in *domain.TransactionInput) { in.Amount = decimal.Zero }, "amount", domain.ErrInvalidAmount},
		{"negative amount", func(in *domain.TransactionInput) { in.Amount = decimal.NewFromInt(-5) }, "amount", domain.ErrInvalidAmount},
		{"sub-cent amount", func(in *domain.TransactionInput) { in.Amount = decimal.RequireFromString("100.005") }, "amount", domain.ErrInvalidAmount},
		{"amount too large", func(in *domain.TransactionInput) { in.Amount = decimal.New(1, 12) }, "amount", domain.ErrInvalidAmount},
		{"unknown type", func(in *domain.TransactionInput) { in.Type = "TRANSFER" }, "type", domain.ErrInvalidTransactionType},
		{"missing date", func(in *domain.TransactionInput) { in.Date = time.Time{} }, "date", domain.ErrDateRequired},
		{"blank category", func(in *domain.TransactionInput) { in.Category = "   " }, "category", domain.ErrCategoryRequired},
		{"long category", func(in *domain.TransactionInput) { in.Category = strings.Repeat("c", domain.MaxCategoryLength+1) }, "category", domain.ErrCategoryTooLong},
		{"long description", func(in *domain.TransactionInput) {
			in.Description = strPtr(strings.Repeat("d", domain.MaxDescriptionLength+1))
		}, "description", domain.ErrDescriptionTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, publisher := newTestTransactionService()
			input := validInput()
			tt.mutate(&input)

			tx, err := svc.CreateTransaction(context.Background(), uuid.New(), input)

			assert.Nil(t, tx)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			var fieldErr *domain.FieldError
			require.True(t, errors.As(err, &fieldErr))
			assert.Equal(t, tt.wantField, fieldErr.Field)
			assert.Empty(t, repo.Transactions)
			assert.Empty(t, publisher.Published())
		})
	}
}

func TestTransactionService_Ownership(t *testing.T) {
	svc, repo, publisher := newTestTransactionService()
	ctx := context.Background()
	owner, intruder := uuid.New(), uuid.New()

	tx := repo.AddExpense(owner, "Rent", "900", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	_, err := svc.GetTransaction(ctx, intruder, tx.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.UpdateTransaction(ctx, intruder, tx.ID, validInput())
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)

	err = svc.DeleteTransaction(ctx, intruder, tx.ID)
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)

	assert.Len(t, repo.Transactions, 1)
	assert.Empty(t, publisher.Published())
}

func TestTransactionService_UpdateAndDelete(t *testing.T) {
	svc, repo, publisher := newTestTransactionService()
	ctx := context.Background()
	userID := uuid.New()

	tx := repo.AddExpense(userID, "Rent", "900", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	input := validInput()
	input.Type = domain.TransactionTypeIncome
	updated, err := svc.UpdateTransaction(ctx, userID, tx.ID, input)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionTypeIncome, updated.Type)
	assert.Equal(t, "Groceries", updated.Category)

	require.NoError(t, svc.DeleteTransaction(ctx, userID, tx.ID))
	assert.Empty(t, repo.Transactions)

	events := publisher.Published()
	require.Len(t, events, 2)
	assert.Equal(t, "transaction.updated", events[0].Event.Type)
	assert.Equal(t, "transaction.deleted", events[1].Event.Type)
	assert.Equal(t, map[string]interface{}{"id": tx.ID}, events[1].Event.Payload)
}

func TestTransactionService_ListTransactions(t *testing.T) {
	svc, repo, _ := newTestTransactionService()
	ctx := context.Background()
	userID := uuid.New()

	older := repo.AddExpense(userID, "Food", "10", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	newer := repo.AddIncome(userID, "Salary", "1000", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	repo.AddExpense(uuid.New(), "Food", "99", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	all, err := svc.ListTransactions(ctx, userID, domain.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, newer.ID, all[0].ID)
	assert.Equal(t, older.ID, all[1].ID)

	expense := domain.TransactionTypeExpense
	expenses, err := svc.ListTransactions(ctx, userID, domain.TransactionFilter{Type: &expense})
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, older.ID, expenses[0].ID)

	bogus := domain.TransactionType("TRANSFER")
	_, err = svc.ListTransactions(ctx, userID, domain.TransactionFilter{Type: &bogus})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
