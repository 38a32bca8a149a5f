package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dafibh/fintrack/fintrack-backend/internal/aggregate"
	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/util"
	"github.com/dafibh/fintrack/fintrack-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// BudgetService handles budgets and budget status
type BudgetService struct {
	budgetRepo      domain.BudgetRepository
	transactionRepo domain.TransactionRepository
	eventPublisher  websocket.EventPublisher
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(budgetRepo domain.BudgetRepository, transactionRepo domain.TransactionRepository) *BudgetService {
	return &BudgetService{
		budgetRepo:      budgetRepo,
		transactionRepo: transactionRepo,
	}
}

// SetEventPublisher sets the WebSocket event publisher
func (s *BudgetService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *BudgetService) publishEvent(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// BudgetInput holds the input for setting a budget
type BudgetInput struct {
	Category string
	Month    int
	Year     int
	Amount   decimal.Decimal
}

// UpsertBudget creates or overwrites the budget for (userID, category, month, year)
func (s *BudgetService) UpsertBudget(ctx context.Context, userID uuid.UUID, input BudgetInput) (*domain.Budget, error) {
	category, err := normalizeCategory(input.Category)
	if err != nil {
		return nil, err
	}
	if err := validateMonthYear(input.Month, input.Year); err != nil {
		return nil, err
	}
	if !domain.ValidAmount(input.Amount) {
		return nil, domain.NewFieldError("amount", domain.ErrInvalidAmount)
	}

	budget, err := s.budgetRepo.Upsert(ctx, &domain.Budget{
		UserID:   userID,
		Category: category,
		Month:    input.Month,
		Year:     input.Year,
		Amount:   input.Amount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert budget: %w", err)
	}

	s.publishEvent(userID, websocket.BudgetUpdated(budget))
	return budget, nil
}

// ListBudgets returns the budgets of userID for one month
func (s *BudgetService) ListBudgets(ctx context.Context, userID uuid.UUID, month, year int) ([]*domain.Budget, error) {
	if err := validateMonthYear(month, year); err != nil {
		return nil, err
	}
	budgets, err := s.budgetRepo.ListByMonth(ctx, userID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	return budgets, nil
}

// DeleteBudget removes the budget for (userID, category, month, year)
func (s *BudgetService) DeleteBudget(ctx context.Context, userID uuid.UUID, category string, month, year int) error {
	category, err := normalizeCategory(category)
	if err != nil {
		return err
	}
	if err := validateMonthYear(month, year); err != nil {
		return err
	}

	if err := s.budgetRepo.Delete(ctx, userID, category, month, year); err != nil {
		return err
	}

	s.publishEvent(userID, websocket.BudgetDeleted(map[string]interface{}{
		"category": category,
		"month":    month,
		"year":     year,
	}))
	return nil
}

// GetBudgetStatus compares each budgeted or spent category of a month with
// the month's expenses. Budgets and expenses are fetched concurrently and
// either failure fails the call.
func (s *BudgetService) GetBudgetStatus(ctx context.Context, userID uuid.UUID, month, year int) ([]domain.BudgetStatus, error) {
	if err := validateMonthYear(month, year); err != nil {
		return nil, err
	}

	var (
		budgets  []*domain.Budget
		expenses []*domain.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		budgets, err = s.budgetRepo.ListByMonth(gctx, userID, month, year)
		if err != nil {
			return fmt.Errorf("failed to list budgets: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		expenses, err = s.transactionRepo.List(gctx, userID, domain.ExpensesIn(util.MonthRange(year, month), nil))
		if err != nil {
			return fmt.Errorf("failed to list expenses: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return aggregate.BudgetStatuses(budgets, expenses), nil
}

func normalizeCategory(raw string) (string, error) {
	category := strings.TrimSpace(raw)
	if category == "" {
		return "", domain.NewFieldError("category", domain.ErrCategoryRequired)
	}
	if utf8.RuneCountInString(category) > domain.MaxCategoryLength {
		return "", domain.NewFieldError("category", domain.ErrCategoryTooLong)
	}
	return category, nil
}

func validateMonthYear(month, year int) error {
	if err := util.ValidateMonthYear(month, year); err != nil {
		field := "year"
		if month < 1 || month > 12 {
			field = "month"
		}
		return domain.NewFieldError(field, err)
	}
	return nil
}
