package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/aggregate"
	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuickSummary is the net balance of the current calendar month
type QuickSummary struct {
	MonthYear  string
	NetBalance decimal.Decimal
}

// DashboardService handles dashboard and landing summaries
type DashboardService struct {
	transactionRepo domain.TransactionRepository
	now             func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(transactionRepo domain.TransactionRepository) *DashboardService {
	return &DashboardService{
		transactionRepo: transactionRepo,
		now:             time.Now,
	}
}

// GetSummary reduces the user's transactions to totals and per-category
// expenses. A nil range covers every transaction.
func (s *DashboardService) GetSummary(ctx context.Context, userID uuid.UUID, r *domain.DateRange) (*domain.DashboardSummary, error) {
	txs, err := s.transactionRepo.List(ctx, userID, domain.TransactionFilter{Range: r})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	summary := aggregate.Summarize(txs)
	return &summary, nil
}

// GetQuickSummary returns income minus expenses for the current month
func (s *DashboardService) GetQuickSummary(ctx context.Context, userID uuid.UUID) (*QuickSummary, error) {
	now := s.now().UTC()
	r := util.CurrentMonthRange(now)

	txs, err := s.transactionRepo.List(ctx, userID, domain.TransactionFilter{Range: &r})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return &QuickSummary{
		MonthYear:  util.MonthKey(now),
		NetBalance: aggregate.NetBalance(txs),
	}, nil
}

// GetRecentTransactions returns the latest transactions of userID. A
// non-positive limit means the default and larger limits are clamped.
func (s *DashboardService) GetRecentTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Transaction, error) {
	if limit <= 0 {
		limit = domain.DefaultRecentLimit
	}
	if limit > domain.MaxRecentLimit {
		limit = domain.MaxRecentLimit
	}
	txs, err := s.transactionRepo.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent transactions: %w", err)
	}
	return txs, nil
}
