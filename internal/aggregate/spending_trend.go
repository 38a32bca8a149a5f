package aggregate

import (
	"sort"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/util"
	"github.com/shopspring/decimal"
)

// SpendingTrend buckets the expenses matching filter by calendar month and
// returns one point per non-empty month in chronological order.
// Transactions without a date are skipped, never guessed.
func SpendingTrend(transactions []*domain.Transaction, filter domain.TransactionFilter) []domain.SpendingTrendPoint {
	totals := make(map[string]decimal.Decimal)
	for _, tx := range transactions {
		if tx.Type != domain.TransactionTypeExpense || tx.Date.IsZero() {
			continue
		}
		if !filter.Matches(tx) {
			continue
		}
		key := util.MonthKey(tx.Date)
		totals[key] = totals[key].Add(tx.Amount)
	}

	points := make([]domain.SpendingTrendPoint, 0, len(totals))
	for key, total := range totals {
		points = append(points, domain.SpendingTrendPoint{MonthYear: key, TotalExpenses: total})
	}
	// YYYY-MM sorts chronologically as a string
	sort.Slice(points, func(i, j int) bool {
		return points[i].MonthYear < points[j].MonthYear
	})
	return points
}
