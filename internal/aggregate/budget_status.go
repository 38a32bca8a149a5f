// Package aggregate reduces fetched transaction and budget records into the
// derived views served to clients. Every function is a pure reduction over
// its arguments: no I/O, no shared state, safe for concurrent use.
package aggregate

import (
	"sort"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	hundred     = decimal.NewFromInt(100)
	maxProgress = decimal.NewFromInt(domain.MaxBudgetProgress)
)

// BudgetStatuses merges a month's budgets with that month's expenses into
// one status per category that has a budget, spending, or both. Income
// rows are ignored. The result is sorted by category in English collation
// order.
func BudgetStatuses(budgets []*domain.Budget, expenses []*domain.Transaction) []domain.BudgetStatus {
	spentByCategory := make(map[string]decimal.Decimal)
	for _, tx := range expenses {
		if tx.Type != domain.TransactionTypeExpense {
			continue
		}
		spentByCategory[tx.Category] = spentByCategory[tx.Category].Add(tx.Amount)
	}

	statuses := make(map[string]*domain.BudgetStatus, len(budgets)+len(spentByCategory))
	for _, b := range budgets {
		statuses[b.Category] = &domain.BudgetStatus{
			Category:  b.Category,
			Budgeted:  b.Amount,
			Spent:     decimal.Zero,
			Remaining: b.Amount,
		}
	}

	for category, spent := range spentByCategory {
		status, ok := statuses[category]
		if !ok {
			// Spending without a budget is always shown as overspent
			statuses[category] = &domain.BudgetStatus{
				Category:  category,
				Budgeted:  decimal.Zero,
				Spent:     spent,
				Remaining: spent.Neg(),
				Progress:  domain.MaxBudgetProgress,
			}
			continue
		}
		status.Spent = spent
		status.Remaining = status.Budgeted.Sub(spent)
		status.Progress, status.RawProgress = budgetProgress(status.Budgeted, spent)
	}

	result := make([]domain.BudgetStatus, 0, len(statuses))
	for _, s := range statuses {
		result = append(result, *s)
	}
	sortByCategory(result)
	return result
}

// budgetProgress returns the capped integer percentage and the uncapped
// percentage (2 dp) of budgeted consumed by spent.
func budgetProgress(budgeted, spent decimal.Decimal) (int, decimal.Decimal) {
	if !budgeted.IsPositive() {
		if spent.IsPositive() {
			return domain.MaxBudgetProgress, decimal.Zero
		}
		return 0, decimal.Zero
	}

	scaled := spent.Mul(hundred)
	raw := scaled.DivRound(budgeted, 2)
	rounded := scaled.DivRound(budgeted, 0)
	if rounded.GreaterThan(maxProgress) {
		return domain.MaxBudgetProgress, raw
	}
	return int(rounded.IntPart()), raw
}

// sortByCategory orders statuses in English collation order.
// Collators keep internal buffers, so each call builds its own.
func sortByCategory(statuses []domain.BudgetStatus) {
	c := collate.New(language.English)
	sort.Slice(statuses, func(i, j int) bool {
		if cmp := c.CompareString(statuses[i].Category, statuses[j].Category); cmp != 0 {
			return cmp < 0
		}
		return statuses[i].Category < statuses[j].Category
	})
}
