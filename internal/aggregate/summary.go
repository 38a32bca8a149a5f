package aggregate

import (
	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// Summarize reduces transactions to income and expense totals, net
// balance, and per-category expense totals in a single pass. Categories
// appear in the order they were first seen.
func Summarize(transactions []*domain.Transaction) domain.DashboardSummary {
	income := decimal.Zero
	expenses := decimal.Zero
	byCategory := make([]domain.CategoryTotal, 0)
	index := make(map[string]int)

	for _, tx := range transactions {
		switch tx.Type {
		case domain.TransactionTypeIncome:
			income = income.Add(tx.Amount)
		case domain.TransactionTypeExpense:
			expenses = expenses.Add(tx.Amount)
			i, ok := index[tx.Category]
			if !ok {
				i = len(byCategory)
				index[tx.Category] = i
				byCategory = append(byCategory, domain.CategoryTotal{Name: tx.Category, Value: decimal.Zero})
			}
			byCategory[i].Value = byCategory[i].Value.Add(tx.Amount)
		}
	}

	return domain.DashboardSummary{
		TotalIncome:        income,
		TotalExpenses:      expenses,
		NetBalance:         income.Sub(expenses),
		ExpensesByCategory: byCategory,
	}
}

// NetBalance returns income minus expenses for transactions
func NetBalance(transactions []*domain.Transaction) decimal.Decimal {
	return Summarize(transactions).NetBalance
}
