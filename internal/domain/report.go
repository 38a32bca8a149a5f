package domain

import "github.com/shopspring/decimal"

// SpendingTrendPoint is the expense total of one calendar month
type SpendingTrendPoint struct {
	MonthYear     string // YYYY-MM
	TotalExpenses decimal.Decimal
}

// CategoryTotal is an amount accumulated for one category
type CategoryTotal struct {
	Name  string
	Value decimal.Decimal
}

// DashboardSummary reduces a set of transactions to totals
type DashboardSummary struct {
	TotalIncome        decimal.Decimal
	TotalExpenses      decimal.Decimal
	NetBalance         decimal.Decimal
	ExpensesByCategory []CategoryTotal
}

// DisplayPlaces is the number of decimal places shown to users
const DisplayPlaces = 2

// DisplayAmount converts an exact amount to the float shown to users.
// This is the only place decimals become floats.
func DisplayAmount(d decimal.Decimal) float64 {
	return d.Round(DisplayPlaces).InexactFloat64()
}
