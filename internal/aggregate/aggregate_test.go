package aggregate

import (
	"testing"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUserID = uuid.MustParse("11111111-1111-1111-1111-111111111111")

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func expense(amount string, d time.Time, category string) *domain.Transaction {
	return &domain.Transaction{
		ID:        uuid.New(),
		UserID:    testUserID,
		Type:      domain.TransactionTypeExpense,
		Amount:    decimal.RequireFromString(amount),
		Date:      d,
		Category:  category,
		CreatedAt: d,
	}
}

func income(amount string, d time.Time, category string) *domain.Transaction {
	tx := expense(amount, d, category)
	tx.Type = domain.TransactionTypeIncome
	return tx
}

func budget(category, amount string) *domain.Budget {
	return &domain.Budget{
		ID:       uuid.New(),
		UserID:   testUserID,
		Category: category,
		Month:    1,
		Year:     2025,
		Amount:   decimal.RequireFromString(amount),
	}
}

func statusFor(t *testing.T, statuses []domain.BudgetStatus, category string) domain.BudgetStatus {
	t.Helper()
	for _, s := range statuses {
		if s.Category == category {
			return s
		}
	}
	t.Fatalf("no status for category %q", category)
	return domain.BudgetStatus{}
}

func TestBudgetStatuses_BudgetWithoutSpending(t *testing.T) {
	statuses := BudgetStatuses([]*domain.Budget{budget("Food", "500")}, nil)

	require.Len(t, statuses, 1)
	s := statuses[0]
	assert.Equal(t, "Food", s.Category)
	assert.True(t, s.Budgeted.Equal(decimal.NewFromInt(500)))
	assert.True(t, s.Spent.IsZero())
	assert.Equal(t, 0, s.Progress)
	assert.True(t, s.Remaining.Equal(decimal.NewFromInt(500)))
}

func TestBudgetStatuses_Overspent(t *testing.T) {
	statuses := BudgetStatuses(
		[]*domain.Budget{budget("Food", "500")},
		[]*domain.Transaction{expense("600", date(2025, 1, 10), "Food")},
	)

	s := statusFor(t, statuses, "Food")
	assert.Equal(t, 120, s.Progress)
	assert.Equal(t, "-100", s.Remaining.String())
	assert.Equal(t, "120", s.RawProgress.String())
}

func TestBudgetStatuses_SpendingWithoutBudget(t *testing.T) {
	statuses := BudgetStatuses(nil, []*domain.Transaction{expense("50", date(2025, 1, 3), "Games")})

	s := statusFor(t, statuses, "Games")
	assert.True(t, s.Budgeted.IsZero())
	assert.Equal(t, "50", s.Spent.String())
	assert.Equal(t, 150, s.Progress)
	assert.Equal(t, "-50", s.Remaining.String())
}

func TestBudgetStatuses_ZeroBudgetWithSpending(t *testing.T) {
	statuses := BudgetStatuses(
		[]*domain.Budget{budget("Rent", "0")},
		[]*domain.Transaction{expense("10", date(2025, 1, 1), "Rent")},
	)

	s := statusFor(t, statuses, "Rent")
	assert.Equal(t, 150, s.Progress)
	assert.Equal(t, "-10", s.Remaining.String())
}

func TestBudgetStatuses_SpentIsExactSum(t *testing.T) {
	statuses := BudgetStatuses(
		[]*domain.Budget{budget("Food", "100.00")},
		[]*domain.Transaction{
			expense("0.10", date(2025, 1, 1), "Food"),
			expense("0.20", date(2025, 1, 2), "Food"),
			expense("33.33", date(2025, 1, 3), "Food"),
		},
	)

	s := statusFor(t, statuses, "Food")
	assert.Equal(t, "33.63", s.Spent.StringFixed(2))
	assert.True(t, s.Remaining.Equal(s.Budgeted.Sub(s.Spent)))
	assert.Equal(t, "66.37", s.Remaining.StringFixed(2))
	assert.Equal(t, 34, s.Progress)
	assert.Equal(t, "33.63", s.RawProgress.StringFixed(2))
}

func TestBudgetStatuses_ProgressRoundsHalfUp(t *testing.T) {
	statuses := BudgetStatuses(
		[]*domain.Budget{budget("Food", "200")},
		[]*domain.Transaction{expense("1", date(2025, 1, 1), "Food")},
	)

	// 1/200 = 0.5%
	assert.Equal(t, 1, statusFor(t, statuses, "Food").Progress)
}

func TestBudgetStatuses_ProgressCapped(t *testing.T) {
	statuses := BudgetStatuses(
		[]*domain.Budget{budget("Food", "100")},
		[]*domain.Transaction{expense("1000", date(2025, 1, 1), "Food")},
	)

	s := statusFor(t, statuses, "Food")
	assert.Equal(t, 150, s.Progress)
	assert.Equal(t, "1000", s.RawProgress.String())
	assert.Equal(t, "-900", s.Remaining.String())
}

func TestBudgetStatuses_ProgressMonotonicInSpent(t *testing.T) {
	b := []*domain.Budget{budget("Food", "250")}
	previous := -1
	for spent := 0; spent <= 500; spent += 7 {
		statuses := BudgetStatuses(b, []*domain.Transaction{
			expense(decimal.NewFromInt(int64(spent)).String(), date(2025, 1, 1), "Food"),
		})
		progress := statusFor(t, statuses, "Food").Progress
		assert.GreaterOrEqual(t, progress, previous, "spent=%d", spent)
		assert.LessOrEqual(t, progress, domain.MaxBudgetProgress)
		previous = progress
	}
}

func TestBudgetStatuses_IgnoresIncome(t *testing.T) {
	statuses := BudgetStatuses(
		[]*domain.Budget{budget("Food", "100")},
		[]*domain.Transaction{income("80", date(2025, 1, 1), "Food")},
	)

	s := statusFor(t, statuses, "Food")
	assert.True(t, s.Spent.IsZero())
	assert.Equal(t, 0, s.Progress)
}

func TestBudgetStatuses_SortedByLocaleOrder(t *testing.T) {
	statuses := BudgetStatuses(
		[]*domain.Budget{budget("transport", "10"), budget("Food", "10")},
		[]*domain.Transaction{
			expense("1", date(2025, 1, 1), "bills"),
			expense("1", date(2025, 1, 1), "Zoo"),
		},
	)

	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = s.Category
	}
	assert.Equal(t, []string{"bills", "Food", "transport", "Zoo"}, names)
}

func TestBudgetStatuses_Empty(t *testing.T) {
	statuses := BudgetStatuses(nil, nil)
	assert.NotNil(t, statuses)
	assert.Empty(t, statuses)
}

func TestBudgetStatuses_Idempotent(t *testing.T) {
	budgets := []*domain.Budget{budget("Food", "500"), budget("Rent", "1200")}
	expenses := []*domain.Transaction{
		expense("42.50", date(2025, 1, 5), "Food"),
		expense("1200", date(2025, 1, 1), "Rent"),
		expense("15", date(2025, 1, 9), "Books"),
	}

	first := BudgetStatuses(budgets, expenses)
	second := BudgetStatuses(budgets, expenses)
	assert.Equal(t, first, second)
}

func TestSpendingTrend_SingleMonthBucket(t *testing.T) {
	r, err := domain.NewDateRange(date(2025, 1, 1), date(2025, 1, 31))
	require.NoError(t, err)

	points := SpendingTrend([]*domain.Transaction{
		expense("30", date(2025, 1, 15), "Food"),
		expense("20", date(2025, 1, 20), "Fuel"),
	}, domain.ExpensesIn(r, nil))

	require.Len(t, points, 1)
	assert.Equal(t, "2025-01", points[0].MonthYear)
	assert.Equal(t, "50", points[0].TotalExpenses.String())
}

func TestSpendingTrend_ChronologicalAcrossYears(t *testing.T) {
	r, err := domain.NewDateRange(date(2024, 1, 1), date(2025, 12, 31))
	require.NoError(t, err)

	points := SpendingTrend([]*domain.Transaction{
		expense("5", date(2025, 2, 1), "Food"),
		expense("7", date(2024, 12, 31), "Food"),
		expense("3", date(2024, 2, 10), "Food"),
		expense("1", date(2025, 2, 28), "Food"),
	}, domain.ExpensesIn(r, nil))

	require.Len(t, points, 3)
	assert.Equal(t, "2024-02", points[0].MonthYear)
	assert.Equal(t, "2024-12", points[1].MonthYear)
	assert.Equal(t, "2025-02", points[2].MonthYear)
	assert.Equal(t, "6", points[2].TotalExpenses.String())
}

func TestSpendingTrend_AppliesFilter(t *testing.T) {
	r, err := domain.NewDateRange(date(2025, 1, 1), date(2025, 1, 31))
	require.NoError(t, err)

	points := SpendingTrend([]*domain.Transaction{
		expense("10", date(2025, 1, 1), "Food"),
		expense("10", date(2025, 1, 31), "Food"),
		expense("99", date(2025, 2, 1), "Food"),
		expense("40", date(2025, 1, 5), "Rent"),
		income("500", date(2025, 1, 5), "Food"),
	}, domain.ExpensesIn(r, []string{"Food"}))

	require.Len(t, points, 1)
	assert.Equal(t, "20", points[0].TotalExpenses.String())
}

func TestSpendingTrend_SkipsMissingDate(t *testing.T) {
	r, err := domain.NewDateRange(date(2025, 1, 1), date(2025, 1, 31))
	require.NoError(t, err)
	undated := expense("999", time.Time{}, "Food")

	points := SpendingTrend([]*domain.Transaction{
		undated,
		expense("1", date(2025, 1, 2), "Food"),
	}, domain.TransactionFilter{Range: &r})

	require.Len(t, points, 1)
	assert.Equal(t, "1", points[0].TotalExpenses.String())
}

func TestSpendingTrend_Empty(t *testing.T) {
	points := SpendingTrend(nil, domain.TransactionFilter{})
	assert.NotNil(t, points)
	assert.Empty(t, points)
}

func TestSummarize(t *testing.T) {
	d := date(2025, 1, 1)
	summary := Summarize([]*domain.Transaction{
		income("100", d, "Salary"),
		expense("40", d, "Food"),
		expense("10", d, "Food"),
	})

	assert.Equal(t, "100", summary.TotalIncome.String())
	assert.Equal(t, "50", summary.TotalExpenses.String())
	assert.Equal(t, "50", summary.NetBalance.String())
	require.Len(t, summary.ExpensesByCategory, 1)
	assert.Equal(t, "Food", summary.ExpensesByCategory[0].Name)
	assert.Equal(t, "50", summary.ExpensesByCategory[0].Value.String())
}

func TestSummarize_NegativeNetAndCategories(t *testing.T) {
	d := date(2025, 3, 1)
	summary := Summarize([]*domain.Transaction{
		expense("0.1", d, "Food"),
		income("0.2", d, "Gift"),
		expense("0.2", d, "Rent"),
		expense("0.1", d, "Food"),
	})

	assert.Equal(t, "0.4", summary.TotalExpenses.String())
	assert.Equal(t, "-0.2", summary.NetBalance.String())
	require.Len(t, summary.ExpensesByCategory, 2)

	totals := map[string]string{}
	for _, c := range summary.ExpensesByCategory {
		totals[c.Name] = c.Value.String()
	}
	assert.Equal(t, map[string]string{"Food": "0.2", "Rent": "0.2"}, totals)
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)
	assert.True(t, summary.TotalIncome.IsZero())
	assert.True(t, summary.TotalExpenses.IsZero())
	assert.True(t, summary.NetBalance.IsZero())
	assert.Empty(t, summary.ExpensesByCategory)
}

func TestNetBalance(t *testing.T) {
	d := date(2025, 1, 1)
	net := NetBalance([]*domain.Transaction{income("10", d, "Gift"), expense("2.5", d, "Food")})
	assert.Equal(t, "7.5", net.String())
}

func TestDetailedReport_OrderAndFilter(t *testing.T) {
	r, err := domain.NewDateRange(date(2025, 1, 1), date(2025, 1, 31))
	require.NoError(t, err)

	older := expense("1", date(2025, 1, 2), "Food")
	newer := income("2", date(2025, 1, 20), "Salary")
	outside := expense("3", date(2025, 2, 1), "Food")
	wrongCategory := expense("4", date(2025, 1, 10), "Fuel")

	input := []*domain.Transaction{older, outside, newer, wrongCategory}
	report := DetailedReport(input, domain.TransactionFilter{Range: &r, Categories: []string{"Food", "Salary"}})

	require.Len(t, report, 2)
	assert.Same(t, newer, report[0])
	assert.Same(t, older, report[1])
	// Input slice untouched
	assert.Same(t, older, input[0])
}

func TestDetailedReport_TiesBrokenByCreatedAt(t *testing.T) {
	d := date(2025, 1, 5)
	first := expense("1", d, "Food")
	first.CreatedAt = d.Add(time.Hour)
	second := expense("2", d, "Food")
	second.CreatedAt = d.Add(2 * time.Hour)

	report := DetailedReport([]*domain.Transaction{first, second}, domain.TransactionFilter{})
	require.Len(t, report, 2)
	assert.Same(t, second, report[0])
}
