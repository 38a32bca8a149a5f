package domain

import "time"

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// DateOnly strips the clock from t, keeping its calendar date in UTC
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateRange is an inclusive range of calendar dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange normalizes both bounds to calendar dates and rejects
// ranges whose start is after their end.
func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: DateOnly(start), End: DateOnly(end)}
	if r.Start.After(r.End) {
		return DateRange{}, ErrInvalidDateRange
	}
	return r, nil
}

// Contains reports whether the calendar date of t falls inside the range
func (r DateRange) Contains(t time.Time) bool {
	d := DateOnly(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// TransactionFilter selects transactions of one user. Nil fields and an
// empty category list mean "no restriction".
type TransactionFilter struct {
	Type       *TransactionType
	Range      *DateRange
	Categories []string
}

// ExpensesIn is the filter used by every expense aggregation
func ExpensesIn(r DateRange, categories []string) TransactionFilter {
	t := TransactionTypeExpense
	return TransactionFilter{Type: &t, Range: &r, Categories: categories}
}

// Matches applies the filter to a single transaction. The postgres store
// translates the same fields into SQL with identical semantics.
func (f TransactionFilter) Matches(tx *Transaction) bool {
	if f.Type != nil && tx.Type != *f.Type {
		return false
	}
	if f.Range != nil && !f.Range.Contains(tx.Date) {
		return false
	}
	if len(f.Categories) > 0 {
		found := false
		for _, c := range f.Categories {
			if c == tx.Category {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
