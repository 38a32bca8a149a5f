package util

import (
	"fmt"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
)

// ValidateMonthYear checks month and year against the supported ranges
func ValidateMonthYear(month, year int) error {
	if month < 1 || month > 12 {
		return domain.ErrInvalidMonth
	}
	if year < domain.MinYear || year > domain.MaxYear {
		return domain.ErrInvalidYear
	}
	return nil
}

// MonthRange returns the inclusive range from the first to the last day of
// the given month
func MonthRange(year, month int) domain.DateRange {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	// Day 0 of the next month is the last day of this one
	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	return domain.DateRange{Start: first, End: last}
}

// CurrentMonthRange returns the calendar month containing now
func CurrentMonthRange(now time.Time) domain.DateRange {
	return MonthRange(now.Year(), int(now.Month()))
}

// MonthKey formats the calendar month of t as YYYY-MM
func MonthKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}
