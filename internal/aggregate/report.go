package aggregate

import (
	"bytes"
	"sort"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
)

// DetailedReport returns every transaction matching filter, newest first.
// Ties on date fall back to creation time, then id, so the order is stable
// across calls. The input slice is not modified.
func DetailedReport(transactions []*domain.Transaction, filter domain.TransactionFilter) []*domain.Transaction {
	result := make([]*domain.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if filter.Matches(tx) {
			result = append(result, tx)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return bytes.Compare(a.ID[:], b.ID[:]) > 0
	})
	return result
}
