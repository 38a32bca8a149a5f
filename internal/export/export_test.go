package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleTransactions() []*domain.Transaction {
	note := "weekly shop, with comma"
	return []*domain.Transaction{
		{
			ID:          uuid.New(),
			Type:        domain.TransactionTypeExpense,
			Amount:      decimal.RequireFromString("42.5"),
			Date:        time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			Category:    "Groceries",
			Description: &note,
		},
		{
			ID:       uuid.New(),
			Type:     domain.TransactionTypeIncome,
			Amount:   decimal.RequireFromString("1500"),
			Date:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Category: "Salary",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleTransactions()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, header, records[0])
	assert.Equal(t, []string{"2024-03-15", "EXPENSE", "Groceries", "weekly shop, with comma", "42.50"}, records[1])
	assert.Equal(t, []string{"2024-03-01", "INCOME", "Salary", "", "1500.00"}, records[2])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "Date,Type,Category,Description,Amount\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleTransactions()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, header, rows[0])
	assert.Equal(t, "Groceries", rows[1][2])
	assert.Equal(t, "42.5", rows[1][4])
	assert.Equal(t, "Salary", rows[2][2])
}

func TestWrite_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, domain.ExportFormat("pdf"), sampleTransactions())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "transactions_2024-03-15.xlsx", Filename(domain.ExportFormatXLSX, "2024-03-15"))
}
