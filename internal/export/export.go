// Package export renders detailed report rows as downloadable files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Transactions"

var header = []string{"Date", "Type", "Category", "Description", "Amount"}

// Write renders transactions in the given format
func Write(w io.Writer, format domain.ExportFormat, transactions []*domain.Transaction) error {
	switch format {
	case domain.ExportFormatCSV:
		return WriteCSV(w, transactions)
	case domain.ExportFormatXLSX:
		return WriteXLSX(w, transactions)
	default:
		return fmt.Errorf("unsupported export format %q: %w", format, domain.ErrInvalidInput)
	}
}

// WriteCSV writes a header row followed by one row per transaction
func WriteCSV(w io.Writer, transactions []*domain.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, tx := range transactions {
		record := []string{
			tx.Date.Format(domain.DateLayout),
			string(tx.Type),
			tx.Category,
			description(tx),
			tx.Amount.StringFixed(domain.DisplayPlaces),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a single-sheet workbook. Amounts are numeric cells.
func WriteXLSX(w io.Writer, transactions []*domain.Transaction) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, h := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}

	for i, tx := range transactions {
		row := []any{
			tx.Date.Format(domain.DateLayout),
			string(tx.Type),
			tx.Category,
			description(tx),
			domain.DisplayAmount(tx.Amount),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return err
		}
	}

	widths := map[string]float64{"A": 12, "B": 10, "C": 18, "D": 40, "E": 12}
	for col, width := range widths {
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Filename returns the download name for an export generated on date
func Filename(format domain.ExportFormat, date string) string {
	return fmt.Sprintf("transactions_%s.%s", date, format)
}

func description(tx *domain.Transaction) string {
	if tx.Description == nil {
		return ""
	}
	return *tx.Description
}
