package domain

import (
	"context"
	"io"
	"time"
)

// ExportFormat selects the file format of a report export
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// ContentType returns the MIME type of the format
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportFormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Valid reports whether f is a supported format
func (f ExportFormat) Valid() bool {
	return f == ExportFormatCSV || f == ExportFormatXLSX
}

// ExportRepository stores generated export files
type ExportRepository interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string, size int64) error
	PresignURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}
