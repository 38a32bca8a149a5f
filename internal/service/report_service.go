package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/aggregate"
	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/export"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ExportURLExpiry is how long an archived export link stays valid
const ExportURLExpiry = 15 * time.Minute

// ReportQuery selects the transactions a report covers
type ReportQuery struct {
	StartDate  time.Time
	EndDate    time.Time
	Categories []string
}

func (q ReportQuery) dateRange() (domain.DateRange, error) {
	r, err := domain.NewDateRange(q.StartDate, q.EndDate)
	if err != nil {
		return domain.DateRange{}, domain.NewFieldError("startDate", err)
	}
	return r, nil
}

// ExportArchive is an export stored in the archive with a temporary link
type ExportArchive struct {
	Key       string
	URL       string
	ExpiresAt time.Time
}

// ReportService builds category, trend and detailed reports
type ReportService struct {
	transactionRepo domain.TransactionRepository
	exportRepo      domain.ExportRepository
	now             func() time.Time
}

// NewReportService creates a new ReportService. exportRepo may be nil when
// the export archive is not configured.
func NewReportService(transactionRepo domain.TransactionRepository, exportRepo domain.ExportRepository) *ReportService {
	return &ReportService{
		transactionRepo: transactionRepo,
		exportRepo:      exportRepo,
		now:             time.Now,
	}
}

// GetCategories returns the distinct categories userID has used, ascending
func (s *ReportService) GetCategories(ctx context.Context, userID uuid.UUID) ([]string, error) {
	categories, err := s.transactionRepo.ListCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetSpendingTrend returns monthly expense totals over the query range.
// An inverted range yields an empty series together with the range error.
func (s *ReportService) GetSpendingTrend(ctx context.Context, userID uuid.UUID, query ReportQuery) ([]domain.SpendingTrendPoint, error) {
	r, err := query.dateRange()
	if err != nil {
		return []domain.SpendingTrendPoint{}, err
	}

	filter := domain.ExpensesIn(r, query.Categories)
	expenses, err := s.transactionRepo.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	return aggregate.SpendingTrend(expenses, filter), nil
}

// GetDetailedReport returns every transaction in the query, newest first
func (s *ReportService) GetDetailedReport(ctx context.Context, userID uuid.UUID, query ReportQuery) ([]*domain.Transaction, error) {
	r, err := query.dateRange()
	if err != nil {
		return []*domain.Transaction{}, err
	}

	filter := domain.TransactionFilter{Range: &r, Categories: query.Categories}
	txs, err := s.transactionRepo.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return aggregate.DetailedReport(txs, filter), nil
}

// Export writes the detailed report for query to w in format
func (s *ReportService) Export(ctx context.Context, userID uuid.UUID, query ReportQuery, format domain.ExportFormat, w io.Writer) error {
	if !format.Valid() {
		return domain.NewFieldError("format", fmt.Errorf("unsupported export format %q: %w", format, domain.ErrInvalidInput))
	}
	txs, err := s.GetDetailedReport(ctx, userID, query)
	if err != nil {
		return err
	}
	if err := export.Write(w, format, txs); err != nil {
		return fmt.Errorf("failed to render export: %w", err)
	}
	return nil
}

// ArchiveExport stores the export in the archive and returns a link valid
// for ExportURLExpiry
func (s *ReportService) ArchiveExport(ctx context.Context, userID uuid.UUID, query ReportQuery, format domain.ExportFormat) (*ExportArchive, error) {
	if s.exportRepo == nil {
		return nil, domain.ErrExportArchiveDisabled
	}

	var buf bytes.Buffer
	if err := s.Export(ctx, userID, query, format, &buf); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	key := fmt.Sprintf("exports/%s/%s-%s.%s", userID, now.Format("20060102T150405Z"), uuid.New().String()[:8], format)
	size := int64(buf.Len())

	if err := s.exportRepo.Upload(ctx, key, bytes.NewReader(buf.Bytes()), format.ContentType(), size); err != nil {
		return nil, fmt.Errorf("failed to archive export: %w", err)
	}

	url, err := s.exportRepo.PresignURL(ctx, key, ExportURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign export link: %w", err)
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("key", key).
		Int64("size", size).
		Msg("Export archived")

	return &ExportArchive{Key: key, URL: url, ExpiresAt: now.Add(ExportURLExpiry)}, nil
}
