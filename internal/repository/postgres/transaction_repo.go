package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `id, user_id, type, amount, date, category, description, created_at, updated_at`

// transactionOrder keeps list results newest first with a stable tiebreak
const transactionOrder = ` ORDER BY date DESC, created_at DESC, id DESC`

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool, timeout time.Duration) *TransactionRepository {
	return &TransactionRepository{pool: pool, timeout: timeout}
}

// Create creates a new transaction
func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO transactions (user_id, type, amount, date, category, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+transactionColumns,
		uuidToPg(transaction.UserID),
		string(transaction.Type),
		amount,
		dateToPg(transaction.Date),
		transaction.Category,
		stringPtrToPgText(transaction.Description),
	)
	return scanTransaction(row)
}

// GetByID retrieves a transaction owned by userID
func (r *TransactionRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Transaction, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	row := r.pool.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1 AND user_id = $2`,
		uuidToPg(id), uuidToPg(userID),
	)
	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return tx, nil
}

// List retrieves every transaction of userID matching filter, newest first
func (r *TransactionRepository) List(ctx context.Context, userID uuid.UUID, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query, args := buildListQuery(userID, filter)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectTransactions(rows)
}

// ListRecent retrieves the latest limit transactions of userID
func (r *TransactionRepository) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Transaction, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.pool.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = $1`+transactionOrder+` LIMIT $2`,
		uuidToPg(userID), limit,
	)
	if err != nil {
		return nil, err
	}
	return collectTransactions(rows)
}

// ListCategories returns the distinct categories userID has used, ascending
func (r *TransactionRepository) ListCategories(ctx context.Context, userID uuid.UUID) ([]string, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT category FROM transactions WHERE user_id = $1 ORDER BY category ASC`,
		uuidToPg(userID),
	)
	if err != nil {
		return nil, err
	}
	categories, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

// Update replaces the editable fields of a transaction owned by userID
func (r *TransactionRepository) Update(ctx context.Context, userID, id uuid.UUID, input *domain.TransactionInput) (*domain.Transaction, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	amount, err := decimalToPgNumeric(input.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE transactions
		SET type = $3, amount = $4, date = $5, category = $6, description = $7, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+transactionColumns,
		uuidToPg(id),
		uuidToPg(userID),
		string(input.Type),
		amount,
		dateToPg(input.Date),
		input.Category,
		stringPtrToPgText(input.Description),
	)
	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return tx, nil
}

// Delete removes a transaction owned by userID
func (r *TransactionRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx,
		`DELETE FROM transactions WHERE id = $1 AND user_id = $2`,
		uuidToPg(id), uuidToPg(userID),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// buildListQuery translates filter into SQL with the same semantics as
// domain.TransactionFilter.Matches: nil fields and an empty category list
// add no condition, and the date range is inclusive on both ends.
func buildListQuery(userID uuid.UUID, filter domain.TransactionFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1`)
	args := []any{uuidToPg(userID)}

	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Type != nil {
		sb.WriteString(" AND type = " + next(string(*filter.Type)))
	}
	if filter.Range != nil {
		sb.WriteString(" AND date >= " + next(dateToPg(filter.Range.Start)))
		sb.WriteString(" AND date <= " + next(dateToPg(filter.Range.End)))
	}
	if len(filter.Categories) > 0 {
		sb.WriteString(" AND category = ANY(" + next(filter.Categories) + ")")
	}
	sb.WriteString(transactionOrder)
	return sb.String(), args
}

func collectTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	defer rows.Close()

	result := make([]*domain.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var (
		id, userID           pgtype.UUID
		txType               string
		amount               pgtype.Numeric
		date                 pgtype.Date
		category             string
		description          pgtype.Text
		createdAt, updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &userID, &txType, &amount, &date, &category, &description, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return &domain.Transaction{
		ID:          pgToUUID(id),
		UserID:      pgToUUID(userID),
		Type:        domain.TransactionType(txType),
		Amount:      pgNumericToDecimal(amount),
		Date:        domain.DateOnly(date.Time),
		Category:    category,
		Description: pgTextToStringPtr(description),
		CreatedAt:   createdAt.Time,
		UpdatedAt:   updatedAt.Time,
	}, nil
}
