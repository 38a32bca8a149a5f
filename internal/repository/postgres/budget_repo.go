package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const budgetColumns = `id, user_id, category, month, year, amount, created_at, updated_at`

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool, timeout time.Duration) *BudgetRepository {
	return &BudgetRepository{pool: pool, timeout: timeout}
}

// Upsert creates the budget for (user, category, month, year) or replaces its amount
func (r *BudgetRepository) Upsert(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	amount, err := decimalToPgNumeric(budget.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO budgets (user_id, category, month, year, amount)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, category, month, year)
		DO UPDATE SET amount = EXCLUDED.amount, updated_at = now()
		RETURNING `+budgetColumns,
		uuidToPg(budget.UserID), budget.Category, budget.Month, budget.Year, amount,
	)
	return scanBudget(row)
}

// ListByMonth returns the budgets of userID for one month, ordered by category
func (r *BudgetRepository) ListByMonth(ctx context.Context, userID uuid.UUID, month, year int) ([]*domain.Budget, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.pool.Query(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE user_id = $1 AND month = $2 AND year = $3 ORDER BY category ASC`,
		uuidToPg(userID), month, year,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.Budget, 0)
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes one budget
func (r *BudgetRepository) Delete(ctx context.Context, userID uuid.UUID, category string, month, year int) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx,
		`DELETE FROM budgets WHERE user_id = $1 AND category = $2 AND month = $3 AND year = $4`,
		uuidToPg(userID), category, month, year,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}

func scanBudget(row rowScanner) (*domain.Budget, error) {
	var (
		id, userID           pgtype.UUID
		b                    domain.Budget
		month, year          int32
		amount               pgtype.Numeric
		createdAt, updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &userID, &b.Category, &month, &year, &amount, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	b.ID = pgToUUID(id)
	b.UserID = pgToUUID(userID)
	b.Month = int(month)
	b.Year = int(year)
	b.Amount = pgNumericToDecimal(amount)
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time
	return &b, nil
}
