// Package testutil holds in-memory fakes of the domain repositories for
// service and handler tests.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	mu       sync.Mutex
	ByID     map[uuid.UUID]*domain.User
	CreateFn func(ctx context.Context, user *domain.User) (*domain.User, error)
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{ByID: make(map[uuid.UUID]*domain.User)}
}

// AddUser stores a user directly, assigning an ID when missing
func (m *MockUserRepository) AddUser(user *domain.User) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.ByID[user.ID] = user
	return user
}

// Create stores a new user, rejecting duplicate emails case-insensitively
func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.ByID {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, domain.ErrEmailTaken
		}
	}
	created := *user
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.ByID[created.ID] = &created
	return &created, nil
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByEmail retrieves a user by email, case-insensitively
func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.ByID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	mu           sync.Mutex
	Transactions map[uuid.UUID]*domain.Transaction
	ListFn       func(ctx context.Context, userID uuid.UUID, filter domain.TransactionFilter) ([]*domain.Transaction, error)
	CreateFn     func(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error)
	// LastFilter records the filter of the most recent List call
	LastFilter *domain.TransactionFilter
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{Transactions: make(map[uuid.UUID]*domain.Transaction)}
}

// AddTransaction stores a transaction directly, filling ID and timestamps when missing
func (m *MockTransactionRepository) AddTransaction(tx *domain.Transaction) *domain.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
		tx.UpdatedAt = tx.CreatedAt
	}
	m.Transactions[tx.ID] = tx
	return tx
}

// AddExpense is shorthand for an EXPENSE transaction on the given date
func (m *MockTransactionRepository) AddExpense(userID uuid.UUID, category, amount string, date time.Time) *domain.Transaction {
	return m.AddTransaction(&domain.Transaction{
		UserID:   userID,
		Type:     domain.TransactionTypeExpense,
		Amount:   decimal.RequireFromString(amount),
		Date:     domain.DateOnly(date),
		Category: category,
	})
}

// AddIncome is shorthand for an INCOME transaction on the given date
func (m *MockTransactionRepository) AddIncome(userID uuid.UUID, category, amount string, date time.Time) *domain.Transaction {
	return m.AddTransaction(&domain.Transaction{
		UserID:   userID,
		Type:     domain.TransactionTypeIncome,
		Amount:   decimal.RequireFromString(amount),
		Date:     domain.DateOnly(date),
		Category: category,
	})
}

// Create stores a new transaction
func (m *MockTransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, transaction)
	}
	created := *transaction
	created.ID = uuid.Nil
	created.CreatedAt = time.Time{}
	return m.AddTransaction(&created), nil
}

// GetByID retrieves a transaction owned by userID
func (m *MockTransactionRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tx, ok := m.Transactions[id]; ok && tx.UserID == userID {
		return tx, nil
	}
	return nil, domain.ErrTransactionNotFound
}

// List returns the user's transactions matching filter, newest first
func (m *MockTransactionRepository) List(ctx context.Context, userID uuid.UUID, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID, filter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastFilter = &filter

	result := make([]*domain.Transaction, 0)
	for _, tx := range m.Transactions {
		if tx.UserID == userID && filter.Matches(tx) {
			result = append(result, tx)
		}
	}
	sortNewestFirst(result)
	return result, nil
}

// ListRecent returns the latest limit transactions of userID
func (m *MockTransactionRepository) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Transaction, error) {
	all, err := m.List(ctx, userID, domain.TransactionFilter{})
	if err != nil {
		return nil, err
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// ListCategories returns the user's distinct categories, ascending
func (m *MockTransactionRepository) ListCategories(ctx context.Context, userID uuid.UUID) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]bool)
	categories := make([]string, 0)
	for _, tx := range m.Transactions {
		if tx.UserID == userID && !seen[tx.Category] {
			seen[tx.Category] = true
			categories = append(categories, tx.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

// Update replaces the editable fields of a transaction owned by userID
func (m *MockTransactionRepository) Update(ctx context.Context, userID, id uuid.UUID, input *domain.TransactionInput) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.Transactions[id]
	if !ok || tx.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	updated := *tx
	updated.Type = input.Type
	updated.Amount = input.Amount
	updated.Date = input.Date
	updated.Category = input.Category
	updated.Description = input.Description
	updated.UpdatedAt = time.Now()
	m.Transactions[id] = &updated
	return &updated, nil
}

// Delete removes a transaction owned by userID
func (m *MockTransactionRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.Transactions[id]
	if !ok || tx.UserID != userID {
		return domain.ErrTransactionNotFound
	}
	delete(m.Transactions, id)
	return nil
}

func sortNewestFirst(txs []*domain.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		a, b := txs[i], txs[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return bytes.Compare(a.ID[:], b.ID[:]) > 0
	})
}

type budgetKey struct {
	userID   uuid.UUID
	category string
	month    int
	year     int
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	mu            sync.Mutex
	Budgets       map[budgetKey]*domain.Budget
	ListByMonthFn func(ctx context.Context, userID uuid.UUID, month, year int) ([]*domain.Budget, error)
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{Budgets: make(map[budgetKey]*domain.Budget)}
}

// AddBudget is shorthand for upserting a budget in tests
func (m *MockBudgetRepository) AddBudget(userID uuid.UUID, category string, month, year int, amount string) *domain.Budget {
	b, _ := m.Upsert(context.Background(), &domain.Budget{
		UserID:   userID,
		Category: category,
		Month:    month,
		Year:     year,
		Amount:   decimal.RequireFromString(amount),
	})
	return b
}

// Upsert creates or replaces the budget for its key
func (m *MockBudgetRepository) Upsert(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := budgetKey{budget.UserID, budget.Category, budget.Month, budget.Year}
	now := time.Now()
	if existing, ok := m.Budgets[key]; ok {
		updated := *existing
		updated.Amount = budget.Amount
		updated.UpdatedAt = now
		m.Budgets[key] = &updated
		return &updated, nil
	}
	created := *budget
	created.ID = uuid.New()
	created.CreatedAt = now
	created.UpdatedAt = now
	m.Budgets[key] = &created
	return &created, nil
}

// ListByMonth returns a user's budgets for one month, ordered by category
func (m *MockBudgetRepository) ListByMonth(ctx context.Context, userID uuid.UUID, month, year int) ([]*domain.Budget, error) {
	if m.ListByMonthFn != nil {
		return m.ListByMonthFn(ctx, userID, month, year)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Budget, 0)
	for k, b := range m.Budgets {
		if k.userID == userID && k.month == month && k.year == year {
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Category < result[j].Category })
	return result, nil
}

// Delete removes one budget
func (m *MockBudgetRepository) Delete(ctx context.Context, userID uuid.UUID, category string, month, year int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := budgetKey{userID, category, month, year}
	if _, ok := m.Budgets[key]; !ok {
		return domain.ErrBudgetNotFound
	}
	delete(m.Budgets, key)
	return nil
}

// StoredObject is an upload captured by MockExportRepository
type StoredObject struct {
	Body        []byte
	ContentType string
}

// MockExportRepository is a mock implementation of domain.ExportRepository
type MockExportRepository struct {
	mu        sync.Mutex
	Objects   map[string]StoredObject
	UploadErr error
}

// NewMockExportRepository creates a new MockExportRepository
func NewMockExportRepository() *MockExportRepository {
	return &MockExportRepository{Objects: make(map[string]StoredObject)}
}

// Upload captures the body under key
func (m *MockExportRepository) Upload(ctx context.Context, key string, body io.Reader, contentType string, size int64) error {
	if m.UploadErr != nil {
		return m.UploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = StoredObject{Body: data, ContentType: contentType}
	return nil
}

// PresignURL returns a fake URL embedding key and expiry
func (m *MockExportRepository) PresignURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Objects[key]; !ok {
		return "", fmt.Errorf("object %q not uploaded", key)
	}
	return fmt.Sprintf("https://exports.test/%s?expires=%d", key, int(expiry.Seconds())), nil
}

// PublishedEvent is an event captured by MockEventPublisher
type PublishedEvent struct {
	UserID uuid.UUID
	Event  websocket.Event
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records the event
func (m *MockEventPublisher) Publish(userID uuid.UUID, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{UserID: userID, Event: event})
}

// Published returns a copy of the recorded events
func (m *MockEventPublisher) Published() []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PublishedEvent(nil), m.Events...)
}
