package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/websocket"
	"github.com/google/uuid"
)

// TransactionService handles transaction-related business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	eventPublisher  websocket.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository) *TransactionService {
	return &TransactionService{transactionRepo: transactionRepo}
}

// SetEventPublisher sets the WebSocket event publisher
func (s *TransactionService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *TransactionService) publishEvent(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// CreateTransaction validates input and stores a new transaction for userID
func (s *TransactionService) CreateTransaction(ctx context.Context, userID uuid.UUID, input domain.TransactionInput) (*domain.Transaction, error) {
	if err := normalizeTransactionInput(&input); err != nil {
		return nil, err
	}

	created, err := s.transactionRepo.Create(ctx, &domain.Transaction{
		UserID:      userID,
		Type:        input.Type,
		Amount:      input.Amount,
		Date:        input.Date,
		Category:    input.Category,
		Description: input.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.publishEvent(userID, websocket.TransactionCreated(created))
	return created, nil
}

// GetTransaction returns one transaction owned by userID
func (s *TransactionService) GetTransaction(ctx context.Context, userID, id uuid.UUID) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(ctx, userID, id)
}

// ListTransactions returns the transactions of userID matching filter, newest first
func (s *TransactionService) ListTransactions(ctx context.Context, userID uuid.UUID, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	if filter.Type != nil && !filter.Type.Valid() {
		return nil, domain.NewFieldError("type", domain.ErrInvalidTransactionType)
	}
	txs, err := s.transactionRepo.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

// UpdateTransaction replaces the editable fields of a transaction owned by userID
func (s *TransactionService) UpdateTransaction(ctx context.Context, userID, id uuid.UUID, input domain.TransactionInput) (*domain.Transaction, error) {
	if err := normalizeTransactionInput(&input); err != nil {
		return nil, err
	}

	updated, err := s.transactionRepo.Update(ctx, userID, id, &input)
	if err != nil {
		return nil, err
	}

	s.publishEvent(userID, websocket.TransactionUpdated(updated))
	return updated, nil
}

// DeleteTransaction removes a transaction owned by userID
func (s *TransactionService) DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.transactionRepo.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.publishEvent(userID, websocket.TransactionDeleted(map[string]interface{}{"id": id}))
	return nil
}

// normalizeTransactionInput trims text fields in place and validates the result
func normalizeTransactionInput(input *domain.TransactionInput) error {
	if !input.Type.Valid() {
		return domain.NewFieldError("type", domain.ErrInvalidTransactionType)
	}
	if !domain.ValidAmount(input.Amount) {
		return domain.NewFieldError("amount", domain.ErrInvalidAmount)
	}
	if input.Date.IsZero() {
		return domain.NewFieldError("date", domain.ErrDateRequired)
	}
	input.Date = domain.DateOnly(input.Date)

	input.Category = strings.TrimSpace(input.Category)
	if input.Category == "" {
		return domain.NewFieldError("category", domain.ErrCategoryRequired)
	}
	if utf8.RuneCountInString(input.Category) > domain.MaxCategoryLength {
		return domain.NewFieldError("category", domain.ErrCategoryTooLong)
	}

	if input.Description != nil {
		desc := strings.TrimSpace(*input.Description)
		if desc == "" {
			input.Description = nil
		} else {
			if utf8.RuneCountInString(desc) > domain.MaxDescriptionLength {
				return domain.NewFieldError("description", domain.ErrDescriptionTooLong)
			}
			input.Description = &desc
		}
	}
	return nil
}
