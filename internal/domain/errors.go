package domain

import (
	"errors"
	"fmt"
)

// Domain errors. Handlers classify failures with errors.Is against the
// four top-level kinds: ErrUnauthorized, ErrInvalidInput, ErrNotFound and
// ErrAlreadyExists. Anything else is a store failure.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
)

// Not found
var (
	ErrUserNotFound        = fmt.Errorf("user not found: %w", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("transaction not found: %w", ErrNotFound)
	ErrBudgetNotFound      = fmt.Errorf("budget not found: %w", ErrNotFound)
)

// Conflicts
var (
	ErrEmailTaken = fmt.Errorf("email already registered: %w", ErrAlreadyExists)
)

// Unavailable features
var (
	ErrExportArchiveDisabled = errors.New("export archive is not configured")
)

// Auth
var (
	ErrInvalidCredentials = fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
)

// Validation
var (
	ErrInvalidMonth           = fmt.Errorf("month must be between 1 and 12: %w", ErrInvalidInput)
	ErrInvalidYear            = fmt.Errorf("year must be between %d and %d: %w", MinYear, MaxYear, ErrInvalidInput)
	ErrInvalidDateRange       = fmt.Errorf("start date must not be after end date: %w", ErrInvalidInput)
	ErrInvalidAmount          = fmt.Errorf("amount must be positive, below 1000000000000 and have at most 2 decimal places: %w", ErrInvalidInput)
	ErrInvalidTransactionType = fmt.Errorf("type must be INCOME or EXPENSE: %w", ErrInvalidInput)
	ErrCategoryRequired       = fmt.Errorf("category is required: %w", ErrInvalidInput)
	ErrCategoryTooLong        = fmt.Errorf("category exceeds maximum length: %w", ErrInvalidInput)
	ErrDescriptionTooLong     = fmt.Errorf("description exceeds maximum length: %w", ErrInvalidInput)
	ErrDateRequired           = fmt.Errorf("date is required: %w", ErrInvalidInput)
	ErrNameRequired           = fmt.Errorf("name is required: %w", ErrInvalidInput)
	ErrInvalidEmail           = fmt.Errorf("invalid email address: %w", ErrInvalidInput)
	ErrPasswordTooShort       = fmt.Errorf("password must be at least %d characters: %w", MinPasswordLength, ErrInvalidInput)
)

// Validation constants
const (
	MinYear              = 2000
	MaxYear              = 2100
	MaxCategoryLength    = 100
	MaxDescriptionLength = 500
	MaxNameLength        = 255
	MinPasswordLength    = 6
)

// FieldError ties a validation failure to the request field that caused it.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// NewFieldError wraps err with the offending field name
func NewFieldError(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}
