package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/middleware"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation   = "https://fintrack.app/errors/validation"
	ErrorTypeNotFound     = "https://fintrack.app/errors/not-found"
	ErrorTypeUnauthorized = "https://fintrack.app/errors/unauthorized"
	ErrorTypeConflict     = "https://fintrack.app/errors/conflict"
	ErrorTypeUnavailable  = "https://fintrack.app/errors/unavailable"
	ErrorTypeInternal     = "https://fintrack.app/errors/internal"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized, ProblemDetails{
		Type:     ErrorTypeUnauthorized,
		Title:    "Unauthorized",
		Status:   http.StatusUnauthorized,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusConflict, ProblemDetails{
		Type:     ErrorTypeConflict,
		Title:    "Conflict",
		Status:   http.StatusConflict,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewServiceUnavailableError creates a service unavailable error response
func NewServiceUnavailableError(c echo.Context, detail string) error {
	return c.JSON(http.StatusServiceUnavailable, ProblemDetails{
		Type:     ErrorTypeUnavailable,
		Title:    "Service Unavailable",
		Status:   http.StatusServiceUnavailable,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// handleServiceError maps a service error to its problem response. Store
// failures are logged and reported with the generic detail only.
func handleServiceError(c echo.Context, err error, detail string) error {
	var fieldErr *domain.FieldError
	hasField := errors.As(err, &fieldErr)

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return NewUnauthorizedError(c, errorMessage(err))
	case errors.Is(err, domain.ErrInvalidInput):
		if hasField {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: fieldErr.Field, Message: errorMessage(fieldErr.Err)},
			})
		}
		return NewValidationError(c, errorMessage(err), nil)
	case errors.Is(err, domain.ErrNotFound):
		return NewNotFoundError(c, errorMessage(err))
	case errors.Is(err, domain.ErrAlreadyExists):
		if hasField {
			return NewConflictError(c, errorMessage(fieldErr.Err), []ValidationError{
				{Field: fieldErr.Field, Message: errorMessage(fieldErr.Err)},
			})
		}
		return NewConflictError(c, errorMessage(err), nil)
	case errors.Is(err, domain.ErrExportArchiveDisabled):
		return NewServiceUnavailableError(c, "Export archive is not configured")
	}

	log.Error().
		Err(err).
		Str("user_id", middleware.GetUserID(c).String()).
		Str("method", c.Request().Method).
		Str("path", c.Request().URL.Path).
		Str("query", c.QueryString()).
		Msg(detail)
	return NewInternalError(c, detail)
}

// errorMessage turns a wrapped domain error into a client-facing sentence
// without the error kind suffix.
func errorMessage(err error) string {
	msg := err.Error()
	for _, kind := range []error{domain.ErrInvalidInput, domain.ErrNotFound, domain.ErrAlreadyExists, domain.ErrUnauthorized} {
		msg = strings.TrimSuffix(msg, ": "+kind.Error())
	}
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

func invalidField(c echo.Context, field, message string) error {
	return NewValidationError(c, "Validation failed", []ValidationError{
		{Field: field, Message: message},
	})
}
