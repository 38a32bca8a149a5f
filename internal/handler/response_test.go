package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantType   string
		wantField  string
		wantDetail string
	}{
		{
			name:       "field validation",
			err:        domain.NewFieldError("month", domain.ErrInvalidMonth),
			wantCode:   http.StatusBadRequest,
			wantType:   ErrorTypeValidation,
			wantField:  "month",
			wantDetail: "Validation failed",
		},
		{
			name:       "bare validation",
			err:        domain.ErrInvalidDateRange,
			wantCode:   http.StatusBadRequest,
			wantType:   ErrorTypeValidation,
			wantDetail: "Start date must not be after end date",
		},
		{
			name:       "not found through wrapping",
			err:        fmt.Errorf("failed to load: %w", domain.ErrBudgetNotFound),
			wantCode:   http.StatusNotFound,
			wantType:   ErrorTypeNotFound,
			wantDetail: "Failed to load: budget not found",
		},
		{
			name:       "unauthorized",
			err:        domain.ErrInvalidCredentials,
			wantCode:   http.StatusUnauthorized,
			wantType:   ErrorTypeUnauthorized,
			wantDetail: "Invalid email or password",
		},
		{
			name:      "conflict",
			err:       domain.NewFieldError("email", domain.ErrEmailTaken),
			wantCode:  http.StatusConflict,
			wantType:  ErrorTypeConflict,
			wantField: "email",
		},
		{
			name:     "archive disabled",
			err:      domain.ErrExportArchiveDisabled,
			wantCode: http.StatusServiceUnavailable,
			wantType: ErrorTypeUnavailable,
		},
		{
			name:       "store failure",
			err:        errors.New("pq: relation does not exist"),
			wantCode:   http.StatusInternalServerError,
			wantType:   ErrorTypeInternal,
			wantDetail: "Something failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/anything", nil), rec)

			require.NoError(t, handleServiceError(c, tt.err, "Something failed"))
			assert.Equal(t, tt.wantCode, rec.Code)

			problem := decodeProblem(t, rec)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, tt.wantCode, problem.Status)
			assert.Equal(t, "/api/v1/anything", problem.Instance)
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, problem.Detail)
			}
			if tt.wantField != "" {
				require.Len(t, problem.Errors, 1)
				assert.Equal(t, tt.wantField, problem.Errors[0].Field)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "Month must be between 1 and 12", errorMessage(domain.ErrInvalidMonth))
	assert.Equal(t, "Transaction not found", errorMessage(domain.ErrTransactionNotFound))
	assert.Equal(t, "Something else", errorMessage(errors.New("something else")))
}
