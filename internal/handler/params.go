package handler

import (
	"errors"
	"strings"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const timestampLayout = time.RFC3339

// paramError names the request field that failed to parse
type paramError struct {
	Field   string
	Message string
}

func (e *paramError) Error() string {
	return e.Field + ": " + e.Message
}

// badRequest writes the validation response for a parse failure
func badRequest(c echo.Context, err error) error {
	var pe *paramError
	if errors.As(err, &pe) {
		return invalidField(c, pe.Field, pe.Message)
	}
	return NewValidationError(c, errorMessage(err), nil)
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, &paramError{Field: field, Message: "Must be in YYYY-MM-DD format"}
	}
	return t, nil
}

// parseOptionalRange reads startDate/endDate from the query. Both absent
// yields nil; only one present is an error.
func parseOptionalRange(c echo.Context) (*domain.DateRange, error) {
	start, end := c.QueryParam("startDate"), c.QueryParam("endDate")
	if start == "" && end == "" {
		return nil, nil
	}
	if start == "" {
		return nil, &paramError{Field: "startDate", Message: "Required when endDate is set"}
	}
	if end == "" {
		return nil, &paramError{Field: "endDate", Message: "Required when startDate is set"}
	}
	startDate, err := parseDate("startDate", start)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate("endDate", end)
	if err != nil {
		return nil, err
	}
	r, err := domain.NewDateRange(startDate, endDate)
	if err != nil {
		return nil, &paramError{Field: "startDate", Message: errorMessage(err)}
	}
	return &r, nil
}

// parseRequiredDates reads startDate and endDate without ordering them so
// the service can report an inverted range itself.
func parseRequiredDates(c echo.Context) (time.Time, time.Time, error) {
	start, end := c.QueryParam("startDate"), c.QueryParam("endDate")
	if start == "" {
		return time.Time{}, time.Time{}, &paramError{Field: "startDate", Message: "Start date is required"}
	}
	if end == "" {
		return time.Time{}, time.Time{}, &paramError{Field: "endDate", Message: "End date is required"}
	}
	startDate, err := parseDate("startDate", start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate("endDate", end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return startDate, endDate, nil
}

// parseCategories treats every value as one exact category name.
// Category names may contain commas, so values are trimmed but never split.
func parseCategories(values []string) []string {
	var categories []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			categories = append(categories, v)
		}
	}
	return categories
}

func parseIDParam(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, &paramError{Field: "id", Message: "Must be a valid UUID"}
	}
	return id, nil
}

func formatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
