package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/errors"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/services"
)

// dateLayout is the calendar-date form entries are booked with.
const dateLayout = "2006-01-02"

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// AffectedResponse reports how many rows a scoped update or delete touched.
// Zero means the id did not match a row owned by the caller.
type AffectedResponse struct {
	Affected int64 `json:"affected"`
}

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	v, exists := c.Get("userID")
	if !exists {
		return "", apperrors.ErrUnauthorized
	}
	userID, ok := v.(string)
	if !ok || userID == "" {
		return "", apperrors.ErrUnauthorized
	}
	return userID, nil
}

// parseDate accepts a calendar date (YYYY-MM-DD) or a full RFC3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, apperrors.Validation("invalid date " + s + ": use YYYY-MM-DD or RFC3339")
	}
	return t, nil
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// entryFilter reads the from_date, to_date and category query parameters.
func entryFilter(c *gin.Context) (services.EntryFilter, error) {
	filter := services.EntryFilter{Category: c.Query("category")}
	if v := c.Query("from_date"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return filter, err
		}
		filter.FromDate = &t
	}
	if v := c.Query("to_date"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return filter, err
		}
		filter.ToDate = &t
	}
	return filter, nil
}

func bindError(err error) error {
	return apperrors.WithMessage(apperrors.ErrValidation, err.Error())
}

// respondWithError records err on the context and stops the chain. The
// error middleware renders it.
func respondWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
