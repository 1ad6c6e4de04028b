// Package dto provides data transfer objects for the HTTP API.
package dto

import (
	"time"

	"transita/internal/core/apperror"
	"transita/internal/core/id"
)

// ListResponse wraps list results.
type ListResponse struct {
	Items any `json:"items"`
	Total int `json:"total"`
}

// NewListResponse creates a list response.
func NewListResponse(items any, total int) ListResponse {
	return ListResponse{Items: items, Total: total}
}

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// NewIDResponse creates an ID response.
func NewIDResponse(i id.ID) IDResponse {
	return IDResponse{ID: i.String()}
}

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse documents the error body shape produced by the error middleware.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// PeriodQuery binds a startDate/endDate pair. Dates are calendar days.
type PeriodQuery struct {
	StartDate time.Time `form:"startDate" time_format:"2006-01-02" binding:"required"`
	EndDate   time.Time `form:"endDate" time_format:"2006-01-02" binding:"required"`
}

// Validate checks the period ordering.
func (q *PeriodQuery) Validate() error {
	if q.EndDate.Before(q.StartDate) {
		return apperror.NewValidation("endDate must not precede startDate")
	}
	return nil
}

// ParseID parses a path or body ID, mapping failure to a validation error.
func ParseID(raw, field string) (id.ID, error) {
	parsed, err := id.Parse(raw)
	if err != nil {
		return id.Nil(), apperror.NewValidation("invalid " + field).WithDetail("field", field)
	}
	return parsed, nil
}

// ParseOptionalID parses an optional ID string, nil when empty.
func ParseOptionalID(raw *string, field string) (*id.ID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := ParseID(*raw, field)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
