// Package inventories provides scheduled store inventory entries. An
// entry marks a destination store as counting stock on a given day and
// surfaces on the calendar ahead of the day's transfer groups.
package inventories

import (
	"context"
	"time"

	"transita/internal/core/apperror"
	"transita/internal/core/id"
	"transita/internal/domain/transfers"
)

// Entry represents a planned inventory for one store on one day.
// At most one entry may exist per (date, destination).
type Entry struct {
	ID            id.ID            `db:"id" json:"id"`
	Date          time.Time        `db:"date" json:"date"`
	DestinationID id.ID            `db:"destination_id" json:"destinationId"`
	// DestinationName is joined from the store directory on reads.
	DestinationName string           `db:"destination_name" json:"destinationName,omitempty"`
	Comment         string           `db:"comment" json:"comment,omitempty"`
	Status          transfers.Status `db:"status" json:"status"`
	CreatedBy       *id.ID           `db:"created_by" json:"createdBy,omitempty"`
	UpdatedBy       *id.ID           `db:"updated_by" json:"updatedBy,omitempty"`
	CreatedAt       time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updatedAt"`
}

// New creates a pending inventory entry.
func New(date time.Time, destinationID id.ID) *Entry {
	now := time.Now().UTC()
	return &Entry{
		ID:            id.New(),
		Date:          date.UTC(),
		DestinationID: destinationID,
		Status:        transfers.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Validate checks required fields and status.
func (e *Entry) Validate(ctx context.Context) error {
	if e.Date.IsZero() {
		return apperror.NewValidation("date is required").WithDetail("field", "date")
	}
	if id.IsNil(e.DestinationID) {
		return apperror.NewValidation("destination is required").WithDetail("field", "destinationId")
	}
	if !transfers.ValidStatus(e.Status) {
		return apperror.NewValidation("invalid status").
			WithDetail("field", "status").
			WithDetail("value", string(e.Status))
	}
	return nil
}
