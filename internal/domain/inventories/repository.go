package inventories

import (
	"context"
	"time"

	"transita/internal/core/id"
)

// Repository defines the interface for inventory entry persistence.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	GetByID(ctx context.Context, entryID id.ID) (*Entry, error)
	Update(ctx context.Context, e *Entry) error
	Delete(ctx context.Context, entryID id.ID) error
	List(ctx context.Context) ([]Entry, error)

	// ListPeriod returns entries with date inside [start, end].
	ListPeriod(ctx context.Context, start, end time.Time) ([]Entry, error)

	// ExistsForDay reports whether an entry already exists for the
	// destination on the entry's calendar day, excluding the given ID
	// (nil to check all).
	ExistsForDay(ctx context.Context, date time.Time, destinationID id.ID, excludeID *id.ID) (bool, error)
}
