package manual

import (
	"context"

	"transita/internal/core/id"
)

// Repository defines the interface for manual transfer persistence.
type Repository interface {
	Create(ctx context.Context, t *Transfer) error
	GetByID(ctx context.Context, transferID id.ID) (*Transfer, error)
	Update(ctx context.Context, t *Transfer) error
	Delete(ctx context.Context, transferID id.ID) error

	// List returns manual transfers; flaggedOnly limits to flag = 1,
	// otherwise flagged rows are excluded.
	List(ctx context.Context, flaggedOnly bool) ([]Transfer, error)

	// SaveItems replaces the item lines of a transfer.
	SaveItems(ctx context.Context, transferID id.ID, items []Item) error

	// GetItems loads the item lines of a transfer.
	GetItems(ctx context.Context, transferID id.ID) ([]Item, error)

	// Stats aggregates per-status counts and the total quantity over
	// non-flagged transfers.
	Stats(ctx context.Context) (*Stats, error)
}
