package store

import (
	"context"

	"transita/internal/core/id"
)

// ListFilter narrows store listings.
type ListFilter struct {
	Status *StoreStatus
	Search string
}

// Repository defines the interface for store persistence.
type Repository interface {
	Create(ctx context.Context, s *Store) error
	GetByID(ctx context.Context, storeID id.ID) (*Store, error)
	GetByName(ctx context.Context, name string) (*Store, error)
	Update(ctx context.Context, s *Store) error
	Delete(ctx context.Context, storeID id.ID) error
	List(ctx context.Context, filter ListFilter) ([]Store, error)

	// Exists reports whether a store with the given ID is present.
	Exists(ctx context.Context, storeID id.ID) (bool, error)

	// ExistsByCode reports whether any store uses the inditex code,
	// excluding the given ID (nil to check all).
	ExistsByCode(ctx context.Context, inditexCode string, excludeID *id.ID) (bool, error)

	// ActiveNames returns the names of all active stores.
	ActiveNames(ctx context.Context) ([]string, error)
}
