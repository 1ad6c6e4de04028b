// Package tx provides transaction management abstractions so domain
// services stay independent of the storage implementation.
package tx

import (
	"context"
)

// Manager runs functions inside a database transaction.
// The implementation lives in infrastructure/storage/postgres.
type Manager interface {
	// RunInTransaction executes fn within a transaction, committing on
	// success and rolling back on error. Nested calls reuse the
	// transaction already carried in ctx.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager with read-only transaction support.
type ReadOnlyManager interface {
	Manager

	// ReadOnly executes fn in a read-only transaction.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

