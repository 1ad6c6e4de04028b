package reports

import (
	"context"
)

// Repository defines the interface for statistics queries.
type Repository interface {
	// GetTransferStats aggregates per-status counts, per-store totals
	// and quantity/value sums over the period. Erreur and archived rows
	// are excluded.
	GetTransferStats(ctx context.Context, filter TransferStatsFilter) (*TransferStats, error)
}
