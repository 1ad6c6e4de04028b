// Package report_repo provides PostgreSQL-backed statistics queries.
package report_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"transita/internal/core/id"
	"transita/internal/domain/reports"
	"transita/internal/domain/transfers"
	"transita/internal/infrastructure/storage/postgres"
)

// Repo implements reports.Repository on PostgreSQL.
type Repo struct {
	txManager *postgres.TxManager
}

// New creates a report repository.
func New(txManager *postgres.TxManager) *Repo {
	return &Repo{txManager: txManager}
}

var _ reports.Repository = (*Repo)(nil)

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// GetTransferStats aggregates the period in two grouped queries: one per
// status, one per store endpoint. Value sums come from movement prices.
func (r *Repo) GetTransferStats(ctx context.Context, filter reports.TransferStatsFilter) (*reports.TransferStats, error) {
	stats := &reports.TransferStats{
		FromDate:     filter.FromDate,
		ToDate:       filter.ToDate,
		StatusCounts: make(map[transfers.Status]int),
		TotalValue:   decimal.Zero,
	}

	start, _ := transfers.DayBounds(filter.FromDate)
	_, end := transfers.DayBounds(filter.ToDate)

	if err := r.statusBreakdown(ctx, start, end, filter.StoreIDs, stats); err != nil {
		return nil, err
	}
	if err := r.storeBreakdown(ctx, start, end, filter.StoreIDs, stats); err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *Repo) statusBreakdown(ctx context.Context, start, end time.Time, storeIDs []id.ID, stats *reports.TransferStats) error {
	conds := squirrel.And{
		squirrel.NotEq{"t.status": transfers.StatusError},
		squirrel.Eq{"t.flag": transfers.FlagVisible},
		squirrel.GtOrEq{"t.date": start},
		squirrel.LtOrEq{"t.date": end},
	}
	if len(storeIDs) > 0 {
		conds = append(conds, squirrel.Or{
			squirrel.Eq{"t.from_store_id": storeIDs},
			squirrel.Eq{"t.to_store_id": storeIDs},
		})
	}

	sql, args, err := r.builder().
		Select(
			"t.status",
			"COUNT(*) AS count",
			"COALESCE(SUM(t.quantity), 0) AS quantity",
			"COALESCE(SUM(mv.value), 0) AS value",
		).
		From("transfers t").
		LeftJoin(`LATERAL (
			SELECT SUM(m.price * m.units) AS value
			FROM transfer_movements m
			WHERE m.transfer_id = t.id
		) mv ON TRUE`).
		Where(conds).
		GroupBy("t.status").
		ToSql()
	if err != nil {
		return fmt.Errorf("build status breakdown: %w", err)
	}

	rows, err := r.txManager.GetQuerier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("query status breakdown: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status transfers.Status
		var count, quantity int
		var value decimal.Decimal
		if err := rows.Scan(&status, &count, &quantity, &value); err != nil {
			return fmt.Errorf("scan status breakdown: %w", err)
		}
		stats.StatusCounts[status] = count
		stats.TotalCount += count
		stats.TotalQuantity += quantity
		stats.TotalValue = stats.TotalValue.Add(value)
	}
	return rows.Err()
}

// storeBreakdown runs a UNION ALL over the two endpoints of each transfer:
// an outgoing row for its source and an incoming row for its destination.
// The shape does not fit the builder, so the query is written out.
func (r *Repo) storeBreakdown(ctx context.Context, start, end time.Time, storeIDs []id.ID, stats *reports.TransferStats) error {
	storeFilter := ""
	args := []any{transfers.StatusError, transfers.FlagVisible, start, end}
	if len(storeIDs) > 0 {
		storeFilter = "AND (t.from_store_id = ANY($5) OR t.to_store_id = ANY($5))"
		args = append(args, storeIDs)
	}

	sql := fmt.Sprintf(`
		SELECT e.store_id,
			   COALESCE(s.name, '') AS store_name,
			   SUM(e.incoming)::int AS incoming,
			   SUM(e.outgoing)::int AS outgoing,
			   SUM(e.quantity)::int AS quantity,
			   COALESCE(SUM(e.value), 0) AS value
		FROM (
			SELECT t.from_store_id AS store_id, 0 AS incoming, 1 AS outgoing,
				   t.quantity, COALESCE(mv.value, 0) AS value
			FROM transfers t
			LEFT JOIN LATERAL (
				SELECT SUM(m.price * m.units) AS value
				FROM transfer_movements m
				WHERE m.transfer_id = t.id
			) mv ON TRUE
			WHERE t.status <> $1 AND t.flag = $2
			  AND t.date >= $3 AND t.date <= $4
			  AND t.from_store_id IS NOT NULL %s

			UNION ALL

			SELECT t.to_store_id, 1, 0, t.quantity, COALESCE(mv.value, 0)
			FROM transfers t
			LEFT JOIN LATERAL (
				SELECT SUM(m.price * m.units) AS value
				FROM transfer_movements m
				WHERE m.transfer_id = t.id
			) mv ON TRUE
			WHERE t.status <> $1 AND t.flag = $2
			  AND t.date >= $3 AND t.date <= $4
			  AND t.to_store_id IS NOT NULL %s
		) e
		LEFT JOIN stores s ON s.id = e.store_id
		GROUP BY e.store_id, s.name
		ORDER BY store_name ASC
	`, storeFilter, storeFilter)

	rows, err := r.txManager.GetQuerier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("query store breakdown: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row reports.StoreTotal
		var value decimal.Decimal
		if err := rows.Scan(&row.StoreID, &row.StoreName, &row.Incoming, &row.Outgoing, &row.TotalQuantity, &value); err != nil {
			return fmt.Errorf("scan store breakdown: %w", err)
		}
		row.TotalValue = value
		stats.StoreTotals = append(stats.StoreTotals, row)
	}
	return rows.Err()
}
