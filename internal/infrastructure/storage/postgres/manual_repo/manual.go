// Package manual_repo provides the PostgreSQL implementation of the
// manual transfer repository.
package manual_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"transita/internal/core/apperror"
	"transita/internal/core/id"
	"transita/internal/domain/manual"
	"transita/internal/domain/transfers"
	"transita/internal/infrastructure/storage/postgres"
)

var joinedCols = map[string]bool{
	"from_name": true,
	"to_name":   true,
}

// Repo implements manual.Repository on PostgreSQL.
type Repo struct {
	txManager *postgres.TxManager
}

// New creates a manual transfer repository.
func New(txManager *postgres.TxManager) *Repo {
	return &Repo{txManager: txManager}
}

var _ manual.Repository = (*Repo)(nil)

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *Repo) baseSelect() squirrel.SelectBuilder {
	cols := make([]string, 0, 16)
	for _, col := range postgres.ExtractDBColumns[manual.Transfer]() {
		if joinedCols[col] {
			continue
		}
		cols = append(cols, "m."+col)
	}
	cols = append(cols,
		"COALESCE(fs.name, '') AS from_name",
		"COALESCE(ts.name, '') AS to_name",
	)

	return r.builder().
		Select(cols...).
		From("manual_transfers m").
		LeftJoin("stores fs ON fs.id = m.from_store_id").
		LeftJoin("stores ts ON ts.id = m.to_store_id")
}

func writeMap(t *manual.Transfer) map[string]any {
	data := postgres.StructToMap(t)
	for col := range joinedCols {
		delete(data, col)
	}
	return data
}

// Create inserts a new manual transfer row.
func (r *Repo) Create(ctx context.Context, t *manual.Transfer) error {
	sql, args, err := r.builder().Insert("manual_transfers").SetMap(writeMap(t)).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert manual transfer: %w", err)
	}
	return nil
}

// GetByID retrieves a manual transfer by ID, without items.
func (r *Repo) GetByID(ctx context.Context, transferID id.ID) (*manual.Transfer, error) {
	var t manual.Transfer

	sql, args, err := r.baseSelect().Where(squirrel.Eq{"m.id": transferID}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &t, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("manual transfer", transferID.String())
		}
		return nil, fmt.Errorf("get manual transfer: %w", err)
	}
	return &t, nil
}

// Update modifies an existing manual transfer row.
func (r *Repo) Update(ctx context.Context, t *manual.Transfer) error {
	data := writeMap(t)
	delete(data, "id")
	delete(data, "created_at")
	delete(data, "created_by")

	sql, args, err := r.builder().
		Update("manual_transfers").
		SetMap(data).
		Where(squirrel.Eq{"id": t.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update manual transfer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("manual transfer", t.ID.String())
	}
	return nil
}

// Delete removes a manual transfer. Items cascade.
func (r *Repo) Delete(ctx context.Context, transferID id.ID) error {
	sql, args, err := r.builder().Delete("manual_transfers").Where(squirrel.Eq{"id": transferID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete manual transfer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("manual transfer", transferID.String())
	}
	return nil
}

// List returns manual transfers ordered by transfer date.
func (r *Repo) List(ctx context.Context, flaggedOnly bool) ([]manual.Transfer, error) {
	q := r.baseSelect().OrderBy("m.transfer_date DESC")
	if flaggedOnly {
		q = q.Where(squirrel.Eq{"m.flag": transfers.FlagArchived})
	} else {
		q = q.Where(squirrel.Eq{"m.flag": transfers.FlagVisible})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []manual.Transfer
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list manual transfers: %w", err)
	}
	return rows, nil
}

// SaveItems replaces the item lines of a transfer.
func (r *Repo) SaveItems(ctx context.Context, transferID id.ID, items []manual.Item) error {
	querier := r.txManager.GetQuerier(ctx)

	delSQL, delArgs, err := r.builder().
		Delete("manual_transfer_items").
		Where(squirrel.Eq{"transfer_id": transferID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete items: %w", err)
	}
	if _, err := querier.Exec(ctx, delSQL, delArgs...); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}

	if len(items) == 0 {
		return nil
	}

	q := r.builder().Insert("manual_transfer_items").Columns("id", "transfer_id", "barcode", "quantity")
	for _, it := range items {
		itemID := it.ID
		if id.IsNil(itemID) {
			itemID = id.New()
		}
		q = q.Values(itemID, transferID, it.Barcode, it.Quantity)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert items: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert items: %w", err)
	}
	return nil
}

// GetItems loads the item lines of a transfer.
func (r *Repo) GetItems(ctx context.Context, transferID id.ID) ([]manual.Item, error) {
	sql, args, err := r.builder().
		Select("id", "transfer_id", "barcode", "quantity").
		From("manual_transfer_items").
		Where(squirrel.Eq{"transfer_id": transferID}).
		OrderBy("barcode ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []manual.Item
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	return items, nil
}

// Stats aggregates per-status counts and the total quantity over
// non-flagged transfers in one grouped query.
func (r *Repo) Stats(ctx context.Context) (*manual.Stats, error) {
	sql, args, err := r.builder().
		Select("status", "COUNT(*) AS count", "COALESCE(SUM(total_quantity), 0) AS quantity").
		From("manual_transfers").
		Where(squirrel.Eq{"flag": transfers.FlagVisible}).
		GroupBy("status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.txManager.GetQuerier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	stats := &manual.Stats{StatusCounts: make(map[transfers.Status]int)}
	for rows.Next() {
		var status transfers.Status
		var count, quantity int
		if err := rows.Scan(&status, &count, &quantity); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		stats.StatusCounts[status] = count
		stats.Count += count
		stats.TotalQuantity += quantity
	}
	return stats, rows.Err()
}
