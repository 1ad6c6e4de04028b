// Package inventory_repo provides the PostgreSQL implementation of the
// inventory entry repository.
package inventory_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"transita/internal/core/apperror"
	"transita/internal/core/id"
	"transita/internal/domain/inventories"
	"transita/internal/domain/transfers"
	"transita/internal/infrastructure/storage/postgres"
)

// destination_name is joined from stores; never written.
var writeSkip = map[string]bool{"destination_name": true}

// Repo implements inventories.Repository on PostgreSQL.
type Repo struct {
	txManager *postgres.TxManager
}

// New creates an inventory repository.
func New(txManager *postgres.TxManager) *Repo {
	return &Repo{txManager: txManager}
}

var _ inventories.Repository = (*Repo)(nil)

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *Repo) baseSelect() squirrel.SelectBuilder {
	cols := make([]string, 0, 12)
	for _, col := range postgres.ExtractDBColumns[inventories.Entry]() {
		if writeSkip[col] {
			continue
		}
		cols = append(cols, "i."+col)
	}
	cols = append(cols, "COALESCE(s.name, '') AS destination_name")

	return r.builder().
		Select(cols...).
		From("inventories i").
		LeftJoin("stores s ON s.id = i.destination_id")
}

func writeMap(e *inventories.Entry) map[string]any {
	data := postgres.StructToMap(e)
	for col := range writeSkip {
		delete(data, col)
	}
	return data
}

// Create inserts a new entry. The (date, destination) unique index backs
// the uniqueness rule.
func (r *Repo) Create(ctx context.Context, e *inventories.Entry) error {
	sql, args, err := r.builder().Insert("inventories").SetMap(writeMap(e)).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewConflict("inventory already planned for this store on this date").WithCause(err)
		}
		return fmt.Errorf("insert inventory: %w", err)
	}
	return nil
}

// GetByID retrieves an entry by ID.
func (r *Repo) GetByID(ctx context.Context, entryID id.ID) (*inventories.Entry, error) {
	var e inventories.Entry

	sql, args, err := r.baseSelect().Where(squirrel.Eq{"i.id": entryID}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &e, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("inventory", entryID.String())
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return &e, nil
}

// Update modifies an existing entry.
func (r *Repo) Update(ctx context.Context, e *inventories.Entry) error {
	data := writeMap(e)
	delete(data, "id")
	delete(data, "created_at")
	delete(data, "created_by")

	sql, args, err := r.builder().
		Update("inventories").
		SetMap(data).
		Where(squirrel.Eq{"id": e.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewConflict("inventory already planned for this store on this date").WithCause(err)
		}
		return fmt.Errorf("update inventory: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("inventory", e.ID.String())
	}
	return nil
}

// Delete removes an entry.
func (r *Repo) Delete(ctx context.Context, entryID id.ID) error {
	sql, args, err := r.builder().Delete("inventories").Where(squirrel.Eq{"id": entryID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete inventory: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("inventory", entryID.String())
	}
	return nil
}

// List returns all entries ordered by date.
func (r *Repo) List(ctx context.Context) ([]inventories.Entry, error) {
	sql, args, err := r.baseSelect().OrderBy("i.date ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []inventories.Entry
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("list inventories: %w", err)
	}
	return entries, nil
}

// ListPeriod returns entries with date inside [start, end].
func (r *Repo) ListPeriod(ctx context.Context, start, end time.Time) ([]inventories.Entry, error) {
	dayStart, _ := transfers.DayBounds(start)
	_, dayEnd := transfers.DayBounds(end)

	sql, args, err := r.baseSelect().
		Where(squirrel.GtOrEq{"i.date": dayStart}).
		Where(squirrel.LtOrEq{"i.date": dayEnd}).
		OrderBy("i.date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []inventories.Entry
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("list inventories period: %w", err)
	}
	return entries, nil
}

// ExistsForDay reports whether an entry exists for the destination on the
// calendar day of date.
func (r *Repo) ExistsForDay(ctx context.Context, date time.Time, destinationID id.ID, excludeID *id.ID) (bool, error) {
	dayStart, dayEnd := transfers.DayBounds(date)

	q := r.builder().
		Select("1").
		From("inventories").
		Where(squirrel.Eq{"destination_id": destinationID}).
		Where(squirrel.GtOrEq{"date": dayStart}).
		Where(squirrel.LtOrEq{"date": dayEnd}).
		Limit(1)
	if excludeID != nil {
		q = q.Where(squirrel.NotEq{"id": *excludeID})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("inventory exists: %w", err)
	}
	return true, nil
}
