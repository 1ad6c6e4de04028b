// Package store_repo provides the PostgreSQL implementation of the store
// directory repository.
package store_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"transita/internal/core/apperror"
	"transita/internal/core/id"
	"transita/internal/domain/catalogs/store"
	"transita/internal/infrastructure/storage/postgres"
)

var selectCols = postgres.ExtractDBColumns[store.Store]()

// Repo implements store.Repository on PostgreSQL.
type Repo struct {
	txManager *postgres.TxManager
}

// New creates a store repository.
func New(txManager *postgres.TxManager) *Repo {
	return &Repo{txManager: txManager}
}

var _ store.Repository = (*Repo)(nil)

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *Repo) baseSelect() squirrel.SelectBuilder {
	return r.builder().Select(selectCols...).From("stores")
}

// Create inserts a new store.
func (r *Repo) Create(ctx context.Context, s *store.Store) error {
	data := postgres.StructToMap(s)

	sql, args, err := r.builder().Insert("stores").SetMap(data).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	_, err = r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewDuplicate("store", "code", s.InditexCode).WithCause(err)
		}
		return fmt.Errorf("insert store: %w", err)
	}
	return nil
}

// GetByID retrieves a store by ID.
func (r *Repo) GetByID(ctx context.Context, storeID id.ID) (*store.Store, error) {
	var s store.Store

	sql, args, err := r.baseSelect().Where(squirrel.Eq{"id": storeID}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("store", storeID.String())
		}
		return nil, fmt.Errorf("get store: %w", err)
	}
	return &s, nil
}

// GetByName retrieves a store by exact name.
func (r *Repo) GetByName(ctx context.Context, name string) (*store.Store, error) {
	var s store.Store

	sql, args, err := r.baseSelect().Where(squirrel.Eq{"name": name}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("store", name)
		}
		return nil, fmt.Errorf("get store by name: %w", err)
	}
	return &s, nil
}

// Update modifies an existing store.
func (r *Repo) Update(ctx context.Context, s *store.Store) error {
	data := postgres.StructToMap(s)
	delete(data, "id")
	delete(data, "created_at")

	sql, args, err := r.builder().
		Update("stores").
		SetMap(data).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewDuplicate("store", "code", s.InditexCode).WithCause(err)
		}
		return fmt.Errorf("update store: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("store", s.ID.String())
	}
	return nil
}

// Delete removes a store. Stores referenced by transfers cannot be removed.
func (r *Repo) Delete(ctx context.Context, storeID id.ID) error {
	sql, args, err := r.builder().Delete("stores").Where(squirrel.Eq{"id": storeID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperror.NewConflict("store is referenced by transfers").
				WithDetail("id", storeID.String()).
				WithCause(err)
		}
		return fmt.Errorf("delete store: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("store", storeID.String())
	}
	return nil
}

// List retrieves stores with filtering, ordered by name.
func (r *Repo) List(ctx context.Context, filter store.ListFilter) ([]store.Store, error) {
	q := r.baseSelect().OrderBy("name ASC")

	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"inditex_code": pattern},
			squirrel.ILike{"futura_code": pattern},
		})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var stores []store.Store
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &stores, sql, args...); err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	return stores, nil
}

// Exists reports whether a store with the given ID is present.
func (r *Repo) Exists(ctx context.Context, storeID id.ID) (bool, error) {
	sql, args, err := r.builder().
		Select("1").
		From("stores").
		Where(squirrel.Eq{"id": storeID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store exists: %w", err)
	}
	return true, nil
}

// ExistsByCode reports whether any store uses the inditex code.
func (r *Repo) ExistsByCode(ctx context.Context, inditexCode string, excludeID *id.ID) (bool, error) {
	q := r.builder().
		Select("1").
		From("stores").
		Where(squirrel.Eq{"inditex_code": inditexCode}).
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
		return false, fmt.Errorf("store exists by code: %w", err)
	}
	return true, nil
}

// ActiveNames returns the names of all active stores.
func (r *Repo) ActiveNames(ctx context.Context) ([]string, error) {
	sql, args, err := r.builder().
		Select("name").
		From("stores").
		Where(squirrel.Eq{"status": store.StatusActive}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var names []string
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &names, sql, args...); err != nil {
		return nil, fmt.Errorf("active store names: %w", err)
	}
	return names, nil
}
