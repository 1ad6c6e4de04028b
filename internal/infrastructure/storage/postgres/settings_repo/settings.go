// Package settings_repo provides the PostgreSQL implementation of the
// settings repository.
package settings_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"transita/internal/core/apperror"
	"transita/internal/domain/settings"
	"transita/internal/infrastructure/storage/postgres"
)

// Repo implements settings.Repository on PostgreSQL.
type Repo struct {
	txManager *postgres.TxManager
}

// New creates a settings repository.
func New(txManager *postgres.TxManager) *Repo {
	return &Repo{txManager: txManager}
}

var _ settings.Repository = (*Repo)(nil)

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// GetImportFolder returns the single configured folder row.
func (r *Repo) GetImportFolder(ctx context.Context) (*settings.ImportFolder, error) {
	var f settings.ImportFolder

	sql, args, err := r.builder().
		Select(postgres.ExtractDBColumns[settings.ImportFolder]()...).
		From("import_folders").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &f, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("import folder", "settings")
		}
		return nil, fmt.Errorf("get import folder: %w", err)
	}
	return &f, nil
}

// SetImportFolder replaces the single row. Delete-then-insert keeps the
// table at one row without needing a fixed key.
func (r *Repo) SetImportFolder(ctx context.Context, f *settings.ImportFolder) error {
	querier := r.txManager.GetQuerier(ctx)

	if _, err := querier.Exec(ctx, "DELETE FROM import_folders"); err != nil {
		return fmt.Errorf("clear import folder: %w", err)
	}

	sql, args, err := r.builder().
		Insert("import_folders").
		SetMap(postgres.StructToMap(f)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert import folder: %w", err)
	}
	return nil
}
