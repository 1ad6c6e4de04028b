// Package transfer_repo provides the PostgreSQL implementation of the
// transfer repository, including the single-statement bulk group update.
package transfer_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"transita/internal/core/apperror"
	"transita/internal/core/id"
	"transita/internal/domain/transfers"
	"transita/internal/infrastructure/storage/postgres"
)

// Joined store names are read-only columns; they never appear in writes.
var joinedCols = map[string]bool{
	"from_name": true,
	"to_name":   true,
}

// copyThreshold is the movement count above which SaveMovements switches
// to the COPY protocol.
const copyThreshold = 100

var movementCols = []string{
	"line_id", "transfer_id", "line_no", "model", "quality", "colour",
	"size", "units", "price", "year", "campaign", "period",
	"information", "box", "barcode", "barcode_valid",
}

// Repo implements transfers.Repository on PostgreSQL.
type Repo struct {
	txManager *postgres.TxManager
	batch     *postgres.BatchInserter
}

// New creates a transfer repository.
func New(txManager *postgres.TxManager) *Repo {
	return &Repo{
		txManager: txManager,
		batch:     postgres.NewBatchInserter(txManager),
	}
}

var _ transfers.Repository = (*Repo)(nil)

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// baseSelect joins store names onto the transfer row. Unknown endpoints
// resolve to empty names.
func (r *Repo) baseSelect() squirrel.SelectBuilder {
	cols := make([]string, 0, 24)
	for _, col := range postgres.ExtractDBColumns[transfers.Transfer]() {
		if joinedCols[col] {
			continue
		}
		cols = append(cols, "t."+col)
	}
	cols = append(cols,
		"COALESCE(fs.name, '') AS from_name",
		"COALESCE(ts.name, '') AS to_name",
	)

	return r.builder().
		Select(cols...).
		From("transfers t").
		LeftJoin("stores fs ON fs.id = t.from_store_id").
		LeftJoin("stores ts ON ts.id = t.to_store_id")
}

func writeMap(t *transfers.Transfer) map[string]any {
	data := postgres.StructToMap(t)
	for col := range joinedCols {
		delete(data, col)
	}
	return data
}

// baseExclusions hides legacy error rows; visibility of archived rows
// depends on the listing.
func baseExclusions(q squirrel.SelectBuilder, flaggedOnly bool) squirrel.SelectBuilder {
	q = q.Where(squirrel.NotEq{"t.status": transfers.StatusError})
	if flaggedOnly {
		q = q.Where(squirrel.Eq{"t.flag": transfers.FlagArchived})
	} else {
		q = q.Where(squirrel.Eq{"t.flag": transfers.FlagVisible})
	}
	return q
}

// Create inserts a new transfer row.
func (r *Repo) Create(ctx context.Context, t *transfers.Transfer) error {
	sql, args, err := r.builder().Insert("transfers").SetMap(writeMap(t)).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

// GetByID retrieves a transfer by ID, without movements.
func (r *Repo) GetByID(ctx context.Context, transferID id.ID) (*transfers.Transfer, error) {
	var t transfers.Transfer

	sql, args, err := r.baseSelect().Where(squirrel.Eq{"t.id": transferID}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &t, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("transfer", transferID.String())
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	return &t, nil
}

// Update modifies an existing transfer row.
func (r *Repo) Update(ctx context.Context, t *transfers.Transfer) error {
	data := writeMap(t)
	delete(data, "id")
	delete(data, "created_at")

	sql, args, err := r.builder().
		Update("transfers").
		SetMap(data).
		Where(squirrel.Eq{"id": t.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("transfer", t.ID.String())
	}
	return nil
}

// Delete removes a transfer and returns the deleted row. Movements go
// with it via ON DELETE CASCADE.
func (r *Repo) Delete(ctx context.Context, transferID id.ID) (*transfers.Transfer, error) {
	t, err := r.GetByID(ctx, transferID)
	if err != nil {
		return nil, err
	}

	sql, args, err := r.builder().Delete("transfers").Where(squirrel.Eq{"id": transferID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("delete transfer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, apperror.NewNotFound("transfer", transferID.String())
	}
	return t, nil
}

// List retrieves transfers with filtering, ordered by date then document
// number.
func (r *Repo) List(ctx context.Context, filter transfers.ListFilter) ([]transfers.Transfer, error) {
	q := baseExclusions(r.baseSelect(), filter.FlaggedOnly).
		OrderBy("t.date ASC", "t.document_number ASC")

	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"t.status": filter.Status})
	}
	if filter.StoreID != nil {
		q = q.Where(squirrel.Or{
			squirrel.Eq{"t.from_store_id": *filter.StoreID},
			squirrel.Eq{"t.to_store_id": *filter.StoreID},
		})
	}
	if filter.StartDate != nil {
		start, _ := transfers.DayBounds(*filter.StartDate)
		q = q.Where(squirrel.GtOrEq{"t.date": start})
	}
	if filter.EndDate != nil {
		_, end := transfers.DayBounds(*filter.EndDate)
		q = q.Where(squirrel.LtOrEq{"t.date": end})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []transfers.Transfer
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	return rows, nil
}

// criteriaConds translates GroupCriteria into the WHERE conditions of the
// bulk update. The base exclusions always apply.
func criteriaConds(criteria transfers.GroupCriteria) squirrel.And {
	conds := squirrel.And{
		squirrel.NotEq{"status": transfers.StatusError},
		squirrel.Eq{"flag": transfers.FlagVisible},
	}

	if criteria.ByDocumentNumbers() {
		conds = append(conds, squirrel.Eq{"document_number": criteria.DocumentNumbers})
		if !criteria.Date.IsZero() {
			start, end := transfers.DayBounds(criteria.Date)
			conds = append(conds, squirrel.GtOrEq{"date": start}, squirrel.LtOrEq{"date": end})
		}
		return conds
	}

	start, end := transfers.DayBounds(criteria.Date)
	conds = append(conds,
		squirrel.Eq{"from_store_id": criteria.FromID},
		squirrel.Eq{"to_store_id": criteria.ToID},
		squirrel.GtOrEq{"date": start},
		squirrel.LtOrEq{"date": end},
	)
	return conds
}

// FindByCriteria returns the records a GroupCriteria selects. Conditions
// mirror criteriaConds with columns qualified for the joined select.
func (r *Repo) FindByCriteria(ctx context.Context, criteria transfers.GroupCriteria) ([]transfers.Transfer, error) {
	q := baseExclusions(r.baseSelect(), false).
		OrderBy("t.document_number ASC")

	if criteria.ByDocumentNumbers() {
		q = q.Where(squirrel.Eq{"t.document_number": criteria.DocumentNumbers})
		if !criteria.Date.IsZero() {
			start, end := transfers.DayBounds(criteria.Date)
			q = q.Where(squirrel.GtOrEq{"t.date": start}).Where(squirrel.LtOrEq{"t.date": end})
		}
	} else {
		start, end := transfers.DayBounds(criteria.Date)
		q = q.Where(squirrel.Eq{"t.from_store_id": criteria.FromID}).
			Where(squirrel.Eq{"t.to_store_id": criteria.ToID}).
			Where(squirrel.GtOrEq{"t.date": start}).
			Where(squirrel.LtOrEq{"t.date": end})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []transfers.Transfer
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("find by criteria: %w", err)
	}
	return rows, nil
}

// BulkUpdate applies updates to every record matching criteria as one
// UPDATE statement. A status change rewrites the derived color in the
// same statement.
func (r *Repo) BulkUpdate(ctx context.Context, criteria transfers.GroupCriteria, updates transfers.FieldUpdates) (transfers.BulkResult, error) {
	set := map[string]any{
		"updated_at": time.Now().UTC(),
	}
	if updates.Status != nil {
		set["status"] = *updates.Status
		set["color"] = transfers.ColorForStatus(*updates.Status)
	}
	if updates.Date != nil {
		set["date"] = updates.Date.UTC()
	}
	if updates.FromID != nil {
		set["from_store_id"] = *updates.FromID
	}
	if updates.ToID != nil {
		set["to_store_id"] = *updates.ToID
	}

	sql, args, err := r.builder().
		Update("transfers").
		SetMap(set).
		Where(criteriaConds(criteria)).
		ToSql()
	if err != nil {
		return transfers.BulkResult{}, fmt.Errorf("build bulk update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return transfers.BulkResult{}, fmt.Errorf("bulk update: %w", err)
	}

	affected := result.RowsAffected()
	return transfers.BulkResult{MatchedCount: affected, ModifiedCount: affected}, nil
}

// SaveMovements replaces the movement lines of a transfer.
func (r *Repo) SaveMovements(ctx context.Context, transferID id.ID, movements []transfers.Movement) error {
	querier := r.txManager.GetQuerier(ctx)

	delSQL, delArgs, err := r.builder().
		Delete("transfer_movements").
		Where(squirrel.Eq{"transfer_id": transferID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete movements: %w", err)
	}
	if _, err := querier.Exec(ctx, delSQL, delArgs...); err != nil {
		return fmt.Errorf("delete movements: %w", err)
	}

	if len(movements) == 0 {
		return nil
	}

	// Feed imports can carry thousands of lines. Inside a transaction the
	// COPY protocol beats a multi-values INSERT by a wide margin.
	if len(movements) >= copyThreshold && r.txManager.GetTx(ctx) != nil {
		rows := make([][]any, len(movements))
		for i, m := range movements {
			lineID := m.LineID
			if id.IsNil(lineID) {
				lineID = id.New()
			}
			rows[i] = []any{
				lineID, transferID, i + 1, m.Model, m.Quality, m.Colour,
				m.Size, m.Units, m.Price, m.Year, m.Campaign, m.Period,
				m.Information, m.Box, m.Barcode, m.BarcodeValid,
			}
		}
		if _, err := r.batch.CopyFromSlice(ctx, "transfer_movements", movementCols, rows); err != nil {
			return fmt.Errorf("copy movements: %w", err)
		}
		return nil
	}

	q := r.builder().Insert("transfer_movements").Columns(movementCols...)
	for i, m := range movements {
		lineID := m.LineID
		if id.IsNil(lineID) {
			lineID = id.New()
		}
		q = q.Values(
			lineID, transferID, i+1, m.Model, m.Quality, m.Colour,
			m.Size, m.Units, m.Price, m.Year, m.Campaign, m.Period,
			m.Information, m.Box, m.Barcode, m.BarcodeValid,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert movements: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movements: %w", err)
	}
	return nil
}

// GetMovements loads the movement lines of a transfer in line order.
func (r *Repo) GetMovements(ctx context.Context, transferID id.ID) ([]transfers.Movement, error) {
	sql, args, err := r.builder().
		Select(postgres.ExtractDBColumns[transfers.Movement]()...).
		From("transfer_movements").
		Where(squirrel.Eq{"transfer_id": transferID}).
		OrderBy("line_no ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []transfers.Movement
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("get movements: %w", err)
	}
	return movements, nil
}
