package transfers

import (
	"context"
	"time"

	"transita/internal/core/apperror"
	"transita/internal/core/id"
)

// ListFilter narrows transfer listings. The repository always excludes
// Erreur rows and archived (flag=1) rows unless FlaggedOnly is set.
type ListFilter struct {
	Status      Status
	StoreID     *id.ID // matches either endpoint
	StartDate   *time.Time
	EndDate     *time.Time
	FlaggedOnly bool
}

// GroupCriteria selects the records of one calendar group for a bulk
// update. Two shapes are supported: explicit document numbers with an
// optional date bound, or a (from, to, date) triple. Document numbers take
// precedence when present.
type GroupCriteria struct {
	FromID          *id.ID
	ToID            *id.ID
	Date            time.Time
	DocumentNumbers []int64
}

// Validate checks that the criteria identify a group one way or the other.
func (c GroupCriteria) Validate() error {
	if len(c.DocumentNumbers) > 0 {
		return nil
	}
	if c.FromID == nil || c.ToID == nil || c.Date.IsZero() {
		return apperror.NewValidation(
			"missing criteria: provide fromId, toId and date, or documentNumbers")
	}
	return nil
}

// ByDocumentNumbers reports whether the document-number shape is in effect.
func (c GroupCriteria) ByDocumentNumbers() bool {
	return len(c.DocumentNumbers) > 0
}

// FieldUpdates is the set of fields a group update may change. Nil fields
// are left untouched. A status change also rewrites the derived color.
type FieldUpdates struct {
	Status *Status
	Date   *time.Time
	FromID *id.ID
	ToID   *id.ID
}

// IsEmpty reports whether no field would change.
func (u FieldUpdates) IsEmpty() bool {
	return u.Status == nil && u.Date == nil && u.FromID == nil && u.ToID == nil
}

// BulkResult reports the outcome of a bulk update.
type BulkResult struct {
	MatchedCount  int64
	ModifiedCount int64
}

// Repository defines transfer persistence.
type Repository interface {
	Create(ctx context.Context, t *Transfer) error
	GetByID(ctx context.Context, transferID id.ID) (*Transfer, error)
	Update(ctx context.Context, t *Transfer) error
	Delete(ctx context.Context, transferID id.ID) (*Transfer, error)
	List(ctx context.Context, filter ListFilter) ([]Transfer, error)

	// FindByCriteria returns the records a GroupCriteria selects,
	// applying the same base exclusions as BulkUpdate.
	FindByCriteria(ctx context.Context, criteria GroupCriteria) ([]Transfer, error)

	// BulkUpdate applies updates to every record matching criteria as one
	// atomic statement. Concurrent readers never observe a partially
	// updated group.
	BulkUpdate(ctx context.Context, criteria GroupCriteria, updates FieldUpdates) (BulkResult, error)

	SaveMovements(ctx context.Context, transferID id.ID, movements []Movement) error
	GetMovements(ctx context.Context, transferID id.ID) ([]Movement, error)
}
