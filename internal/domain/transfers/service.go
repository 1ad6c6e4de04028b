package transfers

import (
	"context"
	"fmt"
	"time"

	"transita/internal/core/apperror"
	"transita/internal/core/id"
	"transita/internal/core/tx"
	"transita/pkg/logger"
)

// StoreLookup is the slice of the store directory the transfer service
// needs: reference validation and the active-name universe for filters.
type StoreLookup interface {
	Exists(ctx context.Context, storeID id.ID) (bool, error)
	ActiveNames(ctx context.Context) ([]string, error)
}

// BarcodeValidator verifies movement barcodes against the external
// verification service. Failures surface to the caller unchanged; the
// service applies no retries.
type BarcodeValidator interface {
	CheckBarcodes(ctx context.Context, barcodes []string) (map[string]bool, error)
}

// Auditor records entity changes. Nil entity ID marks bulk operations.
type Auditor interface {
	LogChange(ctx context.Context, entityType string, entityID id.ID, action string, changes map[string]any) error
}

// GroupUpdateResult is the outcome of a bulk group update.
type GroupUpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
	Updated       []Transfer
}

// Service provides business operations for transfers, including the bulk
// group update used by the calendar view.
type Service struct {
	repo      Repository
	stores    StoreLookup
	barcodes  BarcodeValidator
	audit     Auditor
	txManager tx.Manager
}

// NewService creates a transfer service. barcodes and audit are optional.
func NewService(repo Repository, stores StoreLookup, barcodes BarcodeValidator, audit Auditor, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		stores:    stores,
		barcodes:  barcodes,
		audit:     audit,
		txManager: txManager,
	}
}

// Create validates and persists a new transfer with its movements.
// Quantity and the barcode flag are recomputed from the movement lines.
func (s *Service) Create(ctx context.Context, t *Transfer) error {
	if t.ToStoreID != nil {
		if err := s.requireStore(ctx, *t.ToStoreID, "destination store not found"); err != nil {
			return err
		}
	}
	if t.FromStoreID != nil {
		if err := s.requireStore(ctx, *t.FromStoreID, "source store not found"); err != nil {
			return err
		}
	}

	t.RecalculateTotals()
	t.SetStatus(t.Status)
	if err := t.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, t); err != nil {
			return fmt.Errorf("create transfer: %w", err)
		}
		if err := s.repo.SaveMovements(ctx, t.ID, t.Movements); err != nil {
			return fmt.Errorf("save movements: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "transfer created",
		"id", t.ID, "document_number", t.DocumentNumber, "quantity", t.Quantity)
	return nil
}

// GetByID retrieves a transfer with its movements.
func (s *Service) GetByID(ctx context.Context, transferID id.ID) (*Transfer, error) {
	t, err := s.repo.GetByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	movements, err := s.repo.GetMovements(ctx, transferID)
	if err != nil {
		return nil, fmt.Errorf("get movements: %w", err)
	}
	t.Movements = movements
	return t, nil
}

// List returns transfers matching the filter. Erreur rows and archived
// rows are always excluded unless FlaggedOnly is requested.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Transfer, error) {
	return s.repo.List(ctx, filter)
}

// Update applies changes to an existing transfer. When movements change,
// quantity and the barcode flag are recomputed.
func (s *Service) Update(ctx context.Context, t *Transfer, movementsChanged bool) error {
	if t.ToStoreID != nil {
		if err := s.requireStore(ctx, *t.ToStoreID, "destination store not found"); err != nil {
			return err
		}
	}

	if movementsChanged {
		t.RecalculateTotals()
	}
	t.SetStatus(t.Status)
	if err := t.Validate(ctx); err != nil {
		return err
	}
	t.UpdatedAt = time.Now().UTC()

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, t); err != nil {
			return err
		}
		if movementsChanged {
			if err := s.repo.SaveMovements(ctx, t.ID, t.Movements); err != nil {
				return fmt.Errorf("save movements: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.audit != nil {
		_ = s.audit.LogChange(ctx, "transfer", t.ID, "update", map[string]any{
			"status": t.Status, "date": t.Date, "quantity": t.Quantity,
		})
	}
	return nil
}

// Delete removes a transfer and returns the deleted record.
func (s *Service) Delete(ctx context.Context, transferID id.ID) (*Transfer, error) {
	t, err := s.repo.Delete(ctx, transferID)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "transfer deleted", "id", transferID)
	return t, nil
}

// UpdateGroup re-validates the referenced stores, builds one filter from
// the criteria and applies all field updates as a single bulk statement.
// Zero matches surface as not-found, distinct from a storage failure.
func (s *Service) UpdateGroup(ctx context.Context, criteria GroupCriteria, updates FieldUpdates) (*GroupUpdateResult, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	if criteria.FromID != nil {
		if err := s.requireStore(ctx, *criteria.FromID, "source store not found"); err != nil {
			return nil, err
		}
	}
	if criteria.ToID != nil {
		if err := s.requireStore(ctx, *criteria.ToID, "destination store not found"); err != nil {
			return nil, err
		}
	}

	if updates.Status != nil && !ValidStatus(*updates.Status) {
		return nil, apperror.NewValidation("invalid status").
			WithDetail("field", "status").
			WithDetail("value", string(*updates.Status))
	}

	// Store references from the criteria are part of the update set, as
	// when a group is rerouted the new pair applies to every member.
	if !criteria.ByDocumentNumbers() {
		updates.FromID = criteria.FromID
		updates.ToID = criteria.ToID
	}
	if updates.IsEmpty() {
		return nil, apperror.NewValidation("no fields to update")
	}

	res, err := s.repo.BulkUpdate(ctx, criteria, updates)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, apperror.NewNotFound("transfer group", criteria)
	}

	updated, err := s.repo.FindByCriteria(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("reload group: %w", err)
	}

	if s.audit != nil {
		changes := map[string]any{
			"criteria": criteria,
			"matched":  res.MatchedCount,
			"modified": res.ModifiedCount,
		}
		if updates.Status != nil {
			changes["status"] = *updates.Status
		}
		if updates.Date != nil {
			changes["date"] = *updates.Date
		}
		_ = s.audit.LogChange(ctx, "transfer", id.Nil(), "bulk_update", changes)
	}

	logger.Info(ctx, "transfer group updated",
		"matched", res.MatchedCount, "modified", res.ModifiedCount)

	return &GroupUpdateResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		Updated:       updated,
	}, nil
}

// SetMovementBarcode sets the barcode on one movement line and marks it
// valid, then recomputes the document-level flag.
func (s *Service) SetMovementBarcode(ctx context.Context, transferID, lineID id.ID, barcode string) (*Transfer, error) {
	t, err := s.GetByID(ctx, transferID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range t.Movements {
		if t.Movements[i].LineID == lineID {
			t.Movements[i].Barcode = barcode
			t.Movements[i].BarcodeValid = true
			found = true
			break
		}
	}
	if !found {
		return nil, apperror.NewNotFound("movement", lineID.String())
	}

	if err := s.Update(ctx, t, true); err != nil {
		return nil, err
	}
	return t, nil
}

// CheckBarcodes verifies every movement barcode against the external
// validator and persists the per-line results. Upstream failures propagate
// unchanged.
func (s *Service) CheckBarcodes(ctx context.Context, transferID id.ID) (*Transfer, error) {
	if s.barcodes == nil {
		return nil, apperror.NewUpstream("barcode-validator", fmt.Errorf("validator not configured"))
	}

	t, err := s.GetByID(ctx, transferID)
	if err != nil {
		return nil, err
	}

	barcodes := make([]string, 0, len(t.Movements))
	for _, m := range t.Movements {
		if m.Barcode != "" {
			barcodes = append(barcodes, m.Barcode)
		}
	}

	results, err := s.barcodes.CheckBarcodes(ctx, barcodes)
	if err != nil {
		return nil, err
	}

	for i := range t.Movements {
		if t.Movements[i].Barcode == "" {
			t.Movements[i].BarcodeValid = false
			continue
		}
		t.Movements[i].BarcodeValid = results[t.Movements[i].Barcode]
	}

	if err := s.Update(ctx, t, true); err != nil {
		return nil, err
	}
	return t, nil
}

// CalendarDay is one day of the calendar listing after filtering and grouping.
type CalendarDay struct {
	Date  string    `json:"date"`
	Items []DayItem `json:"items"`
}

// Calendar fetches the period, applies the filter spec per day and groups
// each day's records. Days are returned in ascending date order.
func (s *Service) Calendar(ctx context.Context, start, end time.Time, spec FilterSpec) ([]CalendarDay, error) {
	if end.Before(start) {
		return nil, apperror.NewValidation("endDate must not precede startDate")
	}

	if len(spec.ActiveStoreNames) == 0 && (spec.ApplyFrom || spec.ApplyTo) {
		names, err := s.stores.ActiveNames(ctx)
		if err != nil {
			return nil, fmt.Errorf("load active stores: %w", err)
		}
		spec.ActiveStoreNames = names
	}

	records, err := s.repo.List(ctx, ListFilter{StartDate: &start, EndDate: &end})
	if err != nil {
		return nil, err
	}

	byDay := make(map[string][]Transfer)
	for _, rec := range records {
		key := DayKey(rec.Date)
		byDay[key] = append(byDay[key], rec)
	}

	var days []CalendarDay
	for d := start.UTC(); !d.After(end.UTC()); d = d.AddDate(0, 0, 1) {
		key := DayKey(d)
		dayRecords, ok := byDay[key]
		if !ok {
			continue
		}
		filtered := FilterDay(dayRecords, spec)
		if len(filtered) == 0 {
			continue
		}
		days = append(days, CalendarDay{Date: key, Items: GroupDay(filtered)})
	}
	return days, nil
}

func (s *Service) requireStore(ctx context.Context, storeID id.ID, message string) error {
	exists, err := s.stores.Exists(ctx, storeID)
	if err != nil {
		return fmt.Errorf("check store: %w", err)
	}
	if !exists {
		return apperror.NewValidation(message).WithDetail("storeId", storeID.String())
	}
	return nil
}
