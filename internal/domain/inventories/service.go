package inventories

import (
	"context"
	"time"

	"transita/internal/core/apperror"
	appctx "transita/internal/core/context"
	"transita/internal/core/id"
	"transita/internal/domain/catalogs/store"
	"transita/pkg/logger"
)

// Service provides business logic for inventory entries.
type Service struct {
	repo   Repository
	stores *store.Service
}

// NewService creates a new inventory service.
func NewService(repo Repository, stores *store.Service) *Service {
	return &Service{repo: repo, stores: stores}
}

// Create validates and persists a new entry. A second entry for the same
// destination on the same day is rejected with a conflict.
func (s *Service) Create(ctx context.Context, e *Entry) error {
	if err := e.Validate(ctx); err != nil {
		return err
	}

	exists, err := s.stores.Exists(ctx, e.DestinationID)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.NewValidation("destination store not found").
			WithDetail("destinationId", e.DestinationID.String())
	}

	taken, err := s.repo.ExistsForDay(ctx, e.Date, e.DestinationID, nil)
	if err != nil {
		return err
	}
	if taken {
		return apperror.NewConflict("inventory already planned for this store on this date").
			WithDetail("date", e.Date.Format("2006-01-02")).
			WithDetail("destinationId", e.DestinationID.String())
	}

	if user := appctx.GetUser(ctx); user != nil {
		if uid, err := id.Parse(user.UserID); err == nil {
			e.CreatedBy = &uid
		}
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return err
	}
	logger.Info(ctx, "inventory created", "id", e.ID, "destination", e.DestinationID)
	return nil
}

// GetByID retrieves an entry.
func (s *Service) GetByID(ctx context.Context, entryID id.ID) (*Entry, error) {
	return s.repo.GetByID(ctx, entryID)
}

// List returns all entries.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	return s.repo.List(ctx)
}

// ListPeriod returns entries inside the period.
func (s *Service) ListPeriod(ctx context.Context, start, end time.Time) ([]Entry, error) {
	if end.Before(start) {
		return nil, apperror.NewValidation("endDate must not precede startDate")
	}
	return s.repo.ListPeriod(ctx, start, end)
}

// Update validates and persists changes to an entry.
func (s *Service) Update(ctx context.Context, e *Entry) error {
	if err := e.Validate(ctx); err != nil {
		return err
	}

	taken, err := s.repo.ExistsForDay(ctx, e.Date, e.DestinationID, &e.ID)
	if err != nil {
		return err
	}
	if taken {
		return apperror.NewConflict("inventory already planned for this store on this date").
			WithDetail("date", e.Date.Format("2006-01-02")).
			WithDetail("destinationId", e.DestinationID.String())
	}

	if user := appctx.GetUser(ctx); user != nil {
		if uid, err := id.Parse(user.UserID); err == nil {
			e.UpdatedBy = &uid
		}
	}
	e.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, e)
}

// Delete removes an entry.
func (s *Service) Delete(ctx context.Context, entryID id.ID) error {
	if err := s.repo.Delete(ctx, entryID); err != nil {
		return err
	}
	logger.Info(ctx, "inventory deleted", "id", entryID)
	return nil
}

// Destinations returns stores selectable as inventory destinations.
func (s *Service) Destinations(ctx context.Context) ([]store.Store, error) {
	active := store.StatusActive
	return s.stores.List(ctx, store.ListFilter{Status: &active})
}
