package store

import (
	"context"
	"time"

	"transita/internal/core/apperror"
	"transita/internal/core/id"
	"transita/pkg/logger"
)

// Service provides business logic for the store directory.
type Service struct {
	repo Repository
}

// NewService creates a new store service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and persists a new store. Duplicate inditex codes are
// rejected with a conflict.
func (s *Service) Create(ctx context.Context, st *Store) error {
	st.Normalize()
	if err := st.Validate(ctx); err != nil {
		return err
	}

	taken, err := s.repo.ExistsByCode(ctx, st.InditexCode, nil)
	if err != nil {
		return err
	}
	if taken {
		return apperror.NewDuplicate("store", "inditexCode", st.InditexCode)
	}

	if err := s.repo.Create(ctx, st); err != nil {
		return err
	}
	logger.Info(ctx, "store created", "id", st.ID, "name", st.Name)
	return nil
}

// GetByID retrieves a store.
func (s *Service) GetByID(ctx context.Context, storeID id.ID) (*Store, error) {
	return s.repo.GetByID(ctx, storeID)
}

// List returns stores matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Store, error) {
	return s.repo.List(ctx, filter)
}

// Update validates and persists changes to a store.
func (s *Service) Update(ctx context.Context, st *Store) error {
	st.Normalize()
	if err := st.Validate(ctx); err != nil {
		return err
	}

	taken, err := s.repo.ExistsByCode(ctx, st.InditexCode, &st.ID)
	if err != nil {
		return err
	}
	if taken {
		return apperror.NewDuplicate("store", "inditexCode", st.InditexCode)
	}

	st.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, st)
}

// Delete removes a store.
func (s *Service) Delete(ctx context.Context, storeID id.ID) error {
	if err := s.repo.Delete(ctx, storeID); err != nil {
		return err
	}
	logger.Info(ctx, "store deleted", "id", storeID)
	return nil
}

// Exists reports whether a store with the given ID is present.
func (s *Service) Exists(ctx context.Context, storeID id.ID) (bool, error) {
	return s.repo.Exists(ctx, storeID)
}

// ActiveNames returns the names of all active stores, used by calendar
// filters to classify unknown endpoints.
func (s *Service) ActiveNames(ctx context.Context) ([]string, error) {
	return s.repo.ActiveNames(ctx)
}
