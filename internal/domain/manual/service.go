package manual

import (
	"context"
	"fmt"
	"time"

	"transita/internal/core/apperror"
	appctx "transita/internal/core/context"
	"transita/internal/core/id"
	"transita/internal/core/tx"
	"transita/internal/domain/catalogs/store"
	"transita/internal/domain/transfers"
	"transita/pkg/logger"
)

// Service provides business logic for manual transfers.
type Service struct {
	repo      Repository
	stores    *store.Service
	txManager tx.Manager
}

// NewService creates a new manual transfer service.
func NewService(repo Repository, stores *store.Service, txManager tx.Manager) *Service {
	return &Service{repo: repo, stores: stores, txManager: txManager}
}

// Create validates and persists a new manual transfer with its items.
func (s *Service) Create(ctx context.Context, t *Transfer) error {
	t.RecalculateTotal()
	if err := t.Validate(ctx); err != nil {
		return err
	}
	if err := s.requireStore(ctx, t.FromStoreID, "source store not found"); err != nil {
		return err
	}
	if err := s.requireStore(ctx, t.ToStoreID, "destination store not found"); err != nil {
		return err
	}

	if user := appctx.GetUser(ctx); user != nil {
		if uid, err := id.Parse(user.UserID); err == nil {
			t.CreatedBy = &uid
		}
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, t); err != nil {
			return fmt.Errorf("create manual transfer: %w", err)
		}
		if err := s.repo.SaveItems(ctx, t.ID, t.Items); err != nil {
			return fmt.Errorf("save items: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "manual transfer created",
		"id", t.ID, "quantity", t.TotalQuantity, "method", t.ImportMethod)
	return nil
}

// GetByID retrieves a manual transfer with its items.
func (s *Service) GetByID(ctx context.Context, transferID id.ID) (*Transfer, error) {
	t, err := s.repo.GetByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.GetItems(ctx, transferID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	t.Items = items
	return t, nil
}

// List returns non-flagged manual transfers.
func (s *Service) List(ctx context.Context) ([]Transfer, error) {
	return s.repo.List(ctx, false)
}

// ListFlagged returns archived manual transfers.
func (s *Service) ListFlagged(ctx context.Context) ([]Transfer, error) {
	return s.repo.List(ctx, true)
}

// Update validates and persists changes, replacing items when provided.
func (s *Service) Update(ctx context.Context, t *Transfer, itemsChanged bool) error {
	if itemsChanged {
		t.RecalculateTotal()
	}
	if err := t.Validate(ctx); err != nil {
		return err
	}
	t.UpdatedAt = time.Now().UTC()

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, t); err != nil {
			return err
		}
		if itemsChanged {
			if err := s.repo.SaveItems(ctx, t.ID, t.Items); err != nil {
				return fmt.Errorf("save items: %w", err)
			}
		}
		return nil
	})
}

// Delete removes a manual transfer. Confirmed transfers cannot be deleted.
func (s *Service) Delete(ctx context.Context, transferID id.ID) error {
	t, err := s.repo.GetByID(ctx, transferID)
	if err != nil {
		return err
	}
	if t.Status == transfers.StatusConfirmed {
		return apperror.NewBusinessRule("TRANSFER_CONFIRMED", "confirmed transfers cannot be deleted").
			WithDetail("id", transferID.String())
	}

	if err := s.repo.Delete(ctx, transferID); err != nil {
		return err
	}
	logger.Info(ctx, "manual transfer deleted", "id", transferID)
	return nil
}

// Stats returns per-status counts and the total quantity aggregate.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx)
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
