// Package settings provides application-level settings, currently the
// single import folder path used by the desktop CSV importer.
package settings

import (
	"context"
	"strings"
	"time"

	"transita/internal/core/apperror"
	"transita/internal/core/id"
	"transita/pkg/logger"
)

// ImportFolder is the CSV drop directory used by the desktop importer.
// Exactly one row exists; updates overwrite it.
type ImportFolder struct {
	ID        id.ID     `db:"id" json:"id"`
	Path      string    `db:"path" json:"path"`
	UpdatedBy *id.ID    `db:"updated_by" json:"updatedBy,omitempty"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Repository defines the interface for settings persistence.
type Repository interface {
	// GetImportFolder returns the configured folder, or not-found when
	// none has ever been set.
	GetImportFolder(ctx context.Context) (*ImportFolder, error)

	// SetImportFolder inserts or replaces the single row.
	SetImportFolder(ctx context.Context, f *ImportFolder) error
}

// Service provides settings operations.
type Service struct {
	repo Repository
}

// NewService creates a new settings service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetImportFolder returns the configured import folder.
func (s *Service) GetImportFolder(ctx context.Context) (*ImportFolder, error) {
	return s.repo.GetImportFolder(ctx)
}

// SetImportFolder validates and stores the import folder path.
func (s *Service) SetImportFolder(ctx context.Context, path string, updatedBy *id.ID) (*ImportFolder, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, apperror.NewValidation("path is required").WithDetail("field", "path")
	}

	f := &ImportFolder{
		ID:        id.New(),
		Path:      path,
		UpdatedBy: updatedBy,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.repo.SetImportFolder(ctx, f); err != nil {
		return nil, err
	}

	logger.Info(ctx, "import folder updated", "path", path)
	return f, nil
}
