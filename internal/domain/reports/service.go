package reports

import (
	"context"
	"fmt"

	"transita/internal/core/apperror"
)

// Service provides report generation operations.
type Service struct {
	repo Repository
}

// NewService creates a new reports service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetTransferStats generates the transfer statistics report.
func (s *Service) GetTransferStats(ctx context.Context, filter TransferStatsFilter) (*TransferStats, error) {
	if filter.FromDate.IsZero() || filter.ToDate.IsZero() {
		return nil, apperror.NewValidation("startDate and endDate are required")
	}
	if filter.FromDate.After(filter.ToDate) {
		return nil, apperror.NewValidation("startDate must not be after endDate")
	}

	report, err := s.repo.GetTransferStats(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get transfer stats: %w", err)
	}

	return report, nil
}
