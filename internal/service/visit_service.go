package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/countdown-service/internal/domain"
	"github.com/spec-kit/countdown-service/internal/repository"
)

// VisitService records page views and produces the aggregated report.
type VisitService struct {
	visits repository.VisitRepository
}

// NewVisitService builds the service.
func NewVisitService(visits repository.VisitRepository) *VisitService {
	return &VisitService{visits: visits}
}

// Record appends one visit; the repository caps the log size.
func (s *VisitService) Record(ctx context.Context, ip, userAgent string) error {
	if ip == "" {
		ip = "unknown"
	}
	if userAgent == "" {
		userAgent = "unknown"
	}
	return s.visits.Append(ctx, domain.Visit{
		ID:        uuid.NewString(),
		IP:        ip,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		UserAgent: userAgent,
	})
}

// Report returns per-IP summaries plus the raw total.
func (s *VisitService) Report(ctx context.Context) ([]domain.VisitSummary, int, error) {
	visits, err := s.visits.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	return domain.AggregateVisits(visits), len(visits), nil
}

// Clear wipes the visit log.
func (s *VisitService) Clear(ctx context.Context) error {
	return s.visits.Clear(ctx)
}
