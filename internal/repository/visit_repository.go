package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/spec-kit/countdown-service/internal/domain"
	"github.com/spec-kit/countdown-service/internal/persistence"
	apperrors "github.com/spec-kit/countdown-service/pkg/util"
)

const visitsKey = "visits"

// VisitRepository persists the visit log as one KV document list, capped at
// domain.MaxStoredVisits entries (oldest dropped first).
type VisitRepository interface {
	List(ctx context.Context) ([]domain.Visit, error)
	Append(ctx context.Context, visit domain.Visit) error
	Clear(ctx context.Context) error
}

type visitRepository struct {
	kv persistence.KV
}

// NewVisitRepository returns a KV-backed implementation.
func NewVisitRepository(kv persistence.KV) VisitRepository {
	return &visitRepository{kv: kv}
}

func (r *visitRepository) List(ctx context.Context) ([]domain.Visit, error) {
	raw, err := r.kv.Get(ctx, visitsKey)
	if errors.Is(err, persistence.ErrKeyNotFound) {
		return []domain.Visit{}, nil
	}
	if err != nil {
		return nil, apperrors.NewStoreUnavailable("visit log read failed", err)
	}

	var visits []domain.Visit
	if err := json.Unmarshal(raw, &visits); err != nil {
		return nil, apperrors.NewStoreUnavailable("visit document corrupt", err)
	}
	return visits, nil
}

func (r *visitRepository) Append(ctx context.Context, visit domain.Visit) error {
	visits, err := r.List(ctx)
	if err != nil {
		return err
	}
	visits = append(visits, visit)
	if len(visits) > domain.MaxStoredVisits {
		visits = visits[len(visits)-domain.MaxStoredVisits:]
	}
	return r.save(ctx, visits)
}

func (r *visitRepository) Clear(ctx context.Context) error {
	return r.save(ctx, []domain.Visit{})
}

func (r *visitRepository) save(ctx context.Context, visits []domain.Visit) error {
	raw, err := json.Marshal(visits)
	if err != nil {
		return apperrors.NewStoreUnavailable("visit log encode failed", err)
	}
	if err := r.kv.Put(ctx, visitsKey, raw); err != nil {
		return apperrors.NewStoreUnavailable("visit log write failed", err)
	}
	return nil
}
