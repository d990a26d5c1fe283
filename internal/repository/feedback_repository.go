package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/spec-kit/countdown-service/internal/domain"
	"github.com/spec-kit/countdown-service/internal/persistence"
	apperrors "github.com/spec-kit/countdown-service/pkg/util"
)

const feedbackKey = "feedback"

// FeedbackRepository persists visitor feedback as one KV document list.
type FeedbackRepository interface {
	List(ctx context.Context) ([]domain.Feedback, error)
	Append(ctx context.Context, entry domain.Feedback) error
	DeleteByID(ctx context.Context, id string) (bool, error)
	Clear(ctx context.Context) error
}

type feedbackRepository struct {
	kv persistence.KV
}

// NewFeedbackRepository returns a KV-backed implementation.
func NewFeedbackRepository(kv persistence.KV) FeedbackRepository {
	return &feedbackRepository{kv: kv}
}

func (r *feedbackRepository) List(ctx context.Context) ([]domain.Feedback, error) {
	raw, err := r.kv.Get(ctx, feedbackKey)
	if errors.Is(err, persistence.ErrKeyNotFound) {
		return []domain.Feedback{}, nil
	}
	if err != nil {
		return nil, apperrors.NewStoreUnavailable("feedback read failed", err)
	}

	var entries []domain.Feedback
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, apperrors.NewStoreUnavailable("feedback document corrupt", err)
	}
	return entries, nil
}

func (r *feedbackRepository) Append(ctx context.Context, entry domain.Feedback) error {
	entries, err := r.List(ctx)
	if err != nil {
		return err
	}
	return r.save(ctx, append(entries, entry))
}

// DeleteByID removes the entry when present and reports whether it existed.
func (r *feedbackRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	entries, err := r.List(ctx)
	if err != nil {
		return false, err
	}

	kept := entries[:0]
	removed := false
	for _, entry := range entries {
		if entry.ID == id {
			removed = true
			continue
		}
		kept = append(kept, entry)
	}
	if !removed {
		return false, nil
	}
	return true, r.save(ctx, kept)
}

func (r *feedbackRepository) Clear(ctx context.Context) error {
	return r.save(ctx, []domain.Feedback{})
}

func (r *feedbackRepository) save(ctx context.Context, entries []domain.Feedback) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return apperrors.NewStoreUnavailable("feedback encode failed", err)
	}
	if err := r.kv.Put(ctx, feedbackKey, raw); err != nil {
		return apperrors.NewStoreUnavailable("feedback write failed", err)
	}
	return nil
}
