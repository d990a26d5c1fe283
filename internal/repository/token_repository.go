package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/spec-kit/countdown-service/internal/domain"
	"github.com/spec-kit/countdown-service/internal/persistence"
	apperrors "github.com/spec-kit/countdown-service/pkg/util"
)

// tokensKey is the single KV document holding every live token.
const tokensKey = "all_tokens"

// TokenRepository persists the token collection as one serialized document.
//
// The backend has no transactions or partial updates, so every mutation is
// load-entire-collection, mutate in memory, save-entire-collection. Two
// overlapping cycles race last-writer-wins and the earlier save is silently
// lost. Token writes are rare relative to reads, so this is accepted rather
// than worked around.
type TokenRepository interface {
	LoadAll(ctx context.Context) (domain.TokenCollection, error)
	SaveAll(ctx context.Context, collection domain.TokenCollection) error
}

type tokenRepository struct {
	kv persistence.KV
}

// NewTokenRepository returns a KV-backed implementation.
func NewTokenRepository(kv persistence.KV) TokenRepository {
	return &tokenRepository{kv: kv}
}

// LoadAll returns the current collection. A missing document yields an empty
// collection; a document that exists but fails to parse is surfaced as
// STORE_UNAVAILABLE instead of being masked as empty, since that would make
// corruption indistinguishable from a fresh install.
func (r *tokenRepository) LoadAll(ctx context.Context) (domain.TokenCollection, error) {
	raw, err := r.kv.Get(ctx, tokensKey)
	if errors.Is(err, persistence.ErrKeyNotFound) {
		return domain.TokenCollection{}, nil
	}
	if err != nil {
		return nil, apperrors.NewStoreUnavailable("token store read failed", err)
	}

	var collection domain.TokenCollection
	if err := json.Unmarshal(raw, &collection); err != nil {
		return nil, apperrors.NewStoreUnavailable("token document corrupt", err)
	}
	if collection == nil {
		collection = domain.TokenCollection{}
	}
	return collection, nil
}

// SaveAll replaces the document wholesale.
func (r *tokenRepository) SaveAll(ctx context.Context, collection domain.TokenCollection) error {
	raw, err := json.Marshal(collection)
	if err != nil {
		return apperrors.NewStoreUnavailable("token document encode failed", err)
	}
	if err := r.kv.Put(ctx, tokensKey, raw); err != nil {
		return apperrors.NewStoreUnavailable("token store write failed", err)
	}
	return nil
}
