package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/countdown-service/internal/domain"
	"github.com/spec-kit/countdown-service/internal/persistence"
	"github.com/spec-kit/countdown-service/internal/repository"
	apperrors "github.com/spec-kit/countdown-service/pkg/util"
)

func TestTokenRepository_MissingDocumentIsEmpty(t *testing.T) {
	repo := repository.NewTokenRepository(persistence.NewMemoryKV())

	tokens, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	require.NotNil(t, tokens)
	require.Empty(t, tokens)
}

func TestTokenRepository_RoundTrip(t *testing.T) {
	repo := repository.NewTokenRepository(persistence.NewMemoryKV())
	ctx := context.Background()

	tokens := domain.TokenCollection{
		"tok-1": {
			ID:           "tok-1",
			Username:     "alice",
			Capabilities: map[string]bool{domain.CapabilityBasic: true},
			IssuedAt:     1_700_000_000_000,
			ExpiresAt:    1_700_086_400_000,
		},
	}
	require.NoError(t, repo.SaveAll(ctx, tokens))

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Equal(t, tokens, loaded)
}

func TestTokenRepository_CorruptDocument(t *testing.T) {
	kv := persistence.NewMemoryKV()
	ctx := context.Background()
	require.NoError(t, kv.Put(ctx, "all_tokens", []byte(`{"tok-1": not-json`)))

	repo := repository.NewTokenRepository(kv)

	_, err := repo.LoadAll(ctx)
	require.Error(t, err)
	require.True(t, apperrors.IsStoreUnavailable(err))
}

func TestTokenRepository_ReadFailure(t *testing.T) {
	kv := persistence.NewMemoryKV()
	repo := repository.NewTokenRepository(kv)

	kv.FailNext = errors.New("connection reset")

	_, err := repo.LoadAll(context.Background())
	require.Error(t, err)
	require.True(t, apperrors.IsStoreUnavailable(err))
}

func TestTokenRepository_WriteFailure(t *testing.T) {
	kv := persistence.NewMemoryKV()
	repo := repository.NewTokenRepository(kv)

	kv.FailNext = errors.New("connection reset")

	err := repo.SaveAll(context.Background(), domain.TokenCollection{})
	require.Error(t, err)
	require.True(t, apperrors.IsStoreUnavailable(err))
}
