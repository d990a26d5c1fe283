package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/countdown-service/internal/domain"
	"github.com/spec-kit/countdown-service/internal/observability"
	"github.com/spec-kit/countdown-service/internal/persistence"
	"github.com/spec-kit/countdown-service/internal/repository"
)

type cleanupFixture struct {
	tokens   *TokenService
	settings *SettingsService
	cleanup  *CleanupService
	metrics  *observability.Metrics
	now      time.Time
}

func newCleanupFixture(t *testing.T) *cleanupFixture {
	t.Helper()

	fx := &cleanupFixture{
		metrics: observability.NewMetrics(),
		now:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	kv := persistence.NewMemoryKV()
	clock := func() time.Time { return fx.now }

	fx.settings = NewSettingsService(repository.NewSettingsRepository(kv))
	fx.tokens = NewTokenService(repository.NewTokenRepository(kv), fx.settings, nil, WithClock(clock))
	fx.cleanup = NewCleanupService(fx.tokens, fx.settings, fx.metrics, zap.NewNop(), 0.1)
	fx.cleanup.now = clock
	return fx
}

func (fx *cleanupFixture) issueExpired(t *testing.T, count int) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, fx.settings.SetExpirationDays(ctx, 1))
	for i := 0; i < count; i++ {
		_, err := fx.tokens.Issue(ctx, domain.User{Username: "stale", Approved: true})
		require.NoError(t, err)
	}
	fx.now = fx.now.Add(48 * time.Hour)
}

func TestCleanupService_SampleGate(t *testing.T) {
	fx := newCleanupFixture(t)
	fx.issueExpired(t, 2)

	fx.cleanup.sample = func() float64 { return 0.5 }

	cleaned, ran := fx.cleanup.MaybeClean(context.Background())
	require.False(t, ran)
	require.Zero(t, cleaned)

	stats, err := fx.tokens.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, stats.Total)
}

func TestCleanupService_SweepRemovesExpired(t *testing.T) {
	fx := newCleanupFixture(t)
	fx.issueExpired(t, 3)

	fx.cleanup.sample = func() float64 { return 0 }

	cleaned, ran := fx.cleanup.MaybeClean(context.Background())
	require.True(t, ran)
	require.Equal(t, 3, cleaned)
	require.Equal(t, int64(3), fx.metrics.TokensCleaned())

	last, err := fx.settings.LastCleanedAt(context.Background())
	require.NoError(t, err)
	require.Equal(t, fx.now.UnixMilli(), last.UnixMilli())
}

func TestCleanupService_IntervalGatesSampler(t *testing.T) {
	fx := newCleanupFixture(t)
	fx.issueExpired(t, 1)

	fx.cleanup.sample = func() float64 { return 0 }

	_, ran := fx.cleanup.MaybeClean(context.Background())
	require.True(t, ran)

	// The sampler keeps winning, but the interval has not elapsed.
	fx.issueExpired(t, 1)
	cleaned, ran := fx.cleanup.MaybeClean(context.Background())
	require.False(t, ran)
	require.Zero(t, cleaned)

	// Once the configured interval passes, the next winning sample sweeps.
	days, err := fx.settings.AutoCleanDays(context.Background())
	require.NoError(t, err)
	fx.now = fx.now.Add(time.Duration(days) * 24 * time.Hour)

	cleaned, ran = fx.cleanup.MaybeClean(context.Background())
	require.True(t, ran)
	require.Equal(t, 1, cleaned)
}

func TestNewCleanupService_ProbabilityDefault(t *testing.T) {
	fx := newCleanupFixture(t)

	for _, p := range []float64{-1, 0, 1.5} {
		svc := NewCleanupService(fx.tokens, fx.settings, fx.metrics, zap.NewNop(), p)
		require.InDelta(t, 0.1, svc.probability, 1e-9, "probability=%f", p)
	}
}
