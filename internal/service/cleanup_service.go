package service

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/countdown-service/internal/observability"
)

// CleanupService amortizes expiry sweeps without a persistent scheduler: each
// status-probe invocation triggers CleanExpired with a fixed low probability,
// and the configured auto-clean interval gates the sampler so at most one
// sweep runs per interval. The last-run stamp lives in the configuration
// document.
type CleanupService struct {
	tokens      *TokenService
	settings    *SettingsService
	metrics     *observability.Metrics
	logger      *zap.Logger
	probability float64
	sample      func() float64
	now         func() time.Time
}

// NewCleanupService builds the service with the documented 10% default when
// probability is out of range.
func NewCleanupService(tokens *TokenService, settings *SettingsService, metrics *observability.Metrics, logger *zap.Logger, probability float64) *CleanupService {
	if probability <= 0 || probability > 1 {
		probability = 0.1
	}
	return &CleanupService{
		tokens:      tokens,
		settings:    settings,
		metrics:     metrics,
		logger:      logger,
		probability: probability,
		sample:      rand.Float64,
		now:         time.Now,
	}
}

// MaybeClean runs an opportunistic sweep and reports how many tokens were
// removed and whether a sweep ran at all. Failures are logged, never
// propagated: the caller is a liveness probe and must stay cheap.
func (s *CleanupService) MaybeClean(ctx context.Context) (int, bool) {
	if s.sample() >= s.probability {
		return 0, false
	}

	due, err := s.intervalElapsed(ctx)
	if err != nil {
		s.logger.Warn("cleanup interval check failed", zap.Error(err))
		return 0, false
	}
	if !due {
		return 0, false
	}

	cleaned, err := s.tokens.CleanExpired(ctx)
	if err != nil {
		s.logger.Warn("expired token sweep failed", zap.Error(err))
		return 0, false
	}

	if err := s.settings.RecordCleanRun(ctx, s.now()); err != nil {
		s.logger.Warn("failed to record sweep time", zap.Error(err))
	}
	if cleaned > 0 {
		s.metrics.RecordTokensCleaned(cleaned)
		s.logger.Info("cleaned expired tokens", zap.Int("count", cleaned))
	}
	return cleaned, true
}

func (s *CleanupService) intervalElapsed(ctx context.Context) (bool, error) {
	lastRun, err := s.settings.LastCleanedAt(ctx)
	if err != nil {
		return false, err
	}
	if lastRun.IsZero() {
		return true, nil
	}
	intervalDays, err := s.settings.AutoCleanDays(ctx)
	if err != nil {
		return false, err
	}
	interval := time.Duration(intervalDays) * 24 * time.Hour
	return s.now().Sub(lastRun) >= interval, nil
}
