package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spec-kit/countdown-service/internal/domain"
	"github.com/spec-kit/countdown-service/internal/repository"
	apperrors "github.com/spec-kit/countdown-service/pkg/util"
)

// SettingsService is the bounded accessor for the configuration document:
// token expiration window, auto-clean interval, and the opaque display
// configuration the countdown UI owns.
type SettingsService struct {
	settings repository.SettingsRepository
}

// NewSettingsService builds the service.
func NewSettingsService(settings repository.SettingsRepository) *SettingsService {
	return &SettingsService{settings: settings}
}

// Current returns the full configuration document.
func (s *SettingsService) Current(ctx context.Context) (domain.Settings, error) {
	return s.settings.Load(ctx)
}

// ExpirationDays returns the validity window for newly issued tokens.
// A stored value outside the accepted range falls back to the default.
func (s *SettingsService) ExpirationDays(ctx context.Context) (int, error) {
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return 0, err
	}
	if !domain.ValidPolicyDays(settings.TokenExpirationDays) {
		return domain.DefaultExpirationDays, nil
	}
	return settings.TokenExpirationDays, nil
}

// SetExpirationDays updates the validity window, bounded to [1,365].
func (s *SettingsService) SetExpirationDays(ctx context.Context, days int) error {
	if !domain.ValidPolicyDays(days) {
		return apperrors.NewValidationError("expiration days must be between 1 and 365", map[string]any{"days": days})
	}
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return err
	}
	settings.TokenExpirationDays = days
	return s.settings.Save(ctx, settings)
}

// AutoCleanDays returns the minimum interval between expiry sweeps.
func (s *SettingsService) AutoCleanDays(ctx context.Context) (int, error) {
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return 0, err
	}
	if !domain.ValidPolicyDays(settings.TokenAutoCleanDays) {
		return domain.DefaultAutoCleanDays, nil
	}
	return settings.TokenAutoCleanDays, nil
}

// SetAutoCleanDays updates the sweep interval, bounded to [1,365].
func (s *SettingsService) SetAutoCleanDays(ctx context.Context, days int) error {
	if !domain.ValidPolicyDays(days) {
		return apperrors.NewValidationError("auto-clean days must be between 1 and 365", map[string]any{"days": days})
	}
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return err
	}
	settings.TokenAutoCleanDays = days
	return s.settings.Save(ctx, settings)
}

// LastCleanedAt reports when the last sweep recorded a run, zero time when never.
func (s *SettingsService) LastCleanedAt(ctx context.Context) (time.Time, error) {
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return time.Time{}, err
	}
	if settings.LastCleanedAt == 0 {
		return time.Time{}, nil
	}
	return time.UnixMilli(settings.LastCleanedAt), nil
}

// RecordCleanRun stamps the sweep time into the configuration document.
// Best-effort with respect to the token collection; the two documents are
// never updated atomically.
func (s *SettingsService) RecordCleanRun(ctx context.Context, at time.Time) error {
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return err
	}
	settings.LastCleanedAt = at.UnixMilli()
	return s.settings.Save(ctx, settings)
}

// SetDisplayConfig replaces the display portion of the document while keeping
// the token policy fields intact.
func (s *SettingsService) SetDisplayConfig(ctx context.Context, display map[string]json.RawMessage) error {
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return err
	}
	settings.Display = display
	return s.settings.Save(ctx, settings)
}
