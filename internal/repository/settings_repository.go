package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/spec-kit/countdown-service/internal/domain"
	"github.com/spec-kit/countdown-service/internal/persistence"
	apperrors "github.com/spec-kit/countdown-service/pkg/util"
)

// settingsKey is the configuration document, separate from the token
// collection; nothing guarantees the two stay mutually consistent.
const settingsKey = "config"

// SettingsRepository persists the configuration document.
type SettingsRepository interface {
	Load(ctx context.Context) (domain.Settings, error)
	Save(ctx context.Context, settings domain.Settings) error
}

type settingsRepository struct {
	kv persistence.KV
}

// NewSettingsRepository returns a KV-backed implementation.
func NewSettingsRepository(kv persistence.KV) SettingsRepository {
	return &settingsRepository{kv: kv}
}

// Load returns the stored settings, defaults when no document exists yet.
func (r *settingsRepository) Load(ctx context.Context) (domain.Settings, error) {
	raw, err := r.kv.Get(ctx, settingsKey)
	if errors.Is(err, persistence.ErrKeyNotFound) {
		return domain.DefaultSettings(), nil
	}
	if err != nil {
		return domain.Settings{}, apperrors.NewStoreUnavailable("settings read failed", err)
	}

	var settings domain.Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return domain.Settings{}, apperrors.NewStoreUnavailable("settings document corrupt", err)
	}
	return settings, nil
}

func (r *settingsRepository) Save(ctx context.Context, settings domain.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return apperrors.NewStoreUnavailable("settings encode failed", err)
	}
	if err := r.kv.Put(ctx, settingsKey, raw); err != nil {
		return apperrors.NewStoreUnavailable("settings write failed", err)
	}
	return nil
}
