package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/countdown-service/internal/domain"
	"github.com/spec-kit/countdown-service/internal/persistence"
	"github.com/spec-kit/countdown-service/internal/repository"
	"github.com/spec-kit/countdown-service/internal/service"
	apperrors "github.com/spec-kit/countdown-service/pkg/util"
)

func newSettingsService() (*service.SettingsService, *persistence.MemoryKV) {
	kv := persistence.NewMemoryKV()
	return service.NewSettingsService(repository.NewSettingsRepository(kv)), kv
}

func TestSettingsService_DefaultExpirationDays(t *testing.T) {
	svc, _ := newSettingsService()

	days, err := svc.ExpirationDays(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.DefaultExpirationDays, days)
}

func TestSettingsService_SetExpirationDays(t *testing.T) {
	svc, _ := newSettingsService()
	ctx := context.Background()

	require.NoError(t, svc.SetExpirationDays(ctx, 90))

	days, err := svc.ExpirationDays(ctx)
	require.NoError(t, err)
	require.Equal(t, 90, days)
}

func TestSettingsService_ExpirationDaysBounds(t *testing.T) {
	svc, _ := newSettingsService()
	ctx := context.Background()

	for _, days := range []int{0, -1, 366, 1000} {
		err := svc.SetExpirationDays(ctx, days)
		require.Error(t, err, "days=%d", days)

		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		require.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	}

	// Boundary values are accepted.
	require.NoError(t, svc.SetExpirationDays(ctx, domain.MinPolicyDays))
	require.NoError(t, svc.SetExpirationDays(ctx, domain.MaxPolicyDays))
}

func TestSettingsService_AutoCleanDaysBounds(t *testing.T) {
	svc, _ := newSettingsService()
	ctx := context.Background()

	require.Error(t, svc.SetAutoCleanDays(ctx, 0))
	require.NoError(t, svc.SetAutoCleanDays(ctx, 14))

	days, err := svc.AutoCleanDays(ctx)
	require.NoError(t, err)
	require.Equal(t, 14, days)
}

func TestSettingsService_RecordCleanRun(t *testing.T) {
	svc, _ := newSettingsService()
	ctx := context.Background()

	last, err := svc.LastCleanedAt(ctx)
	require.NoError(t, err)
	require.True(t, last.IsZero())

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, svc.RecordCleanRun(ctx, at))

	last, err = svc.LastCleanedAt(ctx)
	require.NoError(t, err)
	require.Equal(t, at.UnixMilli(), last.UnixMilli())
}

func TestSettingsService_DisplayConfigPreservesPolicy(t *testing.T) {
	svc, _ := newSettingsService()
	ctx := context.Background()

	require.NoError(t, svc.SetExpirationDays(ctx, 60))
	require.NoError(t, svc.SetDisplayConfig(ctx, map[string]json.RawMessage{
		"title": json.RawMessage(`"Countdown"`),
		"theme": json.RawMessage(`{"dark":true}`),
	}))

	// Replacing the display document leaves the token policy untouched.
	days, err := svc.ExpirationDays(ctx)
	require.NoError(t, err)
	require.Equal(t, 60, days)

	current, err := svc.Current(ctx)
	require.NoError(t, err)
	require.JSONEq(t, `"Countdown"`, string(current.Display["title"]))
	require.JSONEq(t, `{"dark":true}`, string(current.Display["theme"]))
}

func TestSettingsService_OutOfRangeStoredValueFallsBack(t *testing.T) {
	svc, kv := newSettingsService()
	ctx := context.Background()

	// A document written by hand can carry any number.
	require.NoError(t, kv.Put(ctx, "config", []byte(`{"tokenExpirationDays":9999}`)))

	days, err := svc.ExpirationDays(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.DefaultExpirationDays, days)
}
