package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/countdown-service/internal/domain"
	"github.com/spec-kit/countdown-service/internal/events"
	"github.com/spec-kit/countdown-service/internal/repository"
	apperrors "github.com/spec-kit/countdown-service/pkg/util"
)

// renewalWarningWindow is the remaining-validity threshold below which
// Status reports expiresSoon, prompting clients to renew proactively.
const renewalWarningWindow = time.Hour

// Verification failure reasons carried on the verify-token wire response.
const (
	ReasonNoToken      = "no_token"
	ReasonInvalidToken = "invalid_token"
	ReasonExpired      = "expired"
	ReasonError        = "error"
)

// TokenStatus is the outcome of a verification with renewal hint.
type TokenStatus struct {
	Valid           bool
	Reason          string
	ExpiresSoon     bool
	TimeUntilExpiry time.Duration
	Token           *domain.Token
}

// TokenService owns the bearer-token lifecycle: issuance, verification,
// rotate-id renewal, revocation, expiry sweeps and statistics. Every mutation
// is a load→mutate→save cycle against the single collection document; see
// repository.TokenRepository for the concurrency caveats.
type TokenService struct {
	tokens     repository.TokenRepository
	settings   *SettingsService
	dispatcher events.Dispatcher
	now        func() time.Time
}

// TokenServiceOption customizes construction.
type TokenServiceOption func(*TokenService)

// WithClock overrides the time source, used by tests to advance time.
func WithClock(now func() time.Time) TokenServiceOption {
	return func(s *TokenService) { s.now = now }
}

// NewTokenService builds the service. dispatcher may be nil.
func NewTokenService(tokens repository.TokenRepository, settings *SettingsService, dispatcher events.Dispatcher, opts ...TokenServiceOption) *TokenService {
	s := &TokenService{
		tokens:     tokens,
		settings:   settings,
		dispatcher: dispatcher,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue creates a token for the user with the configured validity window and
// a snapshot of the user's current role flags and capabilities. The snapshot
// is informational; authorization re-resolves the live record.
func (s *TokenService) Issue(ctx context.Context, user domain.User) (domain.Token, error) {
	days, err := s.settings.ExpirationDays(ctx)
	if err != nil {
		return domain.Token{}, err
	}

	collection, err := s.tokens.LoadAll(ctx)
	if err != nil {
		return domain.Token{}, err
	}

	token := s.mint(user, days)
	collection[token.ID] = token
	if err := s.tokens.SaveAll(ctx, collection); err != nil {
		return domain.Token{}, err
	}

	s.publish(ctx, events.EventTokenIssued, user.Username, events.TokenIssuedPayload{ExpiresAt: token.ExpiresAt})
	return token, nil
}

func (s *TokenService) mint(user domain.User, expirationDays int) domain.Token {
	now := s.now()
	capabilities := make(map[string]bool, len(user.Capabilities))
	for name, granted := range user.Capabilities {
		capabilities[name] = granted
	}
	return domain.Token{
		ID:           uuid.NewString(),
		Username:     user.Username,
		IsAdmin:      user.IsAdmin,
		IsSuperAdmin: user.IsSuperAdmin,
		Capabilities: capabilities,
		IssuedAt:     now.UnixMilli(),
		ExpiresAt:    now.Add(time.Duration(expirationDays) * 24 * time.Hour).UnixMilli(),
	}
}

// Verify resolves the id. A missing id yields (nil, nil). An expired token is
// removed as a side effect (lazy expiry) and also yields (nil, nil).
func (s *TokenService) Verify(ctx context.Context, id string) (*domain.Token, error) {
	if id == "" {
		return nil, nil
	}
	collection, err := s.tokens.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	token, ok := collection[id]
	if !ok {
		return nil, nil
	}
	if token.ExpiredAt(s.now()) {
		delete(collection, id)
		if err := s.tokens.SaveAll(ctx, collection); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return &token, nil
}

// Status verifies the id and reports whether renewal should be prompted.
func (s *TokenService) Status(ctx context.Context, id string) (TokenStatus, error) {
	if id == "" {
		return TokenStatus{Reason: ReasonNoToken}, nil
	}
	collection, err := s.tokens.LoadAll(ctx)
	if err != nil {
		return TokenStatus{Reason: ReasonError}, err
	}

	token, ok := collection[id]
	if !ok {
		return TokenStatus{Reason: ReasonInvalidToken}, nil
	}

	remaining := token.TimeUntilExpiry(s.now())
	if remaining <= 0 {
		delete(collection, id)
		if err := s.tokens.SaveAll(ctx, collection); err != nil {
			return TokenStatus{Reason: ReasonError}, err
		}
		return TokenStatus{Reason: ReasonExpired}, nil
	}

	return TokenStatus{
		Valid:           true,
		ExpiresSoon:     remaining < renewalWarningWindow,
		TimeUntilExpiry: remaining,
		Token:           &token,
	}, nil
}

// Renew rotates the token: the old id is removed and a fresh id with a fresh
// expiry is inserted in the same load/save cycle, so a leaked old token dies
// the moment the legitimate client renews. The caller must adopt the returned
// token string.
func (s *TokenService) Renew(ctx context.Context, id string) (domain.Token, error) {
	days, err := s.settings.ExpirationDays(ctx)
	if err != nil {
		return domain.Token{}, err
	}

	collection, err := s.tokens.LoadAll(ctx)
	if err != nil {
		return domain.Token{}, err
	}

	old, ok := collection[id]
	if !ok {
		return domain.Token{}, apperrors.NewNotFound("token", nil)
	}
	if old.ExpiredAt(s.now()) {
		delete(collection, id)
		if err := s.tokens.SaveAll(ctx, collection); err != nil {
			return domain.Token{}, err
		}
		return domain.Token{}, apperrors.NewUnauthorized("token expired")
	}

	renewed := domain.Token{
		ID:           uuid.NewString(),
		Username:     old.Username,
		IsAdmin:      old.IsAdmin,
		IsSuperAdmin: old.IsSuperAdmin,
		Capabilities: old.Capabilities,
		IssuedAt:     old.IssuedAt,
		ExpiresAt:    s.now().Add(time.Duration(days) * 24 * time.Hour).UnixMilli(),
	}
	delete(collection, id)
	collection[renewed.ID] = renewed
	if err := s.tokens.SaveAll(ctx, collection); err != nil {
		return domain.Token{}, err
	}

	s.publish(ctx, events.EventTokenRenewed, renewed.Username, events.TokenRenewedPayload{ExpiresAt: renewed.ExpiresAt})
	return renewed, nil
}

// Revoke removes the id. An absent id is a no-op, not an error, which also
// makes retried revocations safe.
func (s *TokenService) Revoke(ctx context.Context, id string) error {
	collection, err := s.tokens.LoadAll(ctx)
	if err != nil {
		return err
	}
	token, ok := collection[id]
	if !ok {
		return nil
	}
	delete(collection, id)
	if err := s.tokens.SaveAll(ctx, collection); err != nil {
		return err
	}
	s.publish(ctx, events.EventTokenRevoked, token.Username, events.TokensRevokedPayload{Count: 1})
	return nil
}

// RevokeForUser removes every token held by username and returns the count.
func (s *TokenService) RevokeForUser(ctx context.Context, username string) (int, error) {
	collection, err := s.tokens.LoadAll(ctx)
	if err != nil {
		return 0, err
	}

	revoked := 0
	for id, token := range collection {
		if token.Username == username {
			delete(collection, id)
			revoked++
		}
	}
	if revoked == 0 {
		return 0, nil
	}
	if err := s.tokens.SaveAll(ctx, collection); err != nil {
		return 0, err
	}
	s.publish(ctx, events.EventTokenRevoked, username, events.TokensRevokedPayload{Count: revoked, Reason: "user"})
	return revoked, nil
}

// RevokeAll empties the collection.
func (s *TokenService) RevokeAll(ctx context.Context) error {
	if err := s.tokens.SaveAll(ctx, domain.TokenCollection{}); err != nil {
		return err
	}
	s.publish(ctx, events.EventTokenRevoked, "", events.TokensRevokedPayload{Reason: "all"})
	return nil
}

// CleanExpired removes every expired token and returns the count. The save
// is skipped when nothing changed, so a retried sweep reports 0 cheaply.
func (s *TokenService) CleanExpired(ctx context.Context) (int, error) {
	collection, err := s.tokens.LoadAll(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	cleaned := 0
	for id, token := range collection {
		if token.ExpiredAt(now) {
			delete(collection, id)
			cleaned++
		}
	}
	if cleaned == 0 {
		return 0, nil
	}
	if err := s.tokens.SaveAll(ctx, collection); err != nil {
		return 0, err
	}
	s.publish(ctx, events.EventTokensCleaned, "", events.TokensCleanedPayload{Count: cleaned})
	return cleaned, nil
}

// Stats returns a point-in-time snapshot; counts are not live across
// concurrent mutation.
func (s *TokenService) Stats(ctx context.Context) (domain.TokenStats, error) {
	collection, err := s.tokens.LoadAll(ctx)
	if err != nil {
		return domain.TokenStats{}, err
	}
	return collection.StatsAt(s.now()), nil
}

func (s *TokenService) publish(ctx context.Context, eventType events.EventType, username string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Username:  username,
		Timestamp: s.now(),
		Payload:   payload,
	})
}
