package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/countdown-service/internal/domain"
	"github.com/spec-kit/countdown-service/internal/repository"
	apperrors "github.com/spec-kit/countdown-service/pkg/util"
)

// SafeUser is a directory record with credential material stripped, used by
// export and user listings.
type SafeUser struct {
	Username         string          `json:"username"`
	Email            string          `json:"email,omitempty"`
	Approved         bool            `json:"approved"`
	Frozen           bool            `json:"frozen"`
	IsAdmin          bool            `json:"isAdmin"`
	IsSuperAdmin     bool            `json:"isSuperAdmin"`
	Capabilities     map[string]bool `json:"capabilities"`
	SecurityQuestion string          `json:"securityQuestion,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// NewSafeUser strips password and security-answer hashes.
func NewSafeUser(user domain.User) SafeUser {
	return SafeUser{
		Username:         user.Username,
		Email:            user.Email,
		Approved:         user.Approved,
		Frozen:           user.Frozen,
		IsAdmin:          user.IsAdmin,
		IsSuperAdmin:     user.IsSuperAdmin,
		Capabilities:     user.Capabilities,
		SecurityQuestion: user.SecurityQuestion,
		CreatedAt:        user.CreatedAt,
	}
}

// ExportSnapshot is the full administrative data dump.
type ExportSnapshot struct {
	Settings            domain.Settings   `json:"config"`
	Feedback            []domain.Feedback `json:"feedback"`
	Visits              []domain.Visit    `json:"visits"`
	Users               []SafeUser        `json:"users"`
	TokenStats          domain.TokenStats `json:"tokenStats"`
	TokenExpirationDays int               `json:"tokenExpirationDays"`
	ExportedAt          time.Time         `json:"exportedAt"`
}

// AdminService implements the data export and factory-reset operations.
type AdminService struct {
	settings *SettingsService
	tokens   *TokenService
	auth     *AuthService
	users    repository.UserRepository
	feedback repository.FeedbackRepository
	visits   repository.VisitRepository
	logger   *zap.Logger
}

// NewAdminService builds the service.
func NewAdminService(settings *SettingsService, tokens *TokenService, authSvc *AuthService, users repository.UserRepository, feedback repository.FeedbackRepository, visits repository.VisitRepository, logger *zap.Logger) *AdminService {
	return &AdminService{
		settings: settings,
		tokens:   tokens,
		auth:     authSvc,
		users:    users,
		feedback: feedback,
		visits:   visits,
		logger:   logger,
	}
}

// Export assembles a point-in-time snapshot of every document plus token
// statistics. Reads are not coordinated; the snapshot is best-effort
// consistent only.
func (s *AdminService) Export(ctx context.Context) (*ExportSnapshot, error) {
	settings, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	feedback, err := s.feedback.List(ctx)
	if err != nil {
		return nil, err
	}
	visits, err := s.visits.List(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	stats, err := s.tokens.Stats(ctx)
	if err != nil {
		return nil, err
	}
	expirationDays, err := s.settings.ExpirationDays(ctx)
	if err != nil {
		return nil, err
	}

	safeUsers := make([]SafeUser, 0, len(users))
	for _, user := range users {
		safeUsers = append(safeUsers, NewSafeUser(user))
	}

	return &ExportSnapshot{
		Settings:            settings,
		Feedback:            feedback,
		Visits:              visits,
		Users:               safeUsers,
		TokenStats:          stats,
		TokenExpirationDays: expirationDays,
		ExportedAt:          time.Now().UTC(),
	}, nil
}

// Reset wipes every document, revokes all tokens, removes every account
// except the seed admin, and reseeds the default admin if none is left.
// Steps are independent KV writes; there is no cross-document atomicity.
func (s *AdminService) Reset(ctx context.Context) error {
	if err := s.feedback.Clear(ctx); err != nil {
		return err
	}
	if err := s.visits.Clear(ctx); err != nil {
		return err
	}
	if err := s.settings.settings.Save(ctx, domain.DefaultSettings()); err != nil {
		return err
	}
	if err := s.tokens.RevokeAll(ctx); err != nil {
		return err
	}
	if err := s.users.DeleteAllExcept(ctx, s.auth.seedUser); err != nil {
		return apperrors.MapError(err)
	}
	if err := s.auth.SeedDefaultAdmin(ctx, s.logger); err != nil {
		return err
	}

	s.logger.Info("all application data reset")
	return nil
}
