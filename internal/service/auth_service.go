package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/countdown-service/internal/auth"
	"github.com/spec-kit/countdown-service/internal/config"
	"github.com/spec-kit/countdown-service/internal/domain"
	"github.com/spec-kit/countdown-service/internal/repository"
	apperrors "github.com/spec-kit/countdown-service/pkg/util"
)

// AuthService coordinates credential verification and the login/logout flows
// that sit in front of the token lifecycle.
type AuthService struct {
	users      repository.UserRepository
	tokens     *TokenService
	bcryptCost int
	seedUser   string
	seedPass   string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, tokens *TokenService) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		bcryptCost: cfg.BcryptCost,
		seedUser:   cfg.SeedAdminUsername,
		seedPass:   cfg.SeedAdminPassword,
	}
}

// Login verifies credentials against the directory and issues a token.
// Unapproved and frozen accounts are rejected before the password check.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, domain.Token, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.Token{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, domain.Token{}, apperrors.MapError(err)
	}
	if !user.Active() {
		return nil, domain.Token{}, apperrors.NewUnauthorized("account not approved or frozen")
	}
	if err := auth.CompareSecret(user.PasswordHash, password); err != nil {
		return nil, domain.Token{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, err := s.tokens.Issue(ctx, *user)
	if err != nil {
		return nil, domain.Token{}, err
	}
	return user, token, nil
}

// Logout revokes the presented token. A missing or unknown token is not an
// error; logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, tokenID string) error {
	if tokenID == "" {
		return nil
	}
	return s.tokens.Revoke(ctx, tokenID)
}

// Register creates an account that waits for administrator approval.
func (s *AuthService) Register(ctx context.Context, username, password, email, securityQuestion, securityAnswer string) error {
	if username == "" || len(password) < 4 {
		return apperrors.NewValidationError("username required and password must be at least 4 characters", nil)
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return apperrors.NewConflict("username already taken", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.MapError(err)
	}

	passwordHash, err := auth.HashSecret(password, s.bcryptCost)
	if err != nil {
		return err
	}
	answerHash := ""
	if securityAnswer != "" {
		if answerHash, err = auth.HashSecret(securityAnswer, s.bcryptCost); err != nil {
			return err
		}
	}

	user := &domain.User{
		Username:           username,
		Email:              email,
		PasswordHash:       passwordHash,
		Approved:           false,
		Capabilities:       map[string]bool{},
		SecurityQuestion:   securityQuestion,
		SecurityAnswerHash: answerHash,
	}
	return s.users.Create(ctx, user)
}

// ChangePassword verifies the current password before updating, unless the
// caller is an admin changing someone else's password.
func (s *AuthService) ChangePassword(ctx context.Context, caller *domain.User, username, currentPassword, newPassword string) error {
	self := caller.Username == username
	if !self && !caller.IsAdmin && !caller.IsSuperAdmin {
		return apperrors.NewForbidden("cannot change another user's password")
	}
	if len(newPassword) < 4 {
		return apperrors.NewValidationError("password must be at least 4 characters", nil)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return apperrors.MapError(err)
	}
	if self {
		if err := auth.CompareSecret(user.PasswordHash, currentPassword); err != nil {
			return apperrors.NewUnauthorized("current password incorrect")
		}
	}

	hash, err := auth.HashSecret(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}

// SecurityQuestion returns the recovery question for the account.
func (s *AuthService) SecurityQuestion(ctx context.Context, username string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewNotFound("user", nil)
		}
		return "", apperrors.MapError(err)
	}
	if user.SecurityQuestion == "" {
		return "", apperrors.NewNotFound("security question", nil)
	}
	return user.SecurityQuestion, nil
}

// RecoverPassword sets a new password after the security answer checks out,
// then revokes the account's existing tokens.
func (s *AuthService) RecoverPassword(ctx context.Context, username, securityAnswer, newPassword string) error {
	if len(newPassword) < 4 {
		return apperrors.NewValidationError("password must be at least 4 characters", nil)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("recovery failed")
		}
		return apperrors.MapError(err)
	}
	if user.SecurityAnswerHash == "" {
		return apperrors.NewUnauthorized("recovery failed")
	}
	if err := auth.CompareSecret(user.SecurityAnswerHash, securityAnswer); err != nil {
		return apperrors.NewUnauthorized("recovery failed")
	}

	hash, err := auth.HashSecret(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.MapError(err)
	}

	_, err = s.tokens.RevokeForUser(ctx, username)
	return err
}

// SeedDefaultAdmin creates the initial super-admin when the directory is
// empty. Skipped when no seed password is configured.
func (s *AuthService) SeedDefaultAdmin(ctx context.Context, logger *zap.Logger) error {
	if s.seedPass == "" {
		logger.Warn("AUTH_SEED_ADMIN_PASSWORD not set; skipping default admin seed")
		return nil
	}

	count, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashSecret(s.seedPass, s.bcryptCost)
	if err != nil {
		return err
	}
	admin := &domain.User{
		Username:     s.seedUser,
		PasswordHash: hash,
		Approved:     true,
		IsAdmin:      true,
		IsSuperAdmin: true,
		Capabilities: domain.AllCapabilities(),
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return err
	}
	logger.Info("seeded default super-admin", zap.String("username", s.seedUser))
	return nil
}
