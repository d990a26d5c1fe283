package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/countdown-service/internal/auth"
	"github.com/spec-kit/countdown-service/internal/domain"
	"github.com/spec-kit/countdown-service/internal/events"
	"github.com/spec-kit/countdown-service/internal/repository"
	apperrors "github.com/spec-kit/countdown-service/pkg/util"
)

// UserService covers administrative user management. Destructive operations
// revoke the subject's tokens so a frozen or deleted account cannot keep
// using an unexpired credential.
type UserService struct {
	users      repository.UserRepository
	tokens     *TokenService
	dispatcher events.Dispatcher
	bcryptCost int
}

// NewUserService builds the service. dispatcher may be nil.
func NewUserService(users repository.UserRepository, tokens *TokenService, dispatcher events.Dispatcher, bcryptCost int) *UserService {
	return &UserService{users: users, tokens: tokens, dispatcher: dispatcher, bcryptCost: bcryptCost}
}

// List returns every directory record.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// CreateInput carries admin-created account fields.
type CreateInput struct {
	Username         string
	Password         string
	Email            string
	Approved         bool
	IsAdmin          bool
	Capabilities     map[string]bool
	SecurityQuestion string
}

// Create adds an account on behalf of an administrator.
func (s *UserService) Create(ctx context.Context, input CreateInput) error {
	if input.Username == "" || len(input.Password) < 4 {
		return apperrors.NewValidationError("username required and password must be at least 4 characters", nil)
	}
	if _, err := s.users.GetByUsername(ctx, input.Username); err == nil {
		return apperrors.NewConflict("username already taken", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.MapError(err)
	}

	hash, err := auth.HashSecret(input.Password, s.bcryptCost)
	if err != nil {
		return err
	}
	capabilities := input.Capabilities
	if capabilities == nil {
		capabilities = map[string]bool{}
	}
	user := &domain.User{
		Username:         input.Username,
		Email:            input.Email,
		PasswordHash:     hash,
		Approved:         input.Approved,
		IsAdmin:          input.IsAdmin,
		Capabilities:     capabilities,
		SecurityQuestion: input.SecurityQuestion,
	}
	return s.users.Create(ctx, user)
}

// UpdateInput carries mutable account fields; nil pointers leave the stored
// value untouched.
type UpdateInput struct {
	Email        *string
	Approved     *bool
	Frozen       *bool
	IsAdmin      *bool
	Capabilities map[string]bool
}

// Update applies the changes. Super-admin status can never be removed this
// way, and freezing an account revokes its tokens immediately.
func (s *UserService) Update(ctx context.Context, username string, input UpdateInput) error {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return apperrors.MapError(err)
	}

	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Approved != nil {
		user.Approved = *input.Approved
	}
	if input.IsAdmin != nil {
		user.IsAdmin = *input.IsAdmin || user.IsSuperAdmin
	}
	if input.Capabilities != nil {
		user.Capabilities = input.Capabilities
	}

	freezing := false
	if input.Frozen != nil {
		if *input.Frozen && user.IsSuperAdmin {
			return apperrors.NewValidationError("cannot freeze a super-admin", nil)
		}
		freezing = *input.Frozen && !user.Frozen
		user.Frozen = *input.Frozen
	}

	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.MapError(err)
	}

	if freezing {
		if _, err := s.tokens.RevokeForUser(ctx, username); err != nil {
			return err
		}
		s.publish(ctx, events.EventUserFrozen, username)
	}
	return nil
}

// Delete removes the account and revokes all its tokens. Super-admins cannot
// be deleted, and callers cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, caller *domain.User, username string) error {
	if caller.Username == username {
		return apperrors.NewValidationError("cannot delete your own account", nil)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return apperrors.MapError(err)
	}
	if user.IsSuperAdmin {
		return apperrors.NewValidationError("cannot delete a super-admin", nil)
	}

	if err := s.users.Delete(ctx, username); err != nil {
		return apperrors.MapError(err)
	}
	if _, err := s.tokens.RevokeForUser(ctx, username); err != nil {
		return err
	}
	s.publish(ctx, events.EventUserDeleted, username)
	return nil
}

func (s *UserService) publish(ctx context.Context, eventType events.EventType, username string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Username:  username,
		Timestamp: time.Now(),
	})
}
