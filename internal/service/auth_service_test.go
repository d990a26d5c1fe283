package service_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/countdown-service/internal/auth"
	"github.com/spec-kit/countdown-service/internal/config"
	"github.com/spec-kit/countdown-service/internal/domain"
	"github.com/spec-kit/countdown-service/internal/persistence"
	"github.com/spec-kit/countdown-service/internal/repository"
	"github.com/spec-kit/countdown-service/internal/service"
	apperrors "github.com/spec-kit/countdown-service/pkg/util"
)

// fakeUserRepository keeps user records in a map so the auth flows can be
// exercised without a database.
type fakeUserRepository struct {
	users map[string]domain.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: map[string]domain.User{}}
}

func (f *fakeUserRepository) Create(_ context.Context, user *domain.User) error {
	f.users[user.Username] = *user
	return nil
}

func (f *fakeUserRepository) Update(_ context.Context, user *domain.User) error {
	if _, ok := f.users[user.Username]; !ok {
		return pgx.ErrNoRows
	}
	f.users[user.Username] = *user
	return nil
}

func (f *fakeUserRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (f *fakeUserRepository) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(f.users))
	for _, user := range f.users {
		out = append(out, user)
	}
	return out, nil
}

func (f *fakeUserRepository) Delete(_ context.Context, username string) error {
	if _, ok := f.users[username]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.users, username)
	return nil
}

func (f *fakeUserRepository) DeleteAllExcept(_ context.Context, keepUsername string) error {
	for username := range f.users {
		if username != keepUsername {
			delete(f.users, username)
		}
	}
	return nil
}

func (f *fakeUserRepository) Count(_ context.Context) (int, error) {
	return len(f.users), nil
}

type authFixture struct {
	users  *fakeUserRepository
	tokens *service.TokenService
	auth   *service.AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	kv := persistence.NewMemoryKV()
	settings := service.NewSettingsService(repository.NewSettingsRepository(kv))
	fx := &authFixture{
		users:  newFakeUserRepository(),
		tokens: service.NewTokenService(repository.NewTokenRepository(kv), settings, nil),
	}
	fx.auth = service.NewAuthService(config.AuthConfig{
		BcryptCost:        bcrypt.MinCost,
		SeedAdminUsername: "admin",
		SeedAdminPassword: "changeme",
	}, fx.users, fx.tokens)
	return fx
}

func (fx *authFixture) addUser(t *testing.T, user domain.User, password string) {
	t.Helper()
	hash, err := auth.HashSecret(password, bcrypt.MinCost)
	require.NoError(t, err)
	user.PasswordHash = hash
	fx.users.users[user.Username] = user
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials issue a token", func(t *testing.T) {
		fx := newAuthFixture(t)
		fx.addUser(t, domain.User{Username: "alice", Approved: true}, "hunter22")

		user, token, err := fx.auth.Login(ctx, "alice", "hunter22")
		require.NoError(t, err)
		require.Equal(t, "alice", user.Username)

		verified, err := fx.tokens.Verify(ctx, token.ID)
		require.NoError(t, err)
		require.NotNil(t, verified)
	})

	t.Run("wrong password", func(t *testing.T) {
		fx := newAuthFixture(t)
		fx.addUser(t, domain.User{Username: "alice", Approved: true}, "hunter22")

		_, _, err := fx.auth.Login(ctx, "alice", "wrong")
		requireCode(t, err, "UNAUTHORIZED")
	})

	t.Run("unknown user gets the same error as a bad password", func(t *testing.T) {
		fx := newAuthFixture(t)

		_, _, err := fx.auth.Login(ctx, "ghost", "whatever")
		requireCode(t, err, "UNAUTHORIZED")
	})

	t.Run("unapproved account rejected", func(t *testing.T) {
		fx := newAuthFixture(t)
		fx.addUser(t, domain.User{Username: "alice"}, "hunter22")

		_, _, err := fx.auth.Login(ctx, "alice", "hunter22")
		requireCode(t, err, "UNAUTHORIZED")
	})

	t.Run("frozen account rejected", func(t *testing.T) {
		fx := newAuthFixture(t)
		fx.addUser(t, domain.User{Username: "alice", Approved: true, Frozen: true}, "hunter22")

		_, _, err := fx.auth.Login(ctx, "alice", "hunter22")
		requireCode(t, err, "UNAUTHORIZED")
	})
}

func TestAuthService_LogoutIsIdempotent(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, fx.auth.Logout(ctx, ""))
	require.NoError(t, fx.auth.Logout(ctx, "never-issued"))

	fx.addUser(t, domain.User{Username: "alice", Approved: true}, "hunter22")
	_, token, err := fx.auth.Login(ctx, "alice", "hunter22")
	require.NoError(t, err)

	require.NoError(t, fx.auth.Logout(ctx, token.ID))
	require.NoError(t, fx.auth.Logout(ctx, token.ID))

	verified, err := fx.tokens.Verify(ctx, token.ID)
	require.NoError(t, err)
	require.Nil(t, verified)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("new account starts unapproved", func(t *testing.T) {
		fx := newAuthFixture(t)

		require.NoError(t, fx.auth.Register(ctx, "bob", "secret", "bob@example.com", "favorite color", "blue"))

		user := fx.users.users["bob"]
		require.False(t, user.Approved)
		require.NotEqual(t, "secret", user.PasswordHash)
		require.NotEqual(t, "blue", user.SecurityAnswerHash)

		_, _, err := fx.auth.Login(ctx, "bob", "secret")
		requireCode(t, err, "UNAUTHORIZED")
	})

	t.Run("duplicate username", func(t *testing.T) {
		fx := newAuthFixture(t)
		fx.addUser(t, domain.User{Username: "bob"}, "secret")

		err := fx.auth.Register(ctx, "bob", "secret", "", "", "")
		requireCode(t, err, "CONFLICT")
	})

	t.Run("short password", func(t *testing.T) {
		fx := newAuthFixture(t)

		err := fx.auth.Register(ctx, "bob", "abc", "", "", "")
		requireCode(t, err, "VALIDATION_FAILED")
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("self change requires current password", func(t *testing.T) {
		fx := newAuthFixture(t)
		fx.addUser(t, domain.User{Username: "alice", Approved: true}, "oldpass")
		caller := fx.users.users["alice"]

		err := fx.auth.ChangePassword(ctx, &caller, "alice", "wrong", "newpass")
		requireCode(t, err, "UNAUTHORIZED")

		require.NoError(t, fx.auth.ChangePassword(ctx, &caller, "alice", "oldpass", "newpass"))

		_, _, err = fx.auth.Login(ctx, "alice", "newpass")
		require.NoError(t, err)
	})

	t.Run("admin changes another user without current password", func(t *testing.T) {
		fx := newAuthFixture(t)
		fx.addUser(t, domain.User{Username: "root", Approved: true, IsAdmin: true}, "rootpass")
		fx.addUser(t, domain.User{Username: "alice", Approved: true}, "oldpass")
		caller := fx.users.users["root"]

		require.NoError(t, fx.auth.ChangePassword(ctx, &caller, "alice", "", "newpass"))

		_, _, err := fx.auth.Login(ctx, "alice", "newpass")
		require.NoError(t, err)
	})

	t.Run("plain user cannot change another user", func(t *testing.T) {
		fx := newAuthFixture(t)
		fx.addUser(t, domain.User{Username: "alice", Approved: true}, "oldpass")
		fx.addUser(t, domain.User{Username: "bob", Approved: true}, "bobpass")
		caller := fx.users.users["bob"]

		err := fx.auth.ChangePassword(ctx, &caller, "alice", "", "newpass")
		requireCode(t, err, "FORBIDDEN")
	})
}

func TestAuthService_RecoverPassword(t *testing.T) {
	ctx := context.Background()

	newRecoverableFixture := func(t *testing.T) *authFixture {
		fx := newAuthFixture(t)
		answerHash, err := auth.HashSecret("blue", bcrypt.MinCost)
		require.NoError(t, err)
		fx.addUser(t, domain.User{
			Username:           "alice",
			Approved:           true,
			SecurityQuestion:   "favorite color",
			SecurityAnswerHash: answerHash,
		}, "oldpass")
		return fx
	}

	t.Run("question lookup", func(t *testing.T) {
		fx := newRecoverableFixture(t)

		question, err := fx.auth.SecurityQuestion(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, "favorite color", question)

		_, err = fx.auth.SecurityQuestion(ctx, "ghost")
		requireCode(t, err, "NOT_FOUND")
	})

	t.Run("correct answer resets password and revokes tokens", func(t *testing.T) {
		fx := newRecoverableFixture(t)
		_, token, err := fx.auth.Login(ctx, "alice", "oldpass")
		require.NoError(t, err)

		require.NoError(t, fx.auth.RecoverPassword(ctx, "alice", "blue", "newpass"))

		verified, err := fx.tokens.Verify(ctx, token.ID)
		require.NoError(t, err)
		require.Nil(t, verified)

		_, _, err = fx.auth.Login(ctx, "alice", "newpass")
		require.NoError(t, err)
	})

	t.Run("wrong answer", func(t *testing.T) {
		fx := newRecoverableFixture(t)

		err := fx.auth.RecoverPassword(ctx, "alice", "red", "newpass")
		requireCode(t, err, "UNAUTHORIZED")
	})

	t.Run("account without recovery answer", func(t *testing.T) {
		fx := newAuthFixture(t)
		fx.addUser(t, domain.User{Username: "alice", Approved: true}, "oldpass")

		err := fx.auth.RecoverPassword(ctx, "alice", "anything", "newpass")
		requireCode(t, err, "UNAUTHORIZED")
	})
}

func TestAuthService_SeedDefaultAdmin(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("seeds into an empty directory", func(t *testing.T) {
		fx := newAuthFixture(t)

		require.NoError(t, fx.auth.SeedDefaultAdmin(ctx, logger))

		admin := fx.users.users["admin"]
		require.True(t, admin.IsSuperAdmin)
		require.True(t, admin.Approved)

		_, _, err := fx.auth.Login(ctx, "admin", "changeme")
		require.NoError(t, err)
	})

	t.Run("does not touch a populated directory", func(t *testing.T) {
		fx := newAuthFixture(t)
		fx.addUser(t, domain.User{Username: "alice", Approved: true}, "pass1")

		require.NoError(t, fx.auth.SeedDefaultAdmin(ctx, logger))
		require.NotContains(t, fx.users.users, "admin")
	})

	t.Run("skipped without a seed password", func(t *testing.T) {
		fx := newAuthFixture(t)
		fx.auth = service.NewAuthService(config.AuthConfig{BcryptCost: bcrypt.MinCost}, fx.users, fx.tokens)

		require.NoError(t, fx.auth.SeedDefaultAdmin(ctx, logger))
		require.Empty(t, fx.users.users)
	})
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, apperrors.ToDomainError(err).Code)
}
