package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/countdown-service/internal/domain"
	"github.com/spec-kit/countdown-service/internal/persistence"
	"github.com/spec-kit/countdown-service/internal/repository"
	"github.com/spec-kit/countdown-service/internal/service"
)

type userFixture struct {
	users    *fakeUserRepository
	tokens   *service.TokenService
	userSvc  *service.UserService
	settings *service.SettingsService
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()

	kv := persistence.NewMemoryKV()
	fx := &userFixture{users: newFakeUserRepository()}
	fx.settings = service.NewSettingsService(repository.NewSettingsRepository(kv))
	fx.tokens = service.NewTokenService(repository.NewTokenRepository(kv), fx.settings, nil)
	fx.userSvc = service.NewUserService(fx.users, fx.tokens, nil, bcrypt.MinCost)
	return fx
}

func boolPtr(v bool) *bool { return &v }

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates with given flags", func(t *testing.T) {
		fx := newUserFixture(t)

		err := fx.userSvc.Create(ctx, service.CreateInput{
			Username: "mod",
			Password: "secret",
			Approved: true,
			IsAdmin:  true,
			Capabilities: map[string]bool{
				domain.CapabilityUsers: true,
			},
		})
		require.NoError(t, err)

		user := fx.users.users["mod"]
		require.True(t, user.Approved)
		require.True(t, user.IsAdmin)
		require.True(t, user.Capabilities[domain.CapabilityUsers])
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		fx := newUserFixture(t)
		fx.users.users["mod"] = domain.User{Username: "mod"}

		err := fx.userSvc.Create(ctx, service.CreateInput{Username: "mod", Password: "secret"})
		requireCode(t, err, "CONFLICT")
	})
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown user", func(t *testing.T) {
		fx := newUserFixture(t)

		err := fx.userSvc.Update(ctx, "ghost", service.UpdateInput{Approved: boolPtr(true)})
		requireCode(t, err, "NOT_FOUND")
	})

	t.Run("freezing revokes tokens", func(t *testing.T) {
		fx := newUserFixture(t)
		fx.users.users["alice"] = domain.User{Username: "alice", Approved: true}
		token, err := fx.tokens.Issue(ctx, fx.users.users["alice"])
		require.NoError(t, err)

		require.NoError(t, fx.userSvc.Update(ctx, "alice", service.UpdateInput{Frozen: boolPtr(true)}))

		require.True(t, fx.users.users["alice"].Frozen)
		verified, err := fx.tokens.Verify(ctx, token.ID)
		require.NoError(t, err)
		require.Nil(t, verified)
	})

	t.Run("cannot freeze a super admin", func(t *testing.T) {
		fx := newUserFixture(t)
		fx.users.users["owner"] = domain.User{Username: "owner", Approved: true, IsSuperAdmin: true}

		err := fx.userSvc.Update(ctx, "owner", service.UpdateInput{Frozen: boolPtr(true)})
		requireCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("super admin keeps admin bit", func(t *testing.T) {
		fx := newUserFixture(t)
		fx.users.users["owner"] = domain.User{Username: "owner", Approved: true, IsAdmin: true, IsSuperAdmin: true}

		require.NoError(t, fx.userSvc.Update(ctx, "owner", service.UpdateInput{IsAdmin: boolPtr(false)}))
		require.True(t, fx.users.users["owner"].IsAdmin)
	})
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()
	caller := &domain.User{Username: "root", IsAdmin: true}

	t.Run("removes the account and its tokens", func(t *testing.T) {
		fx := newUserFixture(t)
		fx.users.users["alice"] = domain.User{Username: "alice", Approved: true}
		token, err := fx.tokens.Issue(ctx, fx.users.users["alice"])
		require.NoError(t, err)

		require.NoError(t, fx.userSvc.Delete(ctx, caller, "alice"))

		require.NotContains(t, fx.users.users, "alice")
		verified, err := fx.tokens.Verify(ctx, token.ID)
		require.NoError(t, err)
		require.Nil(t, verified)
	})

	t.Run("refuses self deletion", func(t *testing.T) {
		fx := newUserFixture(t)
		fx.users.users["root"] = domain.User{Username: "root", IsAdmin: true}

		err := fx.userSvc.Delete(ctx, caller, "root")
		requireCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("refuses super admin deletion", func(t *testing.T) {
		fx := newUserFixture(t)
		fx.users.users["owner"] = domain.User{Username: "owner", IsSuperAdmin: true}

		err := fx.userSvc.Delete(ctx, caller, "owner")
		requireCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("unknown user", func(t *testing.T) {
		fx := newUserFixture(t)

		err := fx.userSvc.Delete(ctx, caller, "ghost")
		requireCode(t, err, "NOT_FOUND")
	})
}
