package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/countdown-service/internal/domain"
	apperrors "github.com/spec-kit/countdown-service/pkg/util"
)

const principalKey = "auth_principal"

// TokenVerifier resolves and revokes bearer token ids.
type TokenVerifier interface {
	Verify(ctx context.Context, id string) (*domain.Token, error)
	Revoke(ctx context.Context, id string) error
	RevokeForUser(ctx context.Context, username string) (int, error)
}

// UserDirectory resolves live user records.
type UserDirectory interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// Principal represents the authenticated caller: the live user record plus
// the token it presented.
type Principal struct {
	User  *domain.User
	Token *domain.Token
}

// Gate validates bearer tokens, re-resolves the live user, and enforces role
// and capability requirements. The token's embedded role snapshot is never
// trusted for authorization: freezing a user or stripping admin rights takes
// effect on their next request even with an unexpired token.
type Gate struct {
	tokens TokenVerifier
	users  UserDirectory
}

// NewGate constructs the gate.
func NewGate(tokens TokenVerifier, users UserDirectory) *Gate {
	return &Gate{tokens: tokens, users: users}
}

// Authenticate resolves the Authorization header against the token store and
// the live user directory. A token whose subject no longer exists, is not
// approved, or is frozen gets revoked on the spot so it cannot keep probing.
func (g *Gate) Authenticate(ctx context.Context, bearerHeader string, requireAdmin bool, requiredCapability string) (*Principal, error) {
	id, ok := extractBearer(bearerHeader)
	if !ok {
		return nil, apperrors.NewUnauthorized("missing authorization header")
	}

	token, err := g.tokens.Verify(ctx, id)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, apperrors.NewUnauthorized("token invalid or expired")
	}

	user, err := g.users.GetByUsername(ctx, token.Username)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}
	if user == nil || !user.Active() {
		_ = g.tokens.Revoke(ctx, id)
		return nil, apperrors.NewUnauthorized("user disabled or removed")
	}

	if requireAdmin && !user.IsAdmin && !user.IsSuperAdmin {
		return nil, apperrors.NewForbidden("admin privileges required")
	}

	if requiredCapability != "" && !user.HasCapability(requiredCapability) {
		return nil, apperrors.NewForbidden("capability not granted")
	}

	return &Principal{User: user, Token: token}, nil
}

// Require returns Fiber middleware enforcing the given constraints and
// storing the principal in request locals.
func (g *Gate) Require(requireAdmin bool, requiredCapability string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := g.Authenticate(c.Context(), c.Get(fiber.HeaderAuthorization), requireAdmin, requiredCapability)
		if err != nil {
			return err
		}
		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// RequireAuth enforces authentication only.
func (g *Gate) RequireAuth() fiber.Handler {
	return g.Require(false, "")
}

// RequireAdmin enforces an admin or super-admin caller with the named
// capability (super-admin bypasses the capability check, plain admin does not).
func (g *Gate) RequireAdmin(capability string) fiber.Handler {
	return g.Require(true, capability)
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// BearerFromHeader extracts the raw token id, for endpoints that act on the
// presented token without full authentication (logout, verify, renew).
func BearerFromHeader(header string) (string, bool) {
	return extractBearer(header)
}

func extractBearer(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
