package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/countdown-service/internal/api/dto"
	"github.com/spec-kit/countdown-service/internal/auth"
	"github.com/spec-kit/countdown-service/internal/service"
	apperrors "github.com/spec-kit/countdown-service/pkg/util"
)

// AuthHandler exposes login, logout and token self-service endpoints.
type AuthHandler struct {
	auth   *service.AuthService
	tokens *service.TokenService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, tokens *service.TokenService) *AuthHandler {
	return &AuthHandler{auth: authService, tokens: tokens}
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	user, token, err := h.auth.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.LoginResponse{
		Valid:        true,
		Token:        token.ID,
		ExpiresAt:    token.ExpiresAt,
		IsAdmin:      user.IsAdmin,
		IsSuperAdmin: user.IsSuperAdmin,
		Capabilities: user.Capabilities,
		User:         service.NewSafeUser(*user),
	})
}

// Logout handles POST /api/logout. Always succeeds; revoking an unknown or
// absent token is a no-op.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if id, ok := auth.BearerFromHeader(c.Get(fiber.HeaderAuthorization)); ok {
		if err := h.auth.Logout(c.Context(), id); err != nil {
			return err
		}
	}
	return c.JSON(fiber.Map{"success": true})
}

// VerifyToken handles GET /api/verify-token, reporting validity and the
// renewal hint without touching the user directory.
func (h *AuthHandler) VerifyToken(c *fiber.Ctx) error {
	id, ok := auth.BearerFromHeader(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(dto.VerifyTokenResponse{Reason: service.ReasonNoToken})
	}

	status, err := h.tokens.Status(c.Context(), id)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(dto.VerifyTokenResponse{Reason: service.ReasonError})
	}
	if !status.Valid {
		return c.Status(http.StatusUnauthorized).JSON(dto.VerifyTokenResponse{Reason: status.Reason})
	}

	return c.JSON(dto.VerifyTokenResponse{
		Valid:           true,
		ExpiresSoon:     status.ExpiresSoon,
		CanRenew:        true,
		ExpiresAt:       status.Token.ExpiresAt,
		TimeUntilExpiry: status.TimeUntilExpiry.Milliseconds(),
	})
}

// RenewToken handles POST /api/renew-token. Renewal rotates the id; the
// response carries the replacement credential the client must adopt.
func (h *AuthHandler) RenewToken(c *fiber.Ctx) error {
	id, ok := auth.BearerFromHeader(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	renewed, err := h.tokens.Renew(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(dto.RenewTokenResponse{
		Success:   true,
		Token:     renewed.ID,
		ExpiresAt: renewed.ExpiresAt,
	})
}

// Register handles POST /api/register; new accounts await approval.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.auth.Register(c.Context(), req.Username, req.Password, req.Email, req.SecurityQuestion, req.SecurityAnswer); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true})
}

// ChangePassword handles POST /api/change-password (authenticated).
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" {
		req.Username = principal.User.Username
	}

	if err := h.auth.ChangePassword(c.Context(), principal.User, req.Username, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// SecurityQuestion handles GET /api/recover-password/:username.
func (h *AuthHandler) SecurityQuestion(c *fiber.Ctx) error {
	question, err := h.auth.SecurityQuestion(c.Context(), c.Params("username"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"securityQuestion": question})
}

// RecoverPassword handles POST /api/recover-password.
func (h *AuthHandler) RecoverPassword(c *fiber.Ctx) error {
	var req dto.RecoverPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.auth.RecoverPassword(c.Context(), req.Username, req.SecurityAnswer, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
