package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/countdown-service/internal/api/dto"
	"github.com/spec-kit/countdown-service/internal/service"
	apperrors "github.com/spec-kit/countdown-service/pkg/util"
)

// TokensHandler exposes the administrative token operations: statistics,
// bulk cleanup and policy tuning. Every route is admin + "data" gated.
type TokensHandler struct {
	tokens   *service.TokenService
	settings *service.SettingsService
}

// NewTokensHandler constructs handler.
func NewTokensHandler(tokens *service.TokenService, settings *service.SettingsService) *TokensHandler {
	return &TokensHandler{tokens: tokens, settings: settings}
}

// Overview handles GET /api/tokens.
func (h *TokensHandler) Overview(c *fiber.Ctx) error {
	stats, err := h.tokens.Stats(c.Context())
	if err != nil {
		return err
	}
	autoClean, err := h.settings.AutoCleanDays(c.Context())
	if err != nil {
		return err
	}
	expiration, err := h.settings.ExpirationDays(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(dto.TokenOverviewResponse{
		Stats:               stats,
		AutoCleanInterval:   autoClean,
		TokenExpirationDays: expiration,
	})
}

// Cleanup handles DELETE /api/tokens?action=clean-expired|clean-all.
// Both actions are idempotent and always report a count, including zero.
func (h *TokensHandler) Cleanup(c *fiber.Ctx) error {
	switch c.Query("action") {
	case "clean-expired":
		cleaned, err := h.tokens.CleanExpired(c.Context())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"success":      true,
			"message":      fmt.Sprintf("removed %d expired tokens", cleaned),
			"cleanedCount": cleaned,
		})
	case "clean-all":
		if err := h.tokens.RevokeAll(c.Context()); err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": "all tokens revoked",
		})
	default:
		return apperrors.NewValidationError("unknown cleanup action", map[string]any{"action": c.Query("action")})
	}
}

// SetExpiration handles POST /api/tokens/expiration. The new window applies
// to tokens issued afterwards; existing tokens keep their expiry.
func (h *TokensHandler) SetExpiration(c *fiber.Ctx) error {
	var req dto.SetExpirationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.settings.SetExpirationDays(c.Context(), req.ExpirationDays); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("token expiration set to %d days", req.ExpirationDays),
	})
}

// SetAutoClean handles POST /api/tokens (auto-clean interval body).
func (h *TokensHandler) SetAutoClean(c *fiber.Ctx) error {
	var req dto.SetAutoCleanRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.settings.SetAutoCleanDays(c.Context(), req.AutoCleanDays); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("auto-clean interval set to %d days", req.AutoCleanDays),
	})
}
