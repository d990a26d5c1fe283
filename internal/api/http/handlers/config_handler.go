package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/countdown-service/internal/service"
	apperrors "github.com/spec-kit/countdown-service/pkg/util"
)

// ConfigHandler serves the display configuration the countdown page reads.
// The service stores it alongside the token policy in one document; policy
// keys posted here are ignored in favor of the dedicated token endpoints.
type ConfigHandler struct {
	settings *service.SettingsService
}

// NewConfigHandler constructs handler.
func NewConfigHandler(settings *service.SettingsService) *ConfigHandler {
	return &ConfigHandler{settings: settings}
}

// Get handles GET /api/config (public read).
func (h *ConfigHandler) Get(c *fiber.Ctx) error {
	settings, err := h.settings.Current(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(settings)
}

// Set handles POST /api/config (admin + "basic").
func (h *ConfigHandler) Set(c *fiber.Ctx) error {
	var display map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &display); err != nil {
		return apperrors.NewValidationError("invalid configuration payload", nil)
	}

	if err := h.settings.SetDisplayConfig(c.Context(), display); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
