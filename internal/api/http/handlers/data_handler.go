package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/countdown-service/internal/service"
)

// DataHandler serves the export and factory-reset operations, both gated
// admin + "data".
type DataHandler struct {
	admin *service.AdminService
}

// NewDataHandler constructs handler.
func NewDataHandler(admin *service.AdminService) *DataHandler {
	return &DataHandler{admin: admin}
}

// Export handles GET /api/export.
func (h *DataHandler) Export(c *fiber.Ctx) error {
	snapshot, err := h.admin.Export(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(snapshot)
}

// Reset handles POST /api/reset.
func (h *DataHandler) Reset(c *fiber.Ctx) error {
	if err := h.admin.Reset(c.Context()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
