package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/countdown-service/internal/service"
)

// VisitsHandler records page views and serves the aggregated report.
type VisitsHandler struct {
	visits *service.VisitService
}

// NewVisitsHandler constructs handler.
func NewVisitsHandler(visits *service.VisitService) *VisitsHandler {
	return &VisitsHandler{visits: visits}
}

// Report handles GET /api/visits (admin + "visits").
func (h *VisitsHandler) Report(c *fiber.Ctx) error {
	summaries, total, err := h.visits.Report(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"visits":      summaries,
		"totalVisits": total,
	})
}

// Record handles POST /api/visits (public).
func (h *VisitsHandler) Record(c *fiber.Ctx) error {
	ip := c.Get("X-Forwarded-For")
	if ip == "" {
		ip = c.IP()
	}
	if err := h.visits.Record(c.Context(), ip, c.Get(fiber.HeaderUserAgent)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// Clear handles DELETE /api/visits (admin + "visits").
func (h *VisitsHandler) Clear(c *fiber.Ctx) error {
	if err := h.visits.Clear(c.Context()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
