package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/countdown-service/internal/persistence"
	"github.com/spec-kit/countdown-service/internal/service"
)

// StatusHandler responds to liveness and readiness probes. The public status
// probe doubles as the trigger for the opportunistic expiry sweep.
type StatusHandler struct {
	serviceName string
	version     string
	redis       *persistence.Redis
	postgres    *persistence.Postgres
	cleanup     *service.CleanupService
}

// NewStatusHandler returns a new handler instance.
func NewStatusHandler(serviceName, version string, redis *persistence.Redis, postgres *persistence.Postgres, cleanup *service.CleanupService) *StatusHandler {
	return &StatusHandler{serviceName: serviceName, version: version, redis: redis, postgres: postgres, cleanup: cleanup}
}

// Status handles GET /api/status. A KV read failure means the store is down
// and the countdown page should show its offline notice.
func (h *StatusHandler) Status(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	if err := h.redis.Ping(ctx); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error"})
	}

	h.cleanup.MaybeClean(c.Context())

	return c.JSON(fiber.Map{"status": "ok"})
}

// Live reports service liveness.
func (h *StatusHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness by checking dependencies.
func (h *StatusHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	ready := true

	if err := h.redis.Ping(ctx); err != nil {
		depStatus["redis"] = err.Error()
		ready = false
	} else {
		depStatus["redis"] = "ok"
	}

	if err := h.postgres.Ping(ctx); err != nil {
		depStatus["postgres"] = err.Error()
		ready = false
	} else {
		depStatus["postgres"] = "ok"
	}

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"success":      false,
		"error":        "one or more dependencies unavailable",
		"dependencies": depStatus,
	})
}
