package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/countdown-service/internal/api/dto"
	"github.com/spec-kit/countdown-service/internal/service"
	apperrors "github.com/spec-kit/countdown-service/pkg/util"
)

// FeedbackHandler serves visitor feedback: public submission, gated reads.
type FeedbackHandler struct {
	feedback *service.FeedbackService
}

// NewFeedbackHandler constructs handler.
func NewFeedbackHandler(feedback *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

// List handles GET /api/feedback (admin + "feedback").
func (h *FeedbackHandler) List(c *fiber.Ctx) error {
	entries, err := h.feedback.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(entries)
}

// Submit handles POST /api/feedback (public).
func (h *FeedbackHandler) Submit(c *fiber.Ctx) error {
	var req dto.FeedbackSubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.feedback.Submit(c.Context(), req.Content, req.Contact, req.Username); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// Delete handles DELETE /api/feedback/:id (admin + "feedback").
func (h *FeedbackHandler) Delete(c *fiber.Ctx) error {
	if err := h.feedback.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
