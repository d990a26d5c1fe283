package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/countdown-service/internal/api/dto"
	"github.com/spec-kit/countdown-service/internal/auth"
	"github.com/spec-kit/countdown-service/internal/service"
	apperrors "github.com/spec-kit/countdown-service/pkg/util"
)

// UsersHandler exposes administrative user management. Routes are gated with
// admin + "users" capability by the router.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// List handles GET /api/users, credential material stripped.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.Context())
	if err != nil {
		return err
	}

	safe := make([]service.SafeUser, 0, len(users))
	for _, user := range users {
		safe = append(safe, service.NewSafeUser(user))
	}
	return c.JSON(safe)
}

// Permissions handles GET /api/admin-permissions.
func (h *UsersHandler) Permissions(c *fiber.Ctx) error {
	users, err := h.users.List(c.Context())
	if err != nil {
		return err
	}

	rows := make([]dto.UserPermissions, 0, len(users))
	for _, user := range users {
		rows = append(rows, dto.UserPermissions{
			Username:     user.Username,
			IsAdmin:      user.IsAdmin,
			IsSuperAdmin: user.IsSuperAdmin,
			Capabilities: user.Capabilities,
		})
	}
	return c.JSON(rows)
}

// Create handles POST /api/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	err := h.users.Create(c.Context(), service.CreateInput{
		Username:         req.Username,
		Password:         req.Password,
		Email:            req.Email,
		Approved:         req.Approved,
		IsAdmin:          req.IsAdmin,
		Capabilities:     req.Capabilities,
		SecurityQuestion: req.SecurityQuestion,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true})
}

// Update handles PUT /api/users/:username.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	err := h.users.Update(c.Context(), c.Params("username"), service.UpdateInput{
		Email:        req.Email,
		Approved:     req.Approved,
		Frozen:       req.Frozen,
		IsAdmin:      req.IsAdmin,
		Capabilities: req.Capabilities,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// Delete handles DELETE /api/users/:username.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	if err := h.users.Delete(c.Context(), principal.User, c.Params("username")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
