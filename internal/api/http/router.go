package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/countdown-service/internal/api/http/handlers"
	"github.com/spec-kit/countdown-service/internal/auth"
	"github.com/spec-kit/countdown-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Status   *handlers.StatusHandler
	Auth     *handlers.AuthHandler
	Tokens   *handlers.TokensHandler
	Config   *handlers.ConfigHandler
	Users    *handlers.UsersHandler
	Feedback *handlers.FeedbackHandler
	Visits   *handlers.VisitsHandler
	Data     *handlers.DataHandler
	Gate     *auth.Gate
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Status.Live)
	app.Get("/health/ready", cfg.Status.Ready)

	api := app.Group("/api")

	// Public surface used by the countdown page.
	api.Get("/status", cfg.Status.Status)
	api.Get("/config", cfg.Config.Get)
	api.Post("/login", cfg.Auth.Login)
	api.Post("/logout", cfg.Auth.Logout)
	api.Get("/verify-token", cfg.Auth.VerifyToken)
	api.Post("/renew-token", cfg.Auth.RenewToken)
	api.Post("/register", cfg.Auth.Register)
	api.Get("/recover-password/:username", cfg.Auth.SecurityQuestion)
	api.Post("/recover-password", cfg.Auth.RecoverPassword)
	api.Post("/feedback", cfg.Feedback.Submit)
	api.Post("/visits", cfg.Visits.Record)

	// Authenticated self-service.
	api.Post("/change-password", cfg.Gate.RequireAuth(), cfg.Auth.ChangePassword)

	// Administrative surface, capability-gated per route group.
	api.Post("/config", cfg.Gate.RequireAdmin(domain.CapabilityBasic), cfg.Config.Set)

	tokens := api.Group("/tokens", cfg.Gate.RequireAdmin(domain.CapabilityData))
	tokens.Get("/", cfg.Tokens.Overview)
	tokens.Delete("/", cfg.Tokens.Cleanup)
	tokens.Post("/expiration", cfg.Tokens.SetExpiration)
	tokens.Post("/", cfg.Tokens.SetAutoClean)

	users := api.Group("/users", cfg.Gate.RequireAdmin(domain.CapabilityUsers))
	users.Get("/", cfg.Users.List)
	users.Post("/", cfg.Users.Create)
	users.Put("/:username", cfg.Users.Update)
	users.Delete("/:username", cfg.Users.Delete)
	api.Get("/admin-permissions", cfg.Gate.RequireAdmin(domain.CapabilityUsers), cfg.Users.Permissions)

	api.Get("/feedback", cfg.Gate.RequireAdmin(domain.CapabilityFeedback), cfg.Feedback.List)
	api.Delete("/feedback/:id", cfg.Gate.RequireAdmin(domain.CapabilityFeedback), cfg.Feedback.Delete)

	api.Get("/visits", cfg.Gate.RequireAdmin(domain.CapabilityVisits), cfg.Visits.Report)
	api.Delete("/visits", cfg.Gate.RequireAdmin(domain.CapabilityVisits), cfg.Visits.Clear)

	api.Get("/export", cfg.Gate.RequireAdmin(domain.CapabilityData), cfg.Data.Export)
	api.Post("/reset", cfg.Gate.RequireAdmin(domain.CapabilityData), cfg.Data.Reset)
}
