package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/flowr-io/workflow-service/internal/api/http/handlers"
	"github.com/flowr-io/workflow-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Users     *handlers.UsersHandler
	Admin     *handlers.AdminHandler
	Templates *handlers.TemplatesHandler
	Workflows *handlers.WorkflowsHandler
	Resolver  *auth.Resolver
	Policy    *auth.Policy
}

// RegisterRoutes wires the identity resolver, the authorization policy and
// the HTTP routes. The resolver runs on every request and never rejects; the
// policy is the single enforcement point in front of the handlers.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Resolver.Handle)
	app.Use(cfg.Policy.Enforce())

	api := app.Group("/api/v1")

	api.Get("/health", cfg.Health.Live)
	api.Get("/health/live", cfg.Health.Live)
	api.Get("/health/ready", cfg.Health.Ready)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/verify-email", cfg.Auth.VerifyEmail)
	authGroup.Post("/forgot-password", cfg.Auth.ForgotPassword)
	authGroup.Post("/reset-password", cfg.Auth.ResetPassword)
	authGroup.Post("/resend-verification", cfg.Auth.ResendVerification)
	authGroup.Get("/accept-invite", cfg.Auth.AcceptInvite)

	users := api.Group("/users")
	users.Get("/me", cfg.Users.Me)
	users.Put("/me", cfg.Users.UpdateMe)
	users.Post("/change-password", cfg.Users.ChangePassword)

	workflows := api.Group("/workflows")

	// Template routes are registered before the parameterized workflow
	// routes so /workflows/templates never matches /workflows/:id.
	templates := workflows.Group("/templates")
	templates.Post("/", cfg.Templates.Create)
	templates.Get("/", cfg.Templates.List)
	templates.Get("/:id", cfg.Templates.Get)
	templates.Put("/:id", cfg.Templates.Update)
	templates.Delete("/:id", cfg.Templates.Delete)

	workflows.Post("/actions/:id/complete", cfg.Workflows.CompleteAction)
	workflows.Post("/", cfg.Workflows.Initiate)
	workflows.Get("/", cfg.Workflows.ListMine)
	workflows.Get("/:id", cfg.Workflows.Details)

	admin := api.Group("/admin")
	admin.Get("/workflows", cfg.Admin.ListWorkflows)
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Put("/users/assign-role", cfg.Admin.AssignRole)
	admin.Post("/users/invite", cfg.Admin.Invite)
}
