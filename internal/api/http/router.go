package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/civnet/issue-service/internal/api/http/handlers"
	"github.com/civnet/issue-service/internal/auth"
	"github.com/civnet/issue-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Issues         *handlers.IssuesHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.Middleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes. Role gating happens inside the services
// through the policy table; RequireAction on a route is an early reject for
// endpoints whose action needs no resource context.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))

	authGroup := app.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)

	issues := app.Group("/issues", cfg.AuthMiddleware.Handle)
	issues.Get("/stats", auth.RequireAction(auth.ActionReadAllIssues), cfg.Issues.Stats)
	issues.Post("", auth.RequireAction(auth.ActionCreateIssue), cfg.Issues.Create)
	issues.Get("", cfg.Issues.List)
	issues.Get("/:id", cfg.Issues.Get)
	issues.Put("/:id/status", auth.RequireAction(auth.ActionTransitionIssue), cfg.Issues.UpdateStatus)
	issues.Post("/:id/comments", auth.RequireAction(auth.ActionPostComment), cfg.Issues.AddComment)
	issues.Get("/:id/comments", cfg.Issues.ListComments)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle)
	admin.Get("/users", auth.RequireAction(auth.ActionViewAdminRoster), cfg.Admin.Roster)
	admin.Post("/users", auth.RequireAction(auth.ActionManageAdmins), cfg.Admin.Create)
	admin.Put("/users/:id/demote", auth.RequireAction(auth.ActionManageAdmins), cfg.Admin.Demote)
}
