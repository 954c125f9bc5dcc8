package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hr-client/internal/api/http/handlers"
	"github.com/spec-kit/hr-client/internal/auth"
	"github.com/spec-kit/hr-client/internal/domain"
	"github.com/spec-kit/hr-client/internal/guard"
	"github.com/spec-kit/hr-client/internal/navigation"
	"github.com/spec-kit/hr-client/internal/observability"
)

// ShellRouteConfig bundles dependencies for the client shell routes.
type ShellRouteConfig struct {
	Health    *handlers.HealthHandler
	Shell     *handlers.ShellHandler
	AuthGuard *guard.AuthGuard
	RoleGuard *guard.RoleGuard
	Metrics   *observability.Metrics
	Routes    []guard.Route
	// DataPaths maps a page path to the API path whose body it embeds.
	DataPaths map[string]string
}

// DefaultDataPaths are the pages backed by an API listing.
func DefaultDataPaths() map[string]string {
	return map[string]string{
		navigation.EmployeesPath:   "/employees",
		navigation.DepartmentsPath: "/departments",
	}
}

// RegisterShellRoutes wires the client shell. Every protected page passes
// through the auth and role guards before its handler runs.
func RegisterShellRoutes(app *fiber.App, cfg ShellRouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics.Handler())
	}

	app.Get(navigation.LoginPath, cfg.Shell.LoginPage)
	app.Post(navigation.LoginPath, cfg.Shell.Login)
	app.Post(navigation.LogoutPath, cfg.Shell.Logout)
	app.Get(navigation.AccessDeniedPath, cfg.Shell.AccessDenied)
	app.Get(navigation.NotFoundPath, cfg.Shell.NotFound)
	app.Get("/session", cfg.Shell.Session)

	routes := cfg.Routes
	if routes == nil {
		routes = guard.ProtectedRoutes()
	}
	for _, route := range routes {
		handler := cfg.Shell.Page(route, cfg.DataPaths[route.Path])
		if route.Path == navigation.DashboardPath {
			handler = cfg.Shell.Dashboard
		}
		app.Get(route.Path, guardMiddleware(route, cfg.AuthGuard, cfg.RoleGuard), handler)
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect(navigation.DashboardPath, fiber.StatusSeeOther)
	})
	app.Use(cfg.Shell.Fallback)
}

// DevAPIRouteConfig bundles dependencies for the dev API routes.
type DevAPIRouteConfig struct {
	Health     *handlers.HealthHandler
	Auth       *handlers.AuthHandler
	Directory  *handlers.DirectoryHandler
	Bearer     *auth.BearerMiddleware
	Metrics    *observability.Metrics
	PathPrefix string
	// LoginPerMinute caps login attempts per client IP; zero disables it.
	LoginPerMinute int
}

// RegisterDevAPIRoutes wires the dev API under its path prefix.
func RegisterDevAPIRoutes(app *fiber.App, cfg DevAPIRouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics.Handler())
	}

	api := app.Group(cfg.PathPrefix)
	api.Post("/auth/login", LoginRateLimit(cfg.LoginPerMinute), cfg.Auth.Login)

	protected := api.Group("", cfg.Bearer.Handle)
	protected.Get("/auth/me", cfg.Auth.Me)
	protected.Get("/employees", cfg.Directory.Employees)
	protected.Get("/departments", auth.RequireRoles(domain.RoleAdmin, domain.RoleManager), cfg.Directory.Departments)
}
