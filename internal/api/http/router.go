package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/directory-client/internal/api/http/handlers"
	"github.com/spec-kit/directory-client/internal/auth"
	"github.com/spec-kit/directory-client/internal/domain"
	"github.com/spec-kit/directory-client/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Session   *handlers.SessionHandler
	Directory *handlers.DirectoryHandler
	Account   *handlers.AccountHandler
	Admin     *handlers.AdminHandler
	Sessions  auth.SessionSource
}

// NewApp builds the console app with middlewares and routes.
func NewApp(logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration, routes RouteConfig) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	RegisterMiddlewares(app, logger, metrics, timeout)
	RegisterRoutes(app, routes)
	return app
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	app.Use(auth.SessionMiddleware(cfg.Sessions))

	sessionGroup := app.Group("/session")
	sessionGroup.Get("", cfg.Session.Get)
	sessionGroup.Post("/login", cfg.Session.Login)
	sessionGroup.Post("/token", cfg.Session.LoginWithToken)
	sessionGroup.Delete("", cfg.Session.Logout)

	directory := app.Group("/directory")
	directory.Get("/advertisers", cfg.Directory.Search)
	directory.Get("/advertisers/:id", cfg.Directory.Show)
	directory.Get("/top", cfg.Directory.Top)

	me := app.Group("/me", auth.RequireAuthenticated())
	me.Get("/favorites", auth.RequireRole(domain.RoleConsumer), cfg.Account.Favorites)

	app.Get("/advertiser/subscription", auth.RequireAuthenticated(), auth.RequireRole(domain.RoleAdvertiser), cfg.Account.Subscription)

	admin := app.Group("/admin", auth.RequireAuthenticated(), auth.RequireRole(domain.RoleAdmin))
	admin.Get("/stats", cfg.Admin.Stats)
	admin.Get("/pricing", cfg.Admin.Pricing)
	admin.Post("/pricing", cfg.Admin.UpdatePricing)
}
