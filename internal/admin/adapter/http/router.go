package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/lhpaul/finadmin/internal/admin/domain/model"
)

// Handlers bundles every route group the server mounts.
type Handlers struct {
	Auth          *AuthHandler
	Companies     *CompanyHandler
	Transactions  *TransactionHandler
	Subscriptions *SubscriptionHandler
	Institutions  *InstitutionHandler
	Sync          *SyncHandler
	Middleware    *AuthMiddleware
}

// NewApp builds the fiber application: recover + cors + request ids, a
// public health endpoint and auth routes, and the JWT-protected API under
// /api/v1.
func NewApp(h Handlers) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "finadmin",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	})

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(RequestID())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")
	h.Auth.RegisterRoutes(v1)

	protected := v1.Group("", h.Middleware.Protect())
	h.Companies.RegisterRoutes(protected)
	h.Transactions.RegisterRoutes(protected)
	h.Subscriptions.RegisterRoutes(protected)
	h.Institutions.RegisterRoutes(protected)

	// Reconciliation rewrites stored data, so it is admin-only.
	admin := protected.Group("", h.Middleware.RequireRole(model.UserRoleAdmin))
	h.Sync.RegisterRoutes(admin)

	return app
}
