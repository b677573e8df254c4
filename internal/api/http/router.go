package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/facilityops/resolution-service/internal/api/http/handlers"
	"github.com/facilityops/resolution-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	Resolvers      *handlers.ResolversHandler
	Ops            *handlers.OpsHandler
	AuthMiddleware *auth.AuthMiddleware
	OpsKeyHash     string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authed := app.Group("", cfg.AuthMiddleware.Handle)

	tickets := authed.Group("/tickets")
	tickets.Post("", cfg.Tickets.Create)
	tickets.Get("", cfg.Tickets.List)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Post("/:id/assign", cfg.Tickets.Assign)
	tickets.Post("/:id/accept", cfg.Tickets.Accept)
	tickets.Post("/:id/override", cfg.Tickets.Override)
	tickets.Post("/:id/sla/pause", cfg.Tickets.PauseSLA)
	tickets.Post("/:id/sla/resume", cfg.Tickets.ResumeSLA)
	tickets.Patch("/:id/status", cfg.Tickets.UpdateStatus)
	tickets.Post("/:id/rating", cfg.Tickets.Rate)
	tickets.Post("/:id/close", cfg.Tickets.Close)
	tickets.Post("/:id/photos", cfg.Tickets.AttachPhotos)
	tickets.Post("/:id/reclassify", auth.RequireOpsKey(cfg.OpsKeyHash), cfg.Tickets.Reclassify)

	resolvers := authed.Group("/resolvers")
	resolvers.Post("/check-in", cfg.Resolvers.CheckIn)
	resolvers.Post("/check-out", cfg.Resolvers.CheckOut)
	authed.Get("/properties/:id/resolvers", cfg.Resolvers.ListRanked)

	ops := authed.Group("/ops", auth.RequireOpsKey(cfg.OpsKeyHash))
	ops.Get("/metrics", cfg.Ops.Metrics)
}
