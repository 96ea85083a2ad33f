package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/mathieu-neron/cineflix-go/internal/handler"
	"github.com/mathieu-neron/cineflix-go/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Health   *handler.HealthHandler
	Video    *handler.VideoHandler
	User     *handler.UserHandler
	Settings *handler.SettingsHandler
	Stats    *handler.StatsHandler
}

// Setup configures the middleware stack and all routes on the given Fiber app.
// rateLimit guards the /api group; nil disables it.
func Setup(app *fiber.App, h *Handlers, corsOrigins string, rateLimit fiber.Handler) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(handler.MetricsMiddleware())
	app.Use(middleware.NewCORS(corsOrigins))

	// Probes and metrics stay outside the rate limit.
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	api := app.Group("/api")
	if rateLimit != nil {
		api.Use(rateLimit)
	}

	// Stats
	api.Get("/stats", h.Stats.GetStats)

	// Videos: fixed paths before :videoId
	api.Get("/videos", h.Video.List)
	api.Get("/videos/search", h.Video.Search)
	api.Get("/videos/popular", h.Video.Popular)
	api.Get("/videos/sheet", h.Video.Sheet)
	api.Get("/videos/:videoId", h.Video.Get)
	api.Post("/videos", h.Video.Ingest)
	api.Put("/videos/:videoId", h.Video.Update)
	api.Delete("/videos/:videoId", h.Video.Delete)
	api.Post("/videos/:videoId/deliver", h.Video.Deliver)

	// Users
	api.Get("/users", h.User.List)
	api.Get("/users/:userId", h.User.Get)
	api.Post("/users/:userId/contact", h.User.Contact)
	api.Put("/users/:userId/ban", h.User.Ban)

	// Settings
	api.Get("/settings", h.Settings.Get)
	api.Put("/settings", h.Settings.Set)
}
