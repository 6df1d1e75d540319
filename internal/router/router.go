package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/aulaforge/aulaforge-api/internal/config"
	"github.com/aulaforge/aulaforge-api/internal/handler"
	"github.com/aulaforge/aulaforge-api/internal/middleware"
	"github.com/aulaforge/aulaforge-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	GenerationHandler *handler.GenerationHandler
	SubmissionHandler *handler.SubmissionHandler
	GradingHandler    *handler.GradingHandler
	SummaryHandler    *handler.SummaryHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.GenerationHandler != nil {
		generate := api.Group("/generate", jwtMiddleware, middleware.RateLimit("generate", 5, time.Minute))
		deps.GenerationHandler.Register(generate)
	}

	if deps.SubmissionHandler != nil {
		submissions := api.Group("/submissions", jwtMiddleware)
		deps.SubmissionHandler.Register(submissions)

		if deps.GradingHandler != nil {
			deps.GradingHandler.Register(submissions, middleware.RateLimit("suggestions", 10, time.Minute))
		}
	}

	if deps.SummaryHandler != nil {
		students := api.Group("/students", jwtMiddleware)
		deps.SummaryHandler.Register(students)
	}
}
