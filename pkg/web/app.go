package web

import (
	"github.com/dukex/iterable-cog/pkg/cog"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// NewApp builds the HTTP facade of the cog.
func NewApp(c *cog.Cog) *fiber.App {
	handlers := NewAPIHandlers(c, validator.New(validator.WithRequiredStructEnabled()))

	app := fiber.New()
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/manifest", handlers.GetManifest)
	app.Post("/steps/run", handlers.RunStep)

	return app
}
