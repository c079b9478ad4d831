package http

import (
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Tiendas-api/pkg/logger"
)

// ServerConfig opciones de la aplicación Fiber.
type ServerConfig struct {
	AppName     string
	CORSOrigins string
	// RateLimitMax peticiones por cliente y ventana; 0 desactiva el limitador.
	RateLimitMax    int
	RateLimitWindow time.Duration
	// RateLimitStorage compartido entre réplicas (Redis); nil = memoria del proceso.
	RateLimitStorage fiber.Storage
	// DocsFile swagger.json servido en /docs; vacío = sin documentación.
	DocsFile string
}

// NewApp arma la aplicación completa: middleware transversal, /health, /metrics, /docs y /api.
func NewApp(cfg ServerConfig, deps RouterDeps, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: ErrorHandler(log),
	})

	app.Use(metrics.Middleware())
	app.Use(RequestLogger(log))
	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	if cfg.RateLimitMax > 0 {
		app.Use(limiter.New(limiter.Config{
			Next: func(c *fiber.Ctx) bool {
				return c.Path() == "/health" || c.Path() == "/metrics"
			},
			Max:        cfg.RateLimitMax,
			Expiration: cfg.RateLimitWindow,
			Storage:    cfg.RateLimitStorage,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMITED", Message: "demasiadas peticiones, intente más tarde"})
			},
		}))
	}

	if cfg.DocsFile != "" {
		// Swagger UI: http://localhost:<port>/docs
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.DocsFile,
			Path:     "docs",
			Title:    "Tiendas API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.AppName})
	})
	app.Get("/metrics", metrics.Handler())

	Router(app, deps)
	return app
}

// corsConfig con credenciales solo si hay orígenes explícitos; Fiber rechaza "*" con credenciales.
func corsConfig(origins string) cors.Config {
	if origins == "" {
		origins = "*"
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowCredentials: origins != "*",
	}
}
