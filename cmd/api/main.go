package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tiendas-api/internal/application/ports"
	"github.com/jhoicas/Tiendas-api/internal/bootstrap"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/events"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Tiendas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/redisstore"
	httpRouter "github.com/jhoicas/Tiendas-api/internal/interfaces/http"
	"github.com/jhoicas/Tiendas-api/pkg/config"
	"github.com/jhoicas/Tiendas-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// run devuelve el error en lugar de salir: los defer (pool, Redis, Kafka) se ejecutan antes del Fatal
	if err := run(cfg, log, quit); err != nil {
		log.Fatal().Err(err).Msg("la aplicación terminó con error")
	}
	log.Info().Msg("aplicación detenida")
}

func run(cfg *config.Config, log *logger.Logger, quit <-chan os.Signal) error {
	ctx := context.Background()

	var storage bootstrap.Storage
	switch cfg.Storage.Driver {
	case "memory":
		storage = bootstrap.MemoryStorage(memory.NewStore())
		// sin base de datos no hay cmd/seed: el superadmin se crea al arrancar
		if cfg.Seed.SuperadminPassword != "" {
			if _, err := bootstrap.SeedSuperadmin(ctx, storage.Users, cfg.Seed.SuperadminEmail, cfg.Seed.SuperadminPassword, cfg.Seed.SuperadminName); err != nil {
				return fmt.Errorf("seed del superadmin en memoria: %w", err)
			}
		} else {
			log.Warn().Msg("SEED_SUPERADMIN_PASSWORD vacío: no habrá superadmin para aprobar tiendas")
		}
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
			return fmt.Errorf("migraciones: %w", err)
		}
		storage = bootstrap.PostgresStorage(pool)
	}

	// Eventos de dominio: Kafka si hay brokers, si no solo log.
	var publisher ports.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPub := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log.Component("events"))
		defer func() {
			if err := kafkaPub.Close(); err != nil {
				log.Error().Err(err).Msg("cerrar publicador Kafka")
			}
		}()
		publisher = kafkaPub
	} else {
		publisher = events.NewLogPublisher(log.Component("events"))
	}
	publisher = metrics.NewCountingPublisher(publisher)

	// Limitador compartido entre réplicas cuando hay Redis.
	var limiterStorage fiber.Storage
	if cfg.Redis.Addr != "" {
		rs, err := redisstore.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, "tiendas:ratelimit:")
		if err != nil {
			return fmt.Errorf("conexión a Redis: %w", err)
		}
		defer rs.Close()
		limiterStorage = rs
	}

	deps := bootstrap.RouterDeps(storage, publisher, infrapdf.NewMarotoPDFGenerator(), cfg)
	app := httpRouter.NewApp(httpRouter.ServerConfig{
		AppName:          cfg.App.Name,
		CORSOrigins:      cfg.HTTP.CORSOrigins,
		RateLimitMax:     cfg.RateLimit.Max,
		RateLimitWindow:  time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute,
		RateLimitStorage: limiterStorage,
		DocsFile:         "./docs/swagger.json",
	}, deps, log.Component("http"))

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	return nil
}
