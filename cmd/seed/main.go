// seed crea la cuenta superadmin inicial en PostgreSQL (aplica antes las migraciones).
//
// Uso: go run ./cmd/seed
// Lee SEED_SUPERADMIN_EMAIL, SEED_SUPERADMIN_PASSWORD y SEED_SUPERADMIN_NAME además
// de la configuración de base de datos. Es idempotente: si el email ya existe no lo toca.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/Tiendas-api/internal/bootstrap"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Tiendas-api/pkg/config"
	"github.com/jhoicas/Tiendas-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// log.Fatal no ejecuta los defer: el pool se cierra antes de salir
	if err := postgres.Migrate(ctx, pool, log); err != nil {
		pool.Close()
		log.Fatal().Err(err).Msg("migraciones")
	}

	st := bootstrap.PostgresStorage(pool)
	created, err := bootstrap.SeedSuperadmin(ctx, st.Users, cfg.Seed.SuperadminEmail, cfg.Seed.SuperadminPassword, cfg.Seed.SuperadminName)
	if err != nil {
		pool.Close()
		log.Fatal().Err(err).Msg("crear superadmin")
	}
	if created {
		log.Info().Str("email", cfg.Seed.SuperadminEmail).Msg("superadmin creado")
		return
	}
	log.Info().Str("email", cfg.Seed.SuperadminEmail).Msg("el superadmin ya existía, sin cambios")
}
