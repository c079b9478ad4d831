package main

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tiendas-api/pkg/config"
	"github.com/jhoicas/Tiendas-api/pkg/logger"
)

func TestRun_FalloDeArranqueDevuelveError(t *testing.T) {
	cfg := &config.Config{
		Storage: config.StorageConfig{Driver: "memory"},
		Redis:   config.RedisConfig{Addr: "127.0.0.1:1"},
	}
	log := logger.New(logger.Config{Env: "test", Level: "error", Output: io.Discard})

	err := run(cfg, log, make(chan os.Signal))
	require.Error(t, err, "un Redis inaccesible corta el arranque sin salir del proceso")
	assert.Contains(t, err.Error(), "conexión a Redis")
}
