package metrics_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tiendas-api/internal/application/ports"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/metrics"
)

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, ports.Event) error {
	return errors.New("broker caído")
}

func TestCountingPublisher_CuentaPorResultado(t *testing.T) {
	ctx := context.Background()
	okBefore := testutil.ToFloat64(metrics.DomainEventsTotal.WithLabelValues(ports.EventSaleCreated, "ok"))
	errBefore := testutil.ToFloat64(metrics.DomainEventsTotal.WithLabelValues(ports.EventSaleCreated, "error"))

	require.NoError(t, metrics.NewCountingPublisher(ports.NopPublisher{}).Publish(ctx, ports.Event{Type: ports.EventSaleCreated}))
	assert.Error(t, metrics.NewCountingPublisher(failingPublisher{}).Publish(ctx, ports.Event{Type: ports.EventSaleCreated}))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(metrics.DomainEventsTotal.WithLabelValues(ports.EventSaleCreated, "ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(metrics.DomainEventsTotal.WithLabelValues(ports.EventSaleCreated, "error")))
}

func TestMiddleware_UsaLaRutaRegistrada(t *testing.T) {
	app := fiber.New()
	app.Use(metrics.Middleware())
	app.Get("/items/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	app.Get("/metrics", metrics.Handler())

	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/items/:id", "204"))
	for _, id := range []string{"a", "b"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items/"+id, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
	}
	assert.Equal(t, before+2, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/items/:id", "204")))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `http_requests_total{method="GET",path="/items/:id",status="204"}`)
}
