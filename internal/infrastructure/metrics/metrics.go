// Package metrics expone contadores Prometheus del API: tráfico HTTP y eventos de negocio.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Tiendas-api/internal/application/ports"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total de peticiones HTTP",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latencia de las peticiones HTTP",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	// DomainEventsTotal eventos de negocio (ventas, pedidos, suministros...) por tipo y resultado de publicación.
	DomainEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "domain_events_total",
		Help: "Eventos de dominio emitidos",
	}, []string{"type", "result"})
)

// Middleware mide cada petición con la ruta registrada (no la URL cruda) para acotar la cardinalidad.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		path := c.Route().Path
		if path == "" {
			path = "unmatched"
		}
		labels := []string{c.Method(), path, strconv.Itoa(status)}
		HTTPRequestsTotal.WithLabelValues(labels...).Inc()
		HTTPRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler sirve /metrics en formato Prometheus.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

// CountingPublisher decora un EventPublisher contando cada evento por tipo.
type CountingPublisher struct {
	next ports.EventPublisher
}

var _ ports.EventPublisher = (*CountingPublisher)(nil)

// NewCountingPublisher envuelve next.
func NewCountingPublisher(next ports.EventPublisher) *CountingPublisher {
	return &CountingPublisher{next: next}
}

// Publish delega y registra el resultado.
func (p *CountingPublisher) Publish(ctx context.Context, ev ports.Event) error {
	err := p.next.Publish(ctx, ev)
	result := "ok"
	if err != nil {
		result = "error"
	}
	DomainEventsTotal.WithLabelValues(ev.Type, result).Inc()
	return err
}
