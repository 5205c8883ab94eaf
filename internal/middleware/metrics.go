package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command failures by command name.
var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "trailhaven_redis_errors_total",
		Help: "Total number of Redis command errors",
	},
	[]string{"command"},
)

// GeocodeFailures counts geocoding lookups that returned no candidates or an error.
var GeocodeFailures = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "trailhaven_geocode_failures_total",
		Help: "Total number of failed address geocoding lookups",
	},
)

// ImageHostErrors counts failed upload/destroy calls against the image host.
var ImageHostErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "trailhaven_imagehost_errors_total",
		Help: "Total number of image host API errors",
	},
	[]string{"operation"},
)

// InitMetrics creates the Prometheus HTTP middleware for the given service name.
func InitMetrics(service string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(service)
}

// MetricsMiddleware returns the request-instrumentation handler for the
// given Prometheus middleware instance.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
