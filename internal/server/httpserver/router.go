package httpserver

import (
	"net/http"

	"github.com/Anubhav-singhx/cicd-platform/internal/server/httpserver/handler"
	"github.com/Anubhav-singhx/cicd-platform/internal/telemetry/logger"
	"github.com/Anubhav-singhx/cicd-platform/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Handler serves the endpoints.
	Handler *handler.Handler

	// Metrics receives request instrumentation. Nil disables it.
	Metrics *metric.HTTPMetrics

	// Logger for access and panic logging.
	Logger logger.Logger

	// AccessLog enables one log line per request.
	AccessLog bool

	// RateLimit is the global limit in requests/second; 0 disables it.
	RateLimit float64

	// RateBurst is the limiter burst.
	RateBurst int
}

// NewRouter wraps the endpoint handler with the middleware chain.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	middlewares := []Middleware{
		RequestID(),
		Recover(log),
	}
	if cfg.Metrics != nil {
		middlewares = append(middlewares, Instrument(cfg.Metrics, cfg.Handler.Route))
	}
	if cfg.AccessLog {
		middlewares = append(middlewares, AccessLog(log))
	}
	if cfg.RateLimit > 0 {
		middlewares = append(middlewares, RateLimit(cfg.RateLimit, cfg.RateBurst))
	}

	return Chain(cfg.Handler, middlewares...)
}
