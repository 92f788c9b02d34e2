package handler

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/Anubhav-singhx/cicd-platform/internal/telemetry/logger"
)

// UnmatchedRoute is the route label for requests no pattern matched.
const UnmatchedRoute = "unmatched"

// Config holds the dependencies of a Handler.
type Config struct {
	// Metrics serves GET /metrics.
	Metrics http.Handler
	// Logger is used for response encoding failures.
	Logger logger.Logger
	// Hostname is shown on the greeting page.
	Hostname string
	// Version is reported by the greeting page and /health.
	Version string
	// StartTime is the reference for the reported uptime.
	StartTime time.Time
}

// Handler is the main HTTP handler that routes requests to appropriate handlers.
type Handler struct {
	metrics   http.Handler
	logger    logger.Logger
	hostname  string
	version   string
	startTime time.Time
	now       func() time.Time
	mux       *http.ServeMux
	routes    []string
}

// New creates a new Handler.
func New(cfg Config) *Handler {
	h := &Handler{
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		hostname:  cfg.Hostname,
		version:   cfg.Version,
		startTime: cfg.StartTime,
		now:       time.Now,
		mux:       http.NewServeMux(),
	}
	if h.logger == nil {
		h.logger = logger.Default()
	}
	if h.startTime.IsZero() {
		h.startTime = h.now()
	}
	if h.metrics == nil {
		h.metrics = http.NotFoundHandler()
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.handle("GET /{$}", http.HandlerFunc(h.handleHome))
	h.handle("GET /health", http.HandlerFunc(h.handleHealth))
	h.handle("GET /metrics", h.metrics)
}

func (h *Handler) handle(pattern string, handler http.Handler) {
	h.mux.Handle(pattern, handler)
	h.routes = append(h.routes, RouteLabel(pattern))
}

// Routes returns the route labels of the registered endpoints in
// registration order.
func (h *Handler) Routes() []string {
	return slices.Clone(h.routes)
}

// Route returns the route label for r: the pattern that would serve it,
// without the method, or UnmatchedRoute.
func (h *Handler) Route(r *http.Request) string {
	_, pattern := h.mux.Handler(r)
	return RouteLabel(pattern)
}

// RouteLabel converts a ServeMux pattern such as "GET /{$}" into a route
// label ("/"). An empty pattern yields UnmatchedRoute.
func RouteLabel(pattern string) string {
	if i := strings.IndexByte(pattern, ' '); i >= 0 {
		pattern = strings.TrimLeft(pattern[i+1:], " \t")
	}
	if strings.HasSuffix(pattern, "/{$}") {
		pattern = strings.TrimSuffix(pattern, "{$}")
	}
	if pattern == "" {
		return UnmatchedRoute
	}
	return pattern
}

func (h *Handler) requestLogger(r *http.Request) logger.Logger {
	if id := logger.RequestIDFromContext(r.Context()); id != "" {
		return h.logger.With("request_id", id)
	}
	return h.logger
}

// writeJSON writes v as a JSON response.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.requestLogger(r).Error("failed to encode response", "error", err, "path", r.URL.Path)
	}
}
