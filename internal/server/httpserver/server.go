package httpserver

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/Anubhav-singhx/cicd-platform/internal/server/config"
	"github.com/Anubhav-singhx/cicd-platform/internal/telemetry/logger"
)

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	logger     logger.Logger

	mu       sync.Mutex
	listener net.Listener
}

// New creates a new HTTP server from cfg. A nil log uses the default logger.
func New(cfg config.HTTPConfig, handler http.Handler, log logger.Logger) *Server {
	if log == nil {
		log = logger.Default()
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			ErrorLog:          slog.NewLogLogger(logger.Slog(log).Handler(), slog.LevelWarn),
			BaseContext: func(net.Listener) context.Context {
				return logger.WithLogger(context.Background(), log)
			},
		},
		handler: handler,
		logger:  log,
	}
}

// ListenAndServe listens on the configured address and serves requests.
// It returns http.ErrServerClosed after Shutdown.
func (s *Server) ListenAndServe() error {
	addr := s.httpServer.Addr
	if addr == "" {
		addr = ":http"
	}
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(l)
}

// Serve accepts connections on l.
func (s *Server) Serve(l net.Listener) error {
	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()

	s.logger.Info("http server listening", "addr", l.Addr().String())
	return s.httpServer.Serve(l)
}

// Addr returns the bound listener address, or the configured address if
// the server is not listening yet.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// Shutdown gracefully shuts down the server. In-flight requests are
// allowed to complete until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}
