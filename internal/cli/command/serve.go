package command

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Anubhav-singhx/cicd-platform/internal/infra/buildinfo"
	"github.com/Anubhav-singhx/cicd-platform/internal/infra/confloader"
	"github.com/Anubhav-singhx/cicd-platform/internal/infra/shutdown"
	"github.com/Anubhav-singhx/cicd-platform/internal/server/config"
	"github.com/Anubhav-singhx/cicd-platform/internal/server/httpserver"
	"github.com/Anubhav-singhx/cicd-platform/internal/server/httpserver/handler"
	"github.com/Anubhav-singhx/cicd-platform/internal/telemetry/logger"
	"github.com/Anubhav-singhx/cicd-platform/internal/telemetry/metric"
)

// ServeCommand returns the serve subcommand. It is also the default action.
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the HTTP server (default)",
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	cfg, loader, err := loadConfig(c)
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  os.Stdout,
		Service: c.App.Name,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	log.Info("starting cicd-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", loader.FilePath())

	srv, err := newServer(cfg, log)
	if err != nil {
		return err
	}

	l, err := net.Listen("tcp", cfg.Server.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Server.HTTP.Addr, err)
	}

	sh := shutdown.NewHandler(cfg.Server.ShutdownTimeout)
	if path := loader.FilePath(); path != "" {
		if err := watchConfig(path, loader, sh, log); err != nil {
			log.Warn("config hot reload disabled", "error", err)
		}
	}

	return srv.run(l, sh)
}

// server holds the assembled components of a running cicd-server.
type server struct {
	log      logger.Logger
	registry *metric.Registry
	metrics  *metric.HTTPMetrics
	router   http.Handler
	http     *httpserver.Server
}

// newServer wires the metrics registry, endpoints and middleware. A
// duplicate metric registration is returned as an error.
func newServer(cfg *config.ServerConfig, log logger.Logger) (*server, error) {
	reg := metric.NewRegistry(
		metric.WithProcessMetrics(cfg.Metrics.Process),
		metric.WithLogger(log),
	)
	hostname, err := os.Hostname()
	if err != nil {
		log.Warn("hostname lookup failed", "error", err)
		hostname = "unknown"
	}

	h := handler.New(handler.Config{
		Metrics:   reg.Handler(),
		Logger:    log,
		Hostname:  hostname,
		Version:   buildinfo.Version,
		StartTime: time.Now(),
	})

	m, err := metric.NewHTTPMetrics(reg, metric.HTTPMetricsOptions{
		Buckets:   cfg.Metrics.Buckets,
		MaxRoutes: cfg.Metrics.MaxRoutes,
		Routes:    h.Routes(),
	})
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Handler:   h,
		Metrics:   m,
		Logger:    log,
		AccessLog: cfg.Log.Access,
		RateLimit: cfg.Server.HTTP.RateLimit,
		RateBurst: cfg.Server.HTTP.RateBurst,
	})

	return &server{
		log:      log,
		registry: reg,
		metrics:  m,
		router:   router,
		http:     httpserver.New(cfg.Server.HTTP, router, log),
	}, nil
}

// run serves on l until sh fires, then drains in-flight requests. A
// listener failure triggers shutdown and is returned.
func (s *server) run(l net.Listener, sh *shutdown.Handler) error {
	sh.OnShutdown(func(ctx context.Context) error {
		return s.http.Shutdown(ctx)
	})

	var serveErr error
	serveDone := make(chan struct{})
	go func() {
		defer close(serveDone)
		if err := s.http.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("http server error", "error", err)
			serveErr = err
			sh.Trigger()
		}
	}()

	s.log.Info("server started, press Ctrl+C to stop")
	err := sh.Wait()
	<-serveDone

	if err = errors.Join(serveErr, err); err != nil {
		s.log.Error("server stopped with error", "error", err)
		return err
	}
	s.log.Info("server stopped gracefully")
	return nil
}

// watchConfig reloads the file on change and applies the new log level.
// Other settings take effect on restart.
func watchConfig(path string, loader *confloader.Loader, sh *shutdown.Handler, log logger.Logger) error {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return err
	}
	if err := w.Watch(path); err != nil {
		w.Stop()
		return err
	}

	var mu sync.Mutex
	w.OnChange(func(string) {
		mu.Lock()
		defer mu.Unlock()

		next := config.Default()
		if err := loader.Reload(next); err != nil {
			log.Error("config reload failed", "error", err)
			return
		}
		if err := config.Verify(next); err != nil {
			log.Error("reloaded config is invalid", "error", err)
			return
		}
		log.Debug("configuration reloaded", "path", path, "keys", loader.Keys())
		if next.Log.Level != logger.GetLevel() {
			logger.SetLevel(next.Log.Level)
			log.Info("log level changed", "level", logger.GetLevel())
		}
	})
	w.StartAsync()

	sh.OnShutdown(func(context.Context) error {
		return w.Stop()
	})
	return nil
}
