package config

import (
	"errors"
	"fmt"
	"net"

	"github.com/Anubhav-singhx/cicd-platform/internal/telemetry/logger"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyLog(&cfg.Log); err != nil {
		return err
	}
	return verifyMetrics(&cfg.Metrics)
}

func verifyServer(cfg *ServerSection) error {
	if cfg.HTTP.Addr == "" {
		return errors.New("server.http.addr is required")
	}
	if _, _, err := net.SplitHostPort(cfg.HTTP.Addr); err != nil {
		return fmt.Errorf("server.http.addr: %w", err)
	}

	timeouts := []struct {
		key string
		v   any
		ok  bool
	}{
		{"server.http.read_header_timeout", cfg.HTTP.ReadHeaderTimeout, cfg.HTTP.ReadHeaderTimeout > 0},
		{"server.http.read_timeout", cfg.HTTP.ReadTimeout, cfg.HTTP.ReadTimeout >= 0},
		{"server.http.write_timeout", cfg.HTTP.WriteTimeout, cfg.HTTP.WriteTimeout >= 0},
		{"server.http.idle_timeout", cfg.HTTP.IdleTimeout, cfg.HTTP.IdleTimeout >= 0},
		{"server.shutdown_timeout", cfg.ShutdownTimeout, cfg.ShutdownTimeout > 0},
	}
	for _, tt := range timeouts {
		if !tt.ok {
			return fmt.Errorf("%s: invalid duration %v", tt.key, tt.v)
		}
	}

	if cfg.HTTP.RateLimit < 0 {
		return errors.New("server.http.rate_limit must not be negative")
	}
	if cfg.HTTP.RateBurst < 0 {
		return errors.New("server.http.rate_burst must not be negative")
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return fmt.Errorf("log.level: unknown level %q", cfg.Level)
	}
	if !logger.ValidFormat(cfg.Format) {
		return fmt.Errorf("log.format: unknown format %q", cfg.Format)
	}
	return nil
}

func verifyMetrics(cfg *MetricsSection) error {
	if cfg.MaxRoutes < 0 {
		return errors.New("metrics.max_routes must not be negative")
	}
	for i, b := range cfg.Buckets {
		if i > 0 && b <= cfg.Buckets[i-1] {
			return fmt.Errorf("metrics.buckets must be strictly ascending, got %v after %v", b, cfg.Buckets[i-1])
		}
	}
	return nil
}
