package config

import "time"

// ServerConfig is the root configuration for cicd-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server" yaml:"server" json:"server"`
	Log     LogSection     `koanf:"log" yaml:"log" json:"log"`
	Metrics MetricsSection `koanf:"metrics" yaml:"metrics" json:"metrics"`
}

// ServerSection configures the server process.
type ServerSection struct {
	HTTP            HTTPConfig    `koanf:"http" yaml:"http" json:"http"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// HTTPConfig configures the HTTP listener.
type HTTPConfig struct {
	Addr              string        `koanf:"addr" yaml:"addr" json:"addr"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout" yaml:"read_header_timeout" json:"read_header_timeout"`
	ReadTimeout       time.Duration `koanf:"read_timeout" yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout" yaml:"write_timeout" json:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout" yaml:"idle_timeout" json:"idle_timeout"`

	// RateLimit is the global request rate in requests/second; 0 disables it.
	RateLimit float64 `koanf:"rate_limit" yaml:"rate_limit" json:"rate_limit"`
	// RateBurst is the limiter burst; 0 means max(1, RateLimit).
	RateBurst int `koanf:"rate_burst" yaml:"rate_burst" json:"rate_burst"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" yaml:"level" json:"level"`
	Format string `koanf:"format" yaml:"format" json:"format"`
	// Access enables one log line per completed request.
	Access bool `koanf:"access" yaml:"access" json:"access"`
}

// MetricsSection configures request instrumentation.
type MetricsSection struct {
	// Process registers Go runtime and process collectors.
	Process bool `koanf:"process" yaml:"process" json:"process"`
	// MaxRoutes bounds distinct route label values; 0 means unlimited.
	MaxRoutes int `koanf:"max_routes" yaml:"max_routes" json:"max_routes"`
	// Buckets are the duration histogram bounds in seconds; empty means
	// the client library defaults.
	Buckets []float64 `koanf:"buckets" yaml:"buckets" json:"buckets"`
}
