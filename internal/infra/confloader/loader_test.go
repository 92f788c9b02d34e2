package confloader

import (
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Server struct {
		HTTP struct {
			Addr      string `koanf:"addr"`
			RateLimit int    `koanf:"rate_limit"`
		} `koanf:"http"`
	} `koanf:"server"`
	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func unmarshal(t *testing.T, l *Loader) testConfig {
	t.Helper()
	var cfg testConfig
	if err := l.Unmarshal(&cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	return cfg
}

func TestNewLoader_WithOptions(t *testing.T) {
	if l := NewLoader(); l.FilePath() != "" {
		t.Errorf("FilePath() = %q, want empty", l.FilePath())
	}

	l := NewLoader(WithConfigFile("/path/to/config.yaml"))
	if l.FilePath() != "/path/to/config.yaml" {
		t.Errorf("FilePath() = %q, want %q", l.FilePath(), "/path/to/config.yaml")
	}
}

func TestLoader_LoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  http:
    addr: "0.0.0.0:3000"
    rate_limit: 50
`)

	l := NewLoader()
	if err := l.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	cfg := unmarshal(t, l)
	if cfg.Server.HTTP.Addr != "0.0.0.0:3000" {
		t.Errorf("server.http.addr = %q, want %q", cfg.Server.HTTP.Addr, "0.0.0.0:3000")
	}
	if cfg.Server.HTTP.RateLimit != 50 {
		t.Errorf("server.http.rate_limit = %d, want 50", cfg.Server.HTTP.RateLimit)
	}
}

func TestLoader_LoadFile_Errors(t *testing.T) {
	l := NewLoader()
	if err := l.LoadFile("/nonexistent/config.yaml"); err == nil {
		t.Error("LoadFile() should return error for nonexistent file")
	}
	if err := l.LoadFile(""); err != nil {
		t.Errorf("LoadFile(\"\") should not error, got: %v", err)
	}
	if err := l.LoadFile(writeConfig(t, "server: [unclosed")); err == nil {
		t.Error("LoadFile() should return error for invalid YAML")
	}
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"SERVER_HTTP_ADDR", "server.http.addr"},
		{"SERVER_HTTP_RATE__LIMIT", "server.http.rate_limit"},
		{"METRICS_MAX__ROUTES", "metrics.max_routes"},
		{"LOG_LEVEL", "log.level"},
	}
	for _, tt := range tests {
		if got := envKey(tt.in); got != tt.want {
			t.Errorf("envKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoader_LoadEnv(t *testing.T) {
	t.Setenv("CICD_SERVER_HTTP_ADDR", "127.0.0.1:8080")
	t.Setenv("CICD_SERVER_HTTP_RATE__LIMIT", "25")

	l := NewLoader()
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	cfg := unmarshal(t, l)
	if cfg.Server.HTTP.Addr != "127.0.0.1:8080" {
		t.Errorf("server.http.addr = %q, want %q", cfg.Server.HTTP.Addr, "127.0.0.1:8080")
	}
	if cfg.Server.HTTP.RateLimit != 25 {
		t.Errorf("server.http.rate_limit = %d, want 25", cfg.Server.HTTP.RateLimit)
	}
}

func TestLoader_LoadMap(t *testing.T) {
	l := NewLoader()
	if err := l.LoadMap(map[string]any{
		"server.http.addr": "localhost:3000",
		"log.level":        "debug",
	}); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}
	cfg := unmarshal(t, l)
	if cfg.Server.HTTP.Addr != "localhost:3000" {
		t.Errorf("server.http.addr = %q, want %q", cfg.Server.HTTP.Addr, "localhost:3000")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoader_Load_Priority(t *testing.T) {
	path := writeConfig(t, `
server:
  http:
    addr: "from-file:3000"
    rate_limit: 10
log:
  level: debug
`)
	t.Setenv("CICD_SERVER_HTTP_ADDR", "from-env:3000")
	t.Setenv("CICD_SERVER_HTTP_RATE__LIMIT", "20")

	l := NewLoader(
		WithConfigFile(path),
		WithOverrides(map[string]any{"server.http.rate_limit": 30}),
	)

	var cfg testConfig
	cfg.Log.Level = "info"
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTP.Addr != "from-env:3000" {
		t.Errorf("Addr = %q, want env to override file", cfg.Server.HTTP.Addr)
	}
	if cfg.Server.HTTP.RateLimit != 30 {
		t.Errorf("RateLimit = %d, want override to win", cfg.Server.HTTP.RateLimit)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want file to override default", cfg.Log.Level)
	}
}

func TestLoader_Load_KeepsDefaults(t *testing.T) {
	var cfg testConfig
	cfg.Server.HTTP.Addr = "0.0.0.0:3000"

	if err := NewLoader().Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.HTTP.Addr != "0.0.0.0:3000" {
		t.Errorf("Addr = %q, default should survive", cfg.Server.HTTP.Addr)
	}
}

func TestLoader_Reload(t *testing.T) {
	path := writeConfig(t, "log:\n  level: warn\n")
	l := NewLoader(WithConfigFile(path))

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Fatalf("Log.Level = %q, want warn", cfg.Log.Level)
	}

	if err := os.WriteFile(path, []byte("log:\n  level: error\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := l.Reload(&cfg); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level after Reload = %q, want error", cfg.Log.Level)
	}
}

func TestLoader_Keys(t *testing.T) {
	l := NewLoader()
	if err := l.LoadMap(map[string]any{"server.http.addr": ":3000", "log.level": "warn"}); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}
	keys := l.Keys()
	if len(keys) != 2 || keys[0] != "log.level" || keys[1] != "server.http.addr" {
		t.Errorf("Keys() = %v, want [log.level server.http.addr]", keys)
	}
}
