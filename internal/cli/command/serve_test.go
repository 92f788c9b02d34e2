package command

import (
	"bytes"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Anubhav-singhx/cicd-platform/internal/infra/confloader"
	"github.com/Anubhav-singhx/cicd-platform/internal/infra/shutdown"
	"github.com/Anubhav-singhx/cicd-platform/internal/server/config"
	"github.com/Anubhav-singhx/cicd-platform/internal/telemetry/logger"
	"github.com/Anubhav-singhx/cicd-platform/internal/telemetry/metric"
)

func testServer(t *testing.T) *server {
	t.Helper()
	log, err := logger.New(logger.Config{Output: io.Discard})
	if err != nil {
		t.Fatalf("logger.New() error = %v", err)
	}

	cfg := config.Default()
	cfg.Metrics.Process = false
	s, err := newServer(cfg, log)
	if err != nil {
		t.Fatalf("newServer() error = %v", err)
	}
	return s
}

func TestNewServer(t *testing.T) {
	s := testServer(t)

	want := []string{metric.ActiveConnectionsName, metric.RequestDurationName, metric.RequestsTotalName}
	got := s.registry.Names()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("registered names = %v, want %v", got, want)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `http_requests_total{method="GET",route="/health",status_code="200"} 1`) {
		t.Errorf("/metrics missing /health counter:\n%s", rec.Body.String())
	}
}

func TestNewServer_ProcessMetrics(t *testing.T) {
	log, _ := logger.New(logger.Config{Output: io.Discard})
	cfg := config.Default()

	s, err := newServer(cfg, log)
	if err != nil {
		t.Fatalf("newServer() error = %v", err)
	}
	names := s.registry.Names()
	if !slices.Contains(names, "go_goroutines") {
		t.Errorf("runtime collectors not registered: %v", names)
	}
}

func TestNewServer_FreshMetrics(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	for _, want := range []string{
		"# TYPE " + metric.RequestsTotalName + " counter",
		"# TYPE " + metric.RequestDurationName + " histogram",
		`http_requests_total{method="GET",route="/health",status_code="200"} 0`,
		`http_requests_total{method="GET",route="/",status_code="200"} 0`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("first scrape missing %q:\n%s", want, body)
		}
	}
}

func TestWatchConfig_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: info\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	buf := &syncBuffer{}
	log, err := logger.New(logger.Config{Output: buf, Level: "debug"})
	if err != nil {
		t.Fatalf("logger.New() error = %v", err)
	}
	level := logger.GetLevel()
	t.Cleanup(func() { logger.SetLevel(level) })

	loader := confloader.NewLoader(confloader.WithConfigFile(path))
	sh := shutdown.NewHandler(time.Second)
	if err := watchConfig(path, loader, sh, log); err != nil {
		t.Fatalf("watchConfig() error = %v", err)
	}
	t.Cleanup(func() {
		sh.Trigger()
		sh.Wait()
	})

	// Replace by rename so the watcher never sees a truncated file.
	tmp := filepath.Join(filepath.Dir(path), "server.yaml.tmp")
	if err := os.WriteFile(tmp, []byte("log:\n  level: debug\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(buf.String(), "configuration reloaded") {
		if time.Now().After(deadline) {
			t.Fatalf("no reload logged:\n%s", buf.String())
		}
		time.Sleep(20 * time.Millisecond)
	}
	if !strings.Contains(buf.String(), "log.level") {
		t.Errorf("reload log missing loaded keys:\n%s", buf.String())
	}
}

// syncBuffer is a bytes.Buffer safe for the watcher goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestServer_Run(t *testing.T) {
	s := testServer(t)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	sh := shutdown.NewHandler(5 * time.Second)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.run(l, sh)
	}()

	resp, err := http.Get("http://" + l.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	sh.Trigger()

	select {
	case err := <-errChan:
		if err != nil {
			t.Errorf("run() error = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("run did not return after Trigger")
	}
}

func TestServer_RunListenerError(t *testing.T) {
	s := testServer(t)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	l.Close()

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.run(l, shutdown.NewHandler(time.Second))
	}()

	select {
	case err := <-errChan:
		if err == nil {
			t.Error("run() expected error for closed listener")
		}
	case <-time.After(10 * time.Second):
		t.Fatal("run did not return after listener failure")
	}
}
