package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Anubhav-singhx/cicd-platform/internal/server/httpserver/handler"
	"github.com/Anubhav-singhx/cicd-platform/internal/telemetry/metric"
)

func newTestRouter(t *testing.T, cfg RouterConfig) (http.Handler, *metric.HTTPMetrics) {
	t.Helper()
	reg, m := newTestMetrics(t)
	log, _ := newTestLogger(t)

	cfg.Handler = handler.New(handler.Config{
		Metrics:   reg.Handler(),
		Logger:    log,
		Hostname:  "test-host",
		Version:   "3.0",
		StartTime: time.Now(),
	})
	cfg.Metrics = m
	cfg.Logger = log
	return NewRouter(&cfg), m
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestRouter_Endpoints(t *testing.T) {
	h, m := newTestRouter(t, RouterConfig{AccessLog: true})

	home := get(h, "/")
	if home.Code != http.StatusOK {
		t.Fatalf("GET / status = %d", home.Code)
	}
	if !strings.HasPrefix(home.Header().Get("Content-Type"), "text/html") {
		t.Errorf("GET / Content-Type = %q", home.Header().Get("Content-Type"))
	}
	if !strings.Contains(home.Body.String(), "test-host") {
		t.Error("GET / body is missing the hostname")
	}
	if home.Header().Get(HeaderRequestID) == "" {
		t.Error("GET / is missing X-Request-ID")
	}

	health := get(h, "/health")
	if health.Code != http.StatusOK {
		t.Fatalf("GET /health status = %d", health.Code)
	}
	var resp handler.HealthResponse
	if err := json.NewDecoder(health.Body).Decode(&resp); err != nil {
		t.Fatalf("decode /health: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("/health status = %q, want healthy", resp.Status)
	}

	scrape := get(h, "/metrics")
	if scrape.Code != http.StatusOK {
		t.Fatalf("GET /metrics status = %d", scrape.Code)
	}
	if !strings.HasPrefix(scrape.Header().Get("Content-Type"), "text/plain") {
		t.Errorf("GET /metrics Content-Type = %q", scrape.Header().Get("Content-Type"))
	}
	body := scrape.Body.String()
	for _, want := range []string{
		`http_requests_total{method="GET",route="/health",status_code="200"} 1`,
		`http_requests_total{method="GET",route="/",status_code="200"} 1`,
		"# TYPE http_request_duration_seconds histogram",
		"# TYPE active_connections gauge",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("/metrics body missing %q", want)
		}
	}

	if got := requestCount(m, "GET", "/metrics", "200"); got != 1 {
		t.Errorf("/metrics request total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ActiveConnections); got != 0 {
		t.Errorf("active_connections = %v, want 0", got)
	}
}

func TestRouter_ConcurrentHealth(t *testing.T) {
	h, m := newTestRouter(t, RouterConfig{})

	const n = 100
	var wg sync.WaitGroup
	codes := make([]int, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			codes[i] = get(h, "/health").Code
		}()
	}
	wg.Wait()

	for i, code := range codes {
		if code != http.StatusOK {
			t.Errorf("request %d: status = %d", i, code)
		}
	}
	if got := testutil.ToFloat64(m.ActiveConnections); got != 0 {
		t.Errorf("active_connections = %v, want 0", got)
	}
	if got := requestCount(m, "GET", "/health", "200"); got != n {
		t.Errorf("/health request total = %v, want %d", got, n)
	}

	if got := testutil.CollectAndCount(m.RequestDuration); got != 1 {
		t.Errorf("duration series = %d, want 1", got)
	}
}

func TestRouter_UnknownRoutes(t *testing.T) {
	h, m := newTestRouter(t, RouterConfig{})

	for _, p := range []string{"/a", "/b", "/c/d", "/users/42"} {
		if code := get(h, p).Code; code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", p, code)
		}
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /health status = %d, want 405", rec.Code)
	}

	if got := requestCount(m, "GET", handler.UnmatchedRoute, "404"); got != 4 {
		t.Errorf("unmatched 404 total = %v, want 4", got)
	}
	if got := requestCount(m, "POST", handler.UnmatchedRoute, "405"); got != 1 {
		t.Errorf("unmatched 405 total = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.RequestsTotal); got != 2 {
		t.Errorf("series = %d, want 2", got)
	}
}

func TestRouter_RateLimit(t *testing.T) {
	h, m := newTestRouter(t, RouterConfig{RateLimit: 1, RateBurst: 1})

	if code := get(h, "/health").Code; code != http.StatusOK {
		t.Errorf("first request status = %d, want 200", code)
	}
	if code := get(h, "/health").Code; code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", code)
	}
	if got := requestCount(m, "GET", "/health", "429"); got != 1 {
		t.Errorf("429 total = %v, want 1", got)
	}
}

func TestRouter_WithoutMetrics(t *testing.T) {
	h := NewRouter(&RouterConfig{Handler: handler.New(handler.Config{})})

	if code := get(h, "/health").Code; code != http.StatusOK {
		t.Errorf("status = %d, want 200", code)
	}
}
