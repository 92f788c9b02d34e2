package metric

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTP metric names.
const (
	RequestDurationName   = "http_request_duration_seconds"
	RequestsTotalName     = "http_requests_total"
	ActiveConnectionsName = "active_connections"
)

// DefaultMaxRoutes is the default bound on distinct route label values.
const DefaultMaxRoutes = 64

var requestLabels = []string{"method", "route", "status_code"}

// HTTPMetricsOptions configures NewHTTPMetrics.
type HTTPMetricsOptions struct {
	// Buckets are the duration histogram upper bounds in seconds.
	// Defaults to prometheus.DefBuckets.
	Buckets []float64

	// MaxRoutes bounds the number of distinct route label values.
	// Zero means unlimited.
	MaxRoutes int

	// Routes are known route labels whose GET 200 series are created
	// up front, so they are scraped as zero before the first request.
	Routes []string
}

// HTTPMetrics holds the request instrumentation aggregates.
type HTTPMetrics struct {
	RequestDuration   *prometheus.HistogramVec
	RequestsTotal     *prometheus.CounterVec
	ActiveConnections prometheus.Gauge

	routes *routeSet
	now    func() time.Time
}

// NewHTTPMetrics creates the request metrics and registers them with reg.
func NewHTTPMetrics(reg *Registry, opts HTTPMetricsOptions) (*HTTPMetrics, error) {
	buckets := opts.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	duration, err := reg.NewHistogramVec(prometheus.HistogramOpts{
		Name:    RequestDurationName,
		Help:    "Duration of HTTP requests in seconds",
		Buckets: buckets,
	}, requestLabels)
	if err != nil {
		return nil, err
	}

	total, err := reg.NewCounterVec(prometheus.CounterOpts{
		Name: RequestsTotalName,
		Help: "Total number of HTTP requests",
	}, requestLabels)
	if err != nil {
		return nil, err
	}

	active, err := reg.NewGauge(prometheus.GaugeOpts{
		Name: ActiveConnectionsName,
		Help: "Number of requests currently being served",
	})
	if err != nil {
		return nil, err
	}

	m := &HTTPMetrics{
		RequestDuration:   duration,
		RequestsTotal:     total,
		ActiveConnections: active,
		routes:            newRouteSet(opts.MaxRoutes),
		now:               time.Now,
	}
	for _, route := range opts.Routes {
		lvs := []string{"GET", m.routes.bound(route), strconv.Itoa(200)}
		m.RequestDuration.WithLabelValues(lvs...)
		m.RequestsTotal.WithLabelValues(lvs...)
	}
	return m, nil
}

// Tracker states.
const (
	stateInFlight uint32 = iota
	stateFinished
)

// Tracker follows a single request from Begin to Finish.
type Tracker struct {
	m      *HTTPMetrics
	method string
	start  time.Time
	state  atomic.Uint32
}

// Begin marks the start of a request: the active gauge is incremented and
// the start time recorded.
func (m *HTTPMetrics) Begin(method string) *Tracker {
	m.ActiveConnections.Inc()
	return &Tracker{
		m:      m,
		method: normalizeMethod(method),
		start:  m.now(),
	}
}

// Finish records the completed request under {method, route, status} and
// decrements the active gauge. Only the first call has any effect; it
// reports whether this call performed the transition.
func (t *Tracker) Finish(route string, status int) bool {
	if !t.state.CompareAndSwap(stateInFlight, stateFinished) {
		return false
	}

	elapsed := t.m.now().Sub(t.start).Seconds()
	lvs := []string{t.method, t.m.routes.bound(route), strconv.Itoa(status)}

	t.m.RequestDuration.WithLabelValues(lvs...).Observe(elapsed)
	t.m.RequestsTotal.WithLabelValues(lvs...).Inc()
	t.m.ActiveConnections.Dec()
	return true
}
