package metric

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/Anubhav-singhx/cicd-platform/internal/telemetry/logger"
)

// Names under which the default collectors are registered.
const (
	GoCollectorName      = "go_runtime"
	ProcessCollectorName = "process"
)

// defaultMaxScrapes bounds concurrent /metrics requests.
const defaultMaxScrapes = 4

// Registry holds all application metrics.
//
// A Registry is created explicitly at startup and passed to the components
// that register metrics; there is no package-level default instance.
type Registry struct {
	mu         sync.Mutex
	collectors map[string]struct{}
	families   map[string]*dto.MetricFamily

	reg       *prometheus.Registry
	namespace string
	format    expfmt.Format
	log       logger.Logger
}

// Option configures a Registry.
type Option func(*registryOptions)

type registryOptions struct {
	namespace      string
	processMetrics bool
	log            logger.Logger
}

// WithNamespace prefixes every metric created through the Registry.
func WithNamespace(ns string) Option {
	return func(o *registryOptions) {
		o.namespace = ns
	}
}

// WithProcessMetrics registers the Go runtime and process collectors.
func WithProcessMetrics(enabled bool) Option {
	return func(o *registryOptions) {
		o.processMetrics = enabled
	}
}

// WithLogger sets the logger used to report scrape errors.
func WithLogger(l logger.Logger) Option {
	return func(o *registryOptions) {
		o.log = l
	}
}

// NewRegistry creates a new metrics registry.
func NewRegistry(opts ...Option) *Registry {
	o := registryOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Default()
	}

	r := &Registry{
		collectors: make(map[string]struct{}),
		families:   make(map[string]*dto.MetricFamily),
		reg:        prometheus.NewRegistry(),
		namespace:  o.namespace,
		format:     expfmt.NewFormat(expfmt.TypeTextPlain),
		log:        o.log,
	}

	if o.processMetrics {
		r.MustRegister(GoCollectorName, collectors.NewGoCollector())
		r.MustRegister(ProcessCollectorName, collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	return r
}

// Register adds a collector under the given name.
//
// It returns a *DuplicateNameError if the name is already taken, or if the
// underlying Prometheus registry already holds an identical collector.
// Collectors registered this way appear in Names and Export once they
// produce samples; the New* constructors also declare their family so it
// is exported while still empty.
func (r *Registry) Register(name string, c prometheus.Collector) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.collectors[name]; ok {
		return &DuplicateNameError{Name: name}
	}
	if err := r.reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return &DuplicateNameError{Name: name}
		}
		return fmt.Errorf("register %s: %w", name, err)
	}
	r.collectors[name] = struct{}{}
	return nil
}

// declare records the family metadata of a collector built by a New*
// constructor.
func (r *Registry) declare(name, help string, typ dto.MetricType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.families[name] = &dto.MetricFamily{Name: &name, Help: &help, Type: typ.Enum()}
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, c prometheus.Collector) {
	if err := r.Register(name, c); err != nil {
		panic(err)
	}
}

// NewCounterVec creates and registers a counter partitioned by labels.
func (r *Registry) NewCounterVec(opts prometheus.CounterOpts, labels []string) (*prometheus.CounterVec, error) {
	opts.Namespace = r.ns(opts.Namespace)
	c := prometheus.NewCounterVec(opts, labels)
	name := prometheus.BuildFQName(opts.Namespace, opts.Subsystem, opts.Name)
	if err := r.Register(name, c); err != nil {
		return nil, err
	}
	r.declare(name, opts.Help, dto.MetricType_COUNTER)
	return c, nil
}

// NewGauge creates and registers an unlabelled gauge.
func (r *Registry) NewGauge(opts prometheus.GaugeOpts) (prometheus.Gauge, error) {
	opts.Namespace = r.ns(opts.Namespace)
	g := prometheus.NewGauge(opts)
	name := prometheus.BuildFQName(opts.Namespace, opts.Subsystem, opts.Name)
	if err := r.Register(name, g); err != nil {
		return nil, err
	}
	r.declare(name, opts.Help, dto.MetricType_GAUGE)
	return g, nil
}

// NewGaugeVec creates and registers a gauge partitioned by labels.
func (r *Registry) NewGaugeVec(opts prometheus.GaugeOpts, labels []string) (*prometheus.GaugeVec, error) {
	opts.Namespace = r.ns(opts.Namespace)
	g := prometheus.NewGaugeVec(opts, labels)
	name := prometheus.BuildFQName(opts.Namespace, opts.Subsystem, opts.Name)
	if err := r.Register(name, g); err != nil {
		return nil, err
	}
	r.declare(name, opts.Help, dto.MetricType_GAUGE)
	return g, nil
}

// NewHistogramVec creates and registers a histogram partitioned by labels.
func (r *Registry) NewHistogramVec(opts prometheus.HistogramOpts, labels []string) (*prometheus.HistogramVec, error) {
	opts.Namespace = r.ns(opts.Namespace)
	h := prometheus.NewHistogramVec(opts, labels)
	name := prometheus.BuildFQName(opts.Namespace, opts.Subsystem, opts.Name)
	if err := r.Register(name, h); err != nil {
		return nil, err
	}
	r.declare(name, opts.Help, dto.MetricType_HISTOGRAM)
	return h, nil
}

func (r *Registry) ns(ns string) string {
	if ns != "" {
		return ns
	}
	return r.namespace
}

// Names returns the metric family names the registry exposes, sorted:
// every family declared by a New* constructor plus every family the
// registered collectors currently produce. Export writes exactly one
// entry for each.
func (r *Registry) Names() []string {
	mfs, err := r.reg.Gather()
	if err != nil {
		r.log.Warn("gather metrics", "error", err)
	}

	seen := make(map[string]struct{}, len(mfs))
	for _, mf := range mfs {
		seen[mf.GetName()] = struct{}{}
	}
	r.mu.Lock()
	for name := range r.families {
		seen[name] = struct{}{}
	}
	r.mu.Unlock()

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Gather implements prometheus.Gatherer.
// Families are sorted by name and series by label values.
func (r *Registry) Gather() ([]*dto.MetricFamily, error) {
	return r.reg.Gather()
}

// Export writes every metric family in the text exposition format, sorted
// by name. Declared families without series yet are written as their
// HELP and TYPE lines only.
func (r *Registry) Export(w io.Writer) error {
	mfs, err := r.reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	gathered := make(map[string]struct{}, len(mfs))
	for _, mf := range mfs {
		gathered[mf.GetName()] = struct{}{}
	}
	r.mu.Lock()
	for name, mf := range r.families {
		if _, ok := gathered[name]; !ok {
			mfs = append(mfs, mf)
		}
	}
	r.mu.Unlock()
	sort.Slice(mfs, func(i, j int) bool { return mfs[i].GetName() < mfs[j].GetName() })

	enc := expfmt.NewEncoder(w, r.format)
	for _, mf := range mfs {
		if len(mf.GetMetric()) == 0 {
			if err := writeHeader(w, mf); err != nil {
				return fmt.Errorf("encode %s: %w", mf.GetName(), err)
			}
			continue
		}
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

var helpEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`)

// writeHeader writes the HELP and TYPE lines of a family with no series.
// The expfmt encoder rejects such families.
func writeHeader(w io.Writer, mf *dto.MetricFamily) error {
	_, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n",
		mf.GetName(), helpEscaper.Replace(mf.GetHelp()),
		mf.GetName(), strings.ToLower(mf.GetType().String()))
	return err
}

// ContentType returns the media type produced by Export.
func (r *Registry) ContentType() string {
	return string(r.format)
}

// Handler returns an HTTP handler for the /metrics endpoint.
//
// The format is negotiated from the Accept header; plain scrapes get the
// text format. Gathering errors are logged and answered with HTTP 500.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r, promhttp.HandlerOpts{
		ErrorLog:            errorLog{r.log},
		ErrorHandling:       promhttp.HTTPErrorOnError,
		MaxRequestsInFlight: defaultMaxScrapes,
	})
}

// errorLog adapts Logger to promhttp.Logger.
type errorLog struct {
	log logger.Logger
}

func (e errorLog) Println(v ...any) {
	e.log.Error("metrics scrape failed", "error", fmt.Sprint(v...))
}
