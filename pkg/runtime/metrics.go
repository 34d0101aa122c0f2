package runtime

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "lumen").
	Namespace string

	// Subsystem is the metrics subsystem (default: "runtime").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for flush duration. Flushes sit
	// inside a frame, so the defaults top out around one frame budget.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the flush duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "lumen",
		Subsystem: "runtime",
		Buckets:   []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .0167},
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus metrics for the runtime.
//
// Metrics collected:
//   - lumen_runtime_flushes_total: Counter of flushes with work
//   - lumen_runtime_renders_total: Counter of instance re-renders
//   - lumen_runtime_flush_errors_total: Counter of render and effect failures
//   - lumen_runtime_effect_errors_total: Counter of effect failures
//   - lumen_runtime_flush_duration_seconds: Histogram of flush duration
//   - lumen_runtime_active_instances: Gauge of mounted instances
type Metrics struct {
	flushesTotal    prometheus.Counter
	rendersTotal    prometheus.Counter
	flushErrors     prometheus.Counter
	effectErrors    prometheus.Counter
	flushDuration   prometheus.Histogram
	activeInstances prometheus.Gauge
}

// NewMetrics creates and registers the runtime metrics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		flushesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flushes_total",
			Help:        "Total number of flushes that performed work",
			ConstLabels: config.ConstLabels,
		}),
		rendersTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of instance re-renders",
			ConstLabels: config.ConstLabels,
		}),
		flushErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_errors_total",
			Help:        "Total number of render and effect failures",
			ConstLabels: config.ConstLabels,
		}),
		effectErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_errors_total",
			Help:        "Total number of effect failures",
			ConstLabels: config.ConstLabels,
		}),
		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Flush duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
		activeInstances: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_instances",
			Help:        "Number of mounted component instances",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// FlushCompleted records one completed flush.
func (m *Metrics) FlushCompleted(renders, errors int, duration time.Duration) {
	m.flushesTotal.Inc()
	m.rendersTotal.Add(float64(renders))
	m.flushErrors.Add(float64(errors))
	m.flushDuration.Observe(duration.Seconds())
}

// EffectErrors records effect failures.
func (m *Metrics) EffectErrors(n int) {
	m.effectErrors.Add(float64(n))
}

// InstanceMounted records a mounted instance.
func (m *Metrics) InstanceMounted() {
	m.activeInstances.Inc()
}

// InstanceDisposed records an unmounted instance.
func (m *Metrics) InstanceDisposed() {
	m.activeInstances.Dec()
}
