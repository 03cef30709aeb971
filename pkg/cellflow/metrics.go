package cellflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus collector for a flow.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "cellflow").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus collector.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) { c.Namespace = namespace }
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) { c.Subsystem = subsystem }
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) { c.ConstLabels = labels }
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) { c.Registry = registry }
}

// Metrics holds the Prometheus instruments for one flow.
//
// Instruments:
//   - cellflow_runs_total: counter of runs opened
//   - cellflow_flushes_total: counter of queue flush passes
//   - cellflow_queued_total: counter of enqueued invocations by queue
//   - cellflow_listener_failures_total: counter of isolated listener failures
type Metrics struct {
	runs     prometheus.Counter
	flushes  prometheus.Counter
	queued   *prometheus.CounterVec
	failures prometheus.Counter
}

// NewMetrics builds the collector and registers its instruments.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := MetricsConfig{
		Namespace: "cellflow",
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		runs: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "runs_total",
			Help:        "Total number of propagation runs opened",
			ConstLabels: config.ConstLabels,
		}),
		flushes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flushes_total",
			Help:        "Total number of queue flush passes",
			ConstLabels: config.ConstLabels,
		}),
		queued: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "queued_total",
			Help:        "Total number of invocations enqueued, by queue",
			ConstLabels: config.ConstLabels,
		}, []string{"queue"}),
		failures: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "listener_failures_total",
			Help:        "Total number of isolated listener failures",
			ConstLabels: config.ConstLabels,
		}),
	}
}
