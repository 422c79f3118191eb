// Package metrics provides Prometheus metrics for the driftline worker fleet.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Task outcome label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Manager owns every Prometheus metric the service exports.
type Manager struct {
	namespace string
	subsystem string
	registry  *prometheus.Registry

	tasksTotal   *prometheus.CounterVec
	taskDuration *prometheus.HistogramVec
	pathPoints   prometheus.Histogram

	claimErrors   prometheus.Counter
	publishErrors prometheus.Counter
	consumers     prometheus.Gauge
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithRegistry sets a custom Prometheus registry.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// NewManager creates a metrics manager backed by its own registry, keeping
// the default Go collectors out of the scrape.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "driftline",
		subsystem: "worker",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)

	m.tasksTotal = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "tasks_total",
			Help:      "Total number of processed tasks by kind and outcome",
		},
		[]string{"kind", "status"},
	)

	m.taskDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "task_duration_seconds",
			Help:      "Wall time spent producing one task's output",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	m.pathPoints = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "path_points",
		Help:      "Points per emitted trajectory",
		Buckets:   []float64{2, 10, 25, 50, 75, 100, 130},
	})

	m.claimErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "claim_errors_total",
		Help:      "Total number of failed queue claim attempts",
	})

	m.publishErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "publish_errors_total",
		Help:      "Total number of failed result publishes",
	})

	m.consumers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_consumers",
		Help:      "Consumers currently claiming from the task stream",
	})

	return m
}

// ObserveTask records one finished task. All methods tolerate a nil Manager
// so callers without metrics wired up stay unconditional.
func (m *Manager) ObserveTask(kind, status string, seconds float64) {
	if m == nil {
		return
	}
	m.tasksTotal.WithLabelValues(kind, status).Inc()
	m.taskDuration.WithLabelValues(kind).Observe(seconds)
}

// ObservePathPoints records the size of an emitted trajectory.
func (m *Manager) ObservePathPoints(points int) {
	if m == nil {
		return
	}
	m.pathPoints.Observe(float64(points))
}

// RecordClaimError increments the claim error counter.
func (m *Manager) RecordClaimError() {
	if m == nil {
		return
	}
	m.claimErrors.Inc()
}

// RecordPublishError increments the publish error counter.
func (m *Manager) RecordPublishError() {
	if m == nil {
		return
	}
	m.publishErrors.Inc()
}

// AddConsumers moves the active consumer gauge by delta.
func (m *Manager) AddConsumers(delta int) {
	if m == nil {
		return
	}
	m.consumers.Add(float64(delta))
}

// Registry exposes the backing registry, mainly for scrape handlers and tests.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler returns an HTTP handler that serves the manager's registry.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
