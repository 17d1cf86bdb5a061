// Package metrics exposes Prometheus collectors for notify passes, compiles
// and live preview sessions.
//
// A *Metrics satisfies reactive.Observer and compiler.Observer:
//
//	m := metrics.New(metrics.WithNamespace("myapp"))
//	vm, err := vbind.New(vbind.Options{Observer: m, CompileObserver: m})
//
// All methods are safe on a nil *Metrics.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	verrors "github.com/vango-dev/vbind/internal/errors"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "vbind").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collectors.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "vbind",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the collectors.
type Metrics struct {
	notifyTotal     *prometheus.CounterVec
	notifyDuration  prometheus.Histogram
	subscribersRun  prometheus.Counter
	compilesTotal   *prometheus.CounterVec
	compileDuration prometheus.Histogram
	bindingsTotal   prometheus.Counter
	handlersTotal   prometheus.Counter
	activeSessions  prometheus.Gauge
	messagesTotal   *prometheus.CounterVec
	wsErrors        *prometheus.CounterVec
}

// New creates and registers the collectors.
func New(opts ...Option) *Metrics {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		notifyTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notify_passes_total",
			Help:        "Total number of notify passes by result code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		notifyDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notify_duration_seconds",
			Help:        "Notify pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		subscribersRun: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "subscriber_runs_total",
			Help:        "Total number of subscriber callbacks run by notify passes",
			ConstLabels: config.ConstLabels,
		}),

		compilesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "compiles_total",
			Help:        "Total number of template compiles by result code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		compileDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "compile_duration_seconds",
			Help:        "Template compile duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		bindingsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "bindings_created_total",
			Help:        "Total number of bindings created by compiles",
			ConstLabels: config.ConstLabels,
		}),

		handlersTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "handlers_attached_total",
			Help:        "Total number of event handlers attached by compiles",
			ConstLabels: config.ConstLabels,
		}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Number of active live preview sessions",
			ConstLabels: config.ConstLabels,
		}),

		messagesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "session_messages_total",
			Help:        "Total number of session messages by type and result code",
			ConstLabels: config.ConstLabels,
		}, []string{"type", "code"}),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "websocket_errors_total",
			Help:        "Total WebSocket errors by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),
	}
}

// ObserveNotify implements reactive.Observer.
func (m *Metrics) ObserveNotify(_ string, ran int, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.notifyTotal.WithLabelValues(Code(err)).Inc()
	m.notifyDuration.Observe(elapsed.Seconds())
	m.subscribersRun.Add(float64(ran))
}

// ObserveCompile implements compiler.Observer.
func (m *Metrics) ObserveCompile(bindings, handlers int, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.compilesTotal.WithLabelValues(Code(err)).Inc()
	m.compileDuration.Observe(elapsed.Seconds())
	m.bindingsTotal.Add(float64(bindings))
	m.handlersTotal.Add(float64(handlers))
}

// SessionStarted records a new live session.
func (m *Metrics) SessionStarted() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

// SessionEnded records a closed live session.
func (m *Metrics) SessionEnded() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}

// ObserveMessage records one handled session message.
func (m *Metrics) ObserveMessage(msgType string, err error) {
	if m == nil {
		return
	}
	m.messagesTotal.WithLabelValues(msgType, Code(err)).Inc()
}

// RecordWebSocketError records a WebSocket error.
func (m *Metrics) RecordWebSocketError(errorType string) {
	if m == nil {
		return
	}
	m.wsErrors.WithLabelValues(errorType).Inc()
}

// Code returns the label for err: "ok" for nil, the coded error's code when
// there is one, "internal" otherwise. Labels never carry error text.
func Code(err error) string {
	if err == nil {
		return "ok"
	}
	var coded *verrors.Error
	if errors.As(err, &coded) && coded.Code != "" {
		return coded.Code
	}
	return "internal"
}
