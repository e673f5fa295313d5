package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns the Prometheus collectors of the API server.
type Manager struct {
	// counters
	CounterRequests        *prometheus.CounterVec
	CounterGuardRejections *prometheus.CounterVec
	CounterWrites          *prometheus.CounterVec
	CounterRequestPanics   prometheus.Counter

	// gauges
	GaugeInFlight prometheus.Gauge

	// histograms
	HistRequestDuration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

func NewTestManager() *Manager {
	return NewManager("workouts", "test_server", prometheus.NewRegistry())
}

// NewDefaultManager registers the collectors plus Go runtime and process collectors on a fresh registry.
func NewDefaultManager(namespace, subsystem string) *Manager {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewManager(namespace, subsystem, reg)
}

func NewManager(namespace, subsystem string, reg *prometheus.Registry) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "requests_total",
		Help:      "The total number of served requests",
	}, []string{"method", "route", "status"})
	counterGuardRejections := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "guard_rejections_total",
		Help:      "Requests rejected because the addressed entity id was malformed or unknown",
	}, []string{"entity", "reason"})
	counterWrites := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "writes_total",
		Help:      "Successful writes per entity and action",
	}, []string{"entity", "action"})
	counterRequestPanics := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_panics_total",
		Help:      "The total number of recovered handler panics",
	})

	gaugeInFlight := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "requests_in_flight",
		Help:      "Current number of requests being served",
	})

	histRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Duration of requests in seconds",
		Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "route"})

	return &Manager{
		CounterRequests:        counterRequests,
		CounterGuardRejections: counterGuardRejections,
		CounterWrites:          counterWrites,
		CounterRequestPanics:   counterRequestPanics,
		GaugeInFlight:          gaugeInFlight,
		HistRequestDuration:    histRequestDuration,
		gatherer:               reg,
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// RecordWrite counts a successful write. It is safe to call on a nil manager.
func (m *Manager) RecordWrite(entity, action string) {
	if m == nil {
		return
	}
	m.CounterWrites.WithLabelValues(entity, action).Inc()
}

// RecordGuardRejection counts a request refused by an existence guard. It is safe to call on a nil manager.
func (m *Manager) RecordGuardRejection(entity, reason string) {
	if m == nil {
		return
	}
	m.CounterGuardRejections.WithLabelValues(entity, reason).Inc()
}
