package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the engine.
type Metrics struct {
	ResolvePasses   *prometheus.CounterVec
	ResolveDuration *prometheus.HistogramVec

	ActionsTotal   *prometheus.CounterVec
	ActionDuration *prometheus.HistogramVec

	StateMutations *prometheus.CounterVec

	TransportRequests *prometheus.CounterVec
	TransportDuration prometheus.Histogram

	DocumentsActive prometheus.Gauge
	DocumentsTotal  prometheus.Counter

	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec
}

// NewMetrics registers and returns the engine metric set.
func NewMetrics() *Metrics {
	return &Metrics{
		ResolvePasses: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lumen_resolve_passes_total",
				Help: "Total number of render tree resolution passes",
			},
			[]string{"document", "trigger"},
		),
		ResolveDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lumen_resolve_duration_seconds",
				Help:    "Render tree resolution duration in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25},
			},
			[]string{"document"},
		),
		ActionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lumen_actions_total",
				Help: "Total number of executed actions",
			},
			[]string{"type", "status"},
		),
		ActionDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lumen_action_duration_seconds",
				Help:    "Action execution duration in seconds",
				Buckets: []float64{.0001, .001, .01, .1, .5, 1, 2.5, 5, 10},
			},
			[]string{"type"},
		),
		StateMutations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lumen_state_mutations_total",
				Help: "Total number of state store mutations",
			},
			[]string{"operation"},
		),
		TransportRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lumen_transport_requests_total",
				Help: "Total number of action network requests",
			},
			[]string{"method", "status"},
		),
		TransportDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lumen_transport_duration_seconds",
				Help:    "Action network request duration in seconds",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),
		DocumentsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "lumen_documents_active",
				Help: "Number of live document instances",
			},
		),
		DocumentsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "lumen_documents_total",
				Help: "Total number of document instances opened",
			},
		),
		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "lumen_ws_connections",
				Help: "Number of connected renderers",
			},
		),
		WSMessages: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lumen_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}
}

// ObserveResolve records one resolution pass.
func (m *Metrics) ObserveResolve(document, trigger string, duration time.Duration) {
	m.ResolvePasses.WithLabelValues(document, trigger).Inc()
	m.ResolveDuration.WithLabelValues(document).Observe(duration.Seconds())
}

// ObserveAction records one action execution.
func (m *Metrics) ObserveAction(actionType, status string, duration time.Duration) {
	m.ActionsTotal.WithLabelValues(actionType, status).Inc()
	m.ActionDuration.WithLabelValues(actionType).Observe(duration.Seconds())
}

// RecordMutation records one state store mutation.
func (m *Metrics) RecordMutation(operation string) {
	m.StateMutations.WithLabelValues(operation).Inc()
}

// RecordTransport records one action network request.
func (m *Metrics) RecordTransport(method, status string, duration time.Duration) {
	m.TransportRequests.WithLabelValues(method, status).Inc()
	m.TransportDuration.Observe(duration.Seconds())
}

// RecordWSMessage records one WebSocket message.
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}
