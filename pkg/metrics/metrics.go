package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Remote gateway metrics
	GatewayOperations *prometheus.CounterVec
	GatewayLatency    *prometheus.HistogramVec
	BreakerState      *prometheus.GaugeVec

	// Session store metrics
	SessionOperations *prometheus.CounterVec
	ActiveSessions    prometheus.Gauge

	// Collection refresh metrics
	CollectionRefreshes *prometheus.CounterVec
	CollectionSize      *prometheus.GaugeVec

	// Admin actions
	StatusTransitions *prometheus.CounterVec
	EventsPublished   *prometheus.CounterVec
}

// NewMetrics creates and registers all application metrics on reg. A nil
// registerer falls back to the default Prometheus registry.
func NewMetrics(namespace, subsystem string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		GatewayOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "gateway_operations_total",
			Help:      "Total number of remote backend operations",
		}, []string{"operation", "status"}),
		GatewayLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "gateway_operation_duration_seconds",
			Help:      "Duration of remote backend operations",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"operation"}),
		BreakerState: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "gateway_breaker_state",
			Help:      "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		}, []string{"name"}),

		SessionOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "session_operations_total",
			Help:      "Total number of session store operations",
		}, []string{"operation", "status"}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sessions_active",
			Help:      "Sessions created minus sessions closed by this process",
		}),

		CollectionRefreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "collection_refreshes_total",
			Help:      "Total number of collection list operations",
		}, []string{"collection", "status"}),
		CollectionSize: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "collection_items",
			Help:      "Number of items in the last successful collection snapshot",
		}, []string{"collection"}),

		StatusTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "status_transitions_total",
			Help:      "Admin-driven status transitions",
		}, []string{"entity", "to", "status"}),
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "events_published_total",
			Help:      "Audit events handed to the broker",
		}, []string{"event_type", "status"}),
	}
}

// NewNop returns metrics registered on a throwaway registry.
func NewNop() *Metrics {
	return NewMetrics("test", "", prometheus.NewRegistry())
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// ObserveGateway records one remote call.
func (m *Metrics) ObserveGateway(operation string, seconds float64, err error) {
	if m == nil {
		return
	}
	m.GatewayOperations.WithLabelValues(operation, statusLabel(err)).Inc()
	m.GatewayLatency.WithLabelValues(operation).Observe(seconds)
}

// ObserveRefresh records one collection list operation.
func (m *Metrics) ObserveRefresh(collection string, items int, err error) {
	if m == nil {
		return
	}
	m.CollectionRefreshes.WithLabelValues(collection, statusLabel(err)).Inc()
	if err == nil {
		m.CollectionSize.WithLabelValues(collection).Set(float64(items))
	}
}

// ObserveSession records one session store operation.
func (m *Metrics) ObserveSession(operation string, err error) {
	if m == nil {
		return
	}
	m.SessionOperations.WithLabelValues(operation, statusLabel(err)).Inc()
}

// ObserveTransition records an admin status change.
func (m *Metrics) ObserveTransition(entity, to string, err error) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(entity, to, statusLabel(err)).Inc()
}

// ObserveEvent records an event publish attempt.
func (m *Metrics) ObserveEvent(eventType string, err error) {
	if m == nil {
		return
	}
	m.EventsPublished.WithLabelValues(eventType, statusLabel(err)).Inc()
}

// SetBreakerState publishes a circuit breaker state (0 closed, 1 half-open, 2 open).
func (m *Metrics) SetBreakerState(name string, state int) {
	if m == nil {
		return
	}
	m.BreakerState.WithLabelValues(name).Set(float64(state))
}
