package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Failure stages reported by order flows.
const (
	StageSequence = "sequence"
	StageInsert   = "insert"
	StageItems    = "items"
	StageOrphaned = "orphaned"
	StageHistory  = "history"
	StageTracking = "tracking_fallback"
)

// OrderMetrics records order lifecycle events.
type OrderMetrics struct {
	created         *prometheus.CounterVec
	statusChanges   *prometheus.CounterVec
	failures        *prometheus.CounterVec
	trackingLookups *prometheus.CounterVec
	swept           prometheus.Counter
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders placed, by order type.",
	}, []string{"order_type"})
	statusChanges := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_changes_total",
		Help: "Applied order status transitions, by target status.",
	}, []string{"status"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_failures_total",
		Help: "Order flow failures, by stage.",
	}, []string{"stage"})
	trackingLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tracking_lookups_total",
		Help: "Public tracking lookups, by result.",
	}, []string{"result"})
	swept := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracking_tokens_swept_total",
		Help: "Expired tracking tokens removed by the sweeper.",
	})
	reg.MustRegister(created, statusChanges, failures, trackingLookups, swept)
	return &OrderMetrics{
		created:         created,
		statusChanges:   statusChanges,
		failures:        failures,
		trackingLookups: trackingLookups,
		swept:           swept,
	}
}

// IncCreated counts a placed order.
func (m *OrderMetrics) IncCreated(orderType string) {
	if m == nil || m.created == nil {
		return
	}
	m.created.WithLabelValues(normalizeLabel(orderType)).Inc()
}

// IncStatusChange counts an applied transition.
func (m *OrderMetrics) IncStatusChange(status string) {
	if m == nil || m.statusChanges == nil {
		return
	}
	m.statusChanges.WithLabelValues(normalizeLabel(status)).Inc()
}

// IncFailure counts a failure at the given stage.
func (m *OrderMetrics) IncFailure(stage string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(stage)).Inc()
}

// IncTrackingLookup counts a tracking lookup outcome.
func (m *OrderMetrics) IncTrackingLookup(found bool) {
	if m == nil || m.trackingLookups == nil {
		return
	}
	result := "not_found"
	if found {
		result = "found"
	}
	m.trackingLookups.WithLabelValues(result).Inc()
}

// AddSwept counts tokens cleared by the sweeper.
func (m *OrderMetrics) AddSwept(n int) {
	if m == nil || m.swept == nil || n <= 0 {
		return
	}
	m.swept.Add(float64(n))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
