package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestOrderMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOrderMetrics(reg)

	m.IncCreated("pickup")
	m.IncCreated("pickup")
	m.IncStatusChange("ready")
	m.IncFailure(StageOrphaned)
	m.IncFailure("")
	m.IncTrackingLookup(true)
	m.IncTrackingLookup(false)
	m.AddSwept(3)
	m.AddSwept(0)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	assertCounter(t, mfs, "orders_created_total", "order_type", "pickup", 2)
	assertCounter(t, mfs, "order_status_changes_total", "status", "ready", 1)
	assertCounter(t, mfs, "order_failures_total", "stage", StageOrphaned, 1)
	assertCounter(t, mfs, "order_failures_total", "stage", "unknown", 1)
	assertCounter(t, mfs, "tracking_lookups_total", "result", "found", 1)
	assertCounter(t, mfs, "tracking_lookups_total", "result", "not_found", 1)

	swept := findMetricFamily(mfs, "tracking_tokens_swept_total")
	require.NotNil(t, swept)
	assert.Equal(t, float64(3), swept.GetMetric()[0].GetCounter().GetValue())
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *OrderMetrics
	m.IncCreated("pickup")
	m.IncStatusChange("ready")
	m.IncFailure(StageItems)
	m.IncTrackingLookup(true)
	m.AddSwept(1)

	NewOrderMetrics(nil).IncCreated("delivery")

	var h *HTTPMetrics
	h.Observe("GET", "/healthz", 200, time.Millisecond)
	NewHTTPMetrics(nil).Observe("GET", "/healthz", 200, time.Millisecond)
}

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := NewHTTPMetrics(reg)
	h.Observe("GET", "/api/orders/track/:token", 404, 20*time.Millisecond)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	mf := findMetricFamily(mfs, "http_request_duration_seconds")
	require.NotNil(t, mf)
	require.Len(t, mf.GetMetric(), 1)
	assert.True(t, matchesLabel(mf.GetMetric()[0].GetLabel(), "status", "404"))
	assert.EqualValues(t, 1, mf.GetMetric()[0].GetHistogram().GetSampleCount())
}

func TestModuleProvidesCollectors(t *testing.T) {
	var (
		orders   *OrderMetrics
		gatherer prometheus.Gatherer
	)
	app := fx.New(fx.NopLogger, Module, fx.Populate(&orders, &gatherer))
	require.NoError(t, app.Err())

	orders.IncCreated("delivery")
	mfs, err := gatherer.Gather()
	require.NoError(t, err)
	assert.NotNil(t, findMetricFamily(mfs, "orders_created_total"))
	assert.NotNil(t, findMetricFamily(mfs, "go_goroutines"))
}

func assertCounter(t *testing.T, mfs []*dto.MetricFamily, name, label, value string, want float64) {
	t.Helper()
	got, err := fetchCounterValue(mfs, name, label, value)
	require.NoError(t, err)
	assert.Equal(t, want, got, "%s{%s=%q}", name, label, value)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
