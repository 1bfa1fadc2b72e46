package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics("test", prometheus.NewRegistry())

	m.ObserveRun("success", 2*time.Second)
	m.SliceFailed("device")
	m.SliceFailed("device")
	m.IssueFound("no_value")
	m.DataSourceQuery("googleads", "error")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SliceFailures.WithLabelValues("device")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Issues.WithLabelValues("no_value")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DataSourceQueries.WithLabelValues("googleads", "error")))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveRun("failed", time.Second)
		m.SliceFailed("trend")
		m.IssueFound("no_value")
		m.OpportunityFound("device_optimization")
		m.DataSourceQuery("warehouse", "success")
		m.Notification("report", "sent")
	})
}
