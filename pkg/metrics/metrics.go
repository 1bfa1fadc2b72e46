// Package metrics expõe as métricas Prometheus da auditoria de conversões
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const Namespace = "conversion_audit"

// Metrics agrupa os coletores. Todos os métodos aceitam receptor nil.
type Metrics struct {
	Runs              *prometheus.CounterVec
	RunDuration       prometheus.Histogram
	SliceFailures     *prometheus.CounterVec
	Issues            *prometheus.CounterVec
	Opportunities     *prometheus.CounterVec
	DataSourceQueries *prometheus.CounterVec
	Notifications     *prometheus.CounterVec
}

// NewMetrics cria e registra as métricas no registerer informado
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of audit runs by outcome",
			},
			[]string{"status"},
		),
		RunDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of audit runs",
				Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
			},
		),
		SliceFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "slice_failures_total",
				Help:      "Metric slices that failed and were left at zero",
			},
			[]string{"slice"},
		),
		Issues: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "issues_total",
				Help:      "Issues detected by type",
			},
			[]string{"type"},
		),
		Opportunities: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "opportunities_total",
				Help:      "Opportunities detected by type",
			},
			[]string{"type"},
		),
		DataSourceQueries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "datasource_queries_total",
				Help:      "Queries sent to the reporting backend",
			},
			[]string{"source", "status"},
		),
		Notifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_total",
				Help:      "Notifications sent by kind and outcome",
			},
			[]string{"kind", "status"},
		),
	}
}

// Handler expõe as métricas do gatherer informado
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRun(status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(status).Inc()
	m.RunDuration.Observe(duration.Seconds())
}

func (m *Metrics) SliceFailed(slice string) {
	if m == nil {
		return
	}
	m.SliceFailures.WithLabelValues(slice).Inc()
}

func (m *Metrics) IssueFound(issueType string) {
	if m == nil {
		return
	}
	m.Issues.WithLabelValues(issueType).Inc()
}

func (m *Metrics) OpportunityFound(issueType string) {
	if m == nil {
		return
	}
	m.Opportunities.WithLabelValues(issueType).Inc()
}

func (m *Metrics) DataSourceQuery(source, status string) {
	if m == nil {
		return
	}
	m.DataSourceQueries.WithLabelValues(source, status).Inc()
}

func (m *Metrics) Notification(kind, status string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(kind, status).Inc()
}
