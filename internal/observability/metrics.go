package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	QueriesTotal        *prometheus.CounterVec
	QueryErrors         *prometheus.CounterVec
	QuotaRejections     prometheus.Counter
	ActiveConversations prometheus.Gauge
	StageLatency        *prometheus.HistogramVec

	stageWindow *queryStageWindow
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		QueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Processed queries by outcome.",
		}, []string{"outcome"}),
		QueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_errors_total",
			Help:      "Query failures by error kind.",
		}, []string{"kind"}),
		QuotaRejections: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quota_rejections_total",
			Help:      "Queries rejected by the quota gate.",
		}),
		ActiveConversations: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_conversations",
			Help:      "Conversations with a query currently in flight.",
		}),
		StageLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_stage_latency_ms",
			Help:      "Pipeline stage latency in milliseconds.",
			Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}, []string{"stage"}),
		stageWindow: newQueryStageWindow(256),
	}
}

// ObserveStage records a stage duration in both the Prometheus histogram and
// the in-process latency window behind /v1/perf/latency.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	ms := float64(d.Milliseconds())
	m.StageLatency.WithLabelValues(stage).Observe(ms)
	m.stageWindow.Observe(stage, ms)
}

func (m *Metrics) RecordOutcome(outcome string) {
	if m == nil {
		return
	}
	m.QueriesTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordErrorKind(kind string) {
	if m == nil {
		return
	}
	m.QueryErrors.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordQuotaRejection() {
	if m == nil {
		return
	}
	m.QuotaRejections.Inc()
}

func (m *Metrics) SetActiveConversations(n int) {
	if m == nil {
		return
	}
	m.ActiveConversations.Set(float64(n))
}

// SnapshotStages returns percentile statistics over the recent stage window.
func (m *Metrics) SnapshotStages() QueryStageSnapshot {
	if m == nil {
		return QueryStageSnapshot{}
	}
	return m.stageWindow.Snapshot()
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
