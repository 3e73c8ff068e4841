// Package observability holds the Prometheus metric set shared by the
// HTTP API and the ingest daemon.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// decode and ingest surfaces.
type Metrics struct {
	DecodesTotal   *prometheus.CounterVec // labels: kind={METAR,SPECI,TAF,unknown}, status={ok,error}
	DecodeWarnings prometheus.Counter
	DecodeDuration prometheus.Histogram

	// Ingest pipeline metrics.
	ReportsConsumed  prometheus.Counter
	ReportsArchived  prometheus.Counter
	ReportsPublished prometheus.Counter
	IngestErrors     *prometheus.CounterVec // labels: stage={envelope,decode,archive,analytics,publish}
	IngestRunning    prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.DecodesTotal,
		m.DecodeWarnings,
		m.DecodeDuration,
		m.ReportsConsumed,
		m.ReportsArchived,
		m.ReportsPublished,
		m.IngestErrors,
		m.IngestRunning,
	)

	return m
}

// NewMetricsForTesting creates Metrics without touching the default
// registry, to avoid "already registered" panics across tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		DecodesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wx_decoder",
			Name:      "decodes_total",
			Help:      "Decode calls by report kind and outcome.",
		}, []string{"kind", "status"}),
		DecodeWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wx_decoder",
			Name:      "decode_warnings_total",
			Help:      "Non-fatal decode warnings attached to reports.",
		}),
		DecodeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wx_decoder",
			Name:      "decode_duration_seconds",
			Help:      "Duration of a single decode call.",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}),
		ReportsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wx_decoder",
			Name:      "reports_consumed_total",
			Help:      "Raw report envelopes read from the feed.",
		}),
		ReportsArchived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wx_decoder",
			Name:      "reports_archived_total",
			Help:      "Decoded reports written to the archive.",
		}),
		ReportsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wx_decoder",
			Name:      "reports_published_total",
			Help:      "Decoded reports published to the sink topic.",
		}),
		IngestErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wx_decoder",
			Name:      "ingest_errors_total",
			Help:      "Ingest failures by pipeline stage.",
		}, []string{"stage"}),
		IngestRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wx_decoder",
			Name:      "ingest_running",
			Help:      "1 when the ingest pipeline is active, 0 when shut down.",
		}),
	}
}

// ObserveDecode records the outcome of one decode call.
func (m *Metrics) ObserveDecode(kind string, warnings int, err error) {
	if kind == "" {
		kind = "unknown"
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.DecodesTotal.WithLabelValues(kind, status).Inc()
	m.DecodeWarnings.Add(float64(warnings))
}
