package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bird_obs"

// Metrics holds the Prometheus counters, histograms, and gauges for the service.
type Metrics struct {
	// Catalog load metrics.
	CatalogLoads   *prometheus.CounterVec // labels: outcome={success,fetch_error,parse_error}
	RowsLoaded     prometheus.Gauge
	RemarksSkipped prometheus.Counter
	RawDates       prometheus.Counter

	// Query metrics.
	Queries         *prometheus.CounterVec // labels: outcome={answered,invalid_key,empty_query,csv_not_loaded,api_error,bad_response,network_error}
	QueriesInFlight prometheus.Gauge
	LLMDuration     prometheus.Histogram
	AuditFailures   prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates metrics and registers them with reg.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(
		m.CatalogLoads,
		m.RowsLoaded,
		m.RemarksSkipped,
		m.RawDates,
		m.Queries,
		m.QueriesInFlight,
		m.LLMDuration,
		m.AuditFailures,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		CatalogLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_loads_total",
			Help:      "CSV load attempts by outcome.",
		}, []string{"outcome"}),
		RowsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rows_loaded",
			Help:      "Display rows produced by the last successful load.",
		}),
		RemarksSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remark_rows_skipped_total",
			Help:      "CSV rows dropped because they are footnotes.",
		}),
		RawDates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "raw_dates_total",
			Help:      "Dates that could not be parsed and are displayed as written.",
		}),
		Queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Questions received by outcome.",
		}, []string{"outcome"}),
		QueriesInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queries_in_flight",
			Help:      "Questions currently waiting on the model API.",
		}),
		LLMDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "Model API request duration in seconds.",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 60},
		}),
		AuditFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_publish_failures_total",
			Help:      "Query audit records that could not be published.",
		}),
	}
}
