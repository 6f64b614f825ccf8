// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Pricing metrics
	PricesComputed     *prometheus.CounterVec
	PriceComputeErrors *prometheus.CounterVec

	// Storage metrics
	HistoryRecordsStored   prometheus.Counter
	CompetitorPricesStored prometheus.Counter

	// Analytics metrics
	AnalyticsRuns *prometheus.CounterVec

	// HTTP metrics
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "dynamic_pricing"
	}

	return &Metrics{
		PricesComputed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "prices_computed_total",
			Help:      "Total number of prices computed by strategy",
		}, []string{"strategy"}),
		PriceComputeErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "compute_errors_total",
			Help:      "Total number of failed price computations by reason",
		}, []string{"reason"}),

		HistoryRecordsStored: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "history_records_stored_total",
			Help:      "Total number of price history records appended",
		}),
		CompetitorPricesStored: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "competitor_prices_stored_total",
			Help:      "Total number of competitor price records stored",
		}),

		AnalyticsRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "runs_total",
			Help:      "Total number of analytics aggregations by status",
		}, []string{"status"}),

		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"handler", "status"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordPriceComputed increments the computed prices counter for a strategy.
func RecordPriceComputed(strategy string) {
	DefaultMetrics.PricesComputed.WithLabelValues(strategy).Inc()
}

// RecordPriceComputeError records a failed price computation.
func RecordPriceComputeError(reason string) {
	DefaultMetrics.PriceComputeErrors.WithLabelValues(reason).Inc()
}

// RecordHistoryStored increments the stored history records counter.
func RecordHistoryStored() {
	DefaultMetrics.HistoryRecordsStored.Inc()
}

// RecordCompetitorStored increments the stored competitor prices counter.
func RecordCompetitorStored() {
	DefaultMetrics.CompetitorPricesStored.Inc()
}

// RecordAnalyticsRun records an analytics aggregation run.
func RecordAnalyticsRun(status string) {
	DefaultMetrics.AnalyticsRuns.WithLabelValues(status).Inc()
}

// ObserveRequest records an HTTP request duration.
func ObserveRequest(handler, status string, seconds float64) {
	DefaultMetrics.RequestDuration.WithLabelValues(handler, status).Observe(seconds)
}
