// Package metrics exposes Prometheus instrumentation for the cleaning service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service-level Prometheus collectors
type Metrics struct {
	registry *prometheus.Registry

	UploadsTotal  prometheus.Counter
	CleansTotal   *prometheus.CounterVec
	ExportsTotal  *prometheus.CounterVec
	RowsProcessed prometheus.Histogram
	RowsDropped   prometheus.Counter
	SessionsLive  prometheus.Gauge
}

// New creates a Metrics instance backed by its own registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		UploadsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "cleansheet",
			Name:      "uploads_total",
			Help:      "Number of CSV files uploaded",
		}),
		CleansTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cleansheet",
			Name:      "cleans_total",
			Help:      "Number of cleaning operations by outlier policy",
		}, []string{"policy"}),
		ExportsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cleansheet",
			Name:      "exports_total",
			Help:      "Number of exports by format",
		}, []string{"format"}),
		RowsProcessed: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cleansheet",
			Name:      "rows_processed",
			Help:      "Row counts of tables passing through the cleaning pipeline",
			Buckets:   prometheus.ExponentialBuckets(10, 10, 6),
		}),
		RowsDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "cleansheet",
			Name:      "rows_dropped_total",
			Help:      "Total rows removed by drop-missing and outlier removal",
		}),
		SessionsLive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "cleansheet",
			Name:      "sessions_live",
			Help:      "Number of live sessions in the store",
		}),
	}
}

// Handler returns the /metrics HTTP handler for this registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
