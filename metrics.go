package adventure

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Give-up reasons recorded by the retry adapter.
const (
	// GiveUpExhausted means the backoff policy returned Stop.
	GiveUpExhausted = "exhausted"
	// GiveUpAborted means the error was classified non-retryable.
	GiveUpAborted = "aborted"
)

// MetricsCollector provides Prometheus metrics for the retry and pagination
// adapters. It is safe for concurrent use, and all Record methods are no-ops
// on a nil collector.
type MetricsCollector struct {
	sendsTotal   prometheus.Counter
	retriesTotal prometheus.Counter
	giveUpsTotal *prometheus.CounterVec
	inFlight     prometheus.Gauge

	backoffDuration prometheus.Histogram

	pagesTotal      prometheus.Counter
	pageErrorsTotal prometheus.Counter

	registry prometheus.Registerer
}

// NewMetricsCollector creates a metrics collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using supplied registerer.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	mc := &MetricsCollector{
		sendsTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "adventure_sends_total",
				Help: "Total number of sends issued by the retry adapter",
			},
		),
		retriesTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "adventure_retries_total",
				Help: "Total number of re-sends after a transient failure",
			},
		),
		giveUpsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "adventure_give_ups_total",
				Help: "Total number of retry sequences ending in permanent failure",
			},
			[]string{"reason"},
		),
		inFlight: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "adventure_in_flight",
				Help: "Number of retry sequences currently executing",
			},
		),
		backoffDuration: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "adventure_backoff_duration_seconds",
				Help:    "Backoff wait durations chosen before re-sends",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
			},
		),
		pagesTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "adventure_pages_total",
				Help: "Total number of pages yielded by paginators",
			},
		),
		pageErrorsTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "adventure_page_errors_total",
				Help: "Total number of page fetches ending in an error",
			},
		),
		registry: registry,
	}

	return mc
}

// RecordSend counts one send issued by a retry adapter.
func (mc *MetricsCollector) RecordSend() {
	if mc == nil {
		return
	}

	mc.sendsTotal.Inc()
}

// RecordInFlight adjusts the gauge of currently executing retry sequences.
func (mc *MetricsCollector) RecordInFlight(delta float64) {
	if mc == nil {
		return
	}

	mc.inFlight.Add(delta)
}

// RecordRetry counts a re-send after a transient failure, along with the
// backoff wait that preceded it.
func (mc *MetricsCollector) RecordRetry(wait time.Duration) {
	if mc == nil {
		return
	}

	mc.retriesTotal.Inc()
	mc.backoffDuration.Observe(wait.Seconds())
}

// RecordGiveUp counts a retry sequence ending in permanent failure.
func (mc *MetricsCollector) RecordGiveUp(reason string) {
	if mc == nil {
		return
	}

	mc.giveUpsTotal.WithLabelValues(reason).Inc()
}

// RecordPage counts one page yielded by a paginator.
func (mc *MetricsCollector) RecordPage() {
	if mc == nil {
		return
	}

	mc.pagesTotal.Inc()
}

// RecordPageError counts a page fetch that surfaced an error.
func (mc *MetricsCollector) RecordPageError() {
	if mc == nil {
		return
	}

	mc.pageErrorsTotal.Inc()
}
