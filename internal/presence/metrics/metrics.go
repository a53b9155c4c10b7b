// Package metrics provides observability for the presence module.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks feed computation and scan ingestion. All methods are
// nil-safe so tests can pass a nil *Metrics without registering
// collectors.
type Metrics struct {
	FeedRequests  prometheus.Counter
	FeedDuration  prometheus.Histogram
	FeedItems     prometheus.Gauge
	PeoplePresent prometheus.Gauge
	ScansRecorded prometheus.Counter
	ScanFailures  prometheus.Counter
}

// New creates and registers all presence metrics.
func New() *Metrics {
	return &Metrics{
		FeedRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "onsite_feed_requests_total",
			Help: "Total number of display feed computations",
		}),
		FeedDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "onsite_feed_duration_seconds",
			Help:    "Duration of display feed computations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		FeedItems: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "onsite_feed_items",
			Help: "Items in the most recent display feed",
		}),
		PeoplePresent: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "onsite_people_present",
			Help: "People computed present in the most recent display feed",
		}),
		ScansRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "onsite_scans_recorded_total",
			Help: "Total number of door scans recorded",
		}),
		ScanFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "onsite_scan_failures_total",
			Help: "Total number of door scans that failed to persist",
		}),
	}
}

// ObserveFeed records one feed computation.
func (m *Metrics) ObserveFeed(start time.Time, items, present int) {
	if m == nil {
		return
	}
	m.FeedRequests.Inc()
	m.FeedDuration.Observe(time.Since(start).Seconds())
	m.FeedItems.Set(float64(items))
	m.PeoplePresent.Set(float64(present))
}

// IncrementScans records a persisted door scan.
func (m *Metrics) IncrementScans() {
	if m == nil {
		return
	}
	m.ScansRecorded.Inc()
}

// IncrementScanFailures records a scan that could not be persisted.
func (m *Metrics) IncrementScanFailures() {
	if m == nil {
		return
	}
	m.ScanFailures.Inc()
}
