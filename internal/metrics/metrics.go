// Package metrics records scrape health in a Prometheus registry that is
// written out as a node-exporter textfile at the end of a run.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors of one run
type Metrics struct {
	Registry *prometheus.Registry

	scrapeSuccess   *prometheus.GaugeVec
	scrapeDuration  *prometheus.GaugeVec
	records         *prometheus.GaugeVec
	scheduleFetches *prometheus.CounterVec
	scheduleLatency prometheus.Histogram
	unmatched       prometheus.Counter
}

// New creates and registers the collectors on a private registry
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		scrapeSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fbref_scrape_success",
			Help: "Whether the last run succeeded (1=success, 0=failure)",
		}, []string{"subject"}),
		scrapeDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fbref_scrape_duration_seconds",
			Help: "Time taken for the last run in seconds",
		}, []string{"subject"}),
		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fbref_records",
			Help: "Records per pipeline stage in the last run",
		}, []string{"subject", "stage"}),
		scheduleFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fbref_schedule_fetches_total",
			Help: "Schedule page fetches by outcome",
		}, []string{"outcome"}),
		scheduleLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fbref_schedule_fetch_seconds",
			Help:    "Latency of schedule page fetches",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 7),
		}),
		unmatched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fbref_unmatched_opponents_total",
			Help: "Fixture opponents missing from the opponent stats table",
		}),
	}
	m.Registry.MustRegister(
		m.scrapeSuccess, m.scrapeDuration, m.records,
		m.scheduleFetches, m.scheduleLatency, m.unmatched,
	)
	return m
}

// RunFinished records the outcome of a whole run
func (m *Metrics) RunFinished(subject string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.scrapeDuration.WithLabelValues(subject).Set(d.Seconds())
	if err != nil {
		m.scrapeSuccess.WithLabelValues(subject).Set(0)
		return
	}
	m.scrapeSuccess.WithLabelValues(subject).Set(1)
}

// Records sets the record count seen at a pipeline stage
func (m *Metrics) Records(subject, stage string, n int) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(subject, stage).Set(float64(n))
}

// ScheduleFetched counts a schedule lookup
func (m *Metrics) ScheduleFetched(d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.scheduleFetches.WithLabelValues(outcome).Inc()
	m.scheduleLatency.Observe(d.Seconds())
}

// OpponentUnmatched counts an opponent that had no stats row
func (m *Metrics) OpponentUnmatched(string) {
	if m == nil {
		return
	}
	m.unmatched.Inc()
}

// WriteTextfile writes every metric to path in the text exposition format
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("error writing metrics to %s: %w", path, err)
	}
	return nil
}
