// Package metrics exposes Prometheus collectors for the rise-tracker service.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	updateRunsTotal   *prometheus.CounterVec
	scrapePagesTotal  *prometheus.CounterVec
	propertiesTracked prometheus.Gauge
	lastUpdateUnix    prometheus.Gauge

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times. Record helpers are no-ops
// until it has been called, so library code never panics without it.
func Init() {
	once.Do(func() {
		updateRunsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rise_update_runs_total",
				Help: "Total number of update pipeline runs, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		scrapePagesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rise_scrape_pages_total",
				Help: "Total number of listing pages fetched, labeled by status.",
			},
			[]string{"status"},
		)

		propertiesTracked = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "rise_properties_tracked",
				Help: "Number of valid listings in the most recent scrape.",
			},
		)

		lastUpdateUnix = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "rise_last_update_timestamp_seconds",
				Help: "Unix time of the last successful update run.",
			},
		)
	})
}

// RecordUpdateRun counts one pipeline run with the given outcome.
func RecordUpdateRun(outcome string) {
	if updateRunsTotal != nil {
		updateRunsTotal.WithLabelValues(outcome).Inc()
	}
}

// RecordScrapePage counts one page fetch with the given status.
func RecordScrapePage(status string) {
	if scrapePagesTotal != nil {
		scrapePagesTotal.WithLabelValues(status).Inc()
	}
}

// SetPropertiesTracked records how many valid listings the last scrape found.
func SetPropertiesTracked(n int) {
	if propertiesTracked != nil {
		propertiesTracked.Set(float64(n))
	}
}

// SetLastUpdate records when the pipeline last completed successfully.
func SetLastUpdate(t time.Time) {
	if lastUpdateUnix != nil {
		lastUpdateUnix.Set(float64(t.Unix()))
	}
}
