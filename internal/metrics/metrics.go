// Package metrics records query activity on a private Prometheus registry.
//
// Metrics:
//   - arraydb_queries_total: queries run, by match mode and inversion
//   - arraydb_elements_scanned_total: elements handed to the matcher
//   - arraydb_elements_selected_total: elements returned to the caller
//   - arraydb_query_duration_seconds: wall time of a query
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "arraydb"

// Collector owns the registry and the query metrics.
type Collector struct {
	registry *prometheus.Registry

	queriesTotal  *prometheus.CounterVec
	scannedTotal  prometheus.Counter
	selectedTotal prometheus.Counter
	queryDuration prometheus.Histogram
}

// NewCollector registers the query metrics on a fresh registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		queriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queries_total",
				Help:      "Total number of queries run",
			},
			[]string{"mode", "reverse"},
		),

		scannedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "elements_scanned_total",
			Help:      "Total number of elements tested against a pattern",
		}),

		selectedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "elements_selected_total",
			Help:      "Total number of elements returned by queries",
		}),

		queryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Duration of queries in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 12), // 1µs to ~4s
		}),
	}

	c.registry.MustRegister(
		c.queriesTotal,
		c.scannedTotal,
		c.selectedTotal,
		c.queryDuration,
	)

	return c
}

// RecordQuery records one query run.
func (c *Collector) RecordQuery(strict, reverse bool, scanned, selected int, duration time.Duration) {
	mode := "loose"
	if strict {
		mode = "strict"
	}

	c.queriesTotal.WithLabelValues(mode, strconv.FormatBool(reverse)).Inc()
	c.scannedTotal.Add(float64(scanned))
	c.selectedTotal.Add(float64(selected))
	c.queryDuration.Observe(duration.Seconds())
}

// Registry exposes the registry for gathering.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteTextfile writes every metric to filename in the Prometheus text
// format, for pickup by a node exporter textfile collector.
func (c *Collector) WriteTextfile(filename string) error {
	if err := prometheus.WriteToTextfile(filename, c.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", filename, err)
	}
	return nil
}
