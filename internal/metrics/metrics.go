// Package metrics exposes the connector's Prometheus instrumentation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns the metric registry for the connector.
type Collector struct {
	reg *prometheus.Registry

	RowsRead      *prometheus.CounterVec // transformer label
	RowsPublished *prometheus.CounterVec
	RowsConfirmed *prometheus.CounterVec

	CyclesStarted prometheus.Counter
	CyclesFailed  prometheus.Counter
	TicksDropped  prometheus.Counter

	CycleDuration prometheus.Histogram
	LastSuccess   prometheus.Gauge // unix seconds of the last successful cycle
}

// NewCollector builds and registers the connector metrics.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		RowsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "connector_rows_read_total",
			Help: "Rows read from the Pubtrans source.",
		}, []string{"transformer"}),
		RowsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "connector_rows_published_total",
			Help: "Rows for which a cache write was issued.",
		}, []string{"transformer"}),
		RowsConfirmed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "connector_rows_confirmed_total",
			Help: "Rows acknowledged by the cache.",
		}, []string{"transformer"}),
		CyclesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "connector_cycles_started_total",
			Help: "Poll cycles started.",
		}),
		CyclesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "connector_cycles_failed_total",
			Help: "Poll cycles aborted before the heartbeat was written.",
		}),
		TicksDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "connector_ticks_dropped_total",
			Help: "Scheduler ticks dropped because a cycle was still running.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "connector_cycle_duration_seconds",
			Help:    "Wall time of complete poll cycles.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "connector_last_success_timestamp_seconds",
			Help: "Unix time of the last fully successful cycle.",
		}),
	}

	reg.MustRegister(
		c.RowsRead, c.RowsPublished, c.RowsConfirmed,
		c.CyclesStarted, c.CyclesFailed, c.TicksDropped,
		c.CycleDuration, c.LastSuccess,
	)
	return c
}

// ObserveTransformer records the counters for one extraction.
func (c *Collector) ObserveTransformer(name string, read, published, confirmed int) {
	c.RowsRead.WithLabelValues(name).Add(float64(read))
	c.RowsPublished.WithLabelValues(name).Add(float64(published))
	c.RowsConfirmed.WithLabelValues(name).Add(float64(confirmed))
}

// ObserveCycleSuccess records a completed cycle.
func (c *Collector) ObserveCycleSuccess(elapsed time.Duration, at time.Time) {
	c.CycleDuration.Observe(elapsed.Seconds())
	c.LastSuccess.Set(float64(at.Unix()))
}

// Handler returns the /metrics HTTP handler for this registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}
