// Package metrics exposes the engine's operational counters and gauges as
// Prometheus metrics. The teacher's hand-rolled atomic counter/histogram
// is replaced here with the ecosystem library the rest of the retrieval
// pack (perp-dex's metrics/prometheus.go) reaches for instead — see
// DESIGN.md for why the lock-free histogram wasn't kept.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"matchvenue/internal/order"
	"matchvenue/internal/scalar"
)

// Collector holds every metric the venue reports. It implements
// engine.MetricsRecorder.
type Collector struct {
	ordersReceived  prometheus.Counter
	ordersCancelled prometheus.Counter
	tradesExecuted  prometheus.Counter
	submitLatency   prometheus.Histogram
	depth           *prometheus.GaugeVec
}

// NewCollector builds and registers a fresh Collector against reg. Pass
// prometheus.NewRegistry() in tests to avoid collisions with the global
// default registry across repeated construction.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		ordersReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "matchvenue",
			Subsystem: "orders",
			Name:      "received_total",
			Help:      "Total number of orders accepted by the engine.",
		}),
		ordersCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "matchvenue",
			Subsystem: "orders",
			Name:      "cancelled_total",
			Help:      "Total number of orders cancelled.",
		}),
		tradesExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "matchvenue",
			Subsystem: "trades",
			Name:      "executed_total",
			Help:      "Total number of trades executed by the matching loop.",
		}),
		submitLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "matchvenue",
			Subsystem: "engine",
			Name:      "submit_latency_seconds",
			Help:      "Time spent inside Engine.TryInsert per submission.",
			Buckets:   prometheus.DefBuckets,
		}),
		depth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "matchvenue",
			Subsystem: "book",
			Name:      "depth",
			Help:      "Aggregate resting quantity per side.",
		}, []string{"side"}),
	}

	reg.MustRegister(c.ordersReceived, c.ordersCancelled, c.tradesExecuted, c.submitLatency, c.depth)
	return c
}

// IncReceived records one accepted submission.
func (c *Collector) IncReceived() {
	c.ordersReceived.Inc()
}

// IncCancelled records one cancellation.
func (c *Collector) IncCancelled() {
	c.ordersCancelled.Inc()
}

// IncTradesExecuted records n trades produced by a single submission's
// matching loop.
func (c *Collector) IncTradesExecuted(n int) {
	if n <= 0 {
		return
	}
	c.tradesExecuted.Add(float64(n))
}

// SetDepth reports the current aggregate resting quantity for side.
func (c *Collector) SetDepth(side order.Side, amount scalar.Amount) {
	c.depth.WithLabelValues(side.String()).Set(float64(amount))
}

// ObserveSubmitLatency records how long one TryInsert call took.
func (c *Collector) ObserveSubmitLatency(seconds float64) {
	c.submitLatency.Observe(seconds)
}

// Handler returns the Prometheus scrape endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
