package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the Prometheus metrics for the listing store. It uses
// its own registry so several collectors can coexist in tests.
type Collector struct {
	registry *prometheus.Registry

	Refreshes      *prometheus.CounterVec
	RefreshLatency prometheus.Histogram
	Discarded      prometheus.Counter
	Creates        *prometheus.CounterVec
	Listings       prometheus.Gauge
}

func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		Refreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "listing_refresh_total",
				Help:      "Total number of applied listing refreshes by result",
			},
			[]string{"result"},
		),
		RefreshLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "listing_refresh_duration_seconds",
				Help:      "Time spent fetching and normalizing listings",
				Buckets:   prometheus.DefBuckets,
			},
		),
		Discarded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "listing_refresh_discarded_total",
				Help:      "Refresh results dropped because a later refresh already won",
			},
		),
		Creates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "listing_create_total",
				Help:      "Total number of listing submissions by result",
			},
			[]string{"result"},
		),
		Listings: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "listings_current",
				Help:      "Number of listings in the latest snapshot",
			},
		),
	}

	registry.MustRegister(
		c.Refreshes,
		c.RefreshLatency,
		c.Discarded,
		c.Creates,
		c.Listings,
	)
	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) RefreshCompleted(result string, duration time.Duration) {
	c.Refreshes.WithLabelValues(result).Inc()
	c.RefreshLatency.Observe(duration.Seconds())
}

func (c *Collector) RefreshDiscarded() {
	c.Discarded.Inc()
}

func (c *Collector) CreateCompleted(result string) {
	c.Creates.WithLabelValues(result).Inc()
}

func (c *Collector) ListingsPublished(count int) {
	c.Listings.Set(float64(count))
}
