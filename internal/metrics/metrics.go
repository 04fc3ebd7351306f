// Package metrics collects and exposes Prometheus metrics for the
// aggregation pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the recording interface used by the aggregator. A nop
// implementation is used when metrics are disabled.
type Recorder interface {
	RecordFetchSuccess(sourceName string)
	RecordFetchFailure(sourceName string)
	RecordFetchLatency(sourceName string, duration time.Duration)
	RecordArticlesStored(count int)
	RecordCacheHit(category string)
	RecordCacheMiss(category string)
}

// Collector implements Recorder on Prometheus metrics.
type Collector struct {
	fetchSuccess   *prometheus.CounterVec
	fetchFail      *prometheus.CounterVec
	fetchLatency   prometheus.Histogram
	articlesStored prometheus.Counter
	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		fetchSuccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "habari_fetch_success_total",
			Help: "Successful source fetches by source name.",
		}, []string{"source"}),
		fetchFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "habari_fetch_fail_total",
			Help: "Failed source fetches by source name.",
		}, []string{"source"}),
		fetchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "habari_fetch_latency_seconds",
			Help:    "Source fetch latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		articlesStored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "habari_articles_stored_total",
			Help: "Articles persisted after normalization and dedup.",
		}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "habari_cache_hits_total",
			Help: "Fresh cache hits by category.",
		}, []string{"category"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "habari_cache_misses_total",
			Help: "Cache misses by category.",
		}, []string{"category"}),
	}

	reg.MustRegister(
		c.fetchSuccess,
		c.fetchFail,
		c.fetchLatency,
		c.articlesStored,
		c.cacheHits,
		c.cacheMisses,
	)

	return c
}

func (c *Collector) RecordFetchSuccess(sourceName string) {
	c.fetchSuccess.WithLabelValues(sourceName).Inc()
}

func (c *Collector) RecordFetchFailure(sourceName string) {
	c.fetchFail.WithLabelValues(sourceName).Inc()
}

func (c *Collector) RecordFetchLatency(sourceName string, duration time.Duration) {
	c.fetchLatency.Observe(duration.Seconds())
}

func (c *Collector) RecordArticlesStored(count int) {
	c.articlesStored.Add(float64(count))
}

func (c *Collector) RecordCacheHit(category string) {
	c.cacheHits.WithLabelValues(category).Inc()
}

func (c *Collector) RecordCacheMiss(category string) {
	c.cacheMisses.WithLabelValues(category).Inc()
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop is a Recorder that discards all observations.
type Nop struct{}

func (Nop) RecordFetchSuccess(string)                {}
func (Nop) RecordFetchFailure(string)                {}
func (Nop) RecordFetchLatency(string, time.Duration) {}
func (Nop) RecordArticlesStored(int)                 {}
func (Nop) RecordCacheHit(string)                    {}
func (Nop) RecordCacheMiss(string)                   {}
