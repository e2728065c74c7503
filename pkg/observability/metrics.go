// Package observability holds the Prometheus metrics for the service.
package observability

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	globalCollector *Collector
	collectorMutex  sync.Mutex
)

// Collector holds all Prometheus metrics for the application.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Generation pipeline metrics
	GenerationAttempts *prometheus.CounterVec
	LeakLinesDropped   prometheus.Counter

	// Business metrics
	ArticlesCreated  prometheus.Counter
	ArticlesRestored prometheus.Counter
}

// NewCollector creates the metrics collector with the given namespace.
// A singleton avoids duplicate registration in tests.
func NewCollector(namespace string) *Collector {
	collectorMutex.Lock()
	defer collectorMutex.Unlock()

	if globalCollector != nil {
		return globalCollector
	}

	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	generationAttempts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_attempts_total",
			Help:      "Generation attempts by template category and outcome",
		},
		[]string{"category", "outcome"},
	)

	leakLinesDropped := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leak_lines_dropped_total",
			Help:      "Meta-leak lines removed from generation output",
		},
	)

	articlesCreated := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_created_total",
			Help:      "Total number of articles synthesized",
		},
	)

	articlesRestored := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_restored_total",
			Help:      "Total number of history restores applied",
		},
	)

	registry.MustRegister(httpRequests, httpDuration, generationAttempts,
		leakLinesDropped, articlesCreated, articlesRestored)

	globalCollector = &Collector{
		registry:           registry,
		HTTPRequests:       httpRequests,
		HTTPDuration:       httpDuration,
		GenerationAttempts: generationAttempts,
		LeakLinesDropped:   leakLinesDropped,
		ArticlesCreated:    articlesCreated,
		ArticlesRestored:   articlesRestored,
	}
	return globalCollector
}

// ObserveHTTPRequest records one served request.
func (c *Collector) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler exposes the collector's registry for the /metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
