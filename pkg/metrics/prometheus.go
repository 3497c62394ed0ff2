// Package metrics exports service metrics in Prometheus format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "summarizer"

// Collector owns a private registry and the collectors registered on it.
type Collector struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	summaries        *prometheus.CounterVec
	chunksPerRequest prometheus.Histogram
	chunkTokens      prometheus.Histogram
	inferenceLatency *prometheus.HistogramVec
	modelAvailable   prometheus.Gauge
}

// New registers every collector on a fresh registry.
func New() *Collector {
	c := &Collector{registry: prometheus.NewRegistry()}

	c.httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	c.httpLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "path"},
	)
	c.summaries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "service",
			Name:      "summaries_total",
			Help:      "Summarization requests by length profile and outcome",
		},
		[]string{"profile", "outcome"},
	)
	c.chunksPerRequest = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "service",
			Name:      "chunks_per_request",
			Help:      "Number of chunks produced per summarization request",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
		},
	)
	c.chunkTokens = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "service",
			Name:      "chunk_tokens",
			Help:      "Estimated token count of each chunk sent to the engine",
			Buckets:   []float64{128, 256, 512, 768, 1024, 1536, 2048},
		},
	)
	c.inferenceLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "inference_duration_seconds",
			Help:      "Engine call latency in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"provider", "status"},
	)
	c.modelAvailable = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "model_available",
			Help:      "1 when the summarization model loaded at startup, 0 otherwise",
		},
	)

	c.registry.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.summaries,
		c.chunksPerRequest,
		c.chunkTokens,
		c.inferenceLatency,
		c.modelAvailable,
	)
	return c
}

// Registry exposes the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one finished HTTP request.
func (c *Collector) ObserveHTTP(method, path string, status int, latency time.Duration) {
	c.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method, path).Observe(latency.Seconds())
}

// ObserveSummary records a summarization outcome and its chunk count.
func (c *Collector) ObserveSummary(profile, outcome string, chunks int) {
	c.summaries.WithLabelValues(profile, outcome).Inc()
	if chunks > 0 {
		c.chunksPerRequest.Observe(float64(chunks))
	}
}

// ObserveChunkTokens records the token estimate of a single chunk.
func (c *Collector) ObserveChunkTokens(tokens int) {
	c.chunkTokens.Observe(float64(tokens))
}

// ObserveInference records one engine call.
func (c *Collector) ObserveInference(provider string, latency time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.inferenceLatency.WithLabelValues(provider, status).Observe(latency.Seconds())
}

// SetModelAvailable flips the availability gauge.
func (c *Collector) SetModelAvailable(available bool) {
	if available {
		c.modelAvailable.Set(1)
		return
	}
	c.modelAvailable.Set(0)
}
