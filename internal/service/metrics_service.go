package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Generation outcomes reported by RecordGeneration.
const (
	GenerationSucceeded = "success"
	GenerationFailed    = "failure"
	GenerationConflict  = "conflict"
)

// MetricsService encapsulates Prometheus instrumentation. A nil receiver is a no-op.
type MetricsService struct {
	registry           *prometheus.Registry
	handler            http.Handler
	requestDuration    *prometheus.HistogramVec
	requestTotal       *prometheus.CounterVec
	cacheLatency       prometheus.Histogram
	cacheWrite         prometheus.Histogram
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
	generationDuration prometheus.Histogram
	generationTotal    *prometheus.CounterVec
	resultsWritten     prometheus.Counter
	jobsEnqueued       *prometheus.CounterVec
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	m := &MetricsService{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		cacheLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cache_latency_seconds",
			Help:    "Latency for cache lookups",
			Buckets: prometheus.DefBuckets,
		}),
		cacheWrite: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cache_write_seconds",
			Help:    "Latency for cache writes",
			Buckets: prometheus.DefBuckets,
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total cache hits",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total cache misses",
		}),
		generationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "monthly_result_generation_seconds",
			Help:    "Duration of monthly result generation runs",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		generationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "monthly_result_generations_total",
			Help: "Monthly result generation runs by outcome",
		}, []string{"outcome"}),
		resultsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "monthly_results_written_total",
			Help: "Monthly result rows persisted",
		}),
		jobsEnqueued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "monthly_result_jobs_total",
			Help: "Asynchronous generation jobs by enqueue outcome",
		}, []string{"outcome"}),
	}

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(m.requestDuration, m.requestTotal, m.cacheLatency, m.cacheWrite, m.cacheHits, m.cacheMisses,
		m.generationDuration, m.generationTotal, m.resultsWritten, m.jobsEnqueued, goroutines)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry returns the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache lookup.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		return
	}
	m.cacheMisses.Inc()
}

// ObserveCacheWrite tracks cache write latency.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// RecordGeneration tracks one generation run and, on success, how many rows it wrote.
func (m *MetricsService) RecordGeneration(outcome string, rows int, duration time.Duration) {
	if m == nil {
		return
	}
	m.generationTotal.WithLabelValues(outcome).Inc()
	if outcome != GenerationSucceeded {
		return
	}
	m.generationDuration.Observe(duration.Seconds())
	m.resultsWritten.Add(float64(rows))
}

// RecordJobEnqueue tracks asynchronous generation requests.
func (m *MetricsService) RecordJobEnqueue(outcome string) {
	if m == nil {
		return
	}
	m.jobsEnqueued.WithLabelValues(outcome).Inc()
}
