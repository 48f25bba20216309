package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/atp-planner-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry           *prometheus.Registry
	handler            http.Handler
	requestDuration    *prometheus.HistogramVec
	requestTotal       *prometheus.CounterVec
	planTotal          *prometheus.CounterVec
	planDeficit        prometheus.Histogram
	generationDuration *prometheus.HistogramVec
	generationFailures *prometheus.CounterVec
	exportJobs         *prometheus.CounterVec
	sessionStore       *prometheus.HistogramVec

	requestCount            uint64
	requestDurationTotal    uint64
	planCount               uint64
	generationCount         uint64
	generationFailCount     uint64
	generationDurationTotal uint64
	exportFinishedCount     uint64
	exportFailedCount       uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	planTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_computations_total",
		Help: "Planner computations by operation and outcome",
	}, []string{"operation", "outcome"})

	planDeficit := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "planner_allocation_deficit_hours",
		Help:    "Hours missing from allocations that could not reach their target",
		Buckets: []float64{1, 6, 12, 36, 72, 144, 216, 288},
	})

	generationDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "content_generation_duration_seconds",
		Help:    "Latency of content generator calls",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
	}, []string{"step"})

	generationFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "content_generation_failures_total",
		Help: "Failed content generator calls",
	}, []string{"step"})

	exportJobs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "export_jobs_total",
		Help: "Export jobs by terminal status",
	}, []string{"format", "status"})

	sessionStore := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "session_store_duration_seconds",
		Help:    "Latency of session history operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, planTotal, planDeficit, generationDuration, generationFailures, exportJobs, sessionStore, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:           registry,
		handler:            handler,
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		planTotal:          planTotal,
		planDeficit:        planDeficit,
		generationDuration: generationDuration,
		generationFailures: generationFailures,
		exportJobs:         exportJobs,
		sessionStore:       sessionStore,
	}
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

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// ObservePlan counts a planner computation. Outcome is "ok" or the first
// condition code raised.
func (m *MetricsService) ObservePlan(operation string, conditions models.Conditions, deficit int) {
	if m == nil {
		return
	}
	outcome := "ok"
	if len(conditions) > 0 {
		outcome = string(conditions[0].Code)
	}
	m.planTotal.WithLabelValues(operation, outcome).Inc()
	if deficit > 0 {
		m.planDeficit.Observe(float64(deficit))
	}
	atomic.AddUint64(&m.planCount, 1)
}

// ObserveGeneration records one content generator call.
func (m *MetricsService) ObserveGeneration(step string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.generationDuration.WithLabelValues(step).Observe(duration.Seconds())
	atomic.AddUint64(&m.generationCount, 1)
	atomic.AddUint64(&m.generationDurationTotal, uint64(duration.Nanoseconds()))
	if err != nil {
		m.generationFailures.WithLabelValues(step).Inc()
		atomic.AddUint64(&m.generationFailCount, 1)
	}
}

// ObserveExport records an export job reaching a terminal status.
func (m *MetricsService) ObserveExport(format models.ExportFormat, status models.ExportStatus) {
	if m == nil {
		return
	}
	m.exportJobs.WithLabelValues(string(format), string(status)).Inc()
	switch status {
	case models.ExportStatusFinished:
		atomic.AddUint64(&m.exportFinishedCount, 1)
	case models.ExportStatusFailed:
		atomic.AddUint64(&m.exportFailedCount, 1)
	}
}

// ObserveSessionStore tracks history store latency.
func (m *MetricsService) ObserveSessionStore(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.sessionStore.WithLabelValues(operation).Observe(duration.Seconds())
}

// Snapshot returns aggregated metrics suitable for the summary endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	generations := atomic.LoadUint64(&m.generationCount)
	genDuration := atomic.LoadUint64(&m.generationDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	var avgGenerationMs float64
	if generations > 0 {
		avgGenerationMs = float64(genDuration) / float64(generations) / float64(time.Millisecond)
	}

	return models.SystemMetrics{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		PlansComputed:            atomic.LoadUint64(&m.planCount),
		GenerationCalls:          generations,
		GenerationFailures:       atomic.LoadUint64(&m.generationFailCount),
		AverageGenerationMs:      avgGenerationMs,
		ExportsFinished:          atomic.LoadUint64(&m.exportFinishedCount),
		ExportsFailed:            atomic.LoadUint64(&m.exportFailedCount),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
