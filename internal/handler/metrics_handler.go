package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/atp-planner-api/internal/service"
)

type readinessChecker interface {
	Ready() bool
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics   *service.MetricsService
	reference readinessChecker
}

// NewMetricsHandler constructs a metrics handler.
func NewMetricsHandler(metrics *service.MetricsService, reference readinessChecker) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, reference: reference}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health responds with a generic OK payload for liveness usage.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports whether reference data has been loaded.
func (h *MetricsHandler) Ready(c *gin.Context) {
	if h.reference == nil || !h.reference.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "reference data unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Summary returns the in-process counters.
func (h *MetricsHandler) Summary(c *gin.Context) {
	respond(c, http.StatusOK, h.metrics.Snapshot())
}
