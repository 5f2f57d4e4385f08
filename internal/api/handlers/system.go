package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gamelink/platform-controller/internal/logger"
	"github.com/gamelink/platform-controller/internal/metrics"
)

// SystemHandler serves host-level telemetry
type SystemHandler struct {
	collector *metrics.Collector
	logger    logger.Interface
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(collector *metrics.Collector, log logger.Interface) *SystemHandler {
	return &SystemHandler{
		collector: collector,
		logger:    log.WithField("component", "system-handler"),
	}
}

// Metrics returns a point-in-time snapshot of host health
func (h *SystemHandler) Metrics(c *gin.Context) {
	snap := h.collector.Collect(c.Request.Context())
	c.JSON(http.StatusOK, snap)
}

// Info returns static host identification
func (h *SystemHandler) Info(c *gin.Context) {
	info, err := h.collector.Host(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("failed to collect host info")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "failed to collect host info",
		})
		return
	}

	c.JSON(http.StatusOK, info)
}
