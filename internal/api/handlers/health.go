package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gamelink/platform-controller/pkg/platform"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	backend platform.Platform
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(backend platform.Platform) *HealthHandler {
	return &HealthHandler{
		backend: backend,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version,omitempty"`
	Uptime    string    `json:"uptime,omitempty"`
}

// ReadinessResponse represents the readiness check response
type ReadinessResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

var startTime = time.Now()

// Health returns the basic health status
func (h *HealthHandler) Health(c *gin.Context) {
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.backend.Version(),
		Uptime:    time.Since(startTime).String(),
	}

	c.JSON(http.StatusOK, response)
}

// Ready returns the readiness status including the platform backend
func (h *HealthHandler) Ready(c *gin.Context) {
	services := make(map[string]string)
	status := "ready"
	statusCode := http.StatusOK

	// A role query initializes the backend on first use, so readiness
	// doubles as platform bring-up.
	if _, err := h.backend.DeviceRole(); err != nil {
		services["platform"] = "unhealthy: " + err.Error()
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	} else {
		services["platform"] = "healthy"
	}

	response := ReadinessResponse{
		Status:    status,
		Timestamp: time.Now(),
		Services:  services,
	}

	c.JSON(statusCode, response)
}

// RuntimeInfo returns Go runtime information for the daemon process
func RuntimeInfo(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	info := gin.H{
		"go_version": runtime.Version(),
		"go_os":      runtime.GOOS,
		"go_arch":    runtime.GOARCH,
		"cpu_count":  runtime.NumCPU(),
		"goroutines": runtime.NumGoroutine(),
		"memory": gin.H{
			"alloc":      m.Alloc,
			"sys":        m.Sys,
			"heap_alloc": m.HeapAlloc,
			"heap_sys":   m.HeapSys,
		},
		"gc": gin.H{
			"num_gc":      m.NumGC,
			"pause_total": m.PauseTotalNs,
		},
		"timestamp": time.Now(),
		"uptime":    time.Since(startTime).String(),
	}

	c.JSON(http.StatusOK, info)
}
