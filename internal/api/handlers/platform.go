package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/gamelink/platform-controller/internal/errors"
	"github.com/gamelink/platform-controller/internal/logger"
	"github.com/gamelink/platform-controller/pkg/platform"
)

// PlatformHandler exposes the platform backend over the diagnostic API.
type PlatformHandler struct {
	backend     platform.Platform
	backendName string
	logger      logger.Interface
}

// NewPlatformHandler creates a new platform handler
func NewPlatformHandler(backend platform.Platform, backendName string, log logger.Interface) *PlatformHandler {
	return &PlatformHandler{
		backend:     backend,
		backendName: backendName,
		logger:      log.WithField("component", "platform-handler"),
	}
}

// SetLEDStateRequest represents the request to set a named LED state
type SetLEDStateRequest struct {
	State string `json:"state" binding:"required"`
}

// SetLEDRGBRequest represents the request to drive the LED color directly
type SetLEDRGBRequest struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Status returns a combined picture of the platform backend
func (h *PlatformHandler) Status(c *gin.Context) {
	role, err := h.backend.DeviceRole()
	if err != nil {
		h.fail(c, "failed to query device role", err)
		return
	}

	button, err := h.backend.ButtonState()
	if err != nil {
		h.fail(c, "failed to query button state", err)
		return
	}

	power, err := h.backend.ConsolePower()
	if err != nil {
		h.fail(c, "failed to query console power", err)
		return
	}

	status := gin.H{
		"backend":       h.backendName,
		"version":       h.backend.Version(),
		"device_role":   role,
		"button_state":  button.String(),
		"console_power": power.String(),
	}

	if msg, ok := h.backend.LastError(); ok {
		status["last_error"] = msg
	}

	if controller, ok := h.backend.(platform.Controller); ok {
		status["counters"] = controller.Stats()
	}

	c.JSON(http.StatusOK, status)
}

// Role returns the device role
func (h *PlatformHandler) Role(c *gin.Context) {
	role, err := h.backend.DeviceRole()
	if err != nil {
		h.fail(c, "failed to query device role", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"device_role": role})
}

// Button returns the current raw button state
func (h *PlatformHandler) Button(c *gin.Context) {
	state, err := h.backend.ButtonState()
	if err != nil {
		h.fail(c, "failed to query button state", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"button_state": state.String(),
		"pressed":      state == platform.ButtonPressed,
	})
}

// Power returns the observed console power state
func (h *PlatformHandler) Power(c *gin.Context) {
	power, err := h.backend.ConsolePower()
	if err != nil {
		h.fail(c, "failed to query console power", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"console_power": power.String()})
}

// Version returns the backend version string
func (h *PlatformHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"version": h.backend.Version()})
}

// LastError returns the most recent platform failure, if any
func (h *PlatformHandler) LastError(c *gin.Context) {
	msg, ok := h.backend.LastError()
	c.JSON(http.StatusOK, gin.H{
		"has_error":  ok,
		"last_error": msg,
	})
}

// SetLEDState requests a named LED state
func (h *PlatformHandler) SetLEDState(c *gin.Context) {
	var req SetLEDStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": err.Error(),
		})
		return
	}

	state, err := platform.ParseLEDState(req.State)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": err.Error(),
		})
		return
	}

	if err := h.backend.SetLEDState(state); err != nil {
		h.fail(c, "failed to set LED state", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"state": state.String(),
		"color": platform.ColorFor(state),
	})
}

// SetLEDRGB drives the LED color directly
func (h *PlatformHandler) SetLEDRGB(c *gin.Context) {
	var req SetLEDRGBRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": err.Error(),
		})
		return
	}

	if err := h.backend.SetLEDRGB(req.R, req.G, req.B); err != nil {
		h.fail(c, "failed to set LED RGB", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"color": platform.RGB{R: req.R, G: req.G, B: req.B},
	})
}

// Wake issues a console wake command
func (h *PlatformHandler) Wake(c *gin.Context) {
	if err := h.backend.SendConsoleWake(); err != nil {
		h.fail(c, "failed to send console wake", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "wake command sent",
	})
}

// Reset restores the platform to its initial state
func (h *PlatformHandler) Reset(c *gin.Context) {
	if err := h.backend.Reset(); err != nil {
		h.fail(c, "failed to reset platform", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "platform reset",
	})
}

// fail logs the error and answers with the status its kind maps to.
func (h *PlatformHandler) fail(c *gin.Context, msg string, err error) {
	status := apperrors.HTTPStatus(err)

	entry := h.logger.WithError(err).WithField("status", status)
	if status >= 500 {
		entry.Error(msg)
	} else {
		entry.Warn(msg)
	}

	c.JSON(status, gin.H{
		"error":   http.StatusText(status),
		"message": err.Error(),
	})
}
