package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamelink/platform-controller/pkg/platform"
)

// TestHealthHandler_Health tests the basic health endpoint
func TestHealthHandler_Health(t *testing.T) {
	backend := platform.NewMock(platform.NoOverrides{}, nil)
	handler := NewHealthHandler(backend)

	router := gin.New()
	router.GET("/health", handler.Health)

	req, err := http.NewRequest("GET", "/health", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response HealthResponse
	err = json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "ok", response.Status)
	assert.NotZero(t, response.Timestamp)
	assert.NotEmpty(t, response.Version)
	assert.NotEmpty(t, response.Uptime)
}

// TestHealthHandler_Ready tests the readiness endpoint
func TestHealthHandler_Ready(t *testing.T) {
	backend := platform.NewMock(platform.NoOverrides{}, nil)
	handler := NewHealthHandler(backend)

	router := gin.New()
	router.GET("/ready", handler.Ready)

	req, err := http.NewRequest("GET", "/ready", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response ReadinessResponse
	err = json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "ready", response.Status)
	assert.Equal(t, "healthy", response.Services["platform"])

	// The readiness probe initializes the backend.
	assert.Equal(t, 1, backend.Stats().Init)
}
