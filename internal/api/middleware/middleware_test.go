package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamelink/platform-controller/internal/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("generates an ID when absent", func(t *testing.T) {
		req, err := http.NewRequest("GET", "/test", nil)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
		assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())
	})

	t.Run("honors a client-supplied ID", func(t *testing.T) {
		req, err := http.NewRequest("GET", "/test", nil)
		require.NoError(t, err)
		req.Header.Set(RequestIDHeader, "trace-123")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "trace-123", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "trace-123", w.Body.String())
	})
}

func TestRateLimit(t *testing.T) {
	cfg := &RateLimitConfig{
		RequestsPerSecond: 1,
		BurstSize:         2,
		CleanupInterval:   time.Minute,
		WhitelistedIPs:    nil, // test requests come from a non-whitelisted IP
	}

	router := gin.New()
	router.Use(NewRateLimiter(cfg, logger.Default()).RateLimit())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	doRequest := func() int {
		req, err := http.NewRequest("GET", "/test", nil)
		require.NoError(t, err)
		req.RemoteAddr = "10.1.2.3:4567"

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	// Burst of two is allowed, the third request is rejected.
	assert.Equal(t, http.StatusOK, doRequest())
	assert.Equal(t, http.StatusOK, doRequest())
	assert.Equal(t, http.StatusTooManyRequests, doRequest())
}

func TestRateLimit_Whitelist(t *testing.T) {
	cfg := &RateLimitConfig{
		RequestsPerSecond: 1,
		BurstSize:         1,
		CleanupInterval:   time.Minute,
		WhitelistedIPs:    []string{"10.1.2.3"},
	}

	router := gin.New()
	router.Use(NewRateLimiter(cfg, logger.Default()).RateLimit())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 5; i++ {
		req, err := http.NewRequest("GET", "/test", nil)
		require.NoError(t, err)
		req.RemoteAddr = "10.1.2.3:4567"

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
