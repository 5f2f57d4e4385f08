package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/gamelink/platform-controller/internal/logger"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerSecond int           `yaml:"requests_per_second"`
	BurstSize         int           `yaml:"burst_size"`
	CleanupInterval   time.Duration `yaml:"cleanup_interval"`
	WhitelistedIPs    []string      `yaml:"whitelisted_ips"`
}

// DefaultRateLimitConfig returns default rate limiting configuration
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		RequestsPerSecond: 50,
		BurstSize:         100,
		CleanupInterval:   5 * time.Minute,
		WhitelistedIPs:    []string{"127.0.0.1", "::1"},
	}
}

// RateLimiter applies a per-client-IP token bucket to the diagnostic API.
// The device has one small CPU; an over-eager poller must not starve the
// application of it.
type RateLimiter struct {
	config   *RateLimitConfig
	logger   logger.Interface
	limiters map[string]*rate.Limiter
	mutex    sync.Mutex
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(config *RateLimitConfig, log logger.Interface) *RateLimiter {
	if config == nil {
		config = DefaultRateLimitConfig()
	}

	rl := &RateLimiter{
		config:   config,
		logger:   log.WithField("component", "ratelimit"),
		limiters: make(map[string]*rate.Limiter),
	}

	go rl.cleanupRoutine()

	rl.logger.Info("rate limiter initialized",
		"requests_per_second", config.RequestsPerSecond,
		"burst_size", config.BurstSize)

	return rl
}

// RateLimit returns a rate limiting middleware
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		if rl.isWhitelisted(ip) {
			c.Next()
			return
		}

		limiter := rl.getLimiter(ip)
		if !limiter.Allow() {
			rl.logger.Warn("rate limit exceeded",
				"client_ip", ip,
				"method", c.Request.Method,
				"path", c.Request.URL.Path)

			c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", rl.config.RequestsPerSecond))
			c.Header("X-RateLimit-Remaining", "0")

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate Limit Exceeded",
				"message":     "Too many requests, please slow down",
				"retry_after": 1,
			})
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", rl.config.RequestsPerSecond))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", int(limiter.Tokens())))
		c.Next()
	}
}

// getLimiter gets or creates a rate limiter for a client IP
func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if limiter, exists := rl.limiters[ip]; exists {
		return limiter
	}

	limiter := rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.BurstSize)
	rl.limiters[ip] = limiter
	return limiter
}

// isWhitelisted checks if an IP is exempt from limiting
func (rl *RateLimiter) isWhitelisted(ip string) bool {
	for _, whitelistedIP := range rl.config.WhitelistedIPs {
		if ip == whitelistedIP {
			return true
		}
	}
	return false
}

// cleanupRoutine periodically drops idle limiters
func (rl *RateLimiter) cleanupRoutine() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		rl.cleanup()
	}
}

// cleanup removes limiters that are back at full capacity
func (rl *RateLimiter) cleanup() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	for ip, limiter := range rl.limiters {
		if limiter.Tokens() >= float64(rl.config.BurstSize) {
			delete(rl.limiters, ip)
		}
	}

	rl.logger.Debug("rate limiter cleanup completed")
}
