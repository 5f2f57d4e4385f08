package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gamelink/platform-controller/internal/api/handlers"
	"github.com/gamelink/platform-controller/internal/api/middleware"
	"github.com/gamelink/platform-controller/internal/config"
	"github.com/gamelink/platform-controller/internal/logger"
	"github.com/gamelink/platform-controller/internal/metrics"
	"github.com/gamelink/platform-controller/pkg/platform"
)

// Server is the diagnostic REST API. It exposes the platform backend to
// test automation and field debugging; the device application itself
// programs against the backend directly.
type Server struct {
	config      *config.APIConfig
	logger      logger.Interface
	backend     platform.Platform
	backendName string
	collector   *metrics.Collector
	router      *gin.Engine
	server      *http.Server
}

// New creates a new API server instance
func New(cfg *config.APIConfig, log logger.Interface, backend platform.Platform, backendName string, collector *metrics.Collector, debug bool) *Server {
	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	s := &Server{
		config:      cfg,
		logger:      log.WithField("component", "api"),
		backend:     backend,
		backendName: backendName,
		collector:   collector,
		router:      router,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes and middleware
func (s *Server) setupRoutes() {
	// Global middleware
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.Recovery(s.logger))
	s.router.Use(middleware.RequestID())

	limiterCfg := middleware.DefaultRateLimitConfig()
	if s.config.RateLimit > 0 {
		limiterCfg.RequestsPerSecond = s.config.RateLimit
		limiterCfg.BurstSize = s.config.RateLimit * 2
	}
	s.router.Use(middleware.NewRateLimiter(limiterCfg, s.logger).RateLimit())

	// Health check endpoints
	healthHandler := handlers.NewHealthHandler(s.backend)
	s.router.GET("/health", healthHandler.Health)
	s.router.GET("/ready", healthHandler.Ready)

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	{
		platformHandler := handlers.NewPlatformHandler(s.backend, s.backendName, s.logger)
		plat := v1.Group("/platform")
		{
			plat.GET("/status", platformHandler.Status)
			plat.GET("/role", platformHandler.Role)
			plat.GET("/button", platformHandler.Button)
			plat.GET("/power", platformHandler.Power)
			plat.GET("/version", platformHandler.Version)
			plat.GET("/last-error", platformHandler.LastError)
			plat.POST("/led/state", platformHandler.SetLEDState)
			plat.POST("/led/rgb", platformHandler.SetLEDRGB)
			plat.POST("/wake", platformHandler.Wake)
			plat.POST("/reset", platformHandler.Reset)
		}

		systemHandler := handlers.NewSystemHandler(s.collector, s.logger)
		system := v1.Group("/system")
		{
			system.GET("/info", systemHandler.Info)
			system.GET("/metrics", systemHandler.Metrics)
			system.GET("/runtime", handlers.RuntimeInfo)
		}
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	readTimeout, err := time.ParseDuration(s.config.ReadTimeout)
	if err != nil {
		readTimeout = 30 * time.Second
	}

	writeTimeout, err := time.ParseDuration(s.config.WriteTimeout)
	if err != nil {
		writeTimeout = 30 * time.Second
	}

	s.server = &http.Server{
		Addr:         s.config.GetAddress(),
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.WithField("address", s.config.GetAddress()).Info("Starting API server")

	return s.server.ListenAndServe()
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down API server")
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying Gin router for testing
func (s *Server) Router() *gin.Engine {
	return s.router
}
