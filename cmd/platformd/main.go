package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gamelink/platform-controller/internal/api"
	"github.com/gamelink/platform-controller/internal/config"
	"github.com/gamelink/platform-controller/internal/errors"
	"github.com/gamelink/platform-controller/internal/logger"
	"github.com/gamelink/platform-controller/internal/metrics"
	"github.com/gamelink/platform-controller/pkg/discovery"
	"github.com/gamelink/platform-controller/pkg/platform"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "platformd",
	Short: "Platform controller daemon for the gaming-platform device",
	Long: `platformd owns the hardware abstraction layer of the gaming-platform
device: device role detection, status LED, user button and console power
control. It exposes a diagnostic REST API for test automation and
advertises itself over mDNS so the paired unit can find it.`,
	RunE: runDaemon,
}

var (
	configFile string
	logLevel   string
	logFormat  string
)

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "config file path")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&logFormat, "log-format", "json", "log format (json, text)")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("platformd %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
	},
}

func runDaemon(cmd *cobra.Command, args []string) error {
	log, backendLog, err := setupLoggers()
	if err != nil {
		return errors.Wrapf(err, "failed to setup logger")
	}

	log.WithFields(map[string]interface{}{
		"version": version,
		"commit":  commit,
		"date":    date,
	}).Info("Starting platformd")

	cfg, err := config.Load(configFile)
	if err != nil {
		return errors.Wrapf(err, "failed to load config")
	}

	backend, err := platform.New(&cfg.Platform, backendLog)
	if err != nil {
		return errors.Wrapf(err, "failed to create platform backend")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := backend.Initialize(ctx); err != nil {
		return errors.Wrapf(err, "failed to initialize platform backend")
	}
	defer backend.Close()

	role, err := backend.DeviceRole()
	if err != nil {
		return errors.Wrapf(err, "failed to determine device role")
	}

	log.WithFields(map[string]interface{}{
		"backend":     cfg.Platform.Backend,
		"device_role": string(role),
		"hal_version": backend.Version(),
	}).Info("Platform backend initialized")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup
	serverErrors := make(chan error, 2)

	var apiServer *api.Server
	if cfg.API.Enabled {
		collector := metrics.NewCollector(log)
		apiServer = api.New(&cfg.API, log, backend, cfg.Platform.Backend, collector, cfg.App.Debug)

		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info("Starting diagnostic API server")
			if err := apiServer.Start(); err != nil {
				serverErrors <- errors.Wrapf(err, "API server error")
			}
		}()
	}

	var advertiser *discovery.Advertiser
	if cfg.Discovery.Enabled {
		advertiserConfig := discovery.DefaultAdvertiserConfig()
		advertiserConfig.ServiceName = cfg.Discovery.ServiceName
		advertiserConfig.ServiceType = cfg.Discovery.ServiceType
		advertiserConfig.Port = cfg.Discovery.Port
		advertiserConfig.TXTRecords = map[string]string{
			"role":    string(role),
			"backend": cfg.Platform.Backend,
			"version": backend.Version(),
		}

		advertiser = discovery.NewAdvertiser(advertiserConfig, backendLog)
		if err := advertiser.Start(ctx); err != nil {
			log.WithError(err).Warn("Failed to start mDNS advertiser, continuing without discovery")
			advertiser = nil
		}
	}

	log.Info("platformd started")

	select {
	case sig := <-sigChan:
		log.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-serverErrors:
		log.WithError(err).Error("Server error occurred")
	}

	log.Info("Initiating graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if apiServer != nil {
		if err := apiServer.Stop(shutdownCtx); err != nil {
			log.WithError(err).Error("Error stopping API server")
		}
	}

	if advertiser != nil {
		if err := advertiser.Stop(); err != nil {
			log.WithError(err).Error("Error stopping mDNS advertiser")
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info("All services stopped gracefully")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded")
	}

	log.Info("platformd shutdown complete")
	return nil
}

// setupLoggers builds the application logger and the logrus instance the
// platform backend and advertiser log through, configured identically.
func setupLoggers() (*logger.Logger, *logrus.Logger, error) {
	cfg := logger.Config{
		Level:  logLevel,
		Format: logFormat,
		Output: "stdout",
	}

	log, err := logger.New(cfg)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to create logger")
	}
	logger.SetDefault(log)

	backendLog := logrus.New()
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "invalid log level")
	}
	backendLog.SetLevel(level)
	if logFormat == "json" {
		backendLog.SetFormatter(&logrus.JSONFormatter{})
	}

	return log, backendLog, nil
}
