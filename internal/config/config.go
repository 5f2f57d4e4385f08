package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/gamelink/platform-controller/pkg/platform"
)

// Config holds the entire daemon configuration
type Config struct {
	// Application settings
	App AppConfig `yaml:"app"`

	// Platform backend configuration
	Platform platform.Config `yaml:"platform"`

	// Diagnostic API server configuration
	API APIConfig `yaml:"api"`

	// Logging configuration
	Log LogConfig `yaml:"log"`

	// Discovery configuration
	Discovery DiscoveryConfig `yaml:"discovery"`
}

// AppConfig contains general application settings
type AppConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
	Debug       bool   `yaml:"debug"`
}

// APIConfig contains diagnostic REST API server settings
type APIConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	ReadTimeout  string `yaml:"read_timeout"`
	WriteTimeout string `yaml:"write_timeout"`
	RateLimit    int    `yaml:"rate_limit"` // requests per second per client IP
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// DiscoveryConfig contains mDNS advertisement settings
type DiscoveryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
	ServiceType string `yaml:"service_type"`
	Port        int    `yaml:"port"`
}

// Load loads configuration from YAML file with defaults
func Load(configPath string) (*Config, error) {
	config := getDefaults()

	var configFile string
	if configPath != "" {
		configFile = configPath
	} else {
		// Search for config file in standard locations
		searchPaths := []string{
			"./platformd.yaml",
			"./config/platformd.yaml",
			"/etc/platformd/platformd.yaml",
			filepath.Join(os.Getenv("HOME"), ".platformd", "platformd.yaml"),
		}

		for _, path := range searchPaths {
			if _, err := os.Stat(path); err == nil {
				configFile = path
				break
			}
		}
	}

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}

		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}
	}

	applyEnvOverrides(&config)

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// validate validates the configuration
func (c *Config) validate() error {
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level '%s': %w", c.Log.Level, err)
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		return fmt.Errorf("invalid API port: %d", c.API.Port)
	}
	if c.API.RateLimit < 1 {
		return fmt.Errorf("invalid API rate limit: %d", c.API.RateLimit)
	}

	switch c.Platform.Backend {
	case platform.BackendMock, platform.BackendHardware, "":
	default:
		return fmt.Errorf("unknown platform backend '%s'", c.Platform.Backend)
	}

	return nil
}

// getDefaults returns a Config struct with default values
func getDefaults() Config {
	return Config{
		App: AppConfig{
			Name:        "platformd",
			Version:     "dev",
			Environment: "development",
			Debug:       false,
		},
		Platform: *platform.DefaultConfig(),
		API: APIConfig{
			Enabled:      true,
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  "30s",
			WriteTimeout: "30s",
			RateLimit:    50,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Discovery: DiscoveryConfig{
			Enabled:     true,
			ServiceName: "platformd",
			ServiceType: "_platformd._tcp",
			Port:        8080,
		},
	}
}

// applyEnvOverrides applies environment variable overrides
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("PLATFORMD_API_PORT"); env != "" {
		if port := parseIntEnv(env); port > 0 {
			config.API.Port = port
		}
	}
	if env := os.Getenv("PLATFORMD_API_HOST"); env != "" {
		config.API.Host = env
	}
	if env := os.Getenv("PLATFORMD_LOG_LEVEL"); env != "" {
		config.Log.Level = env
	}
	if env := os.Getenv("PLATFORMD_DEBUG"); env == "true" {
		config.App.Debug = true
	}
	if env := os.Getenv("PLATFORMD_BACKEND"); env != "" {
		config.Platform.Backend = env
	}
}

// parseIntEnv safely parses an integer from environment variable
func parseIntEnv(env string) int {
	var i int
	if _, err := fmt.Sscanf(env, "%d", &i); err == nil {
		return i
	}
	return 0
}

// GetAddress returns the formatted listen address for the API server
func (c *APIConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
