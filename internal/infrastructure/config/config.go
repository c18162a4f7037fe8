package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Browser   BrowserConfig
}

// ServerConfig holds HTTP and gRPC listener configuration.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	Host            string        `envconfig:"HOST" default:"127.0.0.1"`
	GRPCPort        string        `envconfig:"GRPC_PORT" default:"50051"`
	GRPCEnabled     bool          `envconfig:"GRPC_ENABLED" default:"true"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"10"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"20"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// CORSConfig holds allowed origins for the browser front-end.
type CORSConfig struct {
	Origins []string `envconfig:"CORS_ORIGINS" default:"*"`
}

// BrowserConfig controls how browsers are located and supervised.
type BrowserConfig struct {
	// Catalog is an optional YAML or TOML file overriding executable
	// candidates and profile locations per browser kind.
	Catalog string `envconfig:"BROWSER_CATALOG"`
	// Home overrides the user home directory used to locate profiles.
	Home string `envconfig:"BROWSER_HOME"`
	// OperationTimeout bounds each request-layer call into the controller.
	OperationTimeout time.Duration `envconfig:"BROWSER_OPERATION_TIMEOUT" default:"30s"`
	// ReapOnExit drops a table entry when its process exits normally.
	ReapOnExit bool `envconfig:"BROWSER_REAP_ON_EXIT" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			Host:            "127.0.0.1",
			GRPCPort:        "50051",
			GRPCEnabled:     true,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 10,
			Burst:             20,
			Enabled:           true,
		},
		CORS: CORSConfig{
			Origins: []string{"*"},
		},
		Browser: BrowserConfig{
			OperationTimeout: 30 * time.Second,
		},
	}
}

// HTTPAddr returns the host:port the HTTP server listens on.
func (c *Config) HTTPAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// GRPCAddr returns the host:port the gRPC server listens on.
func (c *Config) GRPCAddr() string {
	return c.Server.Host + ":" + c.Server.GRPCPort
}
