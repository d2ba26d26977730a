package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables honored when the matching flag is not given.
const (
	EnvEndpoint   = "AZURE_OPENAI_ENDPOINT"
	EnvAPIKey     = "AZURE_OPENAI_API_KEY"
	EnvDeployment = "AZURE_OPENAI_DEPLOYMENT_NAME"
)

// Built-in defaults.
const (
	DefaultDeployment = "flux-pro-2"
	DefaultTimeoutSec = 120
)

// Config holds the application configuration. It is assembled once at
// startup and handed to the tool handler; nothing reads it afterwards.
type Config struct {
	Endpoint    string // Image generation API endpoint URL
	APIKey      string // Image generation API key
	Deployment  string // Deployment (model) name on the endpoint
	OutputPath  string // Directory for persisted generated images
	TimeoutSec  int    // Backend call timeout in seconds
	LogLevelStr string // Logging level string (DEBUG, INFO, WARN, ERROR)

	LogLevel slog.Level // Parsed from LogLevelStr by Finalize
}

// ErrEndpointMissing indicates the required endpoint was not provided.
var ErrEndpointMissing = errors.New("image endpoint is missing: set --endpoint or " + EnvEndpoint)

// ErrAPIKeyMissing indicates the required API key was not provided.
var ErrAPIKeyMissing = errors.New("API key is missing: set --api-key or " + EnvAPIKey)

// FromEnv returns a Config seeded from the environment. Flag values layered
// on top of it by the command take precedence simply by being set first.
func FromEnv() *Config {
	return &Config{
		Endpoint:   os.Getenv(EnvEndpoint),
		APIKey:     os.Getenv(EnvAPIKey),
		Deployment: os.Getenv(EnvDeployment),
	}
}

// fileConfig is the optional YAML overlay. Credentials are deliberately not
// file-configurable; they come from flags or the environment only.
type fileConfig struct {
	Endpoint   string `yaml:"endpoint"`
	Deployment string `yaml:"deployment"`
	OutputPath string `yaml:"output_path"`
	TimeoutSec int    `yaml:"timeout_seconds"`
	LogLevel   string `yaml:"log_level"`
}

// ApplyFile reads a YAML config file and fills in fields that are still
// unset. Flag and environment values always win over file values.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if c.Endpoint == "" {
		c.Endpoint = fc.Endpoint
	}
	if c.Deployment == "" {
		c.Deployment = fc.Deployment
	}
	if c.OutputPath == "" {
		c.OutputPath = fc.OutputPath
	}
	if c.TimeoutSec == 0 {
		c.TimeoutSec = fc.TimeoutSec
	}
	if c.LogLevelStr == "" {
		c.LogLevelStr = fc.LogLevel
	}
	return nil
}

// Finalize applies remaining defaults, parses the log level and validates
// required values. It must be called before the Config is used.
func (c *Config) Finalize() error {
	switch strings.ToUpper(c.LogLevelStr) {
	case "DEBUG":
		c.LogLevel = slog.LevelDebug
	case "", "INFO":
		c.LogLevel = slog.LevelInfo
	case "WARN":
		c.LogLevel = slog.LevelWarn
	case "ERROR":
		c.LogLevel = slog.LevelError
	default:
		c.LogLevel = slog.LevelInfo
	}

	if c.OutputPath == "" {
		c.OutputPath = os.TempDir()
	}
	if c.Deployment == "" {
		c.Deployment = DefaultDeployment
	}
	if c.TimeoutSec <= 0 {
		c.TimeoutSec = DefaultTimeoutSec
	}

	if c.Endpoint == "" {
		return ErrEndpointMissing
	}
	if c.APIKey == "" {
		return ErrAPIKeyMissing
	}
	return nil
}
