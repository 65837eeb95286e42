// Package config loads runtime settings from defaults, an optional .env file
// and the process environment, in that order.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	envHost             = "HOST"
	envPort             = "PORT"
	envLogLevel         = "LOG_LEVEL"
	envLogFormat        = "LOG_FORMAT"
	envToolsFile        = "TOOLS_FILE"
	envValidationNumber = "VALIDATION_NUMBER"
	envCORSOrigins      = "CORS_ORIGINS"
	envRequestTimeout   = "REQUEST_TIMEOUT"
	envShutdownTimeout  = "SHUTDOWN_TIMEOUT"
	envTLSCertFile      = "TLS_CERT_FILE"
	envTLSKeyFile       = "TLS_KEY_FILE"
)

var ErrInvalidPort = errors.New("port must be between 1 and 65535")

// Config holds runtime configuration for the tool server.
type Config struct {
	Host string
	Port int

	LogLevel  string
	LogFormat string // json or console

	// ToolsFile optionally points at a YAML joke/validation catalog.
	ToolsFile string
	// ValidationNumber overrides the catalog's number when set.
	ValidationNumber string

	CORSOrigins     []string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	TLSCertFile string
	TLSKeyFile  string
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Host:            "0.0.0.0",
		Port:            5000,
		LogLevel:        "info",
		LogFormat:       "json",
		CORSOrigins:     []string{"*"},
		RequestTimeout:  60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load applies envFile (if given and present) and the environment on top of
// Default. Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	cfg := Default()

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadFromEnv(cfg *Config) error {
	cfg.Host = getEnv(envHost, cfg.Host)
	cfg.LogLevel = getEnv(envLogLevel, cfg.LogLevel)
	cfg.LogFormat = getEnv(envLogFormat, cfg.LogFormat)
	cfg.ToolsFile = getEnv(envToolsFile, cfg.ToolsFile)
	cfg.ValidationNumber = getEnv(envValidationNumber, cfg.ValidationNumber)
	cfg.TLSCertFile = getEnv(envTLSCertFile, cfg.TLSCertFile)
	cfg.TLSKeyFile = getEnv(envTLSKeyFile, cfg.TLSKeyFile)
	if v := os.Getenv(envCORSOrigins); v != "" {
		cfg.CORSOrigins = splitCSV(v)
	}

	var err error
	if cfg.Port, err = getEnvInt(envPort, cfg.Port); err != nil {
		return err
	}
	if cfg.RequestTimeout, err = getEnvDuration(envRequestTimeout, cfg.RequestTimeout); err != nil {
		return err
	}
	if cfg.ShutdownTimeout, err = getEnvDuration(envShutdownTimeout, cfg.ShutdownTimeout); err != nil {
		return err
	}
	return nil
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: got %d", ErrInvalidPort, c.Port)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("log format must be json or console, got %q", c.LogFormat)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got %s", c.ShutdownTimeout)
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return fmt.Errorf("%s and %s must be set together", envTLSCertFile, envTLSKeyFile)
	}
	return nil
}

// Addr is the host:port the server binds to.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// TLSEnabled reports whether both certificate and key are configured.
func (c *Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return i, nil
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitCSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
