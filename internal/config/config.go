// Package config loads the connector configuration from the environment.
// A .env file is honored for local development; struct tags drive envconfig
// and validation happens once at startup, fail fast. The Pubtrans connection
// string is the one secret: it comes either straight from the environment or
// from a mounted secret file.
package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the top-level configuration, populated once at startup and never
// modified.
type Config struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	HTTPPort string `envconfig:"HTTP_PORT" default:"8080"`

	Pubtrans PubtransConfig
	Redis    RedisConfig
	Poll     PollConfig
	Startup  StartupConfig
}

// PubtransConfig locates the source database. ConnString wins when set; the
// file path default is where Docker secrets land out of the box.
type PubtransConfig struct {
	ConnString     string `envconfig:"PUBTRANS_CONN_STRING"`
	ConnStringFile string `envconfig:"FILEPATH_CONNECTION_STRING" default:"/run/secrets/pubtrans_community_conn_string"`
}

// RedisConfig locates the cache and sets the retention window applied to
// every written key.
type RedisConfig struct {
	Host    string `envconfig:"REDIS_HOST" default:"localhost"`
	Port    string `envconfig:"REDIS_PORT" default:"6379"`
	TTLDays int    `envconfig:"REDIS_TTL_DAYS" default:"2" validate:"min=1"`
}

// PollConfig shapes the extraction window and the tick alignment.
type PollConfig struct {
	HistoryDays  int           `envconfig:"QUERY_HISTORY_DAYS" default:"1" validate:"min=0"`
	FutureDays   int           `envconfig:"QUERY_FUTURE_DAYS" default:"2" validate:"min=0"`
	MinuteOffset int           `envconfig:"POLL_MINUTE_OFFSET" default:"0" validate:"min=0,max=59"`
	HealthMaxAge time.Duration `envconfig:"HEALTH_MAX_AGE" default:"2h"`
}

// StartupConfig bounds the dependency probing done before scheduling begins.
type StartupConfig struct {
	RetryAttempts int           `envconfig:"STARTUP_RETRY_ATTEMPTS" default:"5" validate:"min=1"`
	RetryBackoff  time.Duration `envconfig:"STARTUP_RETRY_BACKOFF" default:"2s"`
}

// Load reads the .env file if present, processes the environment, and
// validates the result.
func Load() (*Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}
	return &cfg, nil
}

// ResolveConnString returns the source connection string, preferring the
// environment value over the secret file. An empty result is an error: the
// process must not start scheduling without a source.
func (c PubtransConfig) ResolveConnString() (string, error) {
	if c.ConnString != "" {
		return c.ConnString, nil
	}
	data, err := os.ReadFile(c.ConnStringFile)
	if err != nil {
		return "", fmt.Errorf("reading connection string file: %w", err)
	}
	conn := strings.TrimSpace(string(data))
	if conn == "" {
		return "", fmt.Errorf("connection string in %s is empty", c.ConnStringFile)
	}
	return conn, nil
}

// Addr returns the host:port of the cache.
func (c RedisConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// TTL returns the retention window as a duration.
func (c RedisConfig) TTL() time.Duration {
	return time.Duration(c.TTLDays) * 24 * time.Hour
}
