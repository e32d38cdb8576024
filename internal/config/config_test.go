package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 1, cfg.Poll.HistoryDays)
	assert.Equal(t, 2, cfg.Poll.FutureDays)
	assert.Equal(t, 0, cfg.Poll.MinuteOffset)
	assert.Equal(t, 2, cfg.Redis.TTLDays)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, 48*time.Hour, cfg.Redis.TTL())
	assert.Equal(t, 5, cfg.Startup.RetryAttempts)
	assert.Equal(t, "/run/secrets/pubtrans_community_conn_string", cfg.Pubtrans.ConnStringFile)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("QUERY_HISTORY_DAYS", "3")
	t.Setenv("POLL_MINUTE_OFFSET", "15")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("REDIS_TTL_DAYS", "1")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Poll.HistoryDays)
	assert.Equal(t, 15, cfg.Poll.MinuteOffset)
	assert.Equal(t, "cache.internal:6379", cfg.Redis.Addr())
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL())
}

func TestLoadRejectsInvalidMinuteOffset(t *testing.T) {
	t.Setenv("POLL_MINUTE_OFFSET", "75")

	_, err := Load()

	assert.Error(t, err)
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")

	_, err := Load()

	assert.Error(t, err)
}

func TestResolveConnStringPrefersEnvironmentValue(t *testing.T) {
	c := PubtransConfig{ConnString: "sqlserver://sa:pw@db:1433", ConnStringFile: "/does/not/exist"}

	conn, err := c.ResolveConnString()

	require.NoError(t, err)
	assert.Equal(t, "sqlserver://sa:pw@db:1433", conn)
}

func TestResolveConnStringReadsSecretFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conn_string")
	require.NoError(t, os.WriteFile(path, []byte("  sqlserver://sa:pw@db:1433\n"), 0o600))
	c := PubtransConfig{ConnStringFile: path}

	conn, err := c.ResolveConnString()

	require.NoError(t, err)
	assert.Equal(t, "sqlserver://sa:pw@db:1433", conn, "surrounding whitespace must be trimmed")
}

func TestResolveConnStringEmptyFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conn_string")
	require.NoError(t, os.WriteFile(path, []byte("\n"), 0o600))
	c := PubtransConfig{ConnStringFile: path}

	_, err := c.ResolveConnString()

	assert.Error(t, err)
}

func TestResolveConnStringMissingFileFails(t *testing.T) {
	c := PubtransConfig{ConnStringFile: filepath.Join(t.TempDir(), "absent")}

	_, err := c.ResolveConnString()

	assert.Error(t, err)
}
