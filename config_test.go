package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"API_SECRET", "MAX_DURATION_SECONDS", "MAX_FILESIZE_BYTES", "PORT",
	"RETENTION_MINUTES", "CLEANUP_INTERVAL_SECONDS", "VIDEOS_DIR", "YTDLP_PATH",
	"PUBLIC_BASE_URL", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "DEBUG",
}

// clearConfigEnv unsets every config variable for the duration of the test.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "changeme_secret", cfg.APISecret)
	assert.True(t, cfg.insecureSecret())
	assert.Equal(t, 600, cfg.MaxDurationSeconds)
	assert.Equal(t, 80*1024*1024, cfg.MaxFileSizeBytes)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 10*time.Minute, cfg.Retention())
	assert.Equal(t, time.Minute, cfg.CleanupInterval())
	assert.Equal(t, 660*time.Second, cfg.Timeout())
	assert.Equal(t, "videos", cfg.VideosDir)
	assert.Equal(t, "yt-dlp", cfg.YtdlpPath)
	assert.Empty(t, cfg.RedisAddr)
	assert.False(t, cfg.Debug)
}

func TestLoadConfigFromEnvAndFile(t *testing.T) {
	clearConfigEnv(t)

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PORT=9090\nRETENTION_MINUTES=30\nAPI_SECRET=from-file\n"), 0o644))
	t.Setenv("API_SECRET", "from-env")
	t.Setenv("MAX_DURATION_SECONDS", "120")
	t.Setenv("DEBUG", "true")

	cfg, err := LoadConfig(envFile)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.Retention())
	assert.Equal(t, "from-env", cfg.APISecret)
	assert.False(t, cfg.insecureSecret())
	assert.Equal(t, 180*time.Second, cfg.Timeout())
	assert.True(t, cfg.Debug)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"ZeroDuration", func(c *Config) { c.MaxDurationSeconds = 0 }},
		{"NegativeSize", func(c *Config) { c.MaxFileSizeBytes = -1 }},
		{"PortRange", func(c *Config) { c.Port = 70000 }},
		{"ZeroRetention", func(c *Config) { c.RetentionMinutes = 0 }},
		{"ZeroInterval", func(c *Config) { c.CleanupIntervalSeconds = 0 }},
		{"EmptyDir", func(c *Config) { c.VideosDir = "" }},
		{"EmptyBinary", func(c *Config) { c.YtdlpPath = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), errInvalidConfig)
		})
	}
	assert.NoError(t, testConfig().Validate())
}
