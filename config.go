package main

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

const (
	defaultAPISecret = "changeme_secret"
	maxRequestBody   = 64 << 10
)

// Config is read from the environment, optionally seeded from a .env file.
type Config struct {
	APISecret              string `env:"API_SECRET,default=changeme_secret"`
	MaxDurationSeconds     int    `env:"MAX_DURATION_SECONDS,default=600"`
	MaxFileSizeBytes       int    `env:"MAX_FILESIZE_BYTES,default=83886080"`
	Port                   int    `env:"PORT,default=8080"`
	RetentionMinutes       int    `env:"RETENTION_MINUTES,default=10"`
	CleanupIntervalSeconds int    `env:"CLEANUP_INTERVAL_SECONDS,default=60"`
	VideosDir              string `env:"VIDEOS_DIR,default=videos"`
	YtdlpPath              string `env:"YTDLP_PATH,default=yt-dlp"`
	PublicBaseURL          string `env:"PUBLIC_BASE_URL"`
	RateLimitRPS           int    `env:"RATE_LIMIT_RPS,default=5"`
	RateLimitBurst         int    `env:"RATE_LIMIT_BURST,default=10"`
	RedisAddr              string `env:"REDIS_ADDR"`
	RedisPassword          string `env:"REDIS_PASSWORD"`
	RedisDB                int    `env:"REDIS_DB,default=0"`
	Debug                  bool   `env:"DEBUG,default=false"`
}

// LoadConfig loads envFile (if it exists) into the process environment and
// unmarshals the result. Variables already set win over the file.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	cfg := &Config{}
	if _, err := env.UnmarshalFromEnviron(cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	checks := []struct {
		name  string
		value int
	}{
		{"MAX_DURATION_SECONDS", c.MaxDurationSeconds},
		{"MAX_FILESIZE_BYTES", c.MaxFileSizeBytes},
		{"PORT", c.Port},
		{"RETENTION_MINUTES", c.RetentionMinutes},
		{"CLEANUP_INTERVAL_SECONDS", c.CleanupIntervalSeconds},
		{"RATE_LIMIT_RPS", c.RateLimitRPS},
		{"RATE_LIMIT_BURST", c.RateLimitBurst},
	}
	for _, chk := range checks {
		if chk.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", errInvalidConfig, chk.name, chk.value)
		}
	}
	if c.Port > 65535 {
		return fmt.Errorf("%w: PORT out of range: %d", errInvalidConfig, c.Port)
	}
	if c.VideosDir == "" {
		return fmt.Errorf("%w: VIDEOS_DIR is empty", errInvalidConfig)
	}
	if c.YtdlpPath == "" {
		return fmt.Errorf("%w: YTDLP_PATH is empty", errInvalidConfig)
	}
	return nil
}

func (c *Config) MaxDuration() time.Duration {
	return time.Duration(c.MaxDurationSeconds) * time.Second
}

// Timeout bounds one downloader run.
func (c *Config) Timeout() time.Duration {
	return c.MaxDuration() + timeoutGrace
}

func (c *Config) Retention() time.Duration {
	return time.Duration(c.RetentionMinutes) * time.Minute
}

func (c *Config) CleanupInterval() time.Duration {
	return time.Duration(c.CleanupIntervalSeconds) * time.Second
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) insecureSecret() bool {
	return c.APISecret == "" || c.APISecret == defaultAPISecret
}
