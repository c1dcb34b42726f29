package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the server configuration
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string
	LogLevel  slog.Level
	SentryDSN string
	AppEnv    string

	UploadMaxBytes   int64         // maximum accepted request body of a FIT upload
	UploadRateLimit  int           // uploads per user per window, 0 disables
	UploadRateWindow time.Duration // window of UploadRateLimit
	InsertBatchSize  int           // rows per multi-row INSERT
}

const (
	defaultPort             = ":8080"
	defaultDBPath           = "./data/bike-stats.db"
	defaultJWTSecret        = "your-secret-key-change-in-production"
	defaultUploadMaxBytes   = 50 << 20
	defaultUploadRateLimit  = 10
	defaultUploadRateWindow = time.Minute
	defaultInsertBatchSize  = 1000

	// MaxInsertBatchSize keeps a lap INSERT (19 columns per row) under
	// SQLite's 32766 bound-parameter limit.
	MaxInsertBatchSize = 1700
)

// Load reads the configuration from the environment. Unset variables fall
// back to defaults; malformed values are errors.
func Load() (*Config, error) {
	cfg := &Config{
		Port:      getEnv("PORT", defaultPort),
		DBPath:    getEnv("DB_PATH", defaultDBPath),
		JWTSecret: getEnv("JWT_SECRET", defaultJWTSecret),
		SentryDSN: os.Getenv("SENTRY_DSN"),
		AppEnv:    getEnv("APP_ENV", "development"),
	}
	if !strings.Contains(cfg.Port, ":") {
		cfg.Port = ":" + cfg.Port
	}

	var err error
	if cfg.LogLevel, err = parseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, err
	}
	if cfg.UploadMaxBytes, err = getInt64("UPLOAD_MAX_BYTES", defaultUploadMaxBytes); err != nil {
		return nil, err
	}
	if cfg.UploadMaxBytes <= 0 {
		return nil, fmt.Errorf("UPLOAD_MAX_BYTES must be positive, got %d", cfg.UploadMaxBytes)
	}
	limit, err := getInt64("UPLOAD_RATE_LIMIT", defaultUploadRateLimit)
	if err != nil {
		return nil, err
	}
	cfg.UploadRateLimit = int(limit)
	if cfg.UploadRateWindow, err = getDuration("UPLOAD_RATE_WINDOW", defaultUploadRateWindow); err != nil {
		return nil, err
	}
	batch, err := getInt64("INSERT_BATCH_SIZE", defaultInsertBatchSize)
	if err != nil {
		return nil, err
	}
	if batch <= 0 || batch > MaxInsertBatchSize {
		return nil, fmt.Errorf("INSERT_BATCH_SIZE must be between 1 and %d, got %d", MaxInsertBatchSize, batch)
	}
	cfg.InsertBatchSize = int(batch)

	return cfg, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, v)
	}
	return d, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}
