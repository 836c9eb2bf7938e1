package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the settings read from the environment (and .env)
type Config struct {
	Provider string

	GeminiAPIKey string
	GeminiModel  string

	OpenAIAPIKey string
	OpenAIModel  string

	// RestoreRatePerMinute bounds outbound restoration requests; 0 disables the limit
	RestoreRatePerMinute int
	SessionTTL           time.Duration
	MaxUploadMB          int

	LogLevel  string
	LogFormat string
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Provider:             getEnv("RESTORATION_PROVIDER", "gemini"),
		GeminiAPIKey:         getEnv("GEMINI_API_KEY", ""),
		GeminiModel:          getEnv("GEMINI_MODEL", ""),
		OpenAIAPIKey:         getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:          getEnv("OPENAI_MODEL", ""),
		RestoreRatePerMinute: 10,
		SessionTTL:           time.Hour,
		MaxUploadMB:          20,
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.RestoreRatePerMinute, err = getEnvInt("RESTORE_RATE_PER_MINUTE", cfg.RestoreRatePerMinute); err != nil {
		return nil, err
	}
	if cfg.MaxUploadMB, err = getEnvInt("MAX_UPLOAD_MB", cfg.MaxUploadMB); err != nil {
		return nil, err
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TTL %q: %w", v, err)
		}
		cfg.SessionTTL = ttl
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Provider {
	case "gemini", "gemini-legacy", "openai":
	default:
		return fmt.Errorf("unsupported provider: %s", c.Provider)
	}
	if c.RestoreRatePerMinute < 0 {
		return fmt.Errorf("RESTORE_RATE_PER_MINUTE must not be negative")
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

// MaxUploadBytes returns the request body limit for uploads
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// Logger builds the process logger from LOG_LEVEL and LOG_FORMAT
func (c *Config) Logger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}
