package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"rufay/internal/logger"
)

type Config struct {
	ServerPort string

	// Store
	DatabaseDriver string
	DatabaseDSN    string

	// Temporal; an empty address disables the online booking hold workflow
	TemporalAddress   string
	TemporalNamespace string
	TemporalTaskQueue string
	OnlineBookingHold time.Duration

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// Flight search
	OpenAIAPIKey        string
	OpenAIModel         string
	FlightSearchResults int

	// Logging
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		DatabaseDriver:      getEnv("DATABASE_DRIVER", "mysql"),
		DatabaseDSN:         getEnv("DATABASE_DSN", "rufay_user:rufay_pass@tcp(localhost:3306)/rufay?parseTime=true"),
		TemporalAddress:     os.Getenv("TEMPORAL_ADDRESS"),
		TemporalNamespace:   getEnv("TEMPORAL_NAMESPACE", "default"),
		TemporalTaskQueue:   getEnv("TEMPORAL_TASK_QUEUE", "online-booking-task-queue"),
		OnlineBookingHold:   parseDuration(getEnv("ONLINE_BOOKING_HOLD", "24h"), 24*time.Hour),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		TokenTTL:            parseDuration(getEnv("TOKEN_TTL", "24h"), 24*time.Hour),
		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:         getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		FlightSearchResults: parseInt(getEnv("FLIGHT_SEARCH_RESULTS", "5"), 5),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:       getEnv("LOG_TIME_FORMAT", time.RFC3339),
		LogOutput:           getEnv("LOG_OUTPUT", "stdout"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DatabaseDriver {
	case "mysql", "pgx", "sqlite":
	default:
		return fmt.Errorf("DATABASE_DRIVER must be one of mysql, pgx, sqlite; got %q", c.DatabaseDriver)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN is required")
	}
	if c.FlightSearchResults < 1 {
		return fmt.Errorf("FLIGHT_SEARCH_RESULTS must be positive")
	}
	return nil
}

// TemporalEnabled reports whether a Temporal frontend is configured
func (c *Config) TemporalEnabled() bool {
	return c.TemporalAddress != ""
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return i
}
