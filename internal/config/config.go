package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	GinMode     string
	CORSOrigins []string
	ServiceName string

	// Gemini text generation
	GeminiAPIKey      string
	GeminiModel       string
	GeminiTier        string
	GenerationTimeout time.Duration

	// Scheduling
	ScheduleTimezone    string
	Location            *time.Location
	MessageCheckMinutes int
	JobTimeout          time.Duration

	// Reply pacing window, [min, max)
	ReplyDelayMin time.Duration
	ReplyDelayMax time.Duration

	// Redis Configuration (rate limiting, optional)
	RedisURL        string
	RedisPassword   string
	RedisDB         int
	RateLimitReqs   int
	RateLimitWindow int

	// OpenTelemetry
	OTLPEndpoint string
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080"), ","),
		ServiceName: getEnv("SERVICE_NAME", "insta-automation"),

		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiTier:        getEnv("GEMINI_TIER", "free"),
		GenerationTimeout: time.Duration(getEnvInt("GENERATION_TIMEOUT_SECONDS", 20)) * time.Second,

		ScheduleTimezone:    getEnv("SCHEDULE_TIMEZONE", "America/New_York"),
		MessageCheckMinutes: getEnvInt("MESSAGE_CHECK_MINUTES", 5),
		JobTimeout:          time.Duration(getEnvInt("JOB_TIMEOUT_SECONDS", 300)) * time.Second,

		ReplyDelayMin: time.Duration(getEnvInt("REPLY_DELAY_MIN_MS", 2000)) * time.Millisecond,
		ReplyDelayMax: time.Duration(getEnvInt("REPLY_DELAY_MAX_MS", 5000)) * time.Millisecond,

		RedisURL:        getEnv("REDIS_URL", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		RateLimitReqs:   getEnvInt("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow: getEnvInt("RATE_LIMIT_WINDOW", 60),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	loc, err := time.LoadLocation(cfg.ScheduleTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULE_TIMEZONE %q: %w", cfg.ScheduleTimezone, err)
	}
	cfg.Location = loc

	if cfg.MessageCheckMinutes <= 0 || cfg.MessageCheckMinutes > 59 {
		return nil, fmt.Errorf("MESSAGE_CHECK_MINUTES must be between 1 and 59, got %d", cfg.MessageCheckMinutes)
	}

	if cfg.ReplyDelayMin < 0 || cfg.ReplyDelayMax <= cfg.ReplyDelayMin {
		return nil, fmt.Errorf("REPLY_DELAY_MAX_MS must be greater than REPLY_DELAY_MIN_MS")
	}

	if cfg.JobTimeout <= 0 {
		return nil, fmt.Errorf("JOB_TIMEOUT_SECONDS must be positive")
	}

	return cfg, nil
}

// RateLimitEnabled reports whether a Redis backend was configured.
func (c *Config) RateLimitEnabled() bool {
	return c.RedisURL != "" && c.RateLimitReqs > 0
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
