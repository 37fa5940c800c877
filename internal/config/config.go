package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the backend server configuration.
type Config struct {
	Addr     string
	DBPath   string
	LogLevel string

	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string

	CORSOrigins []string

	DeviceWorkerCount    int
	DeviceQueueSize      int
	DevicePruneAfterDays int

	SeedStarterWords bool
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                 envOr("ADDR", ":8000"),
		DBPath:               envOr("DB_PATH", "file:polingo.db"),
		LogLevel:             envOr("LOG_LEVEL", "INFO"),
		OpenAIKey:            os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:          envOr("OPENAI_MODEL", "gpt-4.1-mini"),
		OpenAIBaseURL:        envOr("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		CORSOrigins:          envListOr("CORS_ORIGINS", []string{"http://localhost:5173", "http://127.0.0.1:5173"}),
		DeviceWorkerCount:    envIntOr("DEVICE_WORKER_COUNT", 1),
		DeviceQueueSize:      envIntOr("DEVICE_QUEUE_SIZE", 128),
		DevicePruneAfterDays: envIntOr("DEVICE_PRUNE_AFTER_DAYS", 30),
		SeedStarterWords:     envBoolOr("SEED_STARTER_WORDS", true),
	}
}

// TrainerConfig holds the terminal client configuration.
type TrainerConfig struct {
	BaseURL         string
	RequestTimeout  time.Duration
	FeedbackTTL     time.Duration
	RecorderCommand string
	LogLevel        string
}

// LoadTrainer reads the terminal client configuration.
func LoadTrainer() TrainerConfig {
	_ = godotenv.Load()

	return TrainerConfig{
		BaseURL:         envOr("POLINGO_URL", "http://localhost:8000/api"),
		RequestTimeout:  envDurationOr("REQUEST_TIMEOUT", 30*time.Second),
		FeedbackTTL:     envDurationOr("FEEDBACK_TTL", 6*time.Second),
		RecorderCommand: envOr("RECORDER_COMMAND", "ffmpeg"),
		LogLevel:        envOr("LOG_LEVEL", "WARN"),
	}
}

// Validate checks the server configuration for values that would only
// fail later at runtime.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.DeviceWorkerCount < 1 {
		return fmt.Errorf("DEVICE_WORKER_COUNT must be at least 1, got %d", c.DeviceWorkerCount)
	}
	if c.DeviceQueueSize < 1 {
		return fmt.Errorf("DEVICE_QUEUE_SIZE must be at least 1, got %d", c.DeviceQueueSize)
	}
	if c.DevicePruneAfterDays < 1 {
		return fmt.Errorf("DEVICE_PRUNE_AFTER_DAYS must be at least 1, got %d", c.DevicePruneAfterDays)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
