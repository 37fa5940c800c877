package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polingo/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:                 ":8000",
		DBPath:               "file:test.db",
		LogLevel:             "INFO",
		DeviceWorkerCount:    1,
		DeviceQueueSize:      128,
		DevicePruneAfterDays: 30,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_WorkerSettings(t *testing.T) {
	cfg := validConfig()
	cfg.DeviceWorkerCount = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.DeviceQueueSize = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.DevicePruneAfterDays = 0
	assert.Error(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, ":8000", cfg.Addr)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, 1, cfg.DeviceWorkerCount)
	assert.Equal(t, 128, cfg.DeviceQueueSize)
	assert.Equal(t, 30, cfg.DevicePruneAfterDays)
	assert.True(t, cfg.SeedStarterWords)
	assert.NotEmpty(t, cfg.CORSOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ADDR", ":9000")
	t.Setenv("DEVICE_QUEUE_SIZE", "64")
	t.Setenv("SEED_STARTER_WORDS", "false")
	t.Setenv("CORS_ORIGINS", "https://polingo.example.com, https://admin.example.com")

	cfg := config.Load()
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, 64, cfg.DeviceQueueSize)
	assert.False(t, cfg.SeedStarterWords)
	assert.Equal(t, []string{"https://polingo.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("DEVICE_WORKER_COUNT", "not-a-number")

	cfg := config.Load()
	assert.Equal(t, 1, cfg.DeviceWorkerCount)
}

func TestLoadTrainer_Defaults(t *testing.T) {
	cfg := config.LoadTrainer()

	assert.Equal(t, "http://localhost:8000/api", cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 6*time.Second, cfg.FeedbackTTL)
	assert.Equal(t, "ffmpeg", cfg.RecorderCommand)
}

func TestLoadTrainer_EnvOverrides(t *testing.T) {
	t.Setenv("POLINGO_URL", "http://10.0.0.5:8000/api")
	t.Setenv("FEEDBACK_TTL", "3s")

	cfg := config.LoadTrainer()
	assert.Equal(t, "http://10.0.0.5:8000/api", cfg.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.FeedbackTTL)
}
