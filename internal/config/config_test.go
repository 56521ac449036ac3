package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	originalDir, _ := os.Getwd()
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	defer os.Chdir(originalDir)

	cfg, err := Load()
	require.NoError(t, err)

	// Store defaults
	assert.Equal(t, 30*time.Second, cfg.Store.Timeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Store.TaskCheckoutDelay)
	assert.Equal(t, 3, cfg.Store.TaskCheckoutNumTries)

	// Worker defaults
	assert.Equal(t, time.Duration(0), cfg.Worker.Runtime)
	assert.Equal(t, 300*time.Second, cfg.Worker.StopTime)
	assert.Equal(t, 0.5, cfg.Worker.LeftFrac)
	assert.Equal(t, 4, cfg.Worker.PoolSize)
	assert.False(t, cfg.Worker.Silent)

	// Distributed defaults
	assert.Equal(t, "cake", cfg.Distributed.StreamPrefix)
	assert.False(t, cfg.Distributed.SpawnMaster)

	// Server defaults
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 8081, cfg.Server.AdminPort)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 120*time.Second, cfg.Server.IdleTimeout)

	// Redis defaults
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "", cfg.Redis.Password)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, 100, cfg.Redis.PoolSize)
	assert.Equal(t, 10, cfg.Redis.MinIdleConns)
	assert.Equal(t, 3, cfg.Redis.MaxRetries)

	// Metrics defaults
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)

	// Auth defaults
	assert.False(t, cfg.Auth.Enabled)

	// Logging defaults
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_WithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := tmpDir + "/config.yaml"

	configContent := `
server:
  host: "127.0.0.1"
  port: 9090

redis:
  addr: "custom-redis:6380"
  password: "secret"
  db: 1

worker:
  poolsize: 8

distributed:
  streamprefix: "custom-prefix"

loglevel: "warn"
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	originalDir, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(originalDir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "custom-redis:6380", cfg.Redis.Addr)
	assert.Equal(t, "secret", cfg.Redis.Password)
	assert.Equal(t, 1, cfg.Redis.DB)
	assert.Equal(t, 8, cfg.Worker.PoolSize)
	assert.Equal(t, "custom-prefix", cfg.Distributed.StreamPrefix)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestServerConfig_Fields(t *testing.T) {
	cfg := ServerConfig{
		Host:         "localhost",
		Port:         8080,
		AdminPort:    8081,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 8081, cfg.AdminPort)
}

func TestRedisConfig_Fields(t *testing.T) {
	cfg := RedisConfig{
		Addr:         "redis:6379",
		Password:     "pass",
		DB:           1,
		PoolSize:     50,
		MinIdleConns: 5,
		MaxRetries:   5,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	assert.Equal(t, "redis:6379", cfg.Addr)
	assert.Equal(t, "pass", cfg.Password)
	assert.Equal(t, 1, cfg.DB)
}

func TestWorkerConfig_Fields(t *testing.T) {
	cfg := WorkerConfig{
		Runtime:  10 * time.Second,
		StopTime: 5 * time.Second,
		LeftFrac: 0.25,
		PoolSize: 10,
		Silent:   true,
	}

	assert.Equal(t, 10*time.Second, cfg.Runtime)
	assert.Equal(t, 10, cfg.PoolSize)
	assert.True(t, cfg.Silent)
}

func TestDistributedConfig_Fields(t *testing.T) {
	cfg := DistributedConfig{
		StreamPrefix: "tasks",
		SpawnMaster:  true,
	}

	assert.Equal(t, "tasks", cfg.StreamPrefix)
	assert.True(t, cfg.SpawnMaster)
}
