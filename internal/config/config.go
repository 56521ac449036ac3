// Package config loads layered configuration (file + environment) for
// every runnable surface of this repository, following the teacher's
// viper-backed Load()/setDefaults() pattern.
package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Store       StoreConfig
	Worker      WorkerConfig
	Distributed DistributedConfig
	Server      ServerConfig
	Redis       RedisConfig
	Metrics     MetricsConfig
	Auth        AuthConfig
	LogLevel    string
}

// StoreConfig configures the task store's lock-acquisition and checkout
// retry behavior (SPEC_FULL.md §4.1-4.2).
type StoreConfig struct {
	Timeout              time.Duration
	TaskCheckoutDelay    time.Duration
	TaskCheckoutNumTries int
}

// WorkerConfig configures the serial and local-pool worker variants
// (SPEC_FULL.md §4.3-4.5).
type WorkerConfig struct {
	Runtime  time.Duration
	StopTime time.Duration
	LeftFrac float64
	PoolSize int
	Silent   bool
}

// DistributedConfig configures the message-passing variant's transport
// (SPEC_FULL.md §4.6).
type DistributedConfig struct {
	StreamPrefix string
	SpawnMaster  bool
}

type ServerConfig struct {
	Host         string
	Port         int
	AdminPort    int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

type AuthConfig struct {
	Enabled   bool
	JWTSecret string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/cake")

	setDefaults()

	viper.SetEnvPrefix("CAKE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	// Store defaults
	viper.SetDefault("store.timeout", 30*time.Second)
	viper.SetDefault("store.taskcheckoutdelay", 100*time.Millisecond)
	viper.SetDefault("store.taskcheckoutnumtries", 3)

	// Worker defaults
	viper.SetDefault("worker.runtime", 0)
	viper.SetDefault("worker.stoptime", 300*time.Second)
	viper.SetDefault("worker.leftfrac", 0.5)
	viper.SetDefault("worker.poolsize", 4)
	viper.SetDefault("worker.silent", false)

	// Distributed defaults
	viper.SetDefault("distributed.streamprefix", "cake")
	viper.SetDefault("distributed.spawnmaster", false)

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.adminport", 8081)
	viper.SetDefault("server.readtimeout", 30*time.Second)
	viper.SetDefault("server.writetimeout", 30*time.Second)
	viper.SetDefault("server.idletimeout", 120*time.Second)

	// Redis defaults
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.poolsize", 100)
	viper.SetDefault("redis.minidleconns", 10)
	viper.SetDefault("redis.maxretries", 3)
	viper.SetDefault("redis.dialtimeout", 5*time.Second)
	viper.SetDefault("redis.readtimeout", 3*time.Second)
	viper.SetDefault("redis.writetimeout", 3*time.Second)

	// Metrics defaults
	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.path", "/metrics")

	// Auth defaults
	viper.SetDefault("auth.enabled", false)
	viper.SetDefault("auth.jwtsecret", "")

	// Logging defaults
	viper.SetDefault("loglevel", "info")
}
