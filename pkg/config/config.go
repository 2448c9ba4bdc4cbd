package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Cache backend selectors for EngineConfig.CacheBackend.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config holds all application configuration
type Config struct {
	Engine EngineConfig
	Redis  RedisConfig
	OTEL   OTELConfig
}

// EngineConfig holds prediction engine configuration
type EngineConfig struct {
	CacheBackend        string
	PredictionCacheTTL  int // seconds
	SlowCallThresholdMs int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Engine: EngineConfig{
			CacheBackend:        getEnv("ENGINE_CACHE_BACKEND", CacheBackendMemory),
			PredictionCacheTTL:  getEnvAsInt("PREDICTION_CACHE_TTL", 300),
			SlowCallThresholdMs: getEnvAsInt("SLOW_CALL_THRESHOLD_MS", 1000),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "intent-engine"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// SlowCallThreshold returns the slow-call threshold as a duration
func (c *EngineConfig) SlowCallThreshold() time.Duration {
	return time.Duration(c.SlowCallThresholdMs) * time.Millisecond
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
