package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port    string
	BaseURL string
	Model   string
	APIKey  string

	RedisURL         string
	RateLimitEnabled bool

	CacheTTL time.Duration
}

func Load() *Config {
	return &Config{
		Port:             getEnv("PORT", "8080"),
		BaseURL:          getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		Model:            getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		APIKey:           getEnv("GEMINI_API_KEY", ""),
		RedisURL:         getEnv("REDIS_URL", ""),
		RateLimitEnabled: !getEnvBool("RATE_LIMIT_DISABLED", false),
		CacheTTL:         getEnvDuration("CACHE_TTL", 10*time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
