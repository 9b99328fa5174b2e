package config

import (
	"fmt"
	"os"
	"strconv"
)

// AppName identifies the service in the status endpoint.
const AppName = "starwars-api"

// Version is the service version reported by the status endpoint.
const Version = "1.0.0"

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig
	Redis  RedisConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port      int
	APIPrefix string
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	URL      string // Optional full connection URL; takes precedence over Addr
	Addr     string
	Password string
	DB       int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:      getEnvAsIntOrDefault("PORT", 3000),
			APIPrefix: getEnvOrDefault("API_PREFIX", "/api"),
		},
		Redis: RedisConfig{
			URL:      os.Getenv("REDIS_URL"),
			Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
		},
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("PORT must be a valid port number")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
