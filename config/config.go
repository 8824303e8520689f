package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port              string
	AllowedOrigins    []string
	AdminPassword     string
	AdminPasswordHash string
	RoomCapacity      int
	LogLevel          string
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "5000"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		RoomCapacity:      getEnvAsInt("ROOM_CAPACITY", 8),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}

	allowedOrigins, exists := os.LookupEnv("ALLOWED_ORIGINS")
	if !exists {
		return nil, errors.New("missing allowed origins")
	}
	cfg.AllowedOrigins = strings.Split(allowedOrigins, ",")

	if cfg.AdminPassword == "" && cfg.AdminPasswordHash == "" {
		return nil, errors.New("missing admin password or password hash")
	}

	return cfg, nil
}
