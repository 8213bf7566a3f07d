package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	APIBaseURL      string
	ProfileSecret   string
	ProfileDuration time.Duration
	StudySessionTTL time.Duration
	StaticFilesPath string
	TemplatesPath   string
	LogLevel        string
	RateLimit       int
	RateWindow      time.Duration
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		ServerPort:      getEnv("PORT", "8080"),
		APIBaseURL:      getEnv("API_BASE_URL", "http://localhost:5000/api"),
		ProfileSecret:   getEnv("PROFILE_SECRET", "dev-profile-secret"),
		ProfileDuration: 24 * time.Hour,
		StudySessionTTL: 2 * time.Hour,
		StaticFilesPath: getEnv("STATIC_PATH", "./static"),
		TemplatesPath:   getEnv("TEMPLATES_PATH", "./internal/templates"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		RateLimit:       getEnvInt("RATE_LIMIT", 10),
		RateWindow:      time.Minute,
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
