// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/aristath/budgetwise/internal/modules/settings"
)

// Config holds application configuration
type Config struct {
	DataDir             string // Base directory for all databases (always absolute)
	GeminiAPIKey        string // Credential for the advice generator
	SentimentServiceURL string // Headline scoring service (empty = lexical fallback)
	LogLevel            string
	Port                int
	DevMode             bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Determine data directory:
	// 1. BUDGETWISE_DATA_DIR environment variable
	// 2. Fallback to ./data
	// Always resolved to an absolute path, created if missing.
	dataDir := getEnv("BUDGETWISE_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "data"
	}

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:             absDataDir,
		Port:                getEnvAsInt("PORT", 8000),
		DevMode:             getEnvAsBool("DEV_MODE", false),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		SentimentServiceURL: getEnv("SENTIMENT_SERVICE_URL", ""),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// UpdateFromSettings updates configuration from the settings database.
// Called after config.db is initialized. Settings DB values take precedence
// over environment variables; empty settings keep the env var fallback.
func (c *Config) UpdateFromSettings(settingsRepo *settings.Repository) error {
	apiKey, err := settingsRepo.Get("gemini_api_key")
	if err != nil {
		return fmt.Errorf("failed to get gemini_api_key from settings: %w", err)
	}
	if apiKey != nil && *apiKey != "" {
		c.GeminiAPIKey = *apiKey
	}

	scorerURL, err := settingsRepo.Get("sentiment_service_url")
	if err != nil {
		return fmt.Errorf("failed to get sentiment_service_url from settings: %w", err)
	}
	if scorerURL != nil && *scorerURL != "" {
		c.SentimentServiceURL = *scorerURL
	}

	return nil
}

// Validate checks required configuration values
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	return nil
}

// getEnv retrieves an environment variable value, returning a fallback if the
// variable is not set or is empty.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvAsInt retrieves an environment variable as an integer
func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// getEnvAsBool retrieves an environment variable as a boolean
func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
