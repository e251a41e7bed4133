// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir          string // Base directory for the portfolio CSV and cache DB (always absolute)
	PortfolioPath    string // Portfolio CSV file path
	CacheDBPath      string // Market-data cache database path
	BaseCurrency     string // Reporting currency (defaults to JPY)
	LogLevel         string
	Pretty           bool   // Pretty console log output
	GeminiAPIKey     string // Optional; enables the sentiment research provider
	SellThreshold    float64 // Base expected return below which a position is sold
	DirectiveCut     float64 // Fixed reduction ratio for sector/currency directives
	MinTicketJPY     float64 // Minimum increase allocation per candidate
	QuoteTTLMinutes  int    // Cache TTL for quotes
	DetailTTLMinutes int    // Cache TTL for fundamentals and analyst data
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("KABU_DATA_DIR", "")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to determine home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".kabu")
	}

	// Always resolve to absolute path and ensure the directory exists.
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:          absDataDir,
		PortfolioPath:    getEnv("KABU_PORTFOLIO_CSV", filepath.Join(absDataDir, "portfolio.csv")),
		CacheDBPath:      getEnv("KABU_CACHE_DB", filepath.Join(absDataDir, "cache.db")),
		BaseCurrency:     getEnv("KABU_BASE_CURRENCY", "JPY"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		Pretty:           getEnvAsBool("LOG_PRETTY", true),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		SellThreshold:    getEnvAsFloat("KABU_SELL_THRESHOLD", -0.10),
		DirectiveCut:     getEnvAsFloat("KABU_DIRECTIVE_CUT", 0.30),
		MinTicketJPY:     getEnvAsFloat("KABU_MIN_TICKET_JPY", 10000),
		QuoteTTLMinutes:  getEnvAsInt("KABU_QUOTE_TTL_MIN", 15),
		DetailTTLMinutes: getEnvAsInt("KABU_DETAIL_TTL_MIN", 1440),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DirectiveCut <= 0 || c.DirectiveCut >= 1 {
		return fmt.Errorf("directive cut must be in (0, 1), got %v", c.DirectiveCut)
	}
	if c.SellThreshold >= 0 {
		return fmt.Errorf("sell threshold must be negative, got %v", c.SellThreshold)
	}
	return nil
}

// Helper functions
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
