package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read through this package and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Enrichment providers
	Apollo     ProviderConfig
	Clearbit   ProviderConfig
	Hunter     ProviderConfig
	Crunchbase ProviderConfig

	// Cache TTLs
	EnrichmentCacheTTL time.Duration
	CompanyCacheTTL    time.Duration

	// Scoring default weights, used when a lead is scored without an ICP
	DefaultIntentWeight        int
	DefaultFitWeight           int
	DefaultAccessibilityWeight int

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// ProviderConfig holds one enrichment provider's settings.
// RateLimit is requests per minute.
type ProviderConfig struct {
	APIKey    string
	BaseURL   string
	RateLimit int
}

// Enabled reports whether the provider has an API key configured.
func (p ProviderConfig) Enabled() bool {
	return p.APIKey != ""
}

// Load reads configuration from environment variables.
// This is the only function that calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		// Enrichment providers. Default rate limits follow the vendors'
		// published per-minute quotas.
		Apollo: ProviderConfig{
			APIKey:    getEnv("APOLLO_API_KEY", ""),
			BaseURL:   getEnv("APOLLO_BASE_URL", "https://api.apollo.io/v1"),
			RateLimit: getEnvAsInt("APOLLO_RATE_LIMIT", 100),
		},
		Clearbit: ProviderConfig{
			APIKey:    getEnv("CLEARBIT_API_KEY", ""),
			BaseURL:   getEnv("CLEARBIT_BASE_URL", "https://company.clearbit.com/v2"),
			RateLimit: getEnvAsInt("CLEARBIT_RATE_LIMIT", 600),
		},
		Hunter: ProviderConfig{
			APIKey:    getEnv("HUNTER_API_KEY", ""),
			BaseURL:   getEnv("HUNTER_BASE_URL", "https://api.hunter.io/v2"),
			RateLimit: getEnvAsInt("HUNTER_RATE_LIMIT", 25),
		},
		Crunchbase: ProviderConfig{
			APIKey:    getEnv("CRUNCHBASE_API_KEY", ""),
			BaseURL:   getEnv("CRUNCHBASE_BASE_URL", "https://api.crunchbase.com/api/v4"),
			RateLimit: getEnvAsInt("CRUNCHBASE_RATE_LIMIT", 200),
		},

		// Cache TTLs
		EnrichmentCacheTTL: getEnvAsDuration("ENRICHMENT_CACHE_TTL", "720h"), // 30 days
		CompanyCacheTTL:    getEnvAsDuration("COMPANY_CACHE_TTL", "168h"),    // 7 days

		// Scoring defaults
		DefaultIntentWeight:        getEnvAsInt("DEFAULT_INTENT_WEIGHT", 40),
		DefaultFitWeight:           getEnvAsInt("DEFAULT_FIT_WEIGHT", 35),
		DefaultAccessibilityWeight: getEnvAsInt("DEFAULT_ACCESSIBILITY_WEIGHT", 25),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
