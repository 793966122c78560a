package internal

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	Port     int
	LogLevel string

	// Application base URL (used by clients and redirects)
	BaseURL string

	// Auth provider selection: "hosted" or "mock"
	Provider string

	// Hosted provider configuration (required when Provider is "hosted")
	ProviderURL            string
	ProviderSecretKey      string
	ProviderTimeout        time.Duration
	ProviderMaxRetries     int
	ProviderRetryBaseDelay time.Duration

	// Metrics endpoint authentication
	// If both are empty, the /metrics endpoint will be unprotected (not recommended)
	MetricsUsername string
	MetricsPassword string
}

func NewConfig() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		// Base URL defaults to localhost for development
		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),

		// Provider defaults to mock so development needs no credentials
		Provider:               getEnv("AUTH_PROVIDER", "mock"),
		ProviderURL:            getEnv("AUTH_PROVIDER_URL", ""),
		ProviderSecretKey:      getEnv("AUTH_PROVIDER_SECRET_KEY", ""),
		ProviderTimeout:        getEnvDuration("AUTH_PROVIDER_TIMEOUT", 10*time.Second),
		ProviderMaxRetries:     getEnvInt("AUTH_PROVIDER_MAX_RETRIES", 3),
		ProviderRetryBaseDelay: getEnvDuration("AUTH_PROVIDER_RETRY_BASE_DELAY", 250*time.Millisecond),

		// Metrics authentication
		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),
	}

	// Validate provider configuration
	if cfg.Provider == "hosted" {
		if cfg.ProviderURL == "" {
			return nil, fmt.Errorf("AUTH_PROVIDER_URL is required when AUTH_PROVIDER is 'hosted'")
		}
		if cfg.ProviderSecretKey == "" {
			return nil, fmt.Errorf("AUTH_PROVIDER_SECRET_KEY is required when AUTH_PROVIDER is 'hosted'")
		}
	} else if cfg.Provider != "mock" {
		return nil, fmt.Errorf("AUTH_PROVIDER must be either 'hosted' or 'mock', got: %s", cfg.Provider)
	}

	return cfg, nil
}

// IsProduction reports whether the app runs in production mode. Cookie and
// HSTS behavior key off this.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
