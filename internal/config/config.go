package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendJSON   = "json"
	BackendBadger = "badger"

	PolicyDirectOnly   = "direct-only"
	PolicyWithInverses = "with-inverses"
)

// Config holds all configuration for the application
type Config struct {
	Port      string
	LogLevel  string
	LogFormat string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Exchange storage
	RepositoryBackend  string
	ExchangesFilePath  string
	BadgerPath         string
	WatchExchangesFile bool

	// Resolution
	ExchangesCacheTTL  time.Duration
	CurrenciesCacheTTL time.Duration
	ValidationPolicy   string
	AmountPrecision    int32

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitBurst    int

	CORSAllowedOrigins []string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	configuration := &Config{
		Port:      getEnv("PORT", "8081"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		ReadTimeout:     seconds(getEnv("SERVER_READ_TIMEOUT_SECONDS", "15"), 15),
		WriteTimeout:    seconds(getEnv("SERVER_WRITE_TIMEOUT_SECONDS", "15"), 15),
		ShutdownTimeout: seconds(getEnv("SHUTDOWN_TIMEOUT_SECONDS", "30"), 30),

		RepositoryBackend:  strings.ToLower(getEnv("REPOSITORY_BACKEND", BackendJSON)),
		ExchangesFilePath:  getEnv("EXCHANGES_FILE_PATH", "data/exchanges.json"),
		BadgerPath:         getEnv("BADGER_PATH", "data/badger"),
		WatchExchangesFile: getEnv("WATCH_EXCHANGES_FILE", "false") == "true",

		ExchangesCacheTTL:  seconds(getEnv("EXCHANGES_CACHE_TTL_SECONDS", "60"), 60),
		CurrenciesCacheTTL: seconds(getEnv("CURRENCIES_CACHE_TTL_SECONDS", "30"), 30),
		ValidationPolicy:   strings.ToLower(getEnv("VALIDATION_POLICY", PolicyWithInverses)),
		AmountPrecision:    int32(atoiOr(getEnv("AMOUNT_PRECISION", "2"), 2)),

		RateLimitEnabled:  getEnv("RATE_LIMIT_ENABLED", "true") == "true",
		RateLimitRequests: atoiOr(getEnv("RATE_LIMIT_REQUESTS", "100"), 100),
		RateLimitWindow:   seconds(getEnv("RATE_LIMIT_WINDOW_SECONDS", "60"), 60),
		RateLimitBurst:    atoiOr(getEnv("RATE_LIMIT_BURST", "10"), 10),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	if err := configuration.Validate(); err != nil {
		return nil, err
	}
	return configuration, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	switch c.RepositoryBackend {
	case BackendJSON:
		if c.ExchangesFilePath == "" {
			return fmt.Errorf("EXCHANGES_FILE_PATH is required for the %s backend", BackendJSON)
		}
	case BackendBadger:
		if c.BadgerPath == "" {
			return fmt.Errorf("BADGER_PATH is required for the %s backend", BackendBadger)
		}
	default:
		return fmt.Errorf("unknown repository backend %q", c.RepositoryBackend)
	}

	switch c.ValidationPolicy {
	case PolicyDirectOnly, PolicyWithInverses:
	default:
		return fmt.Errorf("unknown validation policy %q", c.ValidationPolicy)
	}

	if c.ExchangesCacheTTL <= 0 || c.CurrenciesCacheTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	if c.AmountPrecision < 0 {
		return fmt.Errorf("AMOUNT_PRECISION must not be negative, got %d", c.AmountPrecision)
	}
	return nil
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func atoiOr(s string, fallback int) int {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return i
}

func seconds(s string, fallback int) time.Duration {
	return time.Duration(atoiOr(s, fallback)) * time.Second
}

func splitList(s string) []string {
	var values []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
