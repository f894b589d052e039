// Package config provides application configuration management.
// It loads configuration from environment variables with support for .env files.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/flight-search/flexible-date-search/internal/domain"
)

// Lookup providers.
const (
	ProviderFixture = "fixture"
	ProviderAmadeus = "amadeus"
)

// Store drivers.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Quota    QuotaConfig
	Search   SearchConfig
	Provider ProviderConfig
	Store    StoreConfig
	Logging  LoggingConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Address returns the listen address.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// QuotaConfig holds the external API quota and per-call timeout.
type QuotaConfig struct {
	PerMinute     int           `env:"API_CALLS_PER_MINUTE" envDefault:"10"`
	PerHour       int           `env:"API_CALLS_PER_HOUR" envDefault:"100"`
	LookupTimeout time.Duration `env:"LOOKUP_TIMEOUT" envDefault:"30s"`
}

// SearchConfig holds run limits and request defaults.
type SearchConfig struct {
	MaxCalls        int    `env:"SEARCH_MAX_CALLS" envDefault:"200"`
	MaxActiveRuns   int    `env:"SEARCH_MAX_ACTIVE_RUNS" envDefault:"1"`
	MaxRangeDays    int    `env:"SEARCH_MAX_RANGE_DAYS" envDefault:"366"`
	DefaultCurrency string `env:"SEARCH_DEFAULT_CURRENCY" envDefault:"EUR"`
	MaxResults      int    `env:"SEARCH_MAX_RESULTS" envDefault:"3"`
	TopN            int    `env:"SEARCH_TOP_N" envDefault:"5"`
}

// ProviderConfig selects and configures the lookup collaborator.
type ProviderConfig struct {
	Name           string `env:"PROVIDER" envDefault:"fixture"`
	FixturePath    string `env:"FIXTURE_PATH" envDefault:"docs/fixtures/routes.json"`
	AmadeusBaseURL string `env:"AMADEUS_BASE_URL" envDefault:"https://test.api.amadeus.com"`
	AmadeusAPIKey  string `env:"AMADEUS_API_KEY"`
	AmadeusSecret  string `env:"AMADEUS_API_SECRET"`
}

// StoreConfig selects the run store.
type StoreConfig struct {
	Driver     string `env:"STORE_DRIVER" envDefault:"memory"`
	SQLitePath string `env:"STORE_SQLITE_PATH" envDefault:"data/runs.db"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
	Caller bool   `env:"LOG_CALLER" envDefault:"false"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Env string `env:"APP_ENV" envDefault:"development"`
}

// Load reads configuration from environment variables.
// It attempts to load a .env file first (optional - won't fail if missing).
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics on error.
// Use this in main() where configuration is required to start.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// validate checks configuration values for correctness.
func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", cfg.Server.Port)
	}

	positive := []struct {
		name  string
		value time.Duration
	}{
		{"SERVER_READ_TIMEOUT", cfg.Server.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", cfg.Server.WriteTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout},
		{"LOOKUP_TIMEOUT", cfg.Quota.LookupTimeout},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive", p.name)
		}
	}

	// Validate quotas
	if cfg.Quota.PerMinute < 1 {
		return fmt.Errorf("API_CALLS_PER_MINUTE must be at least 1, got %d", cfg.Quota.PerMinute)
	}
	if cfg.Quota.PerHour < cfg.Quota.PerMinute {
		return fmt.Errorf("API_CALLS_PER_HOUR (%d) should not be less than API_CALLS_PER_MINUTE (%d)",
			cfg.Quota.PerHour, cfg.Quota.PerMinute)
	}

	// Validate search limits
	if cfg.Search.MaxCalls < 1 {
		return fmt.Errorf("SEARCH_MAX_CALLS must be at least 1, got %d", cfg.Search.MaxCalls)
	}
	if cfg.Search.MaxActiveRuns < 1 {
		return fmt.Errorf("SEARCH_MAX_ACTIVE_RUNS must be at least 1, got %d", cfg.Search.MaxActiveRuns)
	}
	if cfg.Search.MaxRangeDays < 1 || cfg.Search.MaxRangeDays > domain.MaxRangeDays {
		return fmt.Errorf("SEARCH_MAX_RANGE_DAYS must be between 1 and %d, got %d",
			domain.MaxRangeDays, cfg.Search.MaxRangeDays)
	}
	if len(cfg.Search.DefaultCurrency) != 3 {
		return fmt.Errorf("SEARCH_DEFAULT_CURRENCY must be a 3-letter code, got %q", cfg.Search.DefaultCurrency)
	}
	if cfg.Search.MaxResults < 1 {
		return fmt.Errorf("SEARCH_MAX_RESULTS must be at least 1, got %d", cfg.Search.MaxResults)
	}
	if cfg.Search.TopN < 1 {
		return fmt.Errorf("SEARCH_TOP_N must be at least 1, got %d", cfg.Search.TopN)
	}

	// Validate provider
	switch cfg.Provider.Name {
	case ProviderFixture:
		if cfg.Provider.FixturePath == "" {
			return fmt.Errorf("FIXTURE_PATH is required when PROVIDER=fixture")
		}
	case ProviderAmadeus:
		if cfg.Provider.AmadeusAPIKey == "" || cfg.Provider.AmadeusSecret == "" {
			return fmt.Errorf("AMADEUS_API_KEY and AMADEUS_API_SECRET are required when PROVIDER=amadeus")
		}
	default:
		return fmt.Errorf("PROVIDER must be one of: fixture, amadeus; got %q", cfg.Provider.Name)
	}

	// Validate store
	switch cfg.Store.Driver {
	case StoreMemory:
	case StoreSQLite:
		if cfg.Store.SQLitePath == "" {
			return fmt.Errorf("STORE_SQLITE_PATH is required when STORE_DRIVER=sqlite")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be one of: memory, sqlite; got %q", cfg.Store.Driver)
	}

	// Validate log level
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", cfg.Logging.Level)
	}

	// Validate log format
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console; got %q", cfg.Logging.Format)
	}

	// Validate app environment
	validEnvs := map[string]bool{"development": true, "staging": true, "production": true}
	if !validEnvs[cfg.App.Env] {
		return fmt.Errorf("APP_ENV must be one of: development, staging, production; got %q", cfg.App.Env)
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
