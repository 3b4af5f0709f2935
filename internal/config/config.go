// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.concierge/config.yaml or ./config.yaml)
//  3. Default values
//
// Validation is fail-fast: Load returns an error for any out-of-range value,
// using sentinel errors so callers can classify with errors.Is().
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrInvalidModelName indicates the model name is empty.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidCatalogURL indicates the catalog base URL is empty or malformed.
	ErrInvalidCatalogURL = errors.New("invalid catalog base URL")

	// ErrInvalidRateLimit indicates rate limit window or max is out of range.
	ErrInvalidRateLimit = errors.New("invalid rate limit")

	// ErrInvalidCache indicates cache TTL or entry cap is out of range.
	ErrInvalidCache = errors.New("invalid cache settings")

	// ErrInvalidToolSteps indicates the tool step ceiling is out of range.
	ErrInvalidToolSteps = errors.New("invalid max tool steps")

	// ErrInvalidTokenThreshold indicates the trim threshold is out of range.
	ErrInvalidTokenThreshold = errors.New("invalid token threshold")
)

const (
	// DefaultCatalogBaseURL is the production catalog search endpoint origin.
	DefaultCatalogBaseURL = "https://www.ediblearrangements.com"

	// DefaultModelName is the default reasoning model.
	DefaultModelName = "googleai/gemini-2.5-flash"

	// DefaultAddr is the default listen address for the HTTP server.
	DefaultAddr = "127.0.0.1:3500"
)

// Config stores application configuration.
type Config struct {
	// Reasoning model configuration.
	// NOTE: GEMINI_API_KEY is read directly by Genkit, not via Viper.
	ModelName string `mapstructure:"model_name" json:"model_name"`

	// Catalog client configuration.
	CatalogBaseURL  string        `mapstructure:"catalog_base_url" json:"catalog_base_url"`
	CatalogTimeout  time.Duration `mapstructure:"catalog_timeout" json:"catalog_timeout"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl" json:"cache_ttl"`
	CacheMaxEntries int           `mapstructure:"cache_max_entries" json:"cache_max_entries"`

	// Per-caller admission control.
	RateLimitWindow time.Duration `mapstructure:"rate_limit_window" json:"rate_limit_window"`
	RateLimitMax    int           `mapstructure:"rate_limit_max" json:"rate_limit_max"`
	// UnknownCallerKey is the bucket shared by callers without a resolvable
	// address. Configurable rather than hardcoded so operators can decide
	// whether anonymous callers share one budget.
	UnknownCallerKey string `mapstructure:"unknown_caller_key" json:"unknown_caller_key"`

	// Orchestrator configuration.
	MaxToolSteps   int `mapstructure:"max_tool_steps" json:"max_tool_steps"`
	TokenThreshold int `mapstructure:"token_threshold" json:"token_threshold"`

	// Server configuration.
	Addr       string `mapstructure:"addr" json:"addr"`
	TrustProxy bool   `mapstructure:"trust_proxy" json:"trust_proxy"` // Trust X-Forwarded-For (set true behind reverse proxy)

	// Logging configuration.
	LogJSON bool `mapstructure:"log_json" json:"log_json"`
}

// Load loads configuration.
// Priority: Environment variables > Configuration file > Default values
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".concierge")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".")

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// Missing config file is fine, defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	viper.SetDefault("model_name", DefaultModelName)

	viper.SetDefault("catalog_base_url", DefaultCatalogBaseURL)
	viper.SetDefault("catalog_timeout", 10*time.Second)
	viper.SetDefault("cache_ttl", 2*time.Minute)
	viper.SetDefault("cache_max_entries", 100)

	viper.SetDefault("rate_limit_window", time.Minute)
	viper.SetDefault("rate_limit_max", 20)
	viper.SetDefault("unknown_caller_key", "unknown")

	viper.SetDefault("max_tool_steps", 5)
	viper.SetDefault("token_threshold", 80000)

	viper.SetDefault("addr", DefaultAddr)
	viper.SetDefault("trust_proxy", false)
	viper.SetDefault("log_json", false)
}

// bindEnvVariables binds environment variable overrides explicitly.
func bindEnvVariables() {
	// Hardcoded key pairs cannot fail to bind; a panic here is a bug.
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("model_name", "CONCIERGE_MODEL_NAME")
	mustBind("catalog_base_url", "CONCIERGE_CATALOG_BASE_URL")
	mustBind("addr", "CONCIERGE_ADDR")
	mustBind("trust_proxy", "CONCIERGE_TRUST_PROXY")
	mustBind("log_json", "CONCIERGE_LOG_JSON")
	// NOTE: GEMINI_API_KEY is read directly by Genkit, not via Viper.
}

// Validate checks all configuration values and fails fast on the first
// violation. Wraps sentinel errors for errors.Is() classification.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}
	if c.ModelName == "" {
		return fmt.Errorf("%w: model name must not be empty", ErrInvalidModelName)
	}
	if c.CatalogBaseURL == "" {
		return fmt.Errorf("%w: catalog base URL must not be empty", ErrInvalidCatalogURL)
	}
	if c.CatalogTimeout <= 0 {
		return fmt.Errorf("%w: catalog timeout must be positive, got %v", ErrInvalidCache, c.CatalogTimeout)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("%w: cache TTL must be positive, got %v", ErrInvalidCache, c.CacheTTL)
	}
	if c.CacheMaxEntries <= 0 {
		return fmt.Errorf("%w: cache entry cap must be positive, got %d", ErrInvalidCache, c.CacheMaxEntries)
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("%w: window must be positive, got %v", ErrInvalidRateLimit, c.RateLimitWindow)
	}
	if c.RateLimitMax <= 0 {
		return fmt.Errorf("%w: max admissions must be positive, got %d", ErrInvalidRateLimit, c.RateLimitMax)
	}
	if c.MaxToolSteps <= 0 || c.MaxToolSteps > 20 {
		return fmt.Errorf("%w: must be in range 1-20, got %d", ErrInvalidToolSteps, c.MaxToolSteps)
	}
	if c.TokenThreshold < 1000 {
		return fmt.Errorf("%w: must be at least 1000, got %d", ErrInvalidTokenThreshold, c.TokenThreshold)
	}
	return nil
}
