package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Cache     CacheConfig     `mapstructure:"cache"`
	PriceFeed PriceFeedConfig `mapstructure:"pricefeed"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Matching  MatchingConfig  `mapstructure:"matching"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// CatalogConfig points at the recipe catalog file
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// PriceFeedConfig holds product price feed configuration. An empty BaseURL disables the feed.
type PriceFeedConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	APIKey            string        `mapstructure:"api_key"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute, 0 disables
}

// MatchingConfig tunes the recommendation engine
type MatchingConfig struct {
	SimilarityThreshold float64             `mapstructure:"similarity_threshold"`
	OverFetchFactor     int                 `mapstructure:"over_fetch_factor"`
	DefaultMissingCost  float64             `mapstructure:"default_missing_cost"`
	Workers             int                 `mapstructure:"workers"`
	DefaultLimit        int                 `mapstructure:"default_limit"`
	DefaultMaxMissing   int                 `mapstructure:"default_max_missing"`
	Substitutions       map[string][]string `mapstructure:"substitutions"` // replaces the built-in table when set
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/kitchentory/")

	// KITCHENTORY_CACHE_REDIS_URL -> cache.redis_url
	v.SetEnvPrefix("KITCHENTORY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads .env from the working directory if present. Variables already set
// in the environment win.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	v.SetDefault("log.level", "info")

	v.SetDefault("catalog.path", "./config/recipes.yaml")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "24h")

	// Price feed defaults
	v.SetDefault("pricefeed.base_url", "")
	v.SetDefault("pricefeed.api_key", "")
	v.SetDefault("pricefeed.requests_per_second", 5)
	v.SetDefault("pricefeed.burst", 10)
	v.SetDefault("pricefeed.timeout", "10s")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)

	// Matching defaults
	v.SetDefault("matching.similarity_threshold", 0.7)
	v.SetDefault("matching.over_fetch_factor", 2)
	v.SetDefault("matching.default_missing_cost", 3.0)
	v.SetDefault("matching.workers", 1)
	v.SetDefault("matching.default_limit", 20)
	v.SetDefault("matching.default_max_missing", 3)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("redis URL is required when cache type is 'redis'")
	}

	if strings.TrimSpace(config.Catalog.Path) == "" {
		return fmt.Errorf("catalog path is required (set KITCHENTORY_CATALOG_PATH)")
	}

	m := config.Matching
	if m.SimilarityThreshold <= 0 || m.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity threshold must be in (0, 1], got: %v", m.SimilarityThreshold)
	}
	if m.OverFetchFactor < 1 {
		return fmt.Errorf("over-fetch factor must be at least 1, got: %d", m.OverFetchFactor)
	}
	if m.DefaultMissingCost < 0 {
		return fmt.Errorf("default missing cost must not be negative, got: %v", m.DefaultMissingCost)
	}
	if m.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got: %d", m.Workers)
	}
	if m.DefaultLimit < 1 {
		return fmt.Errorf("default limit must be at least 1, got: %d", m.DefaultLimit)
	}
	if m.DefaultMaxMissing < 0 {
		return fmt.Errorf("default max missing must not be negative, got: %d", m.DefaultMaxMissing)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("per-IP rate limit must not be negative, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
