package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers for the title source.
const (
	StorageDriverJSON     = "json"
	StorageDriverPostgres = "postgres"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Health    HealthConfig    `mapstructure:"health"`
}

type ServerConfig struct {
	Port string `mapstructure:"SERVER_PORT"`
	Host string `mapstructure:"SERVER_HOST"`
	Env  string `mapstructure:"ENV"`
}

type StorageConfig struct {
	Driver     string `mapstructure:"STORAGE_DRIVER"`
	TitlesPath string `mapstructure:"TITLES_PATH"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"DATABASE_URL"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
	CacheTTL string `mapstructure:"REDIS_CACHE_TTL"`
}

type SchedulerConfig struct {
	Spec     string `mapstructure:"SCHEDULER_SPEC"`
	Timezone string `mapstructure:"SCHEDULER_TIMEZONE"`
}

type HealthConfig struct {
	Timeout string `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("STORAGE_DRIVER", StorageDriverJSON)
	viper.SetDefault("TITLES_PATH", "data/titles.json")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("REDIS_HOST", "")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_CACHE_TTL", "5m")
	viper.SetDefault("SCHEDULER_SPEC", "0 0 6 * * *")
	viper.SetDefault("SCHEDULER_TIMEZONE", "UTC")
	viper.SetDefault("HEALTH_CHECK_TIMEOUT", "5s")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	switch c.Storage.Driver {
	case StorageDriverJSON:
		if c.Storage.TitlesPath == "" {
			return fmt.Errorf("TITLES_PATH is required when STORAGE_DRIVER is json")
		}
	case StorageDriverPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_DRIVER is postgres")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q", StorageDriverJSON, StorageDriverPostgres)
	}

	if _, err := time.ParseDuration(c.Redis.CacheTTL); err != nil {
		return fmt.Errorf("REDIS_CACHE_TTL must be a valid duration: %w", err)
	}

	if _, err := time.ParseDuration(c.Health.Timeout); err != nil {
		return fmt.Errorf("HEALTH_CHECK_TIMEOUT must be a valid duration: %w", err)
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// RedisEnabled reports whether a Redis cache has been configured.
func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

// GetCacheTTL returns the Redis cache TTL as duration
func (c *Config) GetCacheTTL() time.Duration {
	ttl, _ := time.ParseDuration(c.Redis.CacheTTL)
	return ttl
}

// GetHealthTimeout returns the health check timeout as duration
func (c *Config) GetHealthTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Health.Timeout)
	return timeout
}
