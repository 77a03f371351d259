// Package config loads server settings from the environment and an optional
// YAML file.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config holds the server settings.
type Config struct {
	DatabaseURL     string        `mapstructure:"database_url"`
	Port            string        `mapstructure:"port"`
	LogLevel        string        `mapstructure:"log_level"`
	ErrorSampleRate int           `mapstructure:"error_sample_rate"`
	OTELEnabled     bool          `mapstructure:"otel_enabled"`
	OTELServiceName string        `mapstructure:"otel_service_name"`
	Store           string        `mapstructure:"store"`
	RegistryFile    string        `mapstructure:"registry_file"`
	ProgramCacheTTL time.Duration `mapstructure:"program_cache_ttl"`
	ViewCacheTTL    time.Duration `mapstructure:"view_cache_ttl"`
	SlowRequest     time.Duration `mapstructure:"slow_request"`
}

var keys = []string{
	"database_url",
	"port",
	"log_level",
	"error_sample_rate",
	"otel_enabled",
	"otel_service_name",
	"store",
	"registry_file",
	"program_cache_ttl",
	"view_cache_ttl",
	"slow_request",
}

// SetDefaults registers the default of every setting on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "INFO")
	v.SetDefault("error_sample_rate", 1)
	v.SetDefault("otel_enabled", false)
	v.SetDefault("otel_service_name", "checklogic")
	v.SetDefault("store", StoreMemory)
	v.SetDefault("program_cache_ttl", 10*time.Minute)
	v.SetDefault("view_cache_ttl", time.Minute)
	v.SetDefault("slow_request", time.Second)
}

// Load reads settings from environment variables such as DATABASE_URL and
// PORT. When CONFIG_FILE is set, that YAML file supplies values the
// environment does not.
func Load() (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	if file := v.GetString("config_file"); file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	return FromViper(v)
}

// FromViper decodes and validates the settings held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the settings are consistent.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE=%s", StorePostgres)
		}
	default:
		return fmt.Errorf("unknown store %q (use %s or %s)", c.Store, StoreMemory, StorePostgres)
	}
	if c.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if c.ProgramCacheTTL < 0 || c.ViewCacheTTL < 0 {
		return fmt.Errorf("cache TTLs cannot be negative")
	}
	return nil
}
