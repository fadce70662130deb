// Package config loads application configuration from file and environment.
package config

import (
	"errors"
	"fmt"
	"pocketblog/db"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port           string `mapstructure:"PORT"`
	StoreDriver    string `mapstructure:"STORE_DRIVER"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	DBURL          string `mapstructure:"DB_URL"`
	SQLitePath     string `mapstructure:"SQLITE_PATH"`
	BearerToken    string `mapstructure:"BEARER_TOKEN"`
	LogLevel       string `mapstructure:"LOG_LEVEL"`
	Env            string `mapstructure:"APP_ENV"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	RateLimit      int    `mapstructure:"RATE_LIMIT"`
}

var keys = []string{
	"PORT", "STORE_DRIVER", "REDIS_URL", "DB_URL", "SQLITE_PATH",
	"BEARER_TOKEN", "LOG_LEVEL", "APP_ENV", "ALLOWED_ORIGINS", "RATE_LIMIT",
}

// LoadConfig reads config.yml from the working directory (if any) and
// overlays environment variables.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetDefault("PORT", "8000")
	v.SetDefault("STORE_DRIVER", db.DriverSQLite)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("DB_URL", "")
	v.SetDefault("SQLITE_PATH", "pocketblog.db")
	v.SetDefault("BEARER_TOKEN", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:8000")
	v.SetDefault("RATE_LIMIT", 30)

	// AutomaticEnv only answers Get; Unmarshal needs the keys bound.
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("unable to bind %s: %w", k, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks that the selected store driver has what it needs.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	switch strings.ToLower(c.StoreDriver) {
	case db.DriverMemory:
	case db.DriverRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required for the redis store")
		}
	case db.DriverPostgres:
		if c.DBURL == "" {
			return errors.New("DB_URL is required for the postgres store")
		}
	case db.DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.RateLimit < 0 {
		return errors.New("RATE_LIMIT must not be negative")
	}
	return nil
}

// Store returns the storage settings for db.Open.
func (c *Config) Store() db.Config {
	return db.Config{
		Driver:     strings.ToLower(c.StoreDriver),
		DBURL:      c.DBURL,
		RedisURL:   c.RedisURL,
		SQLitePath: c.SQLitePath,
	}
}

// Origins splits ALLOWED_ORIGINS on commas.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// IsDevelopment reports whether APP_ENV selects the development profile.
func (c *Config) IsDevelopment() bool {
	return c.Env == "" || c.Env == "development"
}

func (c *Config) GetBearerToken() string { return c.BearerToken }

// GetRateLimit is the per-client requests per minute. Zero disables limiting.
func (c *Config) GetRateLimit() int { return c.RateLimit }
