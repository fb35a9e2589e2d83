// Package config loads the client configuration from the environment,
// an optional .env file and an optional config file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Ключи конфигурации
const (
	KeyServerURL   = "SERVER_URL"
	KeyDBPath      = "DB_PATH"
	KeyDBDriver    = "DB_DRIVER"
	KeyLogLevel    = "LOG_LEVEL"
	KeyAccessToken = "ACCESS_TOKEN"
	KeyMaxPageSize = "MAX_PAGE_SIZE"
	KeyHTTPTimeout = "HTTP_TIMEOUT_SECONDS"
)

// Драйверы локального хранилища
const (
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
)

const (
	defaultServerURL   = "http://localhost:8080"
	defaultDBPath      = "offlinesync.db"
	defaultLogLevel    = "info"
	defaultHTTPTimeout = 30
)

// ErrInvalidConfig is returned for a configuration that fails validation
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the client configuration
type Config struct {
	ServerURL   string `mapstructure:"server_url"`
	DBPath      string `mapstructure:"db_path"`
	DBDriver    string `mapstructure:"db_driver"`
	LogLevel    string `mapstructure:"log_level"`
	AccessToken string `mapstructure:"access_token"`
	MaxPageSize int    `mapstructure:"max_page_size"`
	// HTTPTimeout в секундах
	HTTPTimeout int `mapstructure:"http_timeout_seconds"`
}

// Load reads the configuration. envFile is loaded when it exists (an empty
// name means ".env"); configFile, when set, must exist. Environment variables
// win over both files.
func Load(envFile, configFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetDefault(KeyServerURL, defaultServerURL)
	v.SetDefault(KeyDBPath, defaultDBPath)
	v.SetDefault(KeyDBDriver, DriverBolt)
	v.SetDefault(KeyLogLevel, defaultLogLevel)
	v.SetDefault(KeyAccessToken, "")
	v.SetDefault(KeyMaxPageSize, 0)
	v.SetDefault(KeyHTTPTimeout, defaultHTTPTimeout)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	v.AutomaticEnv()

	cfg := &Config{
		ServerURL:   v.GetString(KeyServerURL),
		DBPath:      v.GetString(KeyDBPath),
		DBDriver:    strings.ToLower(v.GetString(KeyDBDriver)),
		LogLevel:    v.GetString(KeyLogLevel),
		AccessToken: v.GetString(KeyAccessToken),
		MaxPageSize: v.GetInt(KeyMaxPageSize),
		HTTPTimeout: v.GetInt(KeyHTTPTimeout),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidConfig, KeyServerURL)
	}
	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %s must be an absolute URL, got %q", ErrInvalidConfig, KeyServerURL, c.ServerURL)
	}
	if c.DBPath == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidConfig, KeyDBPath)
	}
	if c.DBDriver != DriverBolt && c.DBDriver != DriverSQLite {
		return fmt.Errorf("%w: %s must be %q or %q, got %q", ErrInvalidConfig, KeyDBDriver, DriverBolt, DriverSQLite, c.DBDriver)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.MaxPageSize < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, KeyMaxPageSize)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, KeyHTTPTimeout)
	}
	return nil
}

// Timeout returns the HTTP timeout as a duration
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.HTTPTimeout) * time.Second
}

// Level returns the configured log level
func (c *Config) Level() slog.Level {
	level, _ := ParseLevel(c.LogLevel)
	return level
}

// ParseLevel converts debug, info, warn or error into a slog level
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, KeyLogLevel, err)
	}
	return level, nil
}
