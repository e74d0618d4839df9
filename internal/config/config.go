// Package config loads and exposes application configuration (TOML).
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Default configuration values used when a field is missing in TOML.
const (
	DefaultConfigPath      = "config.toml"
	DefaultHTTPAddr        = ":8080"
	DefaultPGHost          = "127.0.0.1"
	DefaultPGPort          = 5432
	DefaultPGUser          = "postgres"
	DefaultPGDatabase      = "zaplink"
	DefaultPGSSLMode       = "disable"
	DefaultProviderURL     = "http://127.0.0.1:21465"
	DefaultPollPattern     = "@every 30s"
	DefaultPageSize        = 50
	DefaultPollPageSize    = 20
	DefaultBulkConcurrency = 4
	DefaultLowWatermark    = 10
	DefaultRatePerSecond   = 5
	DefaultCountryCode     = "55"
	DefaultNationalLength  = 10
	DefaultMobilePrefix    = "9"
	DefaultMaxDigits       = 14
	DefaultMinDigits       = 8
	DefaultProviderTimeout = 15 * time.Second
)

// Config is the root application configuration loaded from TOML.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Postgres PostgresConfig `toml:"postgres"`
	Provider ProviderConfig `toml:"provider"`
	Identity IdentityConfig `toml:"identity"`
	Sync     SyncConfig     `toml:"sync"`
}

// LogConfig holds logging level and format (e.g. level=info, format=text).
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ServerConfig holds the HTTP server listen address.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	SSLMode  string `toml:"sslmode"`
}

// ProviderConfig holds the messaging gateway base URL, token, and client limits.
type ProviderConfig struct {
	BaseURL        string `toml:"base_url"`
	Token          string `toml:"token"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	RatePerSecond  int    `toml:"rate_per_second"`
	RateBurst      int    `toml:"rate_burst"`
}

// Timeout returns the provider HTTP timeout.
func (c ProviderConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultProviderTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// IdentityConfig holds the numbering-plan thresholds used by the normalizer.
// The defaults describe the Brazilian plan; other deployments may override them.
type IdentityConfig struct {
	CountryCode       string `toml:"country_code"`
	NationalLength    int    `toml:"national_length"`
	MobilePrefixDigit string `toml:"mobile_prefix_digit"`
	MaxDigits         int    `toml:"max_digits"`
	MinDigits         int    `toml:"min_digits"`
}

// SyncConfig holds poll scheduling and backfill tuning.
type SyncConfig struct {
	PollPattern     string `toml:"poll_pattern"`
	PollPageSize    int    `toml:"poll_page_size"`
	PageSize        int    `toml:"page_size"`
	BulkConcurrency int    `toml:"bulk_concurrency"`
	LowWatermark    int    `toml:"low_watermark"`
}

// Load reads and parses the TOML config file at path and applies default values for missing fields.
func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Postgres: PostgresConfig{
			Host:     DefaultPGHost,
			Port:     DefaultPGPort,
			User:     DefaultPGUser,
			Database: DefaultPGDatabase,
			SSLMode:  DefaultPGSSLMode,
		},
		Provider: ProviderConfig{
			BaseURL:       DefaultProviderURL,
			RatePerSecond: DefaultRatePerSecond,
			RateBurst:     DefaultRatePerSecond,
		},
		Identity: IdentityConfig{
			CountryCode:       DefaultCountryCode,
			NationalLength:    DefaultNationalLength,
			MobilePrefixDigit: DefaultMobilePrefix,
			MaxDigits:         DefaultMaxDigits,
			MinDigits:         DefaultMinDigits,
		},
		Sync: SyncConfig{
			PollPattern:     DefaultPollPattern,
			PollPageSize:    DefaultPollPageSize,
			PageSize:        DefaultPageSize,
			BulkConcurrency: DefaultBulkConcurrency,
			LowWatermark:    DefaultLowWatermark,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
