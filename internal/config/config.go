// Package config loads and validates console config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Config holds console configuration loaded from the environment.
type Config struct {
	// APIURL is the backend API base, including the version prefix (e.g. http://localhost:8000/api/v1).
	APIURL string `mapstructure:"NUMIS_API_URL"`
	// AssetURL is the root that relative image paths and the health check resolve against.
	// Empty means scheme and host of APIURL.
	AssetURL string `mapstructure:"NUMIS_ASSET_URL"`
	// StateDir holds session.json. Empty means <user config dir>/numis.
	StateDir string `mapstructure:"NUMIS_STATE_DIR"`
	// APITimeout is a per request timeout (e.g. "30s"); "0" disables it.
	APITimeout string `mapstructure:"API_TIMEOUT"`
	// MFAChallengeTTL bounds how long a pending second factor stays usable (e.g. "5m").
	MFAChallengeTTL string `mapstructure:"MFA_CHALLENGE_TTL"`
	// LogLevel is a zap level name (debug, info, warn, error).
	LogLevel string `mapstructure:"LOG_LEVEL"`
	// Env is the application environment; "production" switches logs to JSON.
	Env string `mapstructure:"APP_ENV"`

	// Presentation.
	Locale         string `mapstructure:"NUMIS_LOCALE"`
	Currency       string `mapstructure:"NUMIS_CURRENCY"`
	CurrencySymbol string `mapstructure:"NUMIS_CURRENCY_SYMBOL"`
	DateTimeLayout string `mapstructure:"NUMIS_DATETIME_LAYOUT"`

	// Telemetry (optional). Empty endpoint means no-op providers.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPInsecure bool   `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	ServiceName  string `mapstructure:"OTEL_SERVICE_NAME"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored. Env vars override .env.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("NUMIS_API_URL", "http://localhost:8000/api/v1")
	v.SetDefault("NUMIS_ASSET_URL", "")
	v.SetDefault("NUMIS_STATE_DIR", "")
	v.SetDefault("API_TIMEOUT", "0")
	v.SetDefault("MFA_CHALLENGE_TTL", "5m")
	v.SetDefault("LOG_LEVEL", "warn")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("NUMIS_LOCALE", "pt-BR")
	v.SetDefault("NUMIS_CURRENCY", "BRL")
	v.SetDefault("NUMIS_CURRENCY_SYMBOL", "R$")
	v.SetDefault("NUMIS_DATETIME_LAYOUT", "2006-01-02 15:04:05")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", true)
	v.SetDefault("OTEL_SERVICE_NAME", "numis-console")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	u, err := url.Parse(cfg.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.New("config: NUMIS_API_URL must be an absolute http(s) URL")
	}
	if cfg.AssetURL == "" {
		cfg.AssetURL = u.Scheme + "://" + u.Host
	}
	cfg.AssetURL = strings.TrimRight(cfg.AssetURL, "/")

	if d, err := time.ParseDuration(cfg.MFAChallengeTTL); err != nil || d <= 0 {
		return nil, errors.New("config: MFA_CHALLENGE_TTL must be a positive duration")
	}
	if cfg.APITimeout != "0" {
		if d, err := time.ParseDuration(cfg.APITimeout); err != nil || d < 0 {
			return nil, errors.New("config: API_TIMEOUT must be a non-negative duration")
		}
	}
	if _, err := language.Parse(cfg.Locale); err != nil {
		return nil, fmt.Errorf("config: NUMIS_LOCALE: %w", err)
	}
	if cfg.DateTimeLayout == "" {
		cfg.DateTimeLayout = "2006-01-02 15:04:05"
	}

	return &cfg, nil
}

// Timeout parses APITimeout. Returns 0 (no timeout) if unset or invalid.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.APITimeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// ChallengeTTL parses MFAChallengeTTL as a time.Duration. Returns 5m if unset or invalid.
func (c *Config) ChallengeTTL() time.Duration {
	d, err := time.ParseDuration(c.MFAChallengeTTL)
	if err != nil || d <= 0 {
		return 5 * time.Minute
	}
	return d
}

// Tag returns the configured locale as a language tag; und on parse failure.
func (c *Config) Tag() language.Tag {
	t, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und
	}
	return t
}

// SessionFile returns the path of the persisted session file.
func (c *Config) SessionFile() (string, error) {
	dir := c.StateDir
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("config: resolve state dir: %w", err)
		}
		dir = filepath.Join(base, "numis")
	}
	return filepath.Join(dir, "session.json"), nil
}
