package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"bookkeeping/internal/core"
	"bookkeeping/internal/log"
)

type Config struct {
	// Database
	DBPath string `env:"LEDGER_DB_PATH" envDefault:"./data/ledger.db"`

	// Ledger policy
	Timezone               string `env:"LEDGER_TIMEZONE" envDefault:"Local"`
	Currency               string `env:"LEDGER_CURRENCY" envDefault:"CNY"`
	ReverseBalanceOnDelete bool   `env:"LEDGER_REVERSE_BALANCE_ON_DELETE" envDefault:"false"`
	EnforceCategoryKind    bool   `env:"LEDGER_ENFORCE_CATEGORY_KIND" envDefault:"true"`

	// Chart frame
	ChartWidth  float64 `env:"LEDGER_CHART_WIDTH" envDefault:"600"`
	ChartHeight float64 `env:"LEDGER_CHART_HEIGHT" envDefault:"300"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

var validLogFormats = []string{"text", "json"}

// Load reads the configuration from environment variables, falling back to
// the envDefault of each field.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if strings.TrimSpace(c.DBPath) == "" {
		errors = append(errors, "database path cannot be empty")
	}

	if _, err := c.Location(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	if !core.KnownCurrency(c.Currency) {
		errors = append(errors, fmt.Sprintf("invalid currency '%s': not an ISO 4217 code", c.Currency))
	}

	if c.ChartWidth <= 0 || c.ChartHeight <= 0 {
		errors = append(errors, fmt.Sprintf("invalid chart size %gx%g: both sides must be positive", c.ChartWidth, c.ChartHeight))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, warning, error", c.LogLevel))
	}
	if !slices.Contains(validLogFormats, strings.ToLower(c.LogFormat)) {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be one of %v", c.LogFormat, validLogFormats))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Location resolves Timezone. "Local" and the empty string mean the host zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}
