package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tradegate/riskgate/market"
	"github.com/tradegate/riskgate/risk"
)

// Config is the complete gate configuration.
type Config struct {
	Environment string        `json:"environment" yaml:"environment"` // sandbox or live
	Limits      LimitsConfig  `json:"limits" yaml:"limits"`
	Hours       HoursConfig   `json:"market_hours" yaml:"market_hours"`
	Journal     JournalConfig `json:"journal" yaml:"journal"`
	Logging     LoggingConfig `json:"logging" yaml:"logging"`
	Safety      SafetyConfig  `json:"safety" yaml:"safety"`
}

// LimitsConfig mirrors risk.Limits in file form.
type LimitsConfig struct {
	MaxDailyLoss        float64 `json:"max_daily_loss" yaml:"max_daily_loss"`
	MaxDailyTrades      int     `json:"max_daily_trades" yaml:"max_daily_trades"`
	MaxOrderValue       float64 `json:"max_order_value" yaml:"max_order_value"`
	MarketPriceEstimate float64 `json:"market_price_estimate" yaml:"market_price_estimate"`
	MaxOrdersPerMinute  int     `json:"max_orders_per_minute" yaml:"max_orders_per_minute"`
	CooldownSeconds     int     `json:"cooldown_seconds" yaml:"cooldown_seconds"`
	MaxDerivativeQty    int64   `json:"max_derivative_qty" yaml:"max_derivative_qty"`
	MaxEquityPositions  int     `json:"max_equity_positions" yaml:"max_equity_positions"`
	MaxFuturesPositions int     `json:"max_futures_positions" yaml:"max_futures_positions"`
	MaxOptionsPositions int     `json:"max_options_positions" yaml:"max_options_positions"`
}

// HoursConfig describes the trading session in the exchange timezone.
type HoursConfig struct {
	Timezone        string `json:"timezone" yaml:"timezone"`
	Open            string `json:"open" yaml:"open"`
	Close           string `json:"close" yaml:"close"`
	PreOpenStart    string `json:"pre_open_start" yaml:"pre_open_start"`
	PostOpenStart   string `json:"post_open_start" yaml:"post_open_start"`
	PostCloseEnd    string `json:"post_close_end" yaml:"post_close_end"`
	AllowPreMarket  bool   `json:"allow_pre_market" yaml:"allow_pre_market"`
	AllowPostMarket bool   `json:"allow_post_market" yaml:"allow_post_market"`
}

// JournalConfig selects and locates the audit-trail backend.
type JournalConfig struct {
	Type   string `json:"type" yaml:"type"` // "sqlite" or "jsonl"
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	Dir    string `json:"dir,omitempty" yaml:"dir,omitempty"`
}

type LoggingConfig struct {
	Level      string `json:"level" yaml:"level"`
	File       string `json:"file,omitempty" yaml:"file,omitempty"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty" yaml:"max_size_mb,omitempty"`
	MaxBackups int    `json:"max_backups,omitempty" yaml:"max_backups,omitempty"`
	MaxAgeDays int    `json:"max_age_days,omitempty" yaml:"max_age_days,omitempty"`
}

// SafetyConfig holds the safety toggles.
type SafetyConfig struct {
	EnableMarketHoursCheck bool `json:"enable_market_hours_check" yaml:"enable_market_hours_check"`
	DryRun                 bool `json:"dry_run" yaml:"dry_run"`
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration as YAML or JSON based on extension.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := c.RiskLimits(); err != nil {
		return err
	}
	if c.Safety.EnableMarketHoursCheck {
		if _, err := c.Calendar(); err != nil {
			return err
		}
	}
	switch c.Journal.Type {
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for sqlite type")
		}
	case "jsonl":
		if c.Journal.Dir == "" {
			return fmt.Errorf("journal dir required for jsonl type")
		}
	default:
		return fmt.Errorf("journal.type must be 'sqlite' or 'jsonl'")
	}
	return nil
}

// RiskLimits materializes and validates the risk.Limits value.
func (c *Config) RiskLimits() (risk.Limits, error) {
	lim := risk.Limits{
		MaxDailyLoss:        c.Limits.MaxDailyLoss,
		MaxDailyTrades:      c.Limits.MaxDailyTrades,
		MaxOrderValue:       c.Limits.MaxOrderValue,
		MarketPriceEstimate: c.Limits.MarketPriceEstimate,
		MaxOrdersPerMinute:  c.Limits.MaxOrdersPerMinute,
		Cooldown:            time.Duration(c.Limits.CooldownSeconds) * time.Second,
		MaxDerivativeQty:    c.Limits.MaxDerivativeQty,
		MaxEquityPositions:  c.Limits.MaxEquityPositions,
		MaxFuturesPositions: c.Limits.MaxFuturesPositions,
		MaxOptionsPositions: c.Limits.MaxOptionsPositions,
	}
	if err := lim.Validate(); err != nil {
		return risk.Limits{}, err
	}
	return lim, nil
}

// Calendar materializes the session calendar, or nil when the hours
// check is disabled.
func (c *Config) Calendar() (market.Calendar, error) {
	if !c.Safety.EnableMarketHoursCheck {
		return nil, nil
	}
	loc, err := time.LoadLocation(c.Hours.Timezone)
	if err != nil {
		return nil, fmt.Errorf("market_hours.timezone: %w", err)
	}
	cal := &market.SessionCalendar{
		AllowPreMarket:  c.Hours.AllowPreMarket,
		AllowPostMarket: c.Hours.AllowPostMarket,
		Loc:             loc,
	}
	for _, f := range []struct {
		name string
		src  string
		dst  *market.TimeOfDay
	}{
		{"open", c.Hours.Open, &cal.Open},
		{"close", c.Hours.Close, &cal.Close},
		{"pre_open_start", c.Hours.PreOpenStart, &cal.PreOpenStart},
		{"post_open_start", c.Hours.PostOpenStart, &cal.PostOpenStart},
		{"post_close_end", c.Hours.PostCloseEnd, &cal.PostCloseEnd},
	} {
		tod, err := market.ParseTimeOfDay(f.src)
		if err != nil {
			return nil, fmt.Errorf("market_hours.%s: %w", f.name, err)
		}
		*f.dst = tod
	}
	return cal, nil
}

// Location returns the exchange timezone anchoring the trading day.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Hours.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Default returns a configuration with sensible defaults: NSE session
// hours and the stock risk limits.
func Default() *Config {
	return &Config{
		Environment: "sandbox",
		Limits: LimitsConfig{
			MaxDailyLoss:        10000,
			MaxDailyTrades:      50,
			MaxOrderValue:       50000,
			MarketPriceEstimate: 1000,
			MaxOrdersPerMinute:  10,
			CooldownSeconds:     2,
			MaxDerivativeQty:    1000,
			MaxEquityPositions:  10,
			MaxFuturesPositions: 5,
			MaxOptionsPositions: 8,
		},
		Hours: HoursConfig{
			Timezone:      "Asia/Kolkata",
			Open:          "09:15",
			Close:         "15:30",
			PreOpenStart:  "09:00",
			PostOpenStart: "15:40",
			PostCloseEnd:  "16:00",
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./riskgate.db",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "trading.log",
		},
		Safety: SafetyConfig{
			EnableMarketHoursCheck: true,
			DryRun:                 true,
		},
	}
}
