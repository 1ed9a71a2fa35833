package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config represents the top-level atm.yaml configuration.
type Config struct {
	Bank         BankConfig `yaml:"bank"`
	Limits       Limits     `yaml:"limits"`
	AccountsFile string     `yaml:"accounts_file,omitempty"` // empty = built-in seed accounts
	Log          LogConfig  `yaml:"log"`
}

// BankConfig holds display settings for the terminal.
type BankConfig struct {
	Name           string `yaml:"name"`
	CurrencySymbol string `yaml:"currency_symbol"`
}

// Limits bounds the amounts accepted by deposit and withdrawal.
type Limits struct {
	Deposit    Range           `yaml:"deposit"`
	Withdrawal WithdrawalRange `yaml:"withdrawal"`
	Daily      decimal.Decimal `yaml:"daily"` // shown on the mini statement, not enforced
}

// Range is an inclusive amount range.
type Range struct {
	Min decimal.Decimal `yaml:"min"`
	Max decimal.Decimal `yaml:"max"`
}

// WithdrawalRange is a Range whose amounts must also be a whole multiple of Multiple.
type WithdrawalRange struct {
	Min      decimal.Decimal `yaml:"min"`
	Max      decimal.Decimal `yaml:"max"`
	Multiple decimal.Decimal `yaml:"multiple"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or console
}

// Load reads an atm.yaml file from disk. Missing sections keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the stock ATM configuration.
func Default() *Config {
	return &Config{
		Bank: BankConfig{
			Name:           "Secure Bank",
			CurrencySymbol: "Rs.",
		},
		Limits: DefaultLimits(),
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultLimits returns the stock deposit and withdrawal limits.
func DefaultLimits() Limits {
	return Limits{
		Deposit: Range{
			Min: decimal.NewFromInt(10),
			Max: decimal.NewFromInt(50000),
		},
		Withdrawal: WithdrawalRange{
			Min:      decimal.NewFromInt(100),
			Max:      decimal.NewFromInt(10000),
			Multiple: decimal.NewFromInt(100),
		},
		Daily: decimal.NewFromInt(30000),
	}
}

// Validate checks that every limit is positive and every range is ordered.
func (c *Config) Validate() error {
	l := c.Limits
	var errs []error
	if !l.Deposit.Min.IsPositive() || l.Deposit.Min.GreaterThan(l.Deposit.Max) {
		errs = append(errs, fmt.Errorf("deposit range %s..%s is invalid", l.Deposit.Min, l.Deposit.Max))
	}
	if !l.Withdrawal.Min.IsPositive() || l.Withdrawal.Min.GreaterThan(l.Withdrawal.Max) {
		errs = append(errs, fmt.Errorf("withdrawal range %s..%s is invalid", l.Withdrawal.Min, l.Withdrawal.Max))
	}
	if !l.Withdrawal.Multiple.IsPositive() {
		errs = append(errs, fmt.Errorf("withdrawal multiple %s must be positive", l.Withdrawal.Multiple))
	}
	if l.Daily.IsNegative() {
		errs = append(errs, fmt.Errorf("daily limit %s must not be negative", l.Daily))
	}
	switch c.Log.Format {
	case "", "json", "console":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}
