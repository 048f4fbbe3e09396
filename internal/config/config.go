package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config represents the top-level grandlivre.yaml configuration.
type Config struct {
	Company  CompanyConfig  `yaml:"company"`
	Ledger   LedgerConfig   `yaml:"ledger"`
	Database DatabaseConfig `yaml:"database"`
	Kafka    KafkaConfig    `yaml:"kafka,omitempty"`
	FX       FXConfig       `yaml:"fx,omitempty"`
}

// CompanyConfig identifies the company whose book this is.
type CompanyConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// LedgerConfig controls posting behavior.
type LedgerConfig struct {
	BaseCurrency string `yaml:"base_currency"`
	// Tolerance is the accepted debit/credit discrepancy when validating
	// imported legacy moves. Empty or "0" means exact balance.
	Tolerance string `yaml:"tolerance,omitempty"`
}

// DatabaseConfig selects and configures the storage backend.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "sqlite" or "postgres"
	Path   string `yaml:"path,omitempty"`
	DSN    string `yaml:"dsn,omitempty"`
}

// KafkaConfig controls posted-move event publication. Empty brokers disable it.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers,omitempty"`
	Topic   string   `yaml:"topic,omitempty"`
}

// FXConfig holds configured fallback exchange rates, keyed "FROM/TO".
type FXConfig struct {
	DefaultRates map[string]string `yaml:"default_rates,omitempty"`
}

// Load reads a grandlivre.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
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

// Default returns a Config for a new company book.
func Default(companyID, companyName string) *Config {
	return &Config{
		Company: CompanyConfig{
			ID:   companyID,
			Name: companyName,
		},
		Ledger: LedgerConfig{
			BaseCurrency: "CDF",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			Path:   "grandlivre.db",
		},
	}
}

// ToleranceDecimal parses the configured balance tolerance. Empty means zero.
func (c LedgerConfig) ToleranceDecimal() (decimal.Decimal, error) {
	if c.Tolerance == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(c.Tolerance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing tolerance %q: %w", c.Tolerance, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("tolerance must not be negative, got %s", c.Tolerance)
	}
	return d, nil
}

// DefaultRatesDecimal parses the configured fallback rates.
func (c FXConfig) DefaultRatesDecimal() (map[string]decimal.Decimal, error) {
	if len(c.DefaultRates) == 0 {
		return nil, nil
	}
	rates := make(map[string]decimal.Decimal, len(c.DefaultRates))
	for pair, raw := range c.DefaultRates {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing default rate %s=%q: %w", pair, raw, err)
		}
		rates[pair] = d
	}
	return rates, nil
}
