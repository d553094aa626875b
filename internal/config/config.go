package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// FileName is the config file at the root of every book.
const FileName = "ledgerbook.yaml"

// EnvPrefix prefixes environment overrides, e.g. LEDGERBOOK_LOG_FORMAT.
const EnvPrefix = "LEDGERBOOK"

// Config represents the top-level ledgerbook.yaml configuration.
type Config struct {
	Business     BusinessConfig `yaml:"business" envconfig:"BUSINESS"`
	Fiscal       FiscalConfig   `yaml:"fiscal" envconfig:"FISCAL"`
	Currency     CurrencyConfig `yaml:"currency" envconfig:"CURRENCY"`
	Accounts     AccountsConfig `yaml:"accounts" envconfig:"ACCOUNTS"`
	BankAccounts []BankAccount  `yaml:"bank_accounts,omitempty" ignored:"true"`
	Log          LogConfig      `yaml:"log" envconfig:"LOG"`
	Git          GitConfig      `yaml:"git" envconfig:"GIT"`
}

// BusinessConfig identifies the business entity.
type BusinessConfig struct {
	Name       string `yaml:"name" envconfig:"NAME" validate:"required"`
	EntityType string `yaml:"entity_type" envconfig:"ENTITY_TYPE"`
}

// FiscalConfig defines the fiscal year boundaries.
type FiscalConfig struct {
	YearStart string `yaml:"year_start" envconfig:"YEAR_START" validate:"datetime=01-02"` // "MM-DD" format, e.g. "01-01"
}

// CurrencyConfig controls how amounts are displayed. Books are
// single-currency.
type CurrencyConfig struct {
	Code   string `yaml:"code" envconfig:"CODE" validate:"len=3"`
	Locale string `yaml:"locale" envconfig:"LOCALE" validate:"required"`
}

// AccountsConfig names the account codes postings are routed to.
type AccountsConfig struct {
	Customers       string `yaml:"customers" envconfig:"CUSTOMERS" validate:"required"`
	Suppliers       string `yaml:"suppliers" envconfig:"SUPPLIERS" validate:"required"`
	Treasury        string `yaml:"treasury" envconfig:"TREASURY" validate:"required"`
	Sales           string `yaml:"sales" envconfig:"SALES" validate:"required"`
	SalesReturns    string `yaml:"sales_returns" envconfig:"SALES_RETURNS" validate:"required"`
	Purchases       string `yaml:"purchases" envconfig:"PURCHASES" validate:"required"`
	PurchaseReturns string `yaml:"purchase_returns" envconfig:"PURCHASE_RETURNS" validate:"required"`
	Suspense        string `yaml:"suspense" envconfig:"SUSPENSE" validate:"required"`
}

// BankAccount maps a bank feed to a chart-of-accounts entry.
type BankAccount struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	LastFour    string `yaml:"last_four"`
	AccountCode string `yaml:"account_code"`
}

// LogConfig controls slog output.
type LogConfig struct {
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=text json"`
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
}

// SlogLevel maps Level to a slog.Level, defaulting to info.
func (l LogConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit" envconfig:"AUTO_COMMIT"`
	AuthorName  string `yaml:"author_name" envconfig:"AUTHOR_NAME"`
	AuthorEmail string `yaml:"author_email" envconfig:"AUTHOR_EMAIL" validate:"omitempty,email"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Path returns the config file path for a book root.
func Path(root string) string {
	return filepath.Join(root, FileName)
}

// Load reads a ledgerbook.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("", "")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadBook loads the config of the book at root: .env first, then
// ledgerbook.yaml, then LEDGERBOOK_* environment overrides.
func LoadBook(root string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(root, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	cfg, err := Load(Path(root))
	if err != nil {
		return nil, err
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays LEDGERBOOK_* environment variables. Unset variables
// leave the loaded values alone.
func ApplyEnv(cfg *Config) error {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return fmt.Errorf("applying environment overrides: %w", err)
	}
	return nil
}

// Validate checks the config's struct tags.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
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

// Default returns a Config with sensible defaults for a new book.
func Default(businessName, entityType string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:       businessName,
			EntityType: entityType,
		},
		Fiscal: FiscalConfig{
			YearStart: "01-01",
		},
		Currency: CurrencyConfig{
			Code:   "USD",
			Locale: "en-US",
		},
		Accounts: AccountsConfig{
			Customers:       "1103",
			Suppliers:       "2101",
			Treasury:        "1101",
			Sales:           "4101",
			SalesReturns:    "4102",
			Purchases:       "5101",
			PurchaseReturns: "5102",
			Suspense:        "2103",
		},
		Log: LogConfig{
			Format: "text",
			Level:  "info",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Ledgerbook",
			AuthorEmail: "books@ledgerbook.dev",
		},
	}
}
