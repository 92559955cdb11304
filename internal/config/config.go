// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"phone-bill/core/input"
	"phone-bill/core/receipt"
	"phone-bill/core/types"
	"phone-bill/internal/errors"
	"phone-bill/internal/logging"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "PHONE_BILL_"

// DefaultFileName is the config file looked up in the working directory
const DefaultFileName = "phone-bill.json"

// DefaultTemplateName is the receipt template looked up in the working directory
const DefaultTemplateName = "ЧекШаблон.docx"

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Billing contains calculation settings
	Billing BillingConfig `json:"billing"`

	// Receipt contains receipt generation settings
	Receipt ReceiptConfig `json:"receipt"`

	// Server contains HTTP server settings
	Server ServerConfig `json:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// BillingConfig contains calculation settings
type BillingConfig struct {
	// MaxMinutes is the largest accepted minutes value
	MaxMinutes int64 `json:"max_minutes"`

	// Currency is the currency amounts are expressed in
	Currency types.Currency `json:"currency"`

	// PlansFile is an optional HCL file replacing the preset plans
	PlansFile string `json:"plans_file,omitempty"`
}

// ReceiptConfig contains receipt generation settings
type ReceiptConfig struct {
	// TemplatePath is the receipt template file
	TemplatePath string `json:"template_path"`

	// OutputDir receives generated receipts
	OutputDir string `json:"output_dir"`

	// Format overrides the format inferred from the template extension
	Format string `json:"format,omitempty"`

	// FilePrefix starts every generated file name
	FilePrefix string `json:"file_prefix"`

	// DecimalSeparator is written into formatted amounts
	DecimalSeparator string `json:"decimal_separator"`

	// PDFFont is a UTF-8 TrueType font for PDF receipts
	PDFFont string `json:"pdf_font,omitempty"`

	// Placeholders are the template markers
	Placeholders receipt.Placeholders `json:"placeholders"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`

	// MaxBodyBytes bounds request bodies
	MaxBodyBytes int64 `json:"max_body_bytes"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Billing: BillingConfig{
			MaxMinutes: input.DefaultMaxMinutes,
			Currency:   types.CurrencyRUB,
		},
		Receipt: ReceiptConfig{
			TemplatePath:     DefaultTemplateName,
			OutputDir:        ".",
			FilePrefix:       receipt.DefaultFilePrefix,
			DecimalSeparator: receipt.DefaultDecimalSeparator,
			Placeholders:     receipt.DefaultPlaceholders(),
		},
		Server: ServerConfig{
			Addr:         ":8080",
			MaxBodyBytes: 1 << 20,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, errors.Config("failed to read config file", err)
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.Wrapf(errors.TypeConfig, err, "invalid config file %s", path)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, append(data, '\n'), 0644)
}

// Validate checks settings that would otherwise fail late
func (c *Config) Validate() error {
	if c.Billing.MaxMinutes <= 0 {
		return errors.Newf(errors.TypeConfig, "billing.max_minutes must be positive, got %d", c.Billing.MaxMinutes)
	}
	if !c.Billing.Currency.Valid() {
		return errors.Newf(errors.TypeConfig, "billing.currency %q is not supported (use RUB, USD or EUR)", c.Billing.Currency)
	}
	if c.Receipt.DecimalSeparator == "" {
		return errors.New(errors.TypeConfig, "receipt.decimal_separator is required")
	}
	return c.Receipt.Placeholders.Validate()
}

// LoadEnvFile loads KEY=VALUE pairs from a dotenv file into the process
// environment without overriding variables that are already set.
// A missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(errors.TypeConfig, err, "failed to load %s", path)
	}
	return nil
}

// ApplyEnv overrides settings from PHONE_BILL_* variables
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	if v, ok := lookup(EnvPrefix + "MAX_MINUTES"); ok && v != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return errors.Wrapf(errors.TypeConfig, err, "invalid %sMAX_MINUTES", EnvPrefix)
		}
		c.Billing.MaxMinutes = n
	}

	currency := string(c.Billing.Currency)
	str("CURRENCY", &currency)
	c.Billing.Currency = types.Currency(strings.ToUpper(currency))

	str("PLANS_FILE", &c.Billing.PlansFile)
	str("TEMPLATE", &c.Receipt.TemplatePath)
	str("OUTPUT_DIR", &c.Receipt.OutputDir)
	str("RECEIPT_FORMAT", &c.Receipt.Format)
	str("PDF_FONT", &c.Receipt.PDFFont)
	str("ADDR", &c.Server.Addr)
	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FORMAT", &c.Logging.Format)

	// The separator may legitimately be a space, so it is not trimmed
	if v, ok := lookup(EnvPrefix + "DECIMAL_SEPARATOR"); ok && v != "" {
		c.Receipt.DecimalSeparator = v
	}

	return c.Validate()
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
