// Package config provides the run configuration of the inventory cleaner.
//
// The config file only selects paths, formats, log settings and the oracle
// timeout; the cleaning rule tables are fixed in source. Command-line flags
// override any value read from the file.
//
// Config file locations (priority order):
//  1. $INVCLEAN_CONFIG
//  2. ./invclean.yaml
//  3. $XDG_CONFIG_HOME/invclean/config.yaml
//  4. ~/.config/invclean/config.yaml
//  5. /etc/invclean/config.yaml
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults used when the config file omits a value
const (
	DefaultInputPath     = "inventory_raw.csv"
	DefaultInputFormat   = "csv"
	DefaultRecordsPath   = "inventory_clean.csv"
	DefaultLedgerPath    = "anomalies.json"
	DefaultLedgerFormat  = "json"
	DefaultPromptLogPath = "prompts.md"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultOracleTimeout = 30 * time.Second
)

// PromptLogDisabled turns the prompt log off when used as its path
const PromptLogDisabled = "none"

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, path, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns the settings of a run with no config file
func DefaultConfig() *Config {
	timeout := Duration(DefaultOracleTimeout)
	return &Config{
		Version: 1,
		Input: InputConfig{
			Path:   DefaultInputPath,
			Format: DefaultInputFormat,
		},
		Output: OutputConfig{
			Records:      DefaultRecordsPath,
			Ledger:       DefaultLedgerPath,
			LedgerFormat: DefaultLedgerFormat,
		},
		PromptLog: DefaultPromptLogPath,
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Oracle: OracleConfig{Timeout: &timeout},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Version == 0 {
		c.Version = d.Version
	}
	if c.Input.Path == "" {
		c.Input.Path = d.Input.Path
	}
	if c.Input.Format == "" {
		c.Input.Format = d.Input.Format
	}
	if c.Output.Records == "" {
		c.Output.Records = d.Output.Records
	}
	if c.Output.Ledger == "" {
		c.Output.Ledger = d.Output.Ledger
	}
	if c.Output.LedgerFormat == "" {
		c.Output.LedgerFormat = d.Output.LedgerFormat
	}
	if c.PromptLog == "" {
		c.PromptLog = d.PromptLog
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = d.Logging.Format
	}
	if c.Oracle.Timeout == nil {
		c.Oracle.Timeout = d.Oracle.Timeout
	}

	c.Input.Format = strings.ToLower(c.Input.Format)
	c.Output.LedgerFormat = strings.ToLower(c.Output.LedgerFormat)
	c.Logging.Format = strings.ToLower(c.Logging.Format)
}

// Validate rejects settings the cleaner cannot honor
func (c *Config) Validate() error {
	switch c.Input.Format {
	case "csv", "ansible":
	default:
		return fmt.Errorf("unsupported input format %q", c.Input.Format)
	}
	switch c.Output.LedgerFormat {
	case "json", "yaml", "yml":
	default:
		return fmt.Errorf("unsupported ledger format %q", c.Output.LedgerFormat)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q", c.Logging.Format)
	}
	if c.Oracle.Timeout != nil && c.Oracle.Timeout.Duration() < 0 {
		return fmt.Errorf("oracle timeout must not be negative")
	}
	return nil
}

// OracleTimeout returns the per-call oracle deadline; zero disables it
func (c *Config) OracleTimeout() time.Duration {
	if c.Oracle.Timeout == nil {
		return 0
	}
	return c.Oracle.Timeout.Duration()
}

// PromptLogPath returns where prompts are appended, or "" when disabled
func (c *Config) PromptLogPath() string {
	if strings.EqualFold(c.PromptLog, PromptLogDisabled) {
		return ""
	}
	return c.PromptLog
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Input: %s (%s)\n", c.Input.Path, c.Input.Format)
	summary += fmt.Sprintf("Records: %s, Ledger: %s (%s)\n",
		c.Output.Records, c.Output.Ledger, c.Output.LedgerFormat)
	if c.Output.Ansible != "" {
		summary += fmt.Sprintf("Ansible inventory: %s\n", c.Output.Ansible)
	}
	summary += fmt.Sprintf("Prompt log: %s, Oracle timeout: %s", c.PromptLog, c.OracleTimeout())
	return summary
}
