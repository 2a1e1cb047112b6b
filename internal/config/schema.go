package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version   int           `yaml:"version"`
	Input     InputConfig   `yaml:"input"`
	Output    OutputConfig  `yaml:"output"`
	PromptLog string        `yaml:"prompt_log"` // "none" disables the prompt log
	Logging   LoggingConfig `yaml:"logging"`
	Oracle    OracleConfig  `yaml:"oracle"`
}

// InputConfig selects the raw export to clean
type InputConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"` // csv, ansible
}

// OutputConfig holds the destinations of a run
type OutputConfig struct {
	Records      string `yaml:"records"`
	Ledger       string `yaml:"ledger"`
	LedgerFormat string `yaml:"ledger_format"`     // json, yaml
	Ansible      string `yaml:"ansible,omitempty"` // optional inventory export
}

// LoggingConfig holds log settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text, json
}

// OracleConfig holds fallback oracle settings
type OracleConfig struct {
	Timeout *Duration `yaml:"timeout,omitempty"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
