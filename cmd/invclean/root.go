package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"invclean/internal/config"
	"invclean/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

// runConfig is loaded once per invocation before any subcommand runs;
// runConfigPath is "" when no config file was found
var (
	runConfig     *config.Config
	runConfigPath string
)

var rootCmd = &cobra.Command{
	Use:   "invclean",
	Short: "Clean and validate network inventory exports",
	Long: "invclean normalizes addresses, hardware identifiers, host names, owners,\n" +
		"device types and sites in a raw inventory export, writing cleaned records\n" +
		"and a ledger of every anomaly found.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&rootFlags.configPath, "config", "", "Path to config file (default: search $INVCLEAN_CONFIG, ./invclean.yaml, XDG, /etc)")
	f.StringVar(&rootFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.StringVar(&rootFlags.logFormat, "log-format", "", "Log format: text, json")

	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(ledgerCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.Version = version
}

func setup(cmd *cobra.Command, _ []string) error {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if rootFlags.configPath != "" {
		cfg, path, err = config.LoadFromPath(rootFlags.configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = rootFlags.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Logging.Format = rootFlags.logFormat
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logging.Init(level, cfg.Logging.Format, cmd.ErrOrStderr())

	if path != "" {
		logging.New("config").Debug("config loaded", "path", path)
	}
	runConfig = cfg
	runConfigPath = path
	return nil
}
