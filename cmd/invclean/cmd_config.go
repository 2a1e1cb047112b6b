package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"invclean/internal/config"
)

var configInitFlags struct {
	force bool
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create or inspect the invclean config file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		source := runConfigPath
		if source == "" {
			source = "(defaults, no config file found)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Config: %s\n%s\n", source, runConfig.Summary())
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a config file holding the default settings",
	Long: "Write a config file holding the default settings. Without a path the\n" +
		"file goes to $XDG_CONFIG_HOME/invclean/config.yaml, falling back to\n" +
		"./invclean.yaml.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultConfigPath()
		if len(args) == 1 {
			path = args[0]
		}
		if err := initConfig(path, configInitFlags.force); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitFlags.force, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

// initConfig saves the default config to path, refusing to replace an
// existing file unless force is set
func initConfig(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config %s already exists (use --force to overwrite)", path)
		}
	}
	if err := config.DefaultConfig().Save(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
