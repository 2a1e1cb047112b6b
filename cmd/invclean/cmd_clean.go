package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"invclean/internal/codec"
	"invclean/internal/config"
	"invclean/internal/logging"
	"invclean/internal/oracle"
	"invclean/internal/service"
	"invclean/internal/watcher"
)

var cleanFlags struct {
	format        string
	out           string
	ledger        string
	ledgerFormat  string
	ansible       string
	promptLog     string
	oracleTimeout time.Duration
	watch         bool
	debounce      time.Duration
}

var cleanCmd = &cobra.Command{
	Use:   "clean [input]",
	Short: "Clean an inventory export and write records plus anomaly ledger",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runClean,
}

func init() {
	f := cleanCmd.Flags()
	f.StringVar(&cleanFlags.format, "format", "", "Input format: csv, ansible (default from config)")
	f.StringVarP(&cleanFlags.out, "out", "o", "", "Cleaned CSV output path")
	f.StringVar(&cleanFlags.ledger, "ledger", "", "Anomaly ledger output path")
	f.StringVar(&cleanFlags.ledgerFormat, "ledger-format", "", "Ledger format: json, yaml")
	f.StringVar(&cleanFlags.ansible, "ansible", "", "Also export valid hosts as an Ansible inventory to this path")
	f.StringVar(&cleanFlags.promptLog, "prompt-log", "", "Markdown file oracle prompts are appended to (\"none\" disables)")
	f.DurationVar(&cleanFlags.oracleTimeout, "oracle-timeout", 0, "Per-call oracle deadline")
	f.BoolVarP(&cleanFlags.watch, "watch", "w", false, "Keep running and clean again whenever the input changes")
	f.DurationVar(&cleanFlags.debounce, "debounce", watcher.DefaultDebounce, "Quiet period after an input change before cleaning again (with --watch)")
}

// applyCleanFlags overrides config values with any flags set on the command
func applyCleanFlags(cmd *cobra.Command, args []string, cfg *config.Config) error {
	if len(args) == 1 {
		cfg.Input.Path = args[0]
	}
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Input.Format = cleanFlags.format
	}
	if flags.Changed("out") {
		cfg.Output.Records = cleanFlags.out
	}
	if flags.Changed("ledger") {
		cfg.Output.Ledger = cleanFlags.ledger
	}
	if flags.Changed("ledger-format") {
		cfg.Output.LedgerFormat = cleanFlags.ledgerFormat
	}
	if flags.Changed("ansible") {
		cfg.Output.Ansible = cleanFlags.ansible
	}
	if flags.Changed("prompt-log") {
		cfg.PromptLog = cleanFlags.promptLog
	}
	if flags.Changed("oracle-timeout") {
		timeout := config.Duration(cleanFlags.oracleTimeout)
		cfg.Oracle.Timeout = &timeout
	}
	return cfg.Validate()
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg := *runConfig
	if err := applyCleanFlags(cmd, args, &cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := clean(ctx, &cfg)
	if err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), &cfg, summary)

	if !cleanFlags.watch {
		return nil
	}
	return watchInput(ctx, cmd.OutOrStdout(), &cfg, cleanFlags.debounce)
}

// watchInput re-runs clean on every change to the input until ctx ends.
// Failed runs are logged and the previous outputs are left in place.
func watchInput(ctx context.Context, out io.Writer, cfg *config.Config, debounce time.Duration) error {
	logger := logging.New("watch")
	w, err := watcher.New(func(string) {
		summary, err := clean(ctx, cfg)
		if err != nil {
			logger.Error("clean failed", "input", cfg.Input.Path, "error", err)
			return
		}
		printSummary(out, cfg, summary)
	}, cfg.Input.Path)
	if err != nil {
		return err
	}

	err = w.WithDebounce(debounce).WithLogger(logger).Watch(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// clean runs one full pass: read, clean, then write every output
func clean(ctx context.Context, cfg *config.Config) (service.Summary, error) {
	reader, err := codec.ReaderFor(cfg.Input.Format)
	if err != nil {
		return service.Summary{}, err
	}
	ledgerCodec, err := codec.LedgerCodecFor(cfg.Output.LedgerFormat)
	if err != nil {
		return service.Summary{}, err
	}

	in, err := os.Open(cfg.Input.Path)
	if err != nil {
		return service.Summary{}, fmt.Errorf("failed to open input: %w", err)
	}
	table, err := reader.Read(in)
	in.Close()
	if err != nil {
		return service.Summary{}, fmt.Errorf("failed to read %s: %w", cfg.Input.Path, err)
	}

	runID := uuid.NewString()
	prompts, err := oracle.OpenPromptLog(cfg.PromptLogPath(), runID)
	if err != nil {
		return service.Summary{}, err
	}
	defer prompts.Close()

	fallback := oracle.WithTimeout(
		oracle.NewPlaceholderOracle(prompts, logging.New("oracle")),
		cfg.OracleTimeout(),
	)
	svc := service.NewCleanService(fallback, logging.New("service")).WithRunID(runID)

	result, err := svc.Run(ctx, table)
	if err != nil {
		return service.Summary{}, err
	}
	if path := cfg.PromptLogPath(); path != "" {
		logging.New("oracle").Info("prompts recorded", "count", prompts.Count(), "path", path)
	}

	if err := writeOutput(cfg.Output.Records, func(w io.Writer) error {
		return codec.NewCSVCodec().Write(result.Header, result.Records, w)
	}); err != nil {
		return service.Summary{}, err
	}
	if err := writeOutput(cfg.Output.Ledger, func(w io.Writer) error {
		return ledgerCodec.ExportLedger(result.Ledger, w)
	}); err != nil {
		return service.Summary{}, err
	}
	if cfg.Output.Ansible != "" {
		if err := writeOutput(cfg.Output.Ansible, func(w io.Writer) error {
			return codec.NewAnsibleCodec().Write(result.Header, result.Records, w)
		}); err != nil {
			return service.Summary{}, err
		}
	}

	return result.Summary, nil
}

// writeOutput writes the file only once render has succeeded
func writeOutput(path string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func printSummary(out io.Writer, cfg *config.Config, s service.Summary) {
	fmt.Fprintf(out, "Run:       %s\n", s.RunID)
	fmt.Fprintf(out, "Rows:      %d\n", s.Rows)
	fmt.Fprintf(out, "Flagged:   %d (%d anomalies)\n", s.Flagged, s.Anomalies)
	for _, t := range s.SortedTypes() {
		fmt.Fprintf(out, "  %-28s %d\n", t, s.ByType[t])
	}
	if len(s.Deferred) > 0 {
		fmt.Fprintf(out, "Deferred:\n")
		for _, f := range oracle.Fields {
			if n := s.Deferred[f]; n > 0 {
				fmt.Fprintf(out, "  %-28s %d\n", f, n)
			}
		}
	}
	fmt.Fprintf(out, "Digest:    %s\n", s.Digest)
	fmt.Fprintf(out, "Records:   %s\n", cfg.Output.Records)
	fmt.Fprintf(out, "Ledger:    %s\n", cfg.Output.Ledger)
	if cfg.Output.Ansible != "" {
		fmt.Fprintf(out, "Inventory: %s\n", cfg.Output.Ansible)
	}
}
