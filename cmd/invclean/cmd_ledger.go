package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"invclean/internal/codec"
	"invclean/internal/domain"
	"invclean/internal/service"
)

var ledgerFlags struct {
	format   string
	baseline string
}

var ledgerCmd = &cobra.Command{
	Use:   "ledger [path]",
	Short: "Summarize an anomaly ledger, optionally against an earlier one",
	Long: "Read a ledger written by clean and tally its anomalies. With --baseline,\n" +
		"also list the anomalies that are new or cleared since the baseline run.\n" +
		"Without a path the configured ledger output is read.",
	Args: cobra.MaximumNArgs(1),
	RunE: runLedger,
}

func init() {
	f := ledgerCmd.Flags()
	f.StringVar(&ledgerFlags.format, "format", "", "Ledger format: json, yaml (default from file extension)")
	f.StringVar(&ledgerFlags.baseline, "baseline", "", "Earlier ledger to compare against")
}

func runLedger(cmd *cobra.Command, args []string) error {
	path := runConfig.Output.Ledger
	if len(args) == 1 {
		path = args[0]
	}

	ledger, err := readLedger(path, ledgerFlags.format)
	if err != nil {
		return err
	}

	var diff *ledgerDiff
	if ledgerFlags.baseline != "" {
		base, err := readLedger(ledgerFlags.baseline, ledgerFlags.format)
		if err != nil {
			return err
		}
		d := diffLedgers(base, ledger)
		diff = &d
	}

	printLedger(cmd.OutOrStdout(), path, ledger, diff)
	return nil
}

// ledgerFormat returns format if set, otherwise guesses from the extension
func ledgerFormat(path, format string) string {
	if format != "" {
		return strings.ToLower(format)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

func readLedger(path, format string) (*domain.Ledger, error) {
	importer, err := codec.LedgerCodecFor(ledgerFormat(path, format))
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	defer f.Close()

	ledger, err := importer.ParseLedger(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ledger, nil
}

// issueKey identifies one anomaly type on one record across runs
type issueKey struct {
	Row  string
	Type domain.AnomalyType
}

// ledgerDiff holds the anomalies that appeared or disappeared since a baseline
type ledgerDiff struct {
	New     []issueKey
	Cleared []issueKey
}

func diffLedgers(base, current *domain.Ledger) ledgerDiff {
	before, after := issueSet(base), issueSet(current)

	var d ledgerDiff
	for k := range after {
		if !before[k] {
			d.New = append(d.New, k)
		}
	}
	for k := range before {
		if !after[k] {
			d.Cleared = append(d.Cleared, k)
		}
	}
	sortIssues(d.New)
	sortIssues(d.Cleared)
	return d
}

func issueSet(l *domain.Ledger) map[issueKey]bool {
	set := make(map[issueKey]bool)
	for _, e := range l.Entries {
		for _, issue := range e.Issues {
			set[issueKey{Row: e.SourceRowID, Type: issue.Type}] = true
		}
	}
	return set
}

// sortIssues orders by row (numerically when both ids are numbers), then type
func sortIssues(keys []issueKey) {
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Row != b.Row {
			ai, errA := strconv.Atoi(a.Row)
			bi, errB := strconv.Atoi(b.Row)
			if errA == nil && errB == nil {
				return ai < bi
			}
			return a.Row < b.Row
		}
		return a.Type < b.Type
	})
}

// unknownTypes returns the anomaly types in l that this build does not raise
func unknownTypes(l *domain.Ledger) []domain.AnomalyType {
	var unknown []domain.AnomalyType
	for t := range l.CountByType() {
		if !t.IsValid() {
			unknown = append(unknown, t)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
	return unknown
}

func printLedger(out io.Writer, path string, l *domain.Ledger, diff *ledgerDiff) {
	counts := service.Summary{ByType: l.CountByType()}

	fmt.Fprintf(out, "Ledger:    %s\n", path)
	fmt.Fprintf(out, "Flagged:   %d (%d anomalies)\n", l.Len(), l.IssueCount())
	for _, t := range counts.SortedTypes() {
		fmt.Fprintf(out, "  %-28s %d\n", t, counts.ByType[t])
	}
	if unknown := unknownTypes(l); len(unknown) > 0 {
		names := make([]string, len(unknown))
		for i, t := range unknown {
			names[i] = string(t)
		}
		fmt.Fprintf(out, "Unknown:   %s\n", strings.Join(names, ", "))
	}

	if diff == nil {
		return
	}
	for _, section := range []struct {
		title string
		keys  []issueKey
	}{
		{"New:", diff.New},
		{"Cleared:", diff.Cleared},
	} {
		fmt.Fprintf(out, "%-10s %d\n", section.title, len(section.keys))
		for _, k := range section.keys {
			fmt.Fprintf(out, "  row %-6s %s/%s\n", k.Row, k.Type.Field(), k.Type)
		}
	}
}
