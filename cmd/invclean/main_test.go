package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"invclean/internal/codec"
	"invclean/internal/config"
	"invclean/internal/domain"
)

const rawInventory = `ip,mac,hostname,fqdn,owner,device_type,site,notes,source_row_id
10.0.0.5,aa-bb-cc-dd-ee-ff,web01,web01.example.com,Jane Doe <jane@example.com>,server,SFO-DC,,1
10.0.0.300,,-bad,,jdoe,mystery box,Customer Site #12,"rack 4, row 2",2
`

func testConfig(t *testing.T) (*config.Config, string) {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "inventory_raw.csv")
	if err := os.WriteFile(input, []byte(rawInventory), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.Input.Path = input
	cfg.Output.Records = filepath.Join(dir, "inventory_clean.csv")
	cfg.Output.Ledger = filepath.Join(dir, "anomalies.json")
	cfg.PromptLog = filepath.Join(dir, "prompts.md")
	return cfg, dir
}

func TestClean(t *testing.T) {
	cfg, dir := testConfig(t)
	cfg.Output.Ansible = filepath.Join(dir, "hosts.yaml")

	summary, err := clean(context.Background(), cfg)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if summary.Rows != 2 || summary.Flagged != 1 {
		t.Errorf("expected 2 rows and 1 flagged, got %+v", summary)
	}

	records, err := os.ReadFile(cfg.Output.Records)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(records)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d lines", len(lines))
	}
	wantHeader := strings.Join(domain.OutputHeader(strings.Split(strings.SplitN(rawInventory, "\n", 2)[0], ",")), ",")
	if lines[0] != wantHeader {
		t.Errorf("expected header %q, got %q", wantHeader, lines[0])
	}

	data, err := os.ReadFile(cfg.Output.Ledger)
	if err != nil {
		t.Fatal(err)
	}
	var ledger []domain.LedgerEntry
	if err := json.Unmarshal(data, &ledger); err != nil {
		t.Fatalf("ledger is not valid JSON: %v", err)
	}
	if len(ledger) != 1 || ledger[0].SourceRowID != "2" {
		t.Errorf("expected single entry for row 2, got %+v", ledger)
	}

	prompts, err := os.ReadFile(cfg.PromptLog)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(prompts), "## Run "+summary.RunID) {
		t.Error("expected prompt log to carry the run id")
	}
	for _, heading := range []string{"### Owner Validation — Row 2", "### Device Type Validation — Row 2", "### Site Validation — Row 2"} {
		if !strings.Contains(string(prompts), heading) {
			t.Errorf("expected prompt log heading %q", heading)
		}
	}

	inventory, err := os.ReadFile(cfg.Output.Ansible)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(inventory), "web01:") || strings.Contains(string(inventory), "-bad") {
		t.Errorf("expected only the valid host exported, got:\n%s", inventory)
	}
}

func TestCleanDeterministic(t *testing.T) {
	cfg, _ := testConfig(t)
	cfg.PromptLog = config.PromptLogDisabled

	first, err := clean(context.Background(), cfg)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	firstRecords, _ := os.ReadFile(cfg.Output.Records)

	second, err := clean(context.Background(), cfg)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	secondRecords, _ := os.ReadFile(cfg.Output.Records)

	if first.Digest != second.Digest {
		t.Errorf("expected identical digests, got %s and %s", first.Digest, second.Digest)
	}
	if diff := cmp.Diff(string(firstRecords), string(secondRecords)); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestCleanErrors(t *testing.T) {
	t.Run("missing input", func(t *testing.T) {
		cfg, dir := testConfig(t)
		cfg.Input.Path = filepath.Join(dir, "absent.csv")
		if _, err := clean(context.Background(), cfg); err == nil {
			t.Error("expected error for missing input")
		}
	})

	t.Run("unsupported format", func(t *testing.T) {
		cfg, _ := testConfig(t)
		cfg.Input.Format = "xlsx"
		if _, err := clean(context.Background(), cfg); err == nil {
			t.Error("expected error for unsupported format")
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		cfg, _ := testConfig(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := clean(ctx, cfg); err == nil {
			t.Error("expected error for cancelled context")
		}
		if _, err := os.Stat(cfg.Output.Records); !os.IsNotExist(err) {
			t.Error("expected no records written after cancellation")
		}
	})
}

func TestCheckValue(t *testing.T) {
	tests := []struct {
		field     string
		value     string
		extra     map[string]string
		want      map[string]string
		anomalies []domain.AnomalyType
	}{
		{
			field: "ip",
			value: " 192.168.001.010 ",
			want:  map[string]string{"ip": "192.168.1.10", "ip_valid": "true", "subnet_cidr": "192.168.1.0/24"},
		},
		{
			field:     "mac",
			value:     "aa:bb-cc:dd:ee:ff",
			want:      map[string]string{"mac_valid": "false"},
			anomalies: []domain.AnomalyType{domain.AnomalyMACMixedDelimiters},
		},
		{
			field:     "fqdn",
			value:     "Web01.Example.com.",
			extra:     map[string]string{"hostname": "db01", "ip": "10.1.2.3"},
			want:      map[string]string{"fqdn": "web01.example.com", "fqdn_consistent": "false", "reverse_ptr": "3.2.1.10.in-addr.arpa."},
			anomalies: []domain.AnomalyType{domain.AnomalyFQDNHostnameMismatch},
		},
		{
			field: "device_type",
			value: "Cisco Catalyst 9300",
			want:  map[string]string{"device_type": "switch", "device_type_confidence": "medium"},
		},
		{
			field: "site",
			value: "sfo dc",
			want:  map[string]string{"site_normalized": "SFO-DC", "confident": "true"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			report, err := checkValue(tt.field, tt.value, tt.extra)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := make(map[string]string)
			for _, kv := range report.Result {
				if _, ok := tt.want[kv[0]]; ok {
					got[kv[0]] = kv[1]
				}
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("result mismatch (-want +got):\n%s", diff)
			}

			var types []domain.AnomalyType
			for _, a := range report.Anomalies {
				types = append(types, a.Type)
			}
			if diff := cmp.Diff(tt.anomalies, types); diff != "" {
				t.Errorf("anomaly mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := checkValue("notes", "x", nil); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestPrintRules(t *testing.T) {
	var buf bytes.Buffer
	if err := printRules(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"DEVICE RULES", "catalyst", "SITE CITY CODES", "SITE ABBREVIATIONS"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output", want)
		}
	}
	if strings.Index(out, "^router$") > strings.Index(out, "catalyst") {
		t.Error("expected exact tokens before vendor substrings")
	}
}

func TestRootCommandCheck(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "invclean.yaml")
	if err := config.DefaultConfig().Save(cfgPath); err != nil {
		t.Fatal(err)
	}

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{"--config", cfgPath, "check", "hostname", "WEB01.example.com"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v\n%s", err, errOut.String())
	}
	if !strings.Contains(out.String(), "hostname_valid:") || !strings.Contains(out.String(), "hostname: normalized to web01") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "invclean.yaml")

	if err := initConfig(path, false); err != nil {
		t.Fatalf("initConfig: %v", err)
	}
	cfg, _, err := config.LoadFromPath(path)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if diff := cmp.Diff(config.DefaultConfig().Summary(), cfg.Summary()); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	if err := initConfig(path, false); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("expected existing file to be kept, got %v", err)
	}
	if err := initConfig(path, true); err != nil {
		t.Errorf("expected --force to overwrite, got %v", err)
	}
}

func TestRootCommandConfig(t *testing.T) {
	dir := t.TempDir()
	seed := filepath.Join(dir, "seed.yaml")
	if err := config.DefaultConfig().Save(seed); err != nil {
		t.Fatal(err)
	}
	created := filepath.Join(dir, "created.yaml")

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	rootCmd.SetArgs([]string{"--config", seed, "config", "init", created})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("config init: %v\n%s", err, errOut.String())
	}
	if !strings.Contains(out.String(), "Wrote "+created) {
		t.Errorf("unexpected init output:\n%s", out.String())
	}

	out.Reset()
	rootCmd.SetArgs([]string{"--config", created, "config", "show"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("config show: %v\n%s", err, errOut.String())
	}
	for _, want := range []string{"Config: " + created, "Input: inventory_raw.csv (csv)", "Oracle timeout: 30s"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected %q in output:\n%s", want, out.String())
		}
	}
}

func TestLedgerBaseline(t *testing.T) {
	cfg, dir := testConfig(t)
	if _, err := clean(context.Background(), cfg); err != nil {
		t.Fatalf("clean: %v", err)
	}

	baseline := domain.NewLedger()
	baseline.Add("1", []domain.Anomaly{domain.NewAnomaly(domain.AnomalyFQDNMissing, "")})
	baseline.Add("2", []domain.Anomaly{
		domain.NewAnomaly(domain.AnomalyIPOctetOutOfRange, "10.0.0.300"),
		domain.NewAnomaly(domain.AnomalyMACWrongLength, "aa:bb"),
	})
	baselinePath := filepath.Join(dir, "baseline.yml")
	if err := writeOutput(baselinePath, func(w io.Writer) error {
		return codec.NewYAMLCodec().ExportLedger(baseline, w)
	}); err != nil {
		t.Fatal(err)
	}

	current, err := readLedger(cfg.Output.Ledger, "")
	if err != nil {
		t.Fatalf("readLedger: %v", err)
	}
	if current.Len() != 1 || current.IssueCount() != 4 {
		t.Errorf("expected 1 entry with 4 issues, got %d/%d", current.Len(), current.IssueCount())
	}
	base, err := readLedger(baselinePath, "")
	if err != nil {
		t.Fatalf("readLedger: %v", err)
	}

	diff := diffLedgers(base, current)
	wantNew := []issueKey{
		{"2", domain.AnomalyFQDNMissing},
		{"2", domain.AnomalyHostnameLeadingHyphen},
		{"2", domain.AnomalyMACMissing},
	}
	if d := cmp.Diff(wantNew, diff.New); d != "" {
		t.Errorf("new issues mismatch (-want +got):\n%s", d)
	}
	wantCleared := []issueKey{
		{"1", domain.AnomalyFQDNMissing},
		{"2", domain.AnomalyMACWrongLength},
	}
	if d := cmp.Diff(wantCleared, diff.Cleared); d != "" {
		t.Errorf("cleared issues mismatch (-want +got):\n%s", d)
	}

	var buf bytes.Buffer
	printLedger(&buf, cfg.Output.Ledger, current, &diff)
	for _, want := range []string{"Flagged:   1 (4 anomalies)", "row 2      mac/mac_missing", "row 1      fqdn/fqdn_missing"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %q in output:\n%s", want, buf.String())
		}
	}
	if strings.Contains(buf.String(), "Unknown:") {
		t.Errorf("expected no unknown types:\n%s", buf.String())
	}
}

func TestLedgerUnknownTypes(t *testing.T) {
	ledger := domain.NewLedger()
	ledger.Add("9", []domain.Anomaly{
		{Field: "ip", Type: "legacy_flag"},
		domain.NewAnomaly(domain.AnomalyIPMissing, ""),
	})

	var buf bytes.Buffer
	printLedger(&buf, "old.json", ledger, nil)
	if !strings.Contains(buf.String(), "Unknown:   legacy_flag") {
		t.Errorf("expected unknown type listed:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "New:") {
		t.Errorf("expected no comparison without a baseline:\n%s", buf.String())
	}

	if _, err := readLedger(filepath.Join(t.TempDir(), "absent.json"), ""); err == nil {
		t.Error("expected error for missing ledger")
	}
	if _, err := readLedger("anomalies.xml", "xml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}
