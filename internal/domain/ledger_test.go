package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLedgerAdd(t *testing.T) {
	t.Run("skips records without anomalies", func(t *testing.T) {
		l := NewLedger()
		if l.Add("1", nil) {
			t.Error("expected Add to return false for empty issues")
		}
		if l.Len() != 0 {
			t.Errorf("expected empty ledger, got %d entries", l.Len())
		}
	})

	t.Run("adds entry with fixed recommended action", func(t *testing.T) {
		l := NewLedger()
		issues := []Anomaly{
			NewAnomaly(AnomalyIPOctetOutOfRange, "10.0.0.300"),
			NewAnomaly(AnomalyMACMissing, ""),
		}
		if !l.Add("42", issues) {
			t.Fatal("expected Add to return true")
		}

		want := LedgerEntry{
			SourceRowID: "42",
			Issues: []Anomaly{
				{Field: "ip", Type: "octet_out_of_range", Value: "10.0.0.300"},
				{Field: "mac", Type: "mac_missing"},
			},
			RecommendedActions: []string{"Review and correct flagged fields"},
		}
		if diff := cmp.Diff(want, l.Entries[0]); diff != "" {
			t.Errorf("entry mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("entry does not alias caller slice", func(t *testing.T) {
		l := NewLedger()
		issues := []Anomaly{NewAnomaly(AnomalyFQDNMissing, "")}
		l.Add("1", issues)
		issues[0].Value = "mutated"
		if l.Entries[0].Issues[0].Value != "" {
			t.Error("expected ledger entry to be unaffected by caller mutation")
		}
	})
}

func TestLedgerCounts(t *testing.T) {
	l := NewLedger()
	l.Add("1", []Anomaly{NewAnomaly(AnomalyMACMissing, ""), NewAnomaly(AnomalyFQDNMissing, "")})
	l.Add("2", []Anomaly{NewAnomaly(AnomalyMACMissing, "")})

	if l.IssueCount() != 3 {
		t.Errorf("expected 3 issues, got %d", l.IssueCount())
	}
	want := map[AnomalyType]int{AnomalyMACMissing: 2, AnomalyFQDNMissing: 1}
	if diff := cmp.Diff(want, l.CountByType()); diff != "" {
		t.Errorf("counts mismatch (-want +got):\n%s", diff)
	}
}

func TestAnomalyTypeField(t *testing.T) {
	tests := []struct {
		typ   AnomalyType
		field string
	}{
		{AnomalyIPNotIPv4, "ip"},
		{AnomalyMACMixedDelimiters, "mac"},
		{AnomalyHostnameTooLong, "hostname"},
		{AnomalyFQDNHostnameMismatch, "fqdn"},
		{AnomalyOwnerUnresolved, "owner"},
		{AnomalyDeviceTypeUnresolved, "device_type"},
		{AnomalySiteUnresolved, "site"},
		{AnomalyType("bogus"), ""},
	}

	for _, tt := range tests {
		if got := tt.typ.Field(); got != tt.field {
			t.Errorf("AnomalyType(%s).Field() = %q, want %q", tt.typ, got, tt.field)
		}
	}
	if AnomalyType("bogus").IsValid() {
		t.Error("expected unknown anomaly type to be invalid")
	}
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		input    string
		want     Confidence
		accepted bool
	}{
		{"high", ConfidenceHigh, true},
		{"MEDIUM", ConfidenceMedium, true},
		{"low", ConfidenceLow, false},
		{"", ConfidenceLow, false},
		{"certain", ConfidenceLow, false},
	}

	for _, tt := range tests {
		got := ParseConfidence(tt.input)
		if got != tt.want {
			t.Errorf("ParseConfidence(%q) = %s, want %s", tt.input, got, tt.want)
		}
		if got.Accepted() != tt.accepted {
			t.Errorf("Confidence(%s).Accepted() = %v, want %v", got, got.Accepted(), tt.accepted)
		}
	}
}

func TestRowContext(t *testing.T) {
	ctx := NewRowContext(NewRecord([]string{"source_row_id"}, []string{"9"}))
	ctx.AddStep("ip_trim")
	ctx.AddSteps("ip_parse", "ip_normalize")
	ctx.SetAddress("10.1.2.3", true)

	if got := ctx.JoinedSteps(); got != "ip_trim|ip_parse|ip_normalize" {
		t.Errorf("expected joined steps, got %q", got)
	}
	if ip, ok := ctx.Address(); ip != "10.1.2.3" || !ok {
		t.Errorf("expected written-back address, got %q valid=%v", ip, ok)
	}
	if ctx.HasAnomalies() {
		t.Error("expected no anomalies")
	}
	ctx.Flag(AnomalyHostnameMissing, "")
	if !ctx.HasAnomalies() || ctx.Anomalies()[0].Field != "hostname" {
		t.Errorf("expected hostname anomaly, got %v", ctx.Anomalies())
	}
}
