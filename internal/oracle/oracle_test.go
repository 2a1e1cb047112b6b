package oracle

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"invclean/internal/domain"
)

func sampleRecord() domain.Record {
	return domain.RecordFromMap(
		[]string{"ip", "hostname", "owner", "device_type", "site", "notes", "source_row_id"},
		map[string]string{
			"ip":            "10.0.0.5",
			"hostname":      "lab-cam-1",
			"owner":         "jdoe",
			"device_type":   "mystery box",
			"site":          "Customer Site #12",
			"notes":         "  moved last week ",
			"source_row_id": "42",
		},
	)
}

func TestPlaceholder(t *testing.T) {
	tests := []struct {
		field Field
		want  map[string]string
	}{
		{FieldOwner, map[string]string{"owner": "llm_generated_unknown", "owner_email": "", "owner_team": "llm_generated_unknown"}},
		{FieldDeviceType, map[string]string{"device_type": "llm_generated_unknown", "device_type_confidence": "low"}},
		{FieldSite, map[string]string{"site_normalized": "llm_generated_UNKNOWN"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			got, err := Placeholder(tt.field)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("placeholder mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("unknown field", func(t *testing.T) {
		_, err := Placeholder(Field("mac"))
		if !errors.Is(err, ErrUnknownField) {
			t.Errorf("expected ErrUnknownField, got %v", err)
		}
	})
}

func TestNewRequest(t *testing.T) {
	req, err := NewRequest(FieldOwner, sampleRecord())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Request{
		Field:    FieldOwner,
		RowID:    "42",
		RawValue: "jdoe",
		Row: map[string]string{
			"owner":         "jdoe",
			"hostname":      "lab-cam-1",
			"device_type":   "mystery box",
			"site":          "Customer Site #12",
			"source_row_id": "42",
		},
		Notes:     "  moved last week ",
		Rationale: "Deterministic rules failed because owner_raw='jdoe' did not include a clear name, email, or team tag.",
	}
	if diff := cmp.Diff(want, req); diff != "" {
		t.Errorf("request mismatch (-want +got):\n%s", diff)
	}

	if _, err := NewRequest(Field("hostname"), sampleRecord()); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

func TestFieldTitle(t *testing.T) {
	tests := map[Field]string{
		FieldOwner:      "Owner",
		FieldDeviceType: "Device Type",
		FieldSite:       "Site",
	}
	for field, want := range tests {
		if got := field.Title(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}

func TestRenderPrompt(t *testing.T) {
	req, err := NewRequest(FieldDeviceType, sampleRecord())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prompt, err := RenderPrompt(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wants := []string{
		"Temperature: 0.2",
		"You are a network device classification assistant.",
		`"device_type": "mystery box"`,
		`"source_row_id": "42"`,
		"## Notes\nmoved last week\n",
		"router, switch, server, printer, access_point",
		`"device_type_confidence": "<low|medium|high>"`,
		"Respond with valid JSON only.",
	}
	for _, want := range wants {
		if !strings.Contains(prompt, want) {
			t.Errorf("expected prompt to contain %q, got:\n%s", want, prompt)
		}
	}
	if strings.Contains(prompt, `"ip"`) {
		t.Error("prompt must only carry the context fields")
	}

	t.Run("empty notes", func(t *testing.T) {
		prompt, err := RenderPrompt(Request{Field: FieldSite})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(prompt, "## Notes\n(none)\n") {
			t.Errorf("expected notes placeholder, got:\n%s", prompt)
		}
	})
}

func TestPlaceholderOracle(t *testing.T) {
	var buf bytes.Buffer
	log := NewPromptLog(&buf, "run-1")
	o := NewPlaceholderOracle(log, nil)
	ctx := context.Background()
	record := sampleRecord()

	ownerReq, _ := NewRequest(FieldOwner, record)
	owner, err := o.ResolveOwner(ctx, ownerReq)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantOwner := OwnerAnswer{Owner: PlaceholderUnknown, Team: PlaceholderUnknown, Source: SourcePlaceholder}
	if diff := cmp.Diff(wantOwner, owner); diff != "" {
		t.Errorf("owner mismatch (-want +got):\n%s", diff)
	}

	deviceReq, _ := NewRequest(FieldDeviceType, record)
	device, err := o.ClassifyDevice(ctx, deviceReq)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantDevice := DeviceAnswer{DeviceType: PlaceholderUnknown, Confidence: domain.ConfidenceLow, Source: SourcePlaceholder}
	if diff := cmp.Diff(wantDevice, device); diff != "" {
		t.Errorf("device mismatch (-want +got):\n%s", diff)
	}

	siteReq, _ := NewRequest(FieldSite, record)
	site, err := o.NormalizeSite(ctx, siteReq)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if site.Normalized != PlaceholderSite || site.Source != SourcePlaceholder {
		t.Errorf("unexpected site answer: %+v", site)
	}

	if log.Count() != 3 {
		t.Errorf("expected 3 prompt entries, got %d", log.Count())
	}

	out := buf.String()
	for _, want := range []string{
		"## Run run-1",
		"### Owner Validation — Row 42",
		"### Device Type Validation — Row 42",
		"### Site Validation — Row 42",
		"**Rationale:**\nSite 'Customer Site #12' did not match",
		"**Expected Output Schema:**\n```json\n{\n  \"site\":",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected prompt log to contain %q", want)
		}
	}
	if strings.Count(out, "## Run ") != 1 {
		t.Error("expected a single run header")
	}

	t.Run("request for another field", func(t *testing.T) {
		_, err := o.ClassifyDevice(ctx, ownerReq)
		if !errors.Is(err, ErrUnknownField) {
			t.Errorf("expected ErrUnknownField, got %v", err)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := o.NormalizeSite(ctx, Request{Field: "mac"})
		if !errors.Is(err, ErrUnknownField) {
			t.Errorf("expected ErrUnknownField, got %v", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := o.NormalizeSite(cancelled, siteReq)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("nil recorder", func(t *testing.T) {
		bare := NewPlaceholderOracle(nil, nil)
		if _, err := bare.ResolveOwner(ctx, ownerReq); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("recorder failure", func(t *testing.T) {
		broken := NewPlaceholderOracle(NewPromptLog(errWriter{}, "run-2"), nil)
		_, err := broken.ResolveOwner(ctx, ownerReq)
		if !errors.Is(err, ErrPromptLog) {
			t.Errorf("expected ErrPromptLog, got %v", err)
		}
		if errors.Is(err, ErrUnknownField) {
			t.Error("expected write failure to stay distinct from ErrUnknownField")
		}
	})
}

// errWriter fails every write
type errWriter struct{}

func (errWriter) Write([]byte) (int, error) {
	return 0, errors.New("read-only file system")
}

func TestOpenPromptLog(t *testing.T) {
	t.Run("empty path discards", func(t *testing.T) {
		log, err := OpenPromptLog("", "run")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := log.Record(PromptEntry{Field: FieldSite, RowID: "1"}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if err := log.Close(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("appends to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prompts.md")
		if err := os.WriteFile(path, []byte("# Prompts\n"), 0644); err != nil {
			t.Fatal(err)
		}

		log, err := OpenPromptLog(path, "abc")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := log.Record(PromptEntry{Field: FieldOwner, RowID: "9", Prompt: "p", Rationale: "r", Schema: "{}"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := log.Close(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(string(data), "# Prompts\n") {
			t.Error("expected existing content to be preserved")
		}
		if !strings.Contains(string(data), "### Owner Validation — Row 9") {
			t.Errorf("expected entry heading, got:\n%s", data)
		}
	})
}

type slowOracle struct {
	PlaceholderOracle
	deadline time.Time
	hasDL    bool
}

func (s *slowOracle) NormalizeSite(ctx context.Context, req Request) (SiteAnswer, error) {
	s.deadline, s.hasDL = ctx.Deadline()
	return SiteAnswer{Normalized: "X", Source: SourceResolved}, nil
}

func TestWithTimeout(t *testing.T) {
	inner := &slowOracle{}

	if got := WithTimeout(inner, 0); got != Oracle(inner) {
		t.Error("expected zero timeout to return the oracle unchanged")
	}

	wrapped := WithTimeout(inner, time.Minute)
	if _, err := wrapped.NormalizeSite(context.Background(), Request{Field: FieldSite}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !inner.hasDL {
		t.Fatal("expected a deadline on the inner call")
	}
	if time.Until(inner.deadline) > time.Minute {
		t.Errorf("deadline too far in the future: %v", inner.deadline)
	}
}
