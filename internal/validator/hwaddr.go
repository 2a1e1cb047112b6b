package validator

import (
	"strings"
	"unicode/utf8"

	"invclean/internal/domain"
)

// MACResult is the outcome of validating the mac field
type MACResult struct {
	Value  string // AA:BB:CC:DD:EE:FF, or the raw input when invalid
	Valid  bool
	Reason domain.AnomalyType
}

// macDelimiters are the recognized group separators
var macDelimiters = []string{":", "-", "."}

// detectDelimiter returns the single delimiter used in s, "" when none is
// used, or ok=false when more than one style appears
func detectDelimiter(s string) (delim string, ok bool) {
	for _, d := range macDelimiters {
		if !strings.Contains(s, d) {
			continue
		}
		if delim != "" {
			return "", false
		}
		delim = d
	}
	return delim, true
}

// NormalizeMAC canonicalizes a hardware identifier. Delimiter repair is never
// attempted on mixed styles.
func NormalizeMAC(raw string) (string, domain.AnomalyType) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", domain.AnomalyMACMissing
	}
	if _, ok := detectDelimiter(trimmed); !ok {
		return "", domain.AnomalyMACMixedDelimiters
	}

	stripped := strings.ToUpper(strings.NewReplacer(":", "", "-", "", ".", "").Replace(trimmed))
	if utf8.RuneCountInString(stripped) != 12 {
		return "", domain.AnomalyMACWrongLength
	}
	for _, r := range stripped {
		if !isHexUpper(r) {
			return "", domain.AnomalyMACInvalidChars
		}
	}

	var b strings.Builder
	b.Grow(17)
	for i := 0; i < 12; i += 2 {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(stripped[i : i+2])
	}
	return b.String(), ""
}

// ValidateMAC validates and normalizes the row's mac field
func ValidateMAC(rc *domain.RowContext) MACResult {
	raw := rc.Record.Value(domain.FieldMAC)

	if strings.TrimSpace(raw) == "" {
		rc.Flag(domain.AnomalyMACMissing, "")
		return MACResult{Reason: domain.AnomalyMACMissing}
	}
	if strings.TrimSpace(raw) != raw {
		rc.AddStep("mac: trimmed whitespace")
	}

	canonical, reason := NormalizeMAC(raw)
	if reason != "" {
		rc.Flag(reason, raw)
		return MACResult{Value: raw, Reason: reason}
	}

	rc.AddStep("mac: normalized to " + canonical)
	return MACResult{Value: canonical, Valid: true}
}

func isHexUpper(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'F')
}
