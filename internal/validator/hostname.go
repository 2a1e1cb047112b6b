package validator

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"invclean/internal/domain"
)

// MaxLabelLength is the RFC 1123 limit for one DNS label
const MaxLabelLength = 63

var (
	// relaxed RFC 1123: alnum start and end, hyphens allowed inside
	labelPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)
	labelChars   = regexp.MustCompile(`^[a-z0-9-]*$`)
)

// HostnameResult is the outcome of validating the hostname field
type HostnameResult struct {
	Value  string // normalized short name, or the raw input when invalid
	Valid  bool
	Reason domain.AnomalyType
}

// ValidateHostname validates and normalizes the row's hostname field.
// A qualified name is reduced to its first label. Steps taken before a
// failing check stay in the audit trail even though the value reverts to raw.
func ValidateHostname(rc *domain.RowContext) HostnameResult {
	raw := rc.Record.Value(domain.FieldHostname)

	if strings.TrimSpace(raw) == "" {
		rc.Flag(domain.AnomalyHostnameMissing, "")
		return HostnameResult{Reason: domain.AnomalyHostnameMissing}
	}

	value := strings.TrimSpace(raw)
	if value != raw {
		rc.AddStep("hostname: trimmed whitespace")
	}

	if lowered := strings.ToLower(value); lowered != value {
		rc.AddStep("hostname: lowercased")
		value = lowered
	}

	if strings.HasSuffix(value, ".") {
		value = strings.TrimSuffix(value, ".")
		rc.AddStep("hostname: removed trailing dot")
	}

	if first, _, found := strings.Cut(value, "."); found {
		value = first
		rc.AddStep("hostname: extracted first label from FQDN")
	}

	fail := func(reason domain.AnomalyType) HostnameResult {
		rc.Flag(reason, raw)
		return HostnameResult{Value: raw, Reason: reason}
	}

	switch {
	case strings.HasPrefix(value, "-"):
		return fail(domain.AnomalyHostnameLeadingHyphen)
	case utf8.RuneCountInString(value) > MaxLabelLength:
		return fail(domain.AnomalyHostnameTooLong)
	case !labelChars.MatchString(value):
		return fail(domain.AnomalyHostnameInvalidChars)
	case !labelPattern.MatchString(value):
		// trailing hyphen or nothing left after normalization
		return fail(domain.AnomalyHostnameInvalidChars)
	}

	rc.AddStep("hostname: normalized to " + value)
	return HostnameResult{Value: value, Valid: true}
}
