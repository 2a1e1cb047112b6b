package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"invclean/internal/domain"
)

// FQDNResult is the outcome of validating the fqdn field
type FQDNResult struct {
	Value      string // normalized qualified name, or the raw input when invalid
	Valid      bool
	Consistent bool   // first label matches a valid hostname
	ReversePTR string // in-addr.arpa name when the row's address is valid
	Reason     domain.AnomalyType
}

// checkLabels returns the anomaly for the first malformed label, if any
func checkLabels(labels []string) domain.AnomalyType {
	for _, label := range labels {
		switch {
		case label == "":
			return domain.AnomalyFQDNEmptyLabel
		case utf8.RuneCountInString(label) > MaxLabelLength:
			return domain.AnomalyFQDNLabelTooLong
		case !labelPattern.MatchString(label):
			return domain.AnomalyFQDNLabelInvalidChars
		}
	}
	return ""
}

// ValidateFQDN validates the row's fqdn field and cross-checks it against the
// hostname result and the address written back into the row context.
// A hostname mismatch is non-fatal: the qualified name is still accepted.
func ValidateFQDN(rc *domain.RowContext, hostname HostnameResult) FQDNResult {
	raw := rc.Record.Value(domain.FieldFQDN)

	if strings.TrimSpace(raw) == "" {
		rc.Flag(domain.AnomalyFQDNMissing, "")
		return FQDNResult{Reason: domain.AnomalyFQDNMissing}
	}

	value := strings.TrimSpace(raw)
	if value != raw {
		rc.AddStep("fqdn: trimmed whitespace")
	}
	if lowered := strings.ToLower(value); lowered != value {
		rc.AddStep("fqdn: lowercased")
		value = lowered
	}
	if strings.HasSuffix(value, ".") {
		value = strings.TrimSuffix(value, ".")
		rc.AddStep("fqdn: removed trailing dot")
	}

	labels := strings.Split(value, ".")
	if reason := checkLabels(labels); reason != "" {
		rc.Flag(reason, raw)
		return FQDNResult{Value: raw, Reason: reason}
	}

	rc.AddStep("fqdn: normalized to " + value)
	result := FQDNResult{Value: value, Valid: true}

	if hostname.Valid {
		if labels[0] == hostname.Value {
			result.Consistent = true
		} else {
			rc.Flag(domain.AnomalyFQDNHostnameMismatch,
				fmt.Sprintf("fqdn=%s, hostname=%s", value, hostname.Value))
		}
	}

	if ip, ok := rc.Address(); ok && ip != "" {
		if octets, reason := ParseIPv4(ip); reason == "" {
			result.ReversePTR = ReversePointer(octets)
		}
	}

	return result
}
