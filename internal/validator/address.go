package validator

import (
	"fmt"
	"strconv"
	"strings"

	"invclean/internal/domain"
)

// AddressClass is the reserved-range classification of an IPv4 address
type AddressClass string

const (
	AddressClassPrivate   AddressClass = "private_rfc1918"
	AddressClassLinkLocal AddressClass = "link_local_apipa"
	AddressClassLoopback  AddressClass = "loopback"
	AddressClassPublic    AddressClass = "public_or_other"
)

// AddressResult is the outcome of validating the ip field
type AddressResult struct {
	Value   string // canonical dotted quad, or the trimmed input when invalid
	Valid   bool
	Version string // "4" when valid
	Subnet  string // derived /24 for private addresses
	Class   AddressClass
	Reason  domain.AnomalyType // empty when valid
}

// ParseIPv4 parses a dotted-quad literal and returns its canonical form.
// On failure it returns the anomaly type naming the rejection reason. A
// blank literal has one part and is rejected as wrong_part_count.
func ParseIPv4(raw string) ([4]int, domain.AnomalyType) {
	var octets [4]int

	s := strings.TrimSpace(raw)
	if strings.Contains(s, ":") {
		return octets, domain.AnomalyIPNotIPv4
	}

	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return octets, domain.AnomalyIPWrongPartCount
	}

	for i, p := range parts {
		if p == "" {
			return octets, domain.AnomalyIPEmptyOctet
		}
		digits := strings.TrimPrefix(p, "+")
		if digits == "" || !isASCIIDigits(digits) {
			return octets, domain.AnomalyIPNonNumericOrNegative
		}
		v, err := strconv.ParseUint(digits, 10, 32)
		if err != nil || v > 255 {
			// only overflow can fail here; the digits were checked above
			return octets, domain.AnomalyIPOctetOutOfRange
		}
		octets[i] = int(v)
	}

	return octets, ""
}

// FormatIPv4 renders octets as a dotted quad without leading zeros
func FormatIPv4(o [4]int) string {
	return fmt.Sprintf("%d.%d.%d.%d", o[0], o[1], o[2], o[3])
}

// ClassifyAddress places a valid address into its reserved range
func ClassifyAddress(o [4]int) AddressClass {
	switch {
	case o[0] == 10:
		return AddressClassPrivate
	case o[0] == 172 && o[1] >= 16 && o[1] <= 31:
		return AddressClassPrivate
	case o[0] == 192 && o[1] == 168:
		return AddressClassPrivate
	case o[0] == 169 && o[1] == 254:
		return AddressClassLinkLocal
	case o[0] == 127:
		return AddressClassLoopback
	default:
		return AddressClassPublic
	}
}

// DefaultSubnet returns the /24 containing a private address, or "" for any
// other class
func DefaultSubnet(o [4]int) string {
	if ClassifyAddress(o) != AddressClassPrivate {
		return ""
	}
	return fmt.Sprintf("%d.%d.%d.0/24", o[0], o[1], o[2])
}

// ReversePointer returns the in-addr.arpa name for an address
func ReversePointer(o [4]int) string {
	return fmt.Sprintf("%d.%d.%d.%d.in-addr.arpa.", o[3], o[2], o[1], o[0])
}

// ValidateAddress validates and normalizes the row's ip field.
// Exactly one anomaly is raised when the address is invalid; only an
// absent value is missing.
func ValidateAddress(rc *domain.RowContext) AddressResult {
	raw, present := rc.Record.Get(domain.FieldIP)
	rc.AddStep("ip_trim")

	var octets [4]int
	reason := domain.AnomalyIPMissing
	if present {
		octets, reason = ParseIPv4(raw)
	}
	if reason != "" {
		rc.Flag(reason, raw)
		rc.AddStep("ip_invalid_" + string(reason))
		return AddressResult{
			Value:  strings.TrimSpace(raw),
			Reason: reason,
		}
	}

	rc.AddSteps("ip_parse", "ip_normalize")
	return AddressResult{
		Value:   FormatIPv4(octets),
		Valid:   true,
		Version: "4",
		Subnet:  DefaultSubnet(octets),
		Class:   ClassifyAddress(octets),
	}
}

func isASCIIDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
