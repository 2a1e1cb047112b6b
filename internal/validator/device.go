package validator

import (
	"regexp"
	"strings"

	"invclean/internal/domain"
)

// DeviceRule maps a pattern over lowercased device text to a canonical type
type DeviceRule struct {
	Pattern    *regexp.Regexp
	Type       domain.DeviceType
	Confidence domain.Confidence
}

func rule(pattern string, t domain.DeviceType, c domain.Confidence) DeviceRule {
	return DeviceRule{Pattern: regexp.MustCompile(pattern), Type: t, Confidence: c}
}

// DeviceRules is evaluated in order and the first match wins.
// Specific patterns precede generic ones: "cisco catalyst switch" must hit
// catalyst before the generic switch substring.
var DeviceRules = []DeviceRule{
	// Exact tokens
	rule(`^router$`, domain.DeviceTypeRouter, domain.ConfidenceHigh),
	rule(`^switch$`, domain.DeviceTypeSwitch, domain.ConfidenceHigh),
	rule(`^server$`, domain.DeviceTypeServer, domain.ConfidenceHigh),
	rule(`^printer$`, domain.DeviceTypePrinter, domain.ConfidenceHigh),
	rule(`^firewall$`, domain.DeviceTypeFirewall, domain.ConfidenceHigh),
	rule(`^workstation$`, domain.DeviceTypeWorkstation, domain.ConfidenceHigh),
	rule(`^laptop$`, domain.DeviceTypeLaptop, domain.ConfidenceHigh),
	rule(`^phone$`, domain.DeviceTypePhone, domain.ConfidenceHigh),
	rule(`^camera$`, domain.DeviceTypeCamera, domain.ConfidenceHigh),
	rule(`^access[_\s]?point$`, domain.DeviceTypeAccessPoint, domain.ConfidenceHigh),
	rule(`^ap$`, domain.DeviceTypeAccessPoint, domain.ConfidenceHigh),
	rule(`^storage$`, domain.DeviceTypeStorage, domain.ConfidenceHigh),
	rule(`^load[_\s]?balancer$`, domain.DeviceTypeLoadBalancer, domain.ConfidenceHigh),

	// Abbreviations
	rule(`^rtr$`, domain.DeviceTypeRouter, domain.ConfidenceHigh),
	rule(`^rt$`, domain.DeviceTypeRouter, domain.ConfidenceHigh),
	rule(`^sw$`, domain.DeviceTypeSwitch, domain.ConfidenceHigh),
	rule(`^srv$`, domain.DeviceTypeServer, domain.ConfidenceHigh),
	rule(`^prn$`, domain.DeviceTypePrinter, domain.ConfidenceHigh),
	rule(`^fw$`, domain.DeviceTypeFirewall, domain.ConfidenceHigh),
	rule(`^wap$`, domain.DeviceTypeAccessPoint, domain.ConfidenceHigh),
	rule(`^pc$`, domain.DeviceTypeWorkstation, domain.ConfidenceHigh),
	rule(`^desktop$`, domain.DeviceTypeWorkstation, domain.ConfidenceHigh),
	rule(`^notebook$`, domain.DeviceTypeLaptop, domain.ConfidenceHigh),

	// Vendor and model substrings
	rule(`l[23]\s*switch`, domain.DeviceTypeSwitch, domain.ConfidenceMedium),
	rule(`catalyst`, domain.DeviceTypeSwitch, domain.ConfidenceMedium),
	rule(`nexus`, domain.DeviceTypeSwitch, domain.ConfidenceMedium),
	rule(`virtual\s*machine`, domain.DeviceTypeServer, domain.ConfidenceMedium),
	rule(`^vm$`, domain.DeviceTypeServer, domain.ConfidenceMedium),
	rule(`esxi`, domain.DeviceTypeServer, domain.ConfidenceMedium),
	rule(`hypervisor`, domain.DeviceTypeServer, domain.ConfidenceMedium),
	rule(`mfp`, domain.DeviceTypePrinter, domain.ConfidenceMedium),
	rule(`laserjet`, domain.DeviceTypePrinter, domain.ConfidenceMedium),
	rule(`wifi`, domain.DeviceTypeAccessPoint, domain.ConfidenceMedium),
	rule(`aruba`, domain.DeviceTypeAccessPoint, domain.ConfidenceMedium),
	rule(`meraki`, domain.DeviceTypeAccessPoint, domain.ConfidenceMedium),
	rule(`palo\s*alto`, domain.DeviceTypeFirewall, domain.ConfidenceMedium),
	rule(`fortigate`, domain.DeviceTypeFirewall, domain.ConfidenceMedium),
	rule(`asa`, domain.DeviceTypeFirewall, domain.ConfidenceMedium),
	rule(`macbook`, domain.DeviceTypeLaptop, domain.ConfidenceMedium),
	rule(`thinkpad`, domain.DeviceTypeLaptop, domain.ConfidenceMedium),
	rule(`voip`, domain.DeviceTypePhone, domain.ConfidenceMedium),
	rule(`ip\s*phone`, domain.DeviceTypePhone, domain.ConfidenceMedium),
	rule(`polycom`, domain.DeviceTypePhone, domain.ConfidenceMedium),
	rule(`handset`, domain.DeviceTypePhone, domain.ConfidenceMedium),
	rule(`ipcam`, domain.DeviceTypeCamera, domain.ConfidenceMedium),
	rule(`cctv`, domain.DeviceTypeCamera, domain.ConfidenceMedium),
	rule(`axis`, domain.DeviceTypeCamera, domain.ConfidenceMedium),
	rule(`netapp`, domain.DeviceTypeStorage, domain.ConfidenceMedium),
	rule(`san\b`, domain.DeviceTypeStorage, domain.ConfidenceMedium),
	rule(`nas\b`, domain.DeviceTypeStorage, domain.ConfidenceMedium),
	rule(`f5`, domain.DeviceTypeLoadBalancer, domain.ConfidenceMedium),
	rule(`bigip`, domain.DeviceTypeLoadBalancer, domain.ConfidenceMedium),

	// Generic substrings of the canonical names
	rule(`router`, domain.DeviceTypeRouter, domain.ConfidenceMedium),
	rule(`switch`, domain.DeviceTypeSwitch, domain.ConfidenceMedium),
	rule(`server`, domain.DeviceTypeServer, domain.ConfidenceMedium),
	rule(`printer`, domain.DeviceTypePrinter, domain.ConfidenceMedium),
	rule(`firewall`, domain.DeviceTypeFirewall, domain.ConfidenceMedium),
	rule(`workstation`, domain.DeviceTypeWorkstation, domain.ConfidenceMedium),
	rule(`laptop`, domain.DeviceTypeLaptop, domain.ConfidenceMedium),
	rule(`phone`, domain.DeviceTypePhone, domain.ConfidenceMedium),
	rule(`camera`, domain.DeviceTypeCamera, domain.ConfidenceMedium),
	rule(`access\s*point`, domain.DeviceTypeAccessPoint, domain.ConfidenceMedium),
}

// DeviceResult is the outcome of classifying the device_type field
type DeviceResult struct {
	Value      string // canonical type, or the lowercased input when unmatched
	Confidence domain.Confidence
	Rule       string // pattern that matched, if any
}

// MatchDevice runs the rule table over already-lowercased text
func MatchDevice(text string) (DeviceRule, bool) {
	for _, r := range DeviceRules {
		if r.Pattern.MatchString(text) {
			return r, true
		}
	}
	return DeviceRule{}, false
}

// ClassifyDevice maps the row's device_type text to a canonical category.
// Low confidence (including blank input) means the caller must defer to the
// fallback oracle.
func ClassifyDevice(rc *domain.RowContext) DeviceResult {
	raw := rc.Record.Value(domain.FieldDeviceType)
	if strings.TrimSpace(raw) == "" {
		return DeviceResult{Confidence: domain.ConfidenceLow}
	}

	value := strings.ToLower(strings.TrimSpace(raw))
	rc.AddStep("device_type: lowercased")

	if r, ok := MatchDevice(value); ok {
		pattern := r.Pattern.String()
		rc.AddStep("device_type: matched pattern '" + pattern + "' → " + string(r.Type))
		return DeviceResult{
			Value:      string(r.Type),
			Confidence: r.Confidence,
			Rule:       pattern,
		}
	}

	return DeviceResult{Value: value, Confidence: domain.ConfidenceLow}
}
