package domain

import "strings"

// DeviceType is a canonical device category
type DeviceType string

const (
	DeviceTypeRouter       DeviceType = "router"
	DeviceTypeSwitch       DeviceType = "switch"
	DeviceTypeServer       DeviceType = "server"
	DeviceTypePrinter      DeviceType = "printer"
	DeviceTypeAccessPoint  DeviceType = "access_point"
	DeviceTypeFirewall     DeviceType = "firewall"
	DeviceTypeWorkstation  DeviceType = "workstation"
	DeviceTypeLaptop       DeviceType = "laptop"
	DeviceTypePhone        DeviceType = "phone"
	DeviceTypeCamera       DeviceType = "camera"
	DeviceTypeStorage      DeviceType = "storage"
	DeviceTypeLoadBalancer DeviceType = "load_balancer"
	DeviceTypeUnknown      DeviceType = "unknown"
)

// CanonicalDeviceTypes lists every category the classifier can produce
var CanonicalDeviceTypes = []DeviceType{
	DeviceTypeRouter,
	DeviceTypeSwitch,
	DeviceTypeServer,
	DeviceTypePrinter,
	DeviceTypeAccessPoint,
	DeviceTypeFirewall,
	DeviceTypeWorkstation,
	DeviceTypeLaptop,
	DeviceTypePhone,
	DeviceTypeCamera,
	DeviceTypeStorage,
	DeviceTypeLoadBalancer,
	DeviceTypeUnknown,
}

// IsCanonical reports whether d is one of CanonicalDeviceTypes
func (d DeviceType) IsCanonical() bool {
	for _, t := range CanonicalDeviceTypes {
		if t == d {
			return true
		}
	}
	return false
}

// Confidence is how trustworthy a deterministic classification is
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// level returns the ordinal of the confidence (low=0, medium=1, high=2)
func (c Confidence) level() int {
	switch c {
	case ConfidenceHigh:
		return 2
	case ConfidenceMedium:
		return 1
	default:
		return 0
	}
}

// Accepted reports whether a classification at this confidence is used as-is
// without consulting the fallback oracle
func (c Confidence) Accepted() bool {
	return c.level() >= ConfidenceMedium.level()
}

// ParseConfidence parses a confidence string, defaulting to low
func ParseConfidence(s string) Confidence {
	switch Confidence(strings.ToLower(strings.TrimSpace(s))) {
	case ConfidenceHigh:
		return ConfidenceHigh
	case ConfidenceMedium:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
