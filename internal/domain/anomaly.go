package domain

// AnomalyType names one specific data-quality problem with one field
type AnomalyType string

// Address anomalies
const (
	AnomalyIPMissing              AnomalyType = "missing"
	AnomalyIPWrongPartCount       AnomalyType = "wrong_part_count"
	AnomalyIPEmptyOctet           AnomalyType = "empty_octet"
	AnomalyIPNonNumericOrNegative AnomalyType = "non_numeric_or_negative"
	AnomalyIPOctetOutOfRange      AnomalyType = "octet_out_of_range"
	AnomalyIPNotIPv4              AnomalyType = "ipv6_or_non_ipv4"
)

// Hardware identifier anomalies
const (
	AnomalyMACMissing         AnomalyType = "mac_missing"
	AnomalyMACMixedDelimiters AnomalyType = "mac_mixed_delimiters"
	AnomalyMACWrongLength     AnomalyType = "mac_wrong_length"
	AnomalyMACInvalidChars    AnomalyType = "mac_invalid_chars"
)

// Hostname anomalies
const (
	AnomalyHostnameMissing       AnomalyType = "hostname_missing"
	AnomalyHostnameLeadingHyphen AnomalyType = "hostname_leading_hyphen"
	AnomalyHostnameTooLong       AnomalyType = "hostname_too_long"
	AnomalyHostnameInvalidChars  AnomalyType = "hostname_invalid_chars"
)

// Qualified name anomalies
const (
	AnomalyFQDNMissing           AnomalyType = "fqdn_missing"
	AnomalyFQDNEmptyLabel        AnomalyType = "fqdn_empty_label"
	AnomalyFQDNLabelTooLong      AnomalyType = "fqdn_label_too_long"
	AnomalyFQDNLabelInvalidChars AnomalyType = "fqdn_label_invalid_chars"
	AnomalyFQDNHostnameMismatch  AnomalyType = "fqdn_hostname_mismatch"
)

// Oracle-deferred field anomalies, raised only when the oracle could not
// supply a substitute
const (
	AnomalyOwnerUnresolved      AnomalyType = "owner_unresolved"
	AnomalyDeviceTypeUnresolved AnomalyType = "device_type_unresolved"
	AnomalySiteUnresolved       AnomalyType = "site_unresolved"
)

// anomalyFields maps each anomaly type to the field it belongs to
var anomalyFields = map[AnomalyType]string{
	AnomalyIPMissing:              FieldIP,
	AnomalyIPWrongPartCount:       FieldIP,
	AnomalyIPEmptyOctet:           FieldIP,
	AnomalyIPNonNumericOrNegative: FieldIP,
	AnomalyIPOctetOutOfRange:      FieldIP,
	AnomalyIPNotIPv4:              FieldIP,

	AnomalyMACMissing:         FieldMAC,
	AnomalyMACMixedDelimiters: FieldMAC,
	AnomalyMACWrongLength:     FieldMAC,
	AnomalyMACInvalidChars:    FieldMAC,

	AnomalyHostnameMissing:       FieldHostname,
	AnomalyHostnameLeadingHyphen: FieldHostname,
	AnomalyHostnameTooLong:       FieldHostname,
	AnomalyHostnameInvalidChars:  FieldHostname,

	AnomalyFQDNMissing:           FieldFQDN,
	AnomalyFQDNEmptyLabel:        FieldFQDN,
	AnomalyFQDNLabelTooLong:      FieldFQDN,
	AnomalyFQDNLabelInvalidChars: FieldFQDN,
	AnomalyFQDNHostnameMismatch:  FieldFQDN,

	AnomalyOwnerUnresolved:      FieldOwner,
	AnomalyDeviceTypeUnresolved: FieldDeviceType,
	AnomalySiteUnresolved:       FieldSite,
}

// Field returns the field an anomaly type belongs to, or "" if unknown
func (t AnomalyType) Field() string {
	return anomalyFields[t]
}

// IsValid reports whether t is part of the anomaly taxonomy
func (t AnomalyType) IsValid() bool {
	_, ok := anomalyFields[t]
	return ok
}

// Anomaly is one recorded data-quality issue for one field of one record
type Anomaly struct {
	Field string      `json:"field" yaml:"field"`
	Type  AnomalyType `json:"type" yaml:"type"`
	Value string      `json:"value,omitempty" yaml:"value,omitempty"`
}

// NewAnomaly creates an anomaly whose field is derived from its type
func NewAnomaly(t AnomalyType, value string) Anomaly {
	return Anomaly{Field: t.Field(), Type: t, Value: value}
}
