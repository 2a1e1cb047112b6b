package domain

// Core input field names
const (
	FieldIP          = "ip"
	FieldMAC         = "mac"
	FieldHostname    = "hostname"
	FieldFQDN        = "fqdn"
	FieldOwner       = "owner"
	FieldDeviceType  = "device_type"
	FieldSite        = "site"
	FieldNotes       = "notes"
	FieldSourceRowID = "source_row_id"
)

// Derived output field names
const (
	FieldIPValid              = "ip_valid"
	FieldIPVersion            = "ip_version"
	FieldSubnetCIDR           = "subnet_cidr"
	FieldMACValid             = "mac_valid"
	FieldHostnameValid        = "hostname_valid"
	FieldFQDNConsistent       = "fqdn_consistent"
	FieldReversePTR           = "reverse_ptr"
	FieldOwnerEmail           = "owner_email"
	FieldOwnerTeam            = "owner_team"
	FieldDeviceTypeConfidence = "device_type_confidence"
	FieldNormalizationSteps   = "normalization_steps"
	FieldSiteNormalized       = "site_normalized"
)

// CoreOutputFields is the fixed leading column order of every cleaned record
var CoreOutputFields = []string{
	FieldIP, FieldIPValid, FieldIPVersion, FieldSubnetCIDR,
	FieldMAC, FieldMACValid,
	FieldHostname, FieldHostnameValid,
	FieldFQDN, FieldFQDNConsistent, FieldReversePTR,
	FieldOwner, FieldOwnerEmail, FieldOwnerTeam,
	FieldDeviceType, FieldDeviceTypeConfidence,
	FieldNormalizationSteps, FieldSourceRowID,
}

// TrailingOutputFields are derived columns written after the pass-through columns
var TrailingOutputFields = []string{FieldSiteNormalized}

// Record is one raw input row: field names in input order plus their values.
// A Record is never modified once read.
type Record struct {
	fields []string
	values map[string]string
}

// NewRecord builds a record from a header and one row of values.
// Missing trailing values are treated as absent; extra values are dropped.
func NewRecord(header, row []string) Record {
	r := Record{
		fields: make([]string, 0, len(header)),
		values: make(map[string]string, len(header)),
	}
	for i, name := range header {
		if _, dup := r.values[name]; dup {
			continue
		}
		r.fields = append(r.fields, name)
		if i < len(row) {
			r.values[name] = row[i]
		}
	}
	return r
}

// RecordFromMap builds a record with fields ordered as given in order.
// Fields listed in order but missing from values are absent.
func RecordFromMap(order []string, values map[string]string) Record {
	r := Record{
		fields: make([]string, 0, len(order)),
		values: make(map[string]string, len(values)),
	}
	for _, name := range order {
		r.fields = append(r.fields, name)
		if v, ok := values[name]; ok {
			r.values[name] = v
		}
	}
	return r
}

// Get returns the raw value for a field and whether the field was present
func (r Record) Get(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Value returns the raw value for a field, or "" when absent
func (r Record) Value(name string) string {
	return r.values[name]
}

// Fields returns the input field names in input order
func (r Record) Fields() []string {
	out := make([]string, len(r.fields))
	copy(out, r.fields)
	return out
}

// SourceRowID returns the opaque row identifier
func (r Record) SourceRowID() string {
	return r.values[FieldSourceRowID]
}

// Subset returns the values of the named fields that are present in the record
func (r Record) Subset(names ...string) map[string]string {
	out := make(map[string]string, len(names))
	for _, name := range names {
		if v, ok := r.values[name]; ok {
			out[name] = v
		}
	}
	return out
}

// NormalizedRecord is one cleaned output row with a fixed column order
type NormalizedRecord struct {
	Fields []string
	Values map[string]string
}

// Get returns the value of an output column
func (n NormalizedRecord) Get(name string) string {
	return n.Values[name]
}

// Row returns the values in column order
func (n NormalizedRecord) Row() []string {
	row := make([]string, len(n.Fields))
	for i, f := range n.Fields {
		row[i] = n.Values[f]
	}
	return row
}

// IsDerivedField reports whether name is produced by the cleaner rather than
// passed through from input
func IsDerivedField(name string) bool {
	for _, f := range CoreOutputFields {
		if f == name {
			return true
		}
	}
	for _, f := range TrailingOutputFields {
		if f == name {
			return true
		}
	}
	return false
}

// PassThroughFields returns the input columns that are copied to output,
// in input order
func PassThroughFields(header []string) []string {
	var out []string
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		if seen[h] || IsDerivedField(h) {
			continue
		}
		seen[h] = true
		out = append(out, h)
	}
	return out
}

// OutputHeader returns the full output column order for an input header
func OutputHeader(inputHeader []string) []string {
	header := make([]string, 0, len(CoreOutputFields)+len(inputHeader)+len(TrailingOutputFields))
	header = append(header, CoreOutputFields...)
	header = append(header, PassThroughFields(inputHeader)...)
	header = append(header, TrailingOutputFields...)
	return header
}

// FormatBool renders a boolean as the literal "true" or "false"
func FormatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
