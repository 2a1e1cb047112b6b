// Package validator implements the per-field validation and normalization
// rules applied to every inventory record.
//
// Each validator is a pure function over a *domain.RowContext: it reads the
// raw field from the context's Record, appends audit steps and anomalies to
// the context, and returns a small result struct. Validators never return
// errors; malformed input becomes an anomaly and the raw value is preserved.
//
// # Network Fields
//
// ValidateAddress parses IPv4 dotted quads, drops leading zeros, classifies
// reserved ranges, and derives a /24 for private addresses.
//
// ValidateMAC accepts a single delimiter style among ":", "-" and "." and
// renders six uppercase pairs joined by ":".
//
// ValidateHostname and ValidateFQDN apply relaxed RFC 1123 label rules.
// ValidateFQDN additionally cross-checks the hostname result and derives the
// in-addr.arpa name from the address written back into the row context.
//
// # Confidence-Gated Fields
//
// ResolveOwner, ClassifyDevice and NormalizeSite report a confidence. When it
// is low (or not confident) the orchestrator defers the field to the fallback
// oracle; this package never calls the oracle itself.
//
// # Rule Tables
//
// DeviceRules, CityCodes and Abbreviations are ordered slices evaluated
// first-match-wins (device) or in sequence (site). Order is significant:
// specific patterns precede the generic ones they overlap with.
package validator
