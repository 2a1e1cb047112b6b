package domain

import "strings"

// StepSeparator joins normalization steps in the output column
const StepSeparator = "|"

// RowContext carries the per-record audit state through the validators.
// It is created for one record, owned by the orchestrator, and discarded
// once the record is finalized.
type RowContext struct {
	Record Record

	anomalies []Anomaly
	steps     []string

	// address write-back, consumed by the qualified-name validator
	ip      string
	ipValid bool
}

// NewRowContext creates an empty context for one record
func NewRowContext(record Record) *RowContext {
	return &RowContext{Record: record}
}

// AddStep appends one audit token in execution order
func (c *RowContext) AddStep(step string) {
	c.steps = append(c.steps, step)
}

// AddSteps appends several audit tokens in order
func (c *RowContext) AddSteps(steps ...string) {
	c.steps = append(c.steps, steps...)
}

// Flag appends an anomaly
func (c *RowContext) Flag(t AnomalyType, value string) {
	c.anomalies = append(c.anomalies, NewAnomaly(t, value))
}

// Steps returns a copy of the audit trail
func (c *RowContext) Steps() []string {
	out := make([]string, len(c.steps))
	copy(out, c.steps)
	return out
}

// JoinedSteps returns the audit trail as written to the output record
func (c *RowContext) JoinedSteps() string {
	return strings.Join(c.steps, StepSeparator)
}

// Anomalies returns a copy of the anomalies raised so far
func (c *RowContext) Anomalies() []Anomaly {
	out := make([]Anomaly, len(c.anomalies))
	copy(out, c.anomalies)
	return out
}

// HasAnomalies reports whether any anomaly was raised for the record
func (c *RowContext) HasAnomalies() bool {
	return len(c.anomalies) > 0
}

// SetAddress records the validated address so later validators can use it
func (c *RowContext) SetAddress(ip string, valid bool) {
	c.ip = ip
	c.ipValid = valid
}

// Address returns the written-back address and its validity
func (c *RowContext) Address() (string, bool) {
	return c.ip, c.ipValid
}
