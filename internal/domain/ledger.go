package domain

// RecommendedAction is the fixed note attached to every ledger entry
const RecommendedAction = "Review and correct flagged fields"

// LedgerEntry holds every anomaly raised for one record
type LedgerEntry struct {
	SourceRowID        string    `json:"source_row_id" yaml:"source_row_id"`
	Issues             []Anomaly `json:"issues" yaml:"issues"`
	RecommendedActions []string  `json:"recommended_actions" yaml:"recommended_actions"`
}

// Ledger is the run-wide anomaly output, one entry per flagged record in
// input order
type Ledger struct {
	Entries []LedgerEntry
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{
		Entries: make([]LedgerEntry, 0),
	}
}

// Add appends an entry for a record if it has at least one anomaly.
// Returns true if an entry was added.
func (l *Ledger) Add(sourceRowID string, issues []Anomaly) bool {
	if len(issues) == 0 {
		return false
	}
	copied := make([]Anomaly, len(issues))
	copy(copied, issues)
	l.Entries = append(l.Entries, LedgerEntry{
		SourceRowID:        sourceRowID,
		Issues:             copied,
		RecommendedActions: []string{RecommendedAction},
	})
	return true
}

// Len returns the number of flagged records
func (l *Ledger) Len() int {
	return len(l.Entries)
}

// IssueCount returns the total number of anomalies across all entries
func (l *Ledger) IssueCount() int {
	n := 0
	for _, e := range l.Entries {
		n += len(e.Issues)
	}
	return n
}

// CountByType tallies anomalies by type
func (l *Ledger) CountByType() map[AnomalyType]int {
	counts := make(map[AnomalyType]int)
	for _, e := range l.Entries {
		for _, issue := range e.Issues {
			counts[issue.Type]++
		}
	}
	return counts
}
