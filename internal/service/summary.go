package service

import (
	"encoding/hex"
	"fmt"
	"sort"

	"golang.org/x/crypto/blake2b"

	"invclean/internal/codec"
	"invclean/internal/domain"
	"invclean/internal/oracle"
)

// Summary describes a finished run
type Summary struct {
	RunID     string                     `json:"run_id" yaml:"run_id"`
	Rows      int                        `json:"rows" yaml:"rows"`
	Flagged   int                        `json:"flagged" yaml:"flagged"`
	Anomalies int                        `json:"anomalies" yaml:"anomalies"`
	ByType    map[domain.AnomalyType]int `json:"by_type,omitempty" yaml:"by_type,omitempty"`
	Deferred  map[oracle.Field]int       `json:"deferred,omitempty" yaml:"deferred,omitempty"`
	// Digest is the BLAKE2b-256 of the cleaned CSV followed by the JSON
	// ledger; identical inputs always produce the same digest
	Digest string `json:"digest" yaml:"digest"`
}

// Summarize counts a run's output and computes its digest
func Summarize(header []string, records []domain.NormalizedRecord, ledger *domain.Ledger, deferred map[oracle.Field]int) (Summary, error) {
	digest, err := Digest(header, records, ledger)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		Rows:      len(records),
		Flagged:   ledger.Len(),
		Anomalies: ledger.IssueCount(),
		ByType:    ledger.CountByType(),
		Deferred:  make(map[oracle.Field]int, len(deferred)),
		Digest:    digest,
	}
	for f, n := range deferred {
		summary.Deferred[f] = n
	}
	return summary, nil
}

// Digest hashes the serialized records and ledger
func Digest(header []string, records []domain.NormalizedRecord, ledger *domain.Ledger) (string, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", fmt.Errorf("failed to create digest: %w", err)
	}

	if err := codec.NewCSVCodec().Write(header, records, h); err != nil {
		return "", fmt.Errorf("failed to digest records: %w", err)
	}
	if err := codec.NewJSONCodec().ExportLedger(ledger, h); err != nil {
		return "", fmt.Errorf("failed to digest ledger: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// SortedTypes returns the anomaly types present in the summary, most
// frequent first, ties broken by name
func (s Summary) SortedTypes() []domain.AnomalyType {
	types := make([]domain.AnomalyType, 0, len(s.ByType))
	for t := range s.ByType {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		if s.ByType[types[i]] != s.ByType[types[j]] {
			return s.ByType[types[i]] > s.ByType[types[j]]
		}
		return types[i] < types[j]
	})
	return types
}
