package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"invclean/internal/domain"
)

// JSONCodec handles JSON ledger import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// ParseLedger imports a ledger from JSON
func (c *JSONCodec) ParseLedger(r io.Reader) (*domain.Ledger, error) {
	ledger := domain.NewLedger()
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&ledger.Entries); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if ledger.Entries == nil {
		ledger.Entries = make([]domain.LedgerEntry, 0)
	}

	return ledger, nil
}

// ExportLedger exports the ledger to JSON as a list of entries
func (c *JSONCodec) ExportLedger(ledger *domain.Ledger, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(ledgerEntries(ledger)); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// ledgerEntries never returns nil so an empty ledger encodes as a list
func ledgerEntries(ledger *domain.Ledger) []domain.LedgerEntry {
	if ledger == nil || ledger.Entries == nil {
		return []domain.LedgerEntry{}
	}
	return ledger.Entries
}
