package codec

import (
	"errors"
	"fmt"
	"io"

	"invclean/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML ledger import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// ParseLedger imports a ledger from YAML. An empty document is an empty ledger.
func (c *YAMLCodec) ParseLedger(r io.Reader) (*domain.Ledger, error) {
	ledger := domain.NewLedger()
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&ledger.Entries); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if ledger.Entries == nil {
		ledger.Entries = make([]domain.LedgerEntry, 0)
	}

	return ledger, nil
}

// ExportLedger exports the ledger to YAML
func (c *YAMLCodec) ExportLedger(ledger *domain.Ledger, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(ledgerEntries(ledger)); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
