package codec

import (
	"fmt"
	"io"

	"invclean/internal/domain"
)

// Table is a parsed inventory export: its header and one record per row
type Table struct {
	Header  []string
	Records []domain.Record
}

// RecordReader reads raw inventory records from various formats
type RecordReader interface {
	Read(r io.Reader) (*Table, error)
	Format() string
}

// RecordWriter writes cleaned records to various formats
type RecordWriter interface {
	Write(header []string, records []domain.NormalizedRecord, w io.Writer) error
	Format() string
}

// LedgerExporter writes the anomaly ledger
type LedgerExporter interface {
	ExportLedger(ledger *domain.Ledger, w io.Writer) error
	Format() string
}

// LedgerImporter reads a previously written anomaly ledger
type LedgerImporter interface {
	ParseLedger(r io.Reader) (*domain.Ledger, error)
	Format() string
}

// ReaderFor returns the record reader for an input format
func ReaderFor(format string) (RecordReader, error) {
	switch format {
	case "", "csv":
		return NewCSVCodec(), nil
	case "ansible", "ansible-inventory":
		return NewAnsibleCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

// LedgerCodecFor returns the ledger codec for a ledger format
func LedgerCodecFor(format string) (interface {
	LedgerExporter
	LedgerImporter
}, error) {
	switch format {
	case "", "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported ledger format: %s", format)
	}
}
