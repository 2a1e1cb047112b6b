// Package domain defines the core types for the invclean inventory cleaner.
//
// This package contains the values that flow between the validators, the
// orchestrator, and the codecs. It has no dependencies beyond the standard
// library.
//
// # Records
//
// Record is one raw input row with its field order preserved. Records are read
// once and never modified; derived values live in NormalizedRecord, whose
// column order is CoreOutputFields, then the pass-through input columns, then
// TrailingOutputFields.
//
// # Anomalies
//
// Anomaly is a non-fatal data-quality issue tied to one field of one record.
// AnomalyType is a closed taxonomy: every validator raises only the constants
// declared for its field, and AnomalyType.Field maps a type back to that field.
//
// # Row Context
//
// RowContext owns the anomaly list, the normalization-step audit trail, and the
// address write-back for exactly one record. The orchestrator creates it,
// passes it by pointer to each validator in order, and drops it when the
// record is finalized. Nothing in it survives to the next record.
//
// # Ledger
//
// Ledger collects one LedgerEntry per record that raised at least one anomaly,
// in input order, each carrying the fixed RecommendedAction.
//
// # Classification
//
// DeviceType enumerates the canonical device categories and Confidence is the
// three-level ordinal used by the device classifier. Low confidence is the
// signal to consult the fallback oracle.
package domain
