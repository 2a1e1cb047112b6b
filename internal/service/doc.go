// Package service implements the row orchestrator of the inventory cleaner.
//
// CleanService runs the validators of package validator over each record in
// a fixed order, threading one domain.RowContext per record:
//
//	address → hardware identifier → hostname → (address write-back) →
//	qualified name → owner → device type → site
//
// # Oracle Deferral
//
// Owner, device type and site carry a confidence. When a validator cannot
// resolve its field confidently the service asks the configured oracle.Oracle
// for a substitute, accepts the answer into the output, and tags it low
// confidence in the audit trail. An oracle failure other than
// oracle.ErrUnknownField becomes a <field>_unresolved anomaly and the
// deterministic value is kept; ErrUnknownField aborts the run.
//
// # Output
//
// Each record yields one domain.NormalizedRecord whose columns follow
// domain.OutputHeader. Records with at least one anomaly get a ledger entry.
// Summary counts the run and carries a BLAKE2b-256 digest of the serialized
// output, so two runs over the same input can be compared byte for byte.
//
// # Design Principles
//
// - Validators never fail a record; records are never dropped
// - No state survives from one record to the next
// - Context-aware for cancellation and oracle deadlines
package service
