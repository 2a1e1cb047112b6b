// Package oracle defines the fallback classifier consulted when deterministic
// rules cannot confidently resolve owner, device type, or site.
//
// The Oracle interface has one operation per deferrable field kind and returns
// answers tagged with their Source. The only implementation shipped here is
// PlaceholderOracle, which renders the prompt a real classifier would
// receive, records it to a PromptRecorder (normally a markdown PromptLog),
// and returns fixed placeholder values.
//
// Any field resolved through this package is low confidence by definition;
// callers tag it as such in the record's audit trail.
//
// ErrUnknownField signals a contract violation (a substitute requested for a
// field kind the oracle does not know) and must abort the run.
package oracle
