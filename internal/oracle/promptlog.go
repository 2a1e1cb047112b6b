package oracle

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// PromptEntry is one would-be oracle call kept for human or model review
type PromptEntry struct {
	Field     Field
	RowID     string
	Prompt    string
	Rationale string
	Schema    string
}

// PromptRecorder receives the prompts of deferred fields
type PromptRecorder interface {
	Record(entry PromptEntry) error
}

// PromptLog appends prompt entries to a markdown document
type PromptLog struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	runID  string
	header bool
	count  int
}

// NewPromptLog creates a prompt log writing to w. The run header is written
// before the first entry.
func NewPromptLog(w io.Writer, runID string) *PromptLog {
	return &PromptLog{w: w, runID: runID}
}

// OpenPromptLog opens path for appending. An empty path returns a log that
// discards every entry.
func OpenPromptLog(path, runID string) (*PromptLog, error) {
	if path == "" {
		return NewPromptLog(io.Discard, runID), nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open prompt log: %w", err)
	}

	log := NewPromptLog(f, runID)
	log.closer = f
	return log, nil
}

// Record appends one entry
func (l *PromptLog) Record(entry PromptEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.header {
		if _, err := fmt.Fprintf(l.w, "\n## Run %s\n", l.runID); err != nil {
			return fmt.Errorf("failed to write prompt log header: %w", err)
		}
		l.header = true
	}

	_, err := fmt.Fprintf(l.w, `
### %s Validation — Row %s

**Prompt:**
`+"```"+`
%s
`+"```"+`

**Rationale:**
%s

**Expected Output Schema:**
`+"```json"+`
%s
`+"```"+`
---
`, entry.Field.Title(), entry.RowID, entry.Prompt, entry.Rationale, entry.Schema)
	if err != nil {
		return fmt.Errorf("failed to write prompt log entry: %w", err)
	}

	l.count++
	return nil
}

// Count returns the number of entries recorded
func (l *PromptLog) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Close closes the underlying file, if any
func (l *PromptLog) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
