// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package trace appends one structured record per model attempt to a
// run-scoped JSONL file. The file is append-only: each record is a single
// atomic write, so a cancelled run leaves a valid, truncation-safe trace.
package trace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Attempt statuses recorded in the trace.
const (
	StatusSuccess    = "success"
	StatusParseError = "parse_error"
	StatusSchemaErr  = "schema_error"
)

// Prompt kinds recorded in the trace.
const (
	PromptBase      = "base"
	PromptAugmented = "augmented"
)

// Record is one line of the trace file: a full model exchange for a single
// retry attempt. ResponseJSON is null when the response carried no
// extractable JSON object.
type Record struct {
	TraceID      string          `json:"trace_id"`
	Timestamp    string          `json:"timestamp"`
	Attempt      int             `json:"attempt"`
	PromptKind   string          `json:"prompt_kind"`
	Prompt       string          `json:"prompt"`
	Options      any             `json:"options"`
	ResponseText string          `json:"response_text"`
	ResponseJSON json.RawMessage `json:"response_json"`
	Status       string          `json:"status"`
	SchemaErrors []string        `json:"schema_errors,omitempty"`
}

// NewTraceID returns a unique identifier for one attempt.
func NewTraceID() string {
	return uuid.NewString()
}

// Writer serializes concurrent appends from the scoring workers. Each
// append marshals one record and writes it with a single Write call.
type Writer struct {
	mu   sync.Mutex
	f    *os.File
	path string
}

// NewWriter opens (or creates) the trace file at path for appending,
// creating parent directories as needed.
func NewWriter(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating trace directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening trace file %s: %w", path, err)
	}
	return &Writer{f: f, path: path}, nil
}

// Path returns the trace file location.
func (w *Writer) Path() string {
	return w.path
}

// Append writes one record as a JSON line. The timestamp is stamped at
// append time (UTC, RFC 3339) unless the record already carries one.
func (w *Writer) Append(rec Record) error {
	if rec.Timestamp == "" {
		rec.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling trace record: %w", err)
	}
	data = append(data, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.f.Write(data); err != nil {
		return fmt.Errorf("appending trace record: %w", err)
	}
	return nil
}

// Close releases the underlying file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.Close()
}
