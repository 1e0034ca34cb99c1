package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
)

// NopLogger returns a logger that discards all output
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// LogBuffer collects JSON log lines written by a CaptureLogger
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns everything logged so far
func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Entries decodes every line logged so far. Lines that are not JSON objects
// are skipped.
func (b *LogBuffer) Entries() []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()

	var entries []map[string]any
	for _, line := range bytes.Split(b.buf.Bytes(), []byte("\n")) {
		var entry map[string]any
		if len(line) == 0 || json.Unmarshal(line, &entry) != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// Last returns the most recent entry, or nil if nothing was logged
func (b *LogBuffer) Last() map[string]any {
	entries := b.Entries()
	if len(entries) == 0 {
		return nil
	}
	return entries[len(entries)-1]
}

// CaptureLogger returns a debug-level JSON logger that records into the
// returned buffer
func CaptureLogger() (*slog.Logger, *LogBuffer) {
	buf := &LogBuffer{}
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}
