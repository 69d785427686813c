package testutil

import (
	"fmt"
	"strings"
	"sync"

	"histrestore/internal/hr"
)

// LogEntry is one message captured by RecordingLogger.
type LogEntry struct {
	Level string
	Msg   string
	Args  []any
}

// String renders the entry as "LEVEL msg k=v ...".
func (e LogEntry) String() string {
	var b strings.Builder
	b.WriteString(e.Level)
	b.WriteByte(' ')
	b.WriteString(e.Msg)
	for i := 0; i+1 < len(e.Args); i += 2 {
		fmt.Fprintf(&b, " %v=%v", e.Args[i], e.Args[i+1])
	}
	return b.String()
}

// RecordingLogger keeps every message so tests can assert on warnings.
type RecordingLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

var _ hr.Logger = (*RecordingLogger)(nil)

func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{}
}

func (l *RecordingLogger) Debug(msg string, args ...any) { l.record("DEBUG", msg, args) }
func (l *RecordingLogger) Info(msg string, args ...any)  { l.record("INFO", msg, args) }
func (l *RecordingLogger) Warn(msg string, args ...any)  { l.record("WARN", msg, args) }
func (l *RecordingLogger) Error(msg string, args ...any) { l.record("ERROR", msg, args) }

func (l *RecordingLogger) record(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Msg: msg, Args: args})
}

// Entries returns the captured entries at level, or all entries when level is empty.
func (l *RecordingLogger) Entries(level string) []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []LogEntry
	for _, e := range l.entries {
		if level == "" || e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// Warnings returns the captured WARN entries.
func (l *RecordingLogger) Warnings() []LogEntry {
	return l.Entries("WARN")
}
