package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestHrHandler_Handle(t *testing.T) {
	ts := time.Date(2024, 6, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name    string
		runID   string
		level   slog.Level
		message string
		attrs   []slog.Attr
		want    string
	}{
		{
			name:    "basic info message",
			runID:   "run-123",
			level:   slog.LevelInfo,
			message: "file restored",
			want:    "2024-06-15T14:30:45Z\tINFO\trun-123\tfile restored\n",
		},
		{
			name:    "debug level",
			runID:   "run-456",
			level:   slog.LevelDebug,
			message: "file matched",
			want:    "2024-06-15T14:30:45Z\tDEBUG\trun-456\tfile matched\n",
		},
		{
			name:    "with record attrs",
			runID:   "run-789",
			level:   slog.LevelWarn,
			message: "skipping record",
			attrs:   []slog.Attr{slog.String("folder", "-3f2a"), slog.Int("size", 42)},
			want:    "2024-06-15T14:30:45Z\tWARN\trun-789\tskipping record\tfolder=-3f2a\tsize=42\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &hrHandler{w: &buf, runID: tt.runID}

			r := slog.NewRecord(ts, tt.level, tt.message, 0)
			for _, a := range tt.attrs {
				r.AddAttrs(a)
			}

			if err := h.Handle(context.Background(), r); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("Handle() output =\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestHrHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := &hrHandler{w: &buf, runID: "run-1"}

	h2 := h.WithAttrs([]slog.Attr{slog.String("component", "journal")}).(*hrHandler)

	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := slog.NewRecord(ts, slog.LevelInfo, "run finished", 0)
	r.AddAttrs(slog.String("status", "success"))

	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "component=journal") {
		t.Errorf("expected pre-set attr component=journal, got: %q", got)
	}
	if !strings.Contains(got, "status=success") {
		t.Errorf("expected record attr status=success, got: %q", got)
	}
}

func TestHrHandler_WithAttrs_doesNotMutateOriginal(t *testing.T) {
	var buf bytes.Buffer
	h := &hrHandler{w: &buf, runID: "run-1", attrs: []slog.Attr{slog.String("a", "1")}}

	h2 := h.WithAttrs([]slog.Attr{slog.String("b", "2")}).(*hrHandler)

	if len(h.attrs) != 1 {
		t.Errorf("original handler attrs modified: got %d, want 1", len(h.attrs))
	}
	if len(h2.attrs) != 2 {
		t.Errorf("new handler attrs: got %d, want 2", len(h2.attrs))
	}
}

func TestHrHandler_Enabled(t *testing.T) {
	t.Run("no level enables everything", func(t *testing.T) {
		h := &hrHandler{}
		for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
			if !h.Enabled(context.Background(), level) {
				t.Errorf("Enabled(%v) = false, want true", level)
			}
		}
	})

	t.Run("level filters below threshold", func(t *testing.T) {
		h := &hrHandler{level: slog.LevelWarn}
		if h.Enabled(context.Background(), slog.LevelInfo) {
			t.Error("Enabled(INFO) = true, want false")
		}
		if !h.Enabled(context.Background(), slog.LevelError) {
			t.Error("Enabled(ERROR) = false, want true")
		}
	})
}

func TestNewLogger(t *testing.T) {
	dir := t.TempDir()
	var stderr bytes.Buffer

	logger, f, err := newLogger(dir, "test-run", &stderr, slog.LevelWarn)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	if f == nil {
		t.Fatal("newLogger() returned nil file")
	}

	logger.Debug("matched", "path", "a.go")
	logger.Warn("skipping record", "folder", "x")
	f.Close()

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "matched") || !strings.Contains(string(data), "skipping record") {
		t.Errorf("log file should hold every level, got: %q", data)
	}

	if strings.Contains(stderr.String(), "matched") {
		t.Errorf("stderr should not get debug records, got: %q", stderr.String())
	}
	if !strings.Contains(stderr.String(), "\ttest-run\tskipping record\tfolder=x") {
		t.Errorf("stderr missing warning, got: %q", stderr.String())
	}
}

func TestNewLogger_NoLogDir(t *testing.T) {
	var stderr bytes.Buffer

	logger, f, err := newLogger("", "r", &stderr, slog.LevelInfo)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	if f != nil {
		t.Error("newLogger() opened a file without a log dir")
	}

	logger.Info("hello")
	if !strings.Contains(stderr.String(), "hello") {
		t.Errorf("stderr = %q, want hello", stderr.String())
	}
}
