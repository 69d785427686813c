package journal

import (
	"os"
	"path/filepath"
	"testing"

	"histrestore/internal/config"
)

func TestNewJournalFromConfig(t *testing.T) {
	t.Run("none and empty give a nop journal", func(t *testing.T) {
		for _, typ := range []string{"", "none"} {
			j, err := NewJournalFromConfig(config.JournalConfig{Type: typ})
			if err != nil {
				t.Fatalf("NewJournalFromConfig(%q) error = %v", typ, err)
			}
			if _, ok := j.(NopJournal); !ok {
				t.Errorf("NewJournalFromConfig(%q) = %T, want NopJournal", typ, j)
			}
		}
	})

	t.Run("memory", func(t *testing.T) {
		j, err := NewJournalFromConfig(config.JournalConfig{Type: "memory"})
		if err != nil {
			t.Fatalf("NewJournalFromConfig() error = %v", err)
		}
		defer j.Close()

		sj, ok := j.(*SQLiteJournal)
		if !ok {
			t.Fatalf("NewJournalFromConfig() = %T, want *SQLiteJournal", j)
		}
		if sj.Path() != MemoryPath {
			t.Errorf("Path() = %q, want %q", sj.Path(), MemoryPath)
		}
	})

	t.Run("sqlite creates the database file", func(t *testing.T) {
		dataDir := filepath.Join(t.TempDir(), "journal")

		j, err := NewJournalFromConfig(config.JournalConfig{Type: "sqlite", DataDir: dataDir})
		if err != nil {
			t.Fatalf("NewJournalFromConfig() error = %v", err)
		}
		defer j.Close()

		if _, err := os.Stat(filepath.Join(dataDir, FileName)); err != nil {
			t.Errorf("journal file not created: %v", err)
		}
	})

	t.Run("sqlite requires data_dir", func(t *testing.T) {
		_, err := NewJournalFromConfig(config.JournalConfig{Type: "sqlite"})
		if err == nil {
			t.Error("expected error for missing data_dir")
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := NewJournalFromConfig(config.JournalConfig{Type: "postgres"})
		if err == nil {
			t.Error("expected error for unknown type")
		}
	})
}
