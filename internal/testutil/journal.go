package testutil

import (
	"testing"

	"histrestore/internal/journal"
)

// NewTestJournal creates an in-memory SQLite journal closed at test cleanup.
func NewTestJournal(t *testing.T) *journal.SQLiteJournal {
	t.Helper()
	j, err := journal.NewSQLiteJournal(journal.MemoryPath)
	if err != nil {
		t.Fatalf("creating test journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}
