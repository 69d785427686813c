package journal

import (
	"fmt"
	"path/filepath"

	"histrestore/internal/config"
	"histrestore/internal/hr"
)

// FileName is the journal database inside the configured data directory.
const FileName = "journal.db"

// NewJournalFromConfig creates a Journal implementation based on the journal config type.
func NewJournalFromConfig(cfg config.JournalConfig) (hr.Journal, error) {
	switch cfg.Type {
	case "", "none":
		return NopJournal{}, nil
	case "memory":
		return NewSQLiteJournal(MemoryPath)
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite journal")
		}
		return NewSQLiteJournal(filepath.Join(cfg.DataDir, FileName))
	default:
		return nil, fmt.Errorf("unknown journal type: %s", cfg.Type)
	}
}
