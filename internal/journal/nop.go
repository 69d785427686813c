package journal

import "histrestore/internal/hr"

// NopJournal discards everything. It is used when no journal is configured,
// so a restore leaves no state behind.
type NopJournal struct{}

var _ hr.Journal = NopJournal{}

func (NopJournal) StartRun(*hr.RestoreRun) error { return nil }
func (NopJournal) RecordFile(string, *hr.RestoreOutcome) error { return nil }
func (NopJournal) FinishRun(*hr.RestoreRun) error { return nil }
func (NopJournal) ListRuns(int) ([]*hr.RestoreRun, error) { return nil, nil }
func (NopJournal) ListFiles(string) ([]*hr.RestoredFile, error) { return nil, nil }
func (NopJournal) Close() error { return nil }
