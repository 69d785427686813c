package hr

import "time"

// Run statuses recorded in the journal.
const (
	RunRunning = "running"
	RunSuccess = "success"
	RunPartial = "partial" // finished, but at least one file failed to restore
	RunError   = "error"
)

// RestoreRun describes one invocation of the restore pipeline.
type RestoreRun struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  time.Time // zero while running
	Status      string
	HistoryDir  string
	RestorePath string
	Output      string
	Window      Window
	DryRun      bool
	Matched     int
	Restored    int
}

// RestoredFile is the journal entry for one file written by a run.
type RestoredFile struct {
	RelativePath string
	SnapshotID   string
	SnapshotAt   time.Time
	Location     string
	Error        string // empty when the file was restored
}

// Journal keeps a record of restore runs and the files they wrote.
type Journal interface {
	// StartRun records a new run.
	StartRun(run *RestoreRun) error

	// RecordFile records the outcome of restoring one file in a run.
	RecordFile(runID string, outcome *RestoreOutcome) error

	// FinishRun stores the final status and counters of a run.
	FinishRun(run *RestoreRun) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(limit int) ([]*RestoreRun, error)

	// ListFiles returns the files recorded for a run, in the order they were written.
	ListFiles(runID string) ([]*RestoredFile, error)

	// Close releases the journal's resources.
	Close() error
}
