// Package journal records restore runs so they can be listed later.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"histrestore/internal/hr"
	"histrestore/internal/journal/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// MemoryPath opens a journal that lives only as long as the process.
const MemoryPath = ":memory:"

// SQLiteJournal implements hr.Journal on top of SQLite.
type SQLiteJournal struct {
	db   *sql.DB
	path string
}

var _ hr.Journal = (*SQLiteJournal)(nil)

// NewSQLiteJournal opens (creating if needed) the journal at path and
// migrates it to the latest schema. path can be MemoryPath.
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.Up(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := migrations.Check(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db, path: path}, nil
}

// OpenConnection opens a SQLite connection with the PRAGMAs the journal relies on.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	// Each pooled connection to :memory: would see a separate, empty database.
	if path == MemoryPath {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// Path returns the journal's database path.
func (j *SQLiteJournal) Path() string {
	return j.path
}

func (j *SQLiteJournal) StartRun(run *hr.RestoreRun) error {
	_, err := j.db.Exec(`
		INSERT INTO restore_runs
			(id, started_at, status, history_dir, restore_path, output, window_start, window_end, dry_run)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC(), run.Status, run.HistoryDir, run.RestorePath, run.Output,
		run.Window.Start.UTC(), run.Window.End.UTC(), run.DryRun)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}
	return nil
}

func (j *SQLiteJournal) RecordFile(runID string, outcome *hr.RestoreOutcome) error {
	var errText sql.NullString
	if outcome.Err != nil {
		errText = sql.NullString{String: outcome.Err.Error(), Valid: true}
	}

	m := outcome.Match
	_, err := j.db.Exec(`
		INSERT INTO restored_files (run_id, relative_path, snapshot_id, snapshot_at, location, error)
		VALUES (?, ?, ?, ?, ?, ?)`,
		runID, m.RelativePath, m.Snapshot.ID, m.Timestamp().UTC(), outcome.Location, errText)
	if err != nil {
		return fmt.Errorf("inserting file %s: %w", m.RelativePath, err)
	}
	return nil
}

func (j *SQLiteJournal) FinishRun(run *hr.RestoreRun) error {
	res, err := j.db.Exec(`
		UPDATE restore_runs
		SET finished_at = ?, status = ?, matched = ?, restored = ?
		WHERE id = ?`,
		run.FinishedAt.UTC(), run.Status, run.Matched, run.Restored, run.ID)
	if err != nil {
		return fmt.Errorf("updating run %s: %w", run.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating run %s: %w", run.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("run not found: %s", run.ID)
	}
	return nil
}

func (j *SQLiteJournal) ListRuns(limit int) ([]*hr.RestoreRun, error) {
	if limit <= 0 {
		limit = -1 // no limit
	}

	rows, err := j.db.Query(`
		SELECT id, started_at, finished_at, status, history_dir, restore_path, output,
		       window_start, window_end, dry_run, matched, restored
		FROM restore_runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []*hr.RestoreRun
	for rows.Next() {
		run := &hr.RestoreRun{}
		var finished sql.NullTime
		var start, end time.Time
		if err := rows.Scan(&run.ID, &run.StartedAt, &finished, &run.Status, &run.HistoryDir,
			&run.RestorePath, &run.Output, &start, &end, &run.DryRun, &run.Matched, &run.Restored); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if finished.Valid {
			run.FinishedAt = finished.Time
		}
		run.Window = hr.Window{Start: start, End: end}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

func (j *SQLiteJournal) ListFiles(runID string) ([]*hr.RestoredFile, error) {
	rows, err := j.db.Query(`
		SELECT relative_path, snapshot_id, snapshot_at, location, error
		FROM restored_files
		WHERE run_id = ?
		ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying files: %w", err)
	}
	defer rows.Close()

	var files []*hr.RestoredFile
	for rows.Next() {
		f := &hr.RestoredFile{}
		var errText sql.NullString
		if err := rows.Scan(&f.RelativePath, &f.SnapshotID, &f.SnapshotAt, &f.Location, &errText); err != nil {
			return nil, fmt.Errorf("scanning file: %w", err)
		}
		f.Error = errText.String
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating files: %w", err)
	}
	return files, nil
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
