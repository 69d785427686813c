package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"histrestore/internal/config"
	"histrestore/internal/destination"
	"histrestore/internal/encryption"
	"histrestore/internal/fs"
	"histrestore/internal/hr"
	"histrestore/internal/journal"
)

// HRApp is the application layer between the CLI and HRService.
// It constructs all dependencies from config, turns raw command line values
// into service requests, and releases the journal and log file on Close.
type HRApp struct {
	cfg         *config.Config
	store       hr.HistoryStore
	destination hr.Destination
	journal     hr.Journal
	service     *hr.HRService
	clock       hr.Clock
	runID       string
	logFile     *os.File
}

// Options tunes how NewHRApp wires the app.
type Options struct {
	Verbose bool      // send debug records to stderr
	Stderr  io.Writer // defaults to os.Stderr
	Clock   hr.Clock  // defaults to hr.RealClock
}

// NewHRApp creates a fully wired HRApp from the given config.
// The caller must call Close when done.
func NewHRApp(cfg *config.Config, opts Options) (*HRApp, error) {
	if cfg.HistoryDir == "" {
		return nil, fmt.Errorf("no history directory configured")
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Clock == nil {
		opts.Clock = hr.RealClock{}
	}

	store := fs.NewOSHistoryStore(cfg.HistoryDir)

	dest, err := destination.NewDestinationFromConfig(cfg.Destination, cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating destination: %w", err)
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	j, err := journal.NewJournalFromConfig(cfg.Journal)
	if err != nil {
		return nil, fmt.Errorf("creating journal: %w", err)
	}

	runID := uuid.New().String()
	stderrLevel := slog.LevelWarn
	if opts.Verbose {
		stderrLevel = slog.LevelDebug
	}
	logger, logFile, err := newLogger(cfg.LogDir, runID, opts.Stderr, stderrLevel)
	if err != nil {
		j.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	svc := hr.NewHRService(store, dest, enc, j, &slogAdapter{l: logger}, opts.Clock)

	return &HRApp{
		cfg:         cfg,
		store:       store,
		destination: dest,
		journal:     j,
		service:     svc,
		clock:       opts.Clock,
		runID:       runID,
		logFile:     logFile,
	}, nil
}

// RestoreOptions holds the raw command line values of a restore.
type RestoreOptions struct {
	RestorePath string
	StartTime   string // empty = end minus days back
	EndTime     string // empty = now
	DryRun      bool
}

// NewRunRequest resolves raw restore options against the config: it builds
// the time window, the exclude patterns and the case sensitivity.
func (a *HRApp) NewRunRequest(opts RestoreOptions) (hr.RunRequest, error) {
	if opts.RestorePath == "" {
		return hr.RunRequest{}, fmt.Errorf("restore path is required")
	}
	restorePath, err := resolveRestorePath(opts.RestorePath)
	if err != nil {
		return hr.RunRequest{}, err
	}

	window, err := hr.ResolveWindow(opts.StartTime, opts.EndTime, a.cfg.DaysBack, a.clock.Now())
	if err != nil {
		return hr.RunRequest{}, err
	}

	fold := a.cfg.FoldCase(hr.DefaultFoldCase())
	scan := hr.ScanRequest{
		RestorePath: restorePath,
		Window:      window,
		FoldCase:    fold,
	}
	if m := fs.NewExcludeMatcher(a.cfg.Filesystem.Ignore, fold); !m.Empty() {
		scan.Exclude = m
	}

	return hr.RunRequest{ID: a.runID, Scan: scan, DryRun: opts.DryRun}, nil
}

// Run executes a restore built by NewRunRequest.
func (a *HRApp) Run(req hr.RunRequest) (*hr.RunReport, error) {
	return a.service.Run(req)
}

// GetHistory returns the most recent journaled restore runs.
func (a *HRApp) GetHistory(limit int) ([]*hr.RestoreRun, error) {
	return a.service.GetHistory(limit)
}

// GetRunFiles returns the files a journaled run restored.
func (a *HRApp) GetRunFiles(runID string) ([]*hr.RestoredFile, error) {
	return a.service.GetRunFiles(runID)
}

// JournalEnabled reports whether restore runs are being recorded.
func (a *HRApp) JournalEnabled() bool {
	return a.cfg.Journal.Type != "" && a.cfg.Journal.Type != "none"
}

// HistoryDir returns the history store location.
func (a *HRApp) HistoryDir() string {
	return a.store.Root()
}

// OutputLocation returns where restored files are written.
func (a *HRApp) OutputLocation() string {
	return a.destination.Location("")
}

// RunID returns the ID stamped on this invocation's log lines and journal entry.
func (a *HRApp) RunID() string {
	return a.runID
}

// Close releases the journal and the log file.
func (a *HRApp) Close() error {
	var firstErr error
	if err := a.journal.Close(); err != nil {
		firstErr = fmt.Errorf("closing journal: %w", err)
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing log file: %w", err)
		}
	}
	return firstErr
}

// resolveRestorePath makes a relative restore path absolute. Paths that are
// already absolute on any platform, including drive paths such as "C:/proj"
// read from another machine's history, are kept as given.
func resolveRestorePath(raw string) (string, error) {
	if filepath.IsAbs(raw) || isDrivePath(raw) || raw[0] == '/' || raw[0] == '\\' {
		return raw, nil
	}
	abs, err := filepath.Abs(raw)
	if err != nil {
		return "", fmt.Errorf("resolving restore path: %w", err)
	}
	return abs, nil
}

func isDrivePath(p string) bool {
	if len(p) < 2 || p[1] != ':' {
		return false
	}
	c := p[0]
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
