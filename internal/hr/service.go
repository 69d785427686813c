package hr

import (
	"fmt"
)

// HRService is the orchestration layer that coordinates the history store,
// the destination and the journal to perform the operations needed by the CLI.
type HRService struct {
	store       HistoryStore
	destination Destination
	encryptor   Encryptor
	journal     Journal
	logger      Logger
	clock       Clock
}

// NewHRService creates a new HRService with the provided dependencies.
func NewHRService(store HistoryStore, destination Destination, encryptor Encryptor, journal Journal, logger Logger, clock Clock) *HRService {
	return &HRService{
		store:       store,
		destination: destination,
		encryptor:   encryptor,
		journal:     journal,
		logger:      logger,
		clock:       clock,
	}
}

// RunRequest describes a complete scan-and-restore run.
type RunRequest struct {
	ID     string
	Scan   ScanRequest
	DryRun bool // scan only, nothing is written
}

// RunReport is the result of Run.
type RunReport struct {
	Run      *RestoreRun
	Scan     *ScanResult
	Outcomes []*RestoreOutcome
}

// Run scans the history store and restores every match, recording the run in
// the journal. Only a missing history store or an unusable destination fail
// the run; per-record and per-file problems are logged and reported.
func (s *HRService) Run(req RunRequest) (*RunReport, error) {
	run := &RestoreRun{
		ID:          req.ID,
		StartedAt:   s.clock.Now(),
		Status:      RunRunning,
		HistoryDir:  s.store.Root(),
		RestorePath: req.Scan.RestorePath,
		Output:      s.destination.Location(""),
		Window:      req.Scan.Window,
		DryRun:      req.DryRun,
	}
	if err := s.journal.StartRun(run); err != nil {
		return nil, fmt.Errorf("recording run: %w", err)
	}

	report := &RunReport{Run: run}

	scan, err := s.Scan(req.Scan)
	if err != nil {
		s.finishRun(run, RunError)
		return report, err
	}
	report.Scan = scan
	run.Matched = len(scan.Matches)

	if req.DryRun || len(scan.Matches) == 0 {
		s.finishRun(run, RunSuccess)
		return report, nil
	}

	outcomes, err := s.Restore(scan.Matches)
	report.Outcomes = outcomes
	if err != nil {
		s.finishRun(run, RunError)
		return report, err
	}

	for _, o := range outcomes {
		if err := s.journal.RecordFile(run.ID, o); err != nil {
			s.logger.Warn("journal write failed", "path", o.Match.RelativePath, "error", err)
		}
		if o.Err == nil {
			run.Restored++
		}
	}

	status := RunSuccess
	if run.Restored < len(outcomes) {
		status = RunPartial
	}
	s.finishRun(run, status)
	return report, nil
}

// finishRun stamps the run as finished. Journal failures are logged only:
// the restored files are already on disk.
func (s *HRService) finishRun(run *RestoreRun, status string) {
	run.Status = status
	run.FinishedAt = s.clock.Now()
	if err := s.journal.FinishRun(run); err != nil {
		s.logger.Warn("journal write failed", "run", run.ID, "error", err)
	}
	s.logger.Info("run finished", "status", status, "matched", run.Matched, "restored", run.Restored)
}

// GetHistory returns the most recent restore runs, newest first.
func (s *HRService) GetHistory(limit int) ([]*RestoreRun, error) {
	runs, err := s.journal.ListRuns(limit)
	if err != nil {
		return nil, fmt.Errorf("listing restore runs: %w", err)
	}
	return runs, nil
}

// GetRunFiles returns the files recorded for one restore run.
func (s *HRService) GetRunFiles(runID string) ([]*RestoredFile, error) {
	files, err := s.journal.ListFiles(runID)
	if err != nil {
		return nil, fmt.Errorf("listing files for run %s: %w", runID, err)
	}
	return files, nil
}
