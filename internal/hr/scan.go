package hr

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

// PathFilter excludes relative paths from a scan.
type PathFilter interface {
	Match(relativePath string) bool
}

// ScanRequest selects which records a scan returns.
type ScanRequest struct {
	RestorePath string // original directory whose files are wanted
	Window      Window
	FoldCase    bool       // compare paths case-insensitively
	Exclude     PathFilter // optional
}

// Match is the selected snapshot of one tracked file.
type Match struct {
	RelativePath string // '/'-separated, relative to the restore path
	OriginalPath string
	Folder       string
	Snapshot     Snapshot
	BackupPath   string
	Meta         FileMeta
}

// Timestamp returns the time of the selected snapshot.
func (m *Match) Timestamp() time.Time {
	return m.Snapshot.Time()
}

// ScanResult is the outcome of a scan over the whole history store.
type ScanResult struct {
	Matches     []*Match // sorted by relative path
	FolderCount int
	Skipped     int // records skipped because of a warning
}

// Scan walks every record folder of the history store and returns the newest
// in-window snapshot of each file below req.RestorePath.
// A missing history store is fatal; problems with a single record are logged
// as warnings and the record is skipped.
func (s *HRService) Scan(req ScanRequest) (*ScanResult, error) {
	s.logger.Info("scan started",
		"store", s.store.Root(),
		"restore_path", req.RestorePath,
		"start", req.Window.Start.Format(time.DateTime),
		"end", req.Window.End.Format(time.DateTime))

	folders, err := s.store.Folders()
	if err != nil {
		return nil, fmt.Errorf("listing history store: %w", err)
	}

	result := &ScanResult{}
	byPath := make(map[string]*Match)

	for _, folder := range folders {
		result.FolderCount++

		m, err := s.matchRecord(folder, req)
		if err != nil {
			result.Skipped++
			s.logger.Warn("skipping record", "folder", folder, "error", err)
			continue
		}
		if m == nil {
			continue
		}

		// Two folders can track the same file; keep the newer snapshot.
		key := dedupeKey(m.RelativePath, req.FoldCase)
		if prev, ok := byPath[key]; ok && m.Snapshot.Timestamp <= prev.Snapshot.Timestamp {
			s.logger.Debug("older duplicate ignored", "path", m.RelativePath, "folder", folder)
			continue
		}
		byPath[key] = m
		s.logger.Debug("file matched", "path", m.RelativePath, "snapshot", m.Snapshot.ID)
	}

	result.Matches = make([]*Match, 0, len(byPath))
	for _, m := range byPath {
		result.Matches = append(result.Matches, m)
	}
	sort.Slice(result.Matches, func(i, j int) bool {
		return result.Matches[i].RelativePath < result.Matches[j].RelativePath
	})

	s.logger.Info("scan complete", "folders", result.FolderCount, "matched", len(result.Matches), "skipped", result.Skipped)
	return result, nil
}

// dedupeKey identifies the output file a relative path is written to. With
// case folding, paths differing only in case land on the same file.
func dedupeKey(rel string, fold bool) string {
	if fold {
		return strings.ToLower(rel)
	}
	return rel
}

// matchRecord evaluates one record folder. It returns (nil, nil) for records
// that are legitimately not part of the result and an error for records that
// could not be read.
func (s *HRService) matchRecord(folder string, req ScanRequest) (*Match, error) {
	data, err := s.store.ReadEntries(folder)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", EntriesFileName, err)
	}

	rec, err := ParseHistoryRecord(folder, data)
	if err != nil {
		return nil, err
	}
	if rec.Resource == "" {
		return nil, nil
	}

	original, err := DecodeResourceURL(rec.Resource)
	if err != nil {
		return nil, err
	}

	rel, err := RelativePath(original, req.RestorePath, req.FoldCase)
	if err != nil {
		if errors.Is(err, ErrNotInDirectory) {
			return nil, nil
		}
		return nil, err
	}
	if rel == "" {
		// The restore path names a tracked file rather than a directory.
		rel = path.Base(NormalizePath(original, false))
	}

	if req.Exclude != nil && req.Exclude.Match(rel) {
		s.logger.Debug("file excluded", "path", rel)
		return nil, nil
	}

	snap, ok := rec.Latest(req.Window)
	if !ok {
		return nil, nil
	}

	meta, err := s.store.SnapshotMeta(folder, snap.ID)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Info("snapshot content missing", "path", rel, "snapshot", snap.ID)
			return nil, nil
		}
		return nil, fmt.Errorf("checking snapshot %s: %w", snap.ID, err)
	}

	return &Match{
		RelativePath: rel,
		OriginalPath: original,
		Folder:       folder,
		Snapshot:     snap,
		BackupPath:   s.store.SnapshotPath(folder, snap.ID),
		Meta:         meta,
	}, nil
}
