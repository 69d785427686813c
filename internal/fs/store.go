package fs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"histrestore/internal/hr"
)

// OSHistoryStore reads an editor history store from the real filesystem.
// The layout is:
//
//	<root>/
//	  <folder>/
//	    entries.json   (resource URL and snapshot list)
//	    <snapshot id>  (one content file per snapshot)
type OSHistoryStore struct {
	root string
}

// NewOSHistoryStore creates a store rooted at the given directory.
// The root is not checked until Folders is called.
func NewOSHistoryStore(root string) *OSHistoryStore {
	return &OSHistoryStore{root: root}
}

// Root returns the store directory.
func (s *OSHistoryStore) Root() string {
	return s.root
}

// Folders lists the record folders of the store in directory order.
func (s *OSHistoryStore) Folders() ([]string, error) {
	info, err := os.Stat(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", hr.ErrHistoryStoreNotFound, s.root)
		}
		return nil, fmt.Errorf("stat history store: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", hr.ErrHistoryStoreNotFound, s.root)
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("reading history store: %w", err)
	}

	var folders []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folders = append(folders, entry.Name())
	}
	return folders, nil
}

// ReadEntries returns the raw entries.json of a record folder.
func (s *OSHistoryStore) ReadEntries(folder string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.root, folder, hr.EntriesFileName))
	if err != nil {
		return nil, err
	}
	return data, nil
}

// SnapshotMeta stats a snapshot content file.
func (s *OSHistoryStore) SnapshotMeta(folder, id string) (hr.FileMeta, error) {
	p, err := s.snapshotFile(folder, id)
	if err != nil {
		return hr.FileMeta{}, err
	}

	info, err := os.Stat(p)
	if err != nil {
		return hr.FileMeta{}, err
	}
	if !info.Mode().IsRegular() {
		return hr.FileMeta{}, fmt.Errorf("snapshot is not a regular file: %s", p)
	}

	return hr.FileMeta{
		Size:       info.Size(),
		Mode:       info.Mode().Perm(),
		ModTime:    info.ModTime(),
		AccessTime: accessTime(info),
	}, nil
}

// OpenSnapshot opens a snapshot content file for reading.
func (s *OSHistoryStore) OpenSnapshot(folder, id string) (io.ReadCloser, error) {
	p, err := s.snapshotFile(folder, id)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

// SnapshotPath returns the path of a snapshot content file.
func (s *OSHistoryStore) SnapshotPath(folder, id string) string {
	return filepath.Join(s.root, folder, id)
}

// snapshotFile resolves a snapshot id to its content file, refusing ids that
// would leave the record folder.
func (s *OSHistoryStore) snapshotFile(folder, id string) (string, error) {
	if !filepath.IsLocal(id) || filepath.Base(id) != id {
		return "", fmt.Errorf("invalid snapshot id %q", id)
	}
	return s.SnapshotPath(folder, id), nil
}

// Compile-time check that OSHistoryStore implements hr.HistoryStore interface
var _ hr.HistoryStore = (*OSHistoryStore)(nil)
