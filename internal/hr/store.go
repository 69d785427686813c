package hr

import (
	"errors"
	"io"
	"io/fs"
	"time"
)

// ErrHistoryStoreNotFound is returned when the history store root is missing
// or is not a directory.
var ErrHistoryStoreNotFound = errors.New("history store not found")

// FileMeta is the file metadata carried from a snapshot to its restored copy.
type FileMeta struct {
	Size       int64
	Mode       fs.FileMode
	ModTime    time.Time
	AccessTime time.Time
}

// HistoryStore provides read-only access to an editor history store: a root
// directory holding one folder per tracked file.
// It abstracts file access to enable testing against fixture stores.
type HistoryStore interface {
	// Root returns the store location, for messages.
	Root() string

	// Folders lists the record folder names in directory order.
	// Non-directory entries are not returned.
	// Returns an error wrapping ErrHistoryStoreNotFound if the root is missing.
	Folders() ([]string, error)

	// ReadEntries returns the raw entries.json of a record folder.
	// The error wraps fs.ErrNotExist when the folder has no entries.json.
	ReadEntries(folder string) ([]byte, error)

	// SnapshotMeta returns metadata of a snapshot content file.
	// The error wraps fs.ErrNotExist when the content file is missing.
	SnapshotMeta(folder, id string) (FileMeta, error)

	// OpenSnapshot opens a snapshot content file for reading.
	OpenSnapshot(folder, id string) (io.ReadCloser, error)

	// SnapshotPath returns the location of a snapshot content file.
	SnapshotPath(folder, id string) string
}
