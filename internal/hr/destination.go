package hr

import "io"

// Destination receives restored files.
// Relative paths always use '/' separators.
type Destination interface {
	// Prepare makes the destination ready to receive files (e.g. creates the
	// output directory). It is called once, before the first Put.
	Prepare() error

	// Put writes size bytes read from r to relPath, replacing any existing
	// file, and applies meta where the backend supports it.
	Put(relPath string, r io.Reader, size int64, meta FileMeta) error

	// Location describes where relPath ends up, for messages and the journal.
	Location(relPath string) string
}
