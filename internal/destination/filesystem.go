package destination

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"histrestore/internal/hr"
)

// FileSystemDestination writes restored files below a root directory,
// recreating their relative directory structure:
//
//	<root>/
//	  src/
//	    main.go    (restored snapshot, original mtime and mode applied)
type FileSystemDestination struct {
	root string
}

// NewFileSystemDestination creates a destination rooted at the given path.
// The directory is created by Prepare.
func NewFileSystemDestination(root string) *FileSystemDestination {
	return &FileSystemDestination{root: root}
}

// Prepare creates the root directory.
func (d *FileSystemDestination) Prepare() error {
	if err := os.MkdirAll(d.root, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// Put writes size bytes from r to relPath below the root, replacing any
// existing file, then applies the permission bits and file times from meta.
func (d *FileSystemDestination) Put(relPath string, r io.Reader, size int64, meta hr.FileMeta) error {
	if !filepath.IsLocal(filepath.FromSlash(relPath)) {
		return fmt.Errorf("refusing to write outside output directory: %s", relPath)
	}
	destPath := filepath.Join(d.root, filepath.FromSlash(relPath))

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	if err := d.writeFile(destPath, r, size); err != nil {
		return err
	}

	if meta.Mode != 0 {
		if err := os.Chmod(destPath, meta.Mode.Perm()); err != nil {
			return fmt.Errorf("setting permissions: %w", err)
		}
	}
	if !meta.ModTime.IsZero() {
		atime := meta.AccessTime
		if atime.IsZero() {
			atime = meta.ModTime
		}
		if err := os.Chtimes(destPath, atime, meta.ModTime); err != nil {
			return fmt.Errorf("setting file times: %w", err)
		}
	}
	return nil
}

// Location returns the filesystem path relPath is restored to.
func (d *FileSystemDestination) Location(relPath string) string {
	if relPath == "" {
		return d.root
	}
	return filepath.Join(d.root, filepath.FromSlash(relPath))
}

// writeFile writes data from r to the specified path using atomic write (temp file + rename).
func (d *FileSystemDestination) writeFile(destPath string, r io.Reader, expectedSize int64) error {
	// Create temp file in the same directory to ensure atomic rename works
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on failure
	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if written != expectedSize {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expectedSize, written)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Compile-time check that FileSystemDestination implements hr.Destination interface
var _ hr.Destination = (*FileSystemDestination)(nil)
