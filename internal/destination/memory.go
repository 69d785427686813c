package destination

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"histrestore/internal/hr"
)

// MemoryFile is a file held by a MemoryDestination.
type MemoryFile struct {
	Content []byte
	Meta    hr.FileMeta
}

// MemoryDestination is an in-memory implementation of hr.Destination.
// It is useful for testing and for dry runs that should not touch the disk.
// This implementation is safe for concurrent use.
type MemoryDestination struct {
	name     string
	files    map[string]*MemoryFile
	prepared bool
	failOn   map[string]error
	mu       sync.RWMutex
}

// NewMemoryDestination creates a new in-memory destination with the given name.
func NewMemoryDestination(name string) *MemoryDestination {
	return &MemoryDestination{
		name:   name,
		files:  make(map[string]*MemoryFile),
		failOn: make(map[string]error),
	}
}

// Prepare marks the destination as ready.
func (m *MemoryDestination) Prepare() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prepared = true
	return nil
}

// Put stores the content of r under relPath.
func (m *MemoryDestination) Put(relPath string, r io.Reader, size int64, meta hr.FileMeta) error {
	m.mu.RLock()
	injected := m.failOn[relPath]
	m.mu.RUnlock()
	if injected != nil {
		return injected
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read content: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[relPath] = &MemoryFile{Content: data, Meta: meta}
	return nil
}

// Location returns a memory:// URL for relPath.
func (m *MemoryDestination) Location(relPath string) string {
	return "memory://" + m.name + "/" + relPath
}

// FailOn makes every Put to relPath return err.
func (m *MemoryDestination) FailOn(relPath string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOn[relPath] = err
}

// File returns the stored file for relPath.
func (m *MemoryDestination) File(relPath string) (*MemoryFile, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[relPath]
	return f, ok
}

// Paths returns the stored relative paths in sorted order.
func (m *MemoryDestination) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Prepared reports whether Prepare has been called.
func (m *MemoryDestination) Prepared() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.prepared
}

// Compile-time check that MemoryDestination implements hr.Destination interface
var _ hr.Destination = (*MemoryDestination)(nil)
