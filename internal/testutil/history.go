package testutil

import (
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"histrestore/internal/fs"
	"histrestore/internal/hr"
)

// FixtureSnapshot is one snapshot written by HistoryFixture.
type FixtureSnapshot struct {
	ID        string
	Timestamp int64 // milliseconds since the epoch
	Content   string
	Missing   bool // list the snapshot but do not write its content file
}

// HistoryFixture builds an editor history store in a temporary directory.
type HistoryFixture struct {
	t    *testing.T
	Root string
}

// NewHistoryFixture creates an empty history store under t.TempDir().
func NewHistoryFixture(t *testing.T) *HistoryFixture {
	t.Helper()
	root := filepath.Join(t.TempDir(), "History")
	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatalf("creating history root: %v", err)
	}
	return &HistoryFixture{t: t, Root: root}
}

// Store returns an OSHistoryStore reading the fixture.
func (f *HistoryFixture) Store() *fs.OSHistoryStore {
	return fs.NewOSHistoryStore(f.Root)
}

// AddRecord writes a record folder tracking resource, with its entries.json
// and one content file per snapshot.
func (f *HistoryFixture) AddRecord(folder, resource string, snapshots ...FixtureSnapshot) {
	f.t.Helper()

	rec := hr.HistoryRecord{Version: 1, Resource: resource}
	for _, s := range snapshots {
		rec.Entries = append(rec.Entries, hr.Snapshot{ID: s.ID, Timestamp: s.Timestamp})
	}
	data, err := json.Marshal(rec)
	if err != nil {
		f.t.Fatalf("encoding entries: %v", err)
	}
	f.AddRawEntries(folder, data)

	for _, s := range snapshots {
		if s.Missing {
			continue
		}
		f.WriteContent(folder, s.ID, s.Content, time.UnixMilli(s.Timestamp))
	}
}

// AddRawEntries writes data verbatim as the entries.json of folder.
func (f *HistoryFixture) AddRawEntries(folder string, data []byte) {
	f.t.Helper()
	dir := filepath.Join(f.Root, folder)
	if err := os.MkdirAll(dir, 0755); err != nil {
		f.t.Fatalf("creating record folder: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, hr.EntriesFileName), data, 0644); err != nil {
		f.t.Fatalf("writing entries: %v", err)
	}
}

// WriteContent writes a snapshot content file and sets its modification time.
func (f *HistoryFixture) WriteContent(folder, id, content string, mtime time.Time) {
	f.t.Helper()
	p := filepath.Join(f.Root, folder, id)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		f.t.Fatalf("creating record folder: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		f.t.Fatalf("writing snapshot: %v", err)
	}
	if err := os.Chtimes(p, mtime, mtime); err != nil {
		f.t.Fatalf("setting snapshot times: %v", err)
	}
}

// FileURL returns the file:/// resource URL editors record for p.
// Each segment is percent-escaped; a drive letter keeps its colon.
func FileURL(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	segments := strings.Split(strings.TrimPrefix(p, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return "file:///" + strings.Join(segments, "/")
}
