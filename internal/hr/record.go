package hr

import (
	"encoding/json"
	"fmt"
	"time"
)

// EntriesFileName is the metadata file inside every record folder of a history store.
const EntriesFileName = "entries.json"

// HistoryRecord is the decoded entries.json of one tracked file.
type HistoryRecord struct {
	Folder   string     `json:"-"`
	Version  int        `json:"version"`
	Resource string     `json:"resource"` // file:// URL of the original file, percent-encoded
	Entries  []Snapshot `json:"entries"`  // in stored order, oldest first as written by the editor
}

// Snapshot is one saved version of a tracked file. ID names the content file
// that sits next to entries.json.
type Snapshot struct {
	ID                string `json:"id"`
	Timestamp         int64  `json:"timestamp"` // milliseconds since the Unix epoch
	Source            string `json:"source,omitempty"`
	SourceDescription string `json:"sourceDescription,omitempty"`
}

// Time returns the snapshot timestamp as a time.Time.
func (s Snapshot) Time() time.Time {
	return time.UnixMilli(s.Timestamp)
}

// ParseHistoryRecord decodes the entries.json content of a record folder.
func ParseHistoryRecord(folder string, data []byte) (*HistoryRecord, error) {
	var rec HistoryRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", EntriesFileName, err)
	}
	rec.Folder = folder
	return &rec, nil
}

// Latest returns the newest snapshot whose timestamp lies inside w.
// Entries without a timestamp or id are ignored. When several entries share
// the newest timestamp, the last one in stored order wins.
func (r *HistoryRecord) Latest(w Window) (Snapshot, bool) {
	var best Snapshot
	found := false

	for _, e := range r.Entries {
		if e.Timestamp == 0 || e.ID == "" {
			continue
		}
		if !w.Contains(e.Time()) {
			continue
		}
		if !found || e.Timestamp >= best.Timestamp {
			best = e
			found = true
		}
	}

	return best, found
}
