package hr

import (
	"bytes"
	"fmt"
)

// RestoreOutcome is the result of restoring a single match.
type RestoreOutcome struct {
	Match    *Match
	Location string
	Err      error
}

// Restore writes every match to the destination under its relative path.
// A failure on one file is recorded in its outcome and does not stop the
// batch. The returned error is only set when the destination could not be
// prepared, in which case nothing was written.
func (s *HRService) Restore(matches []*Match) ([]*RestoreOutcome, error) {
	if err := s.destination.Prepare(); err != nil {
		return nil, fmt.Errorf("preparing destination: %w", err)
	}

	outcomes := make([]*RestoreOutcome, 0, len(matches))
	for _, m := range matches {
		name := m.RelativePath + s.encryptor.Extension()
		outcome := &RestoreOutcome{Match: m, Location: s.destination.Location(name)}

		if err := s.restoreOne(m, name); err != nil {
			outcome.Err = err
			s.logger.Error("restore failed", "path", m.RelativePath, "error", err)
		} else {
			s.logger.Info("file restored", "path", m.RelativePath, "snapshot", m.Snapshot.ID, "location", outcome.Location)
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes, nil
}

// restoreOne copies a single snapshot to the destination, encrypting it
// first when an encryptor with an extension is configured.
func (s *HRService) restoreOne(m *Match, name string) error {
	rc, err := s.store.OpenSnapshot(m.Folder, m.Snapshot.ID)
	if err != nil {
		return fmt.Errorf("opening snapshot: %w", err)
	}
	defer rc.Close()

	if s.encryptor.Extension() == "" {
		if err := s.destination.Put(name, rc, m.Meta.Size, m.Meta); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		return nil
	}

	var buf bytes.Buffer
	if err := s.encryptor.Encrypt(rc, &buf); err != nil {
		return fmt.Errorf("encrypting snapshot: %w", err)
	}
	meta := m.Meta
	meta.Size = int64(buf.Len())
	if err := s.destination.Put(name, &buf, meta.Size, meta); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
