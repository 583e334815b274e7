// Package store persists the ordered medication list. The whole list is
// loaded at startup and rewritten atomically after every mutation; the
// export engine only ever sees read-only snapshots.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	appLog "pillbox/internal/log"
	"pillbox/internal/model"
)

// ErrNotFound is returned by Remove when no entry has the given id.
var ErrNotFound = errors.New("entry not found")

// fileFormat is the on-disk YAML document.
type fileFormat struct {
	Medications []model.Medication `yaml:"medications"`
}

// Store holds the in-memory medication list bound to a backing file.
// It is not safe for concurrent use; the CLI is single-threaded.
type Store struct {
	path string
	meds []model.Medication
}

// Open loads the list from path, or starts empty if the file does not
// exist yet. The file is only created on the first mutation.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("store path is empty")
	}

	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			appLog.Debug("store file missing, starting empty", "path", path)
			return s, nil
		}
		return nil, err
	}

	var doc fileFormat
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("store %s: %w", path, err)
	}

	// Entries that fail validation are dropped with a warning rather
	// than poisoning every later export.
	for _, m := range doc.Medications {
		if err := m.Validate(); err != nil {
			appLog.Warn("store: dropping invalid entry", "id", m.ID, "reason", err)
			continue
		}
		s.meds = append(s.meds, m)
	}

	appLog.Debug("store loaded", "path", path, "entry_count", len(s.meds))
	return s, nil
}

// List returns a snapshot copy of the entry list in insertion order.
func (s *Store) List() []model.Medication {
	out := make([]model.Medication, len(s.meds))
	copy(out, s.meds)
	return out
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.meds)
}

// Add validates and appends an entry, assigning a fresh id when the
// caller left it empty, then persists the list.
func (s *Store) Add(m model.Medication) (model.Medication, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if err := m.Validate(); err != nil {
		return model.Medication{}, err
	}
	for _, existing := range s.meds {
		if existing.ID == m.ID {
			return model.Medication{}, fmt.Errorf("duplicate entry id %q", m.ID)
		}
	}

	s.meds = append(s.meds, m)
	if err := s.save(); err != nil {
		// Roll back the in-memory append so memory and disk stay in sync.
		s.meds = s.meds[:len(s.meds)-1]
		return model.Medication{}, err
	}

	appLog.Info("entry added", "id", m.ID, "name", m.Name, "frequency", m.Frequency)
	return m, nil
}

// Remove deletes the entry with the given id and persists the list.
func (s *Store) Remove(id string) error {
	idx := -1
	for i, m := range s.meds {
		if m.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	removed := s.meds[idx]
	s.meds = append(s.meds[:idx], s.meds[idx+1:]...)
	if err := s.save(); err != nil {
		return err
	}

	appLog.Info("entry removed", "id", removed.ID, "name", removed.Name)
	return nil
}

// save rewrites the backing file atomically (temp file + rename, 0600),
// the same discipline the config layer uses.
func (s *Store) save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(fileFormat{Medications: s.meds})
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".pillbox-store-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, s.path)
}
