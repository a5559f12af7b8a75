package store

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
)

// readNames loads the full name table from disk. A missing table file is
// the empty table. Reads always go to disk so a restarted process never
// serves stale names.
func (s *Store) readNames() (map[string]string, error) {
	path := filepath.Join(s.dir, NameTableFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, &StorageError{Op: "read name table", Err: err}
	}

	names := map[string]string{}
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, &StorageError{Op: "parse name table", Err: err}
	}
	return names, nil
}

// GetName resolves an identity to its display name. Identities without a
// bound name resolve to UnknownName rather than an error; an unreadable
// table does too, but gets logged so corruption is visible.
func (s *Store) GetName(identity string) string {
	names, err := s.readNames()
	if err != nil {
		log.Printf("name table unreadable, resolving %s to %q: %v", identity, UnknownName, err)
		return UnknownName
	}
	if name, ok := names[identity]; ok {
		return name
	}
	return UnknownName
}

// SetName binds a display name to an identity, replacing any previous
// binding. The whole table is rewritten atomically via a temp file and
// rename; concurrent updates are serialized by the store mutex.
func (s *Store) SetName(identity, name string) error {
	s.namesMu.Lock()
	defer s.namesMu.Unlock()

	names, err := s.readNames()
	if err != nil {
		return err
	}
	names[identity] = name

	data, err := json.MarshalIndent(names, "", "  ")
	if err != nil {
		return &StorageError{Op: "encode name table", Err: err}
	}

	path := filepath.Join(s.dir, NameTableFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &StorageError{Op: "write name table", Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return &StorageError{Op: "replace name table", Err: err}
	}
	return nil
}
