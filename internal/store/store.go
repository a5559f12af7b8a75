// Package store persists enrolled reference faces on the filesystem.
//
// A store directory holds one image file per enrollment, named
// <sequenceNo>_<identity>.<ext>, plus a names.json table mapping identity
// tags to display names. The directory is the database: references are
// append-only and never rewritten.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// NameTableFile is the per-store file holding the identity -> name table.
const NameTableFile = "names.json"

// UnknownName is returned when an identity has no bound display name.
// A missing name is routine (raw uploads bypass the table), not an error.
const UnknownName = "???"

// StorageError wraps an I/O failure while persisting or enumerating the store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Reference is one enrolled face image bound to an identity.
type Reference struct {
	SequenceNo string
	Identity   string
	Path       string
}

// Store manages a directory of reference images and its name table.
type Store struct {
	dir string

	namesMu sync.Mutex // serializes name table read-modify-write cycles

	indexMu sync.Mutex
	index   []Reference // cached directory scan, nil until first List
}

// New opens a store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &StorageError{Op: "create store directory", Err: err}
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string { return s.dir }

// parseReferenceName splits a filename into sequence number and identity.
// The scheme is <sequenceNo>_<identity>.<ext>; anything else is skipped
// during enumeration so stray files never break a scan.
func parseReferenceName(name string) (seq, identity string, ok bool) {
	ext := filepath.Ext(name)
	if ext == "" {
		return "", "", false
	}
	base := strings.TrimSuffix(name, ext)
	seq, identity, ok = strings.Cut(base, "_")
	if !ok || seq == "" || identity == "" {
		return "", "", false
	}
	return seq, identity, true
}

// List enumerates all enrolled references. The result is sorted by
// filename so repeated scans over an unchanged store visit candidates in
// the same order. The scan result is cached until the next write.
func (s *Store) List() ([]Reference, error) {
	s.indexMu.Lock()
	defer s.indexMu.Unlock()

	if s.index == nil {
		refs, err := s.scan()
		if err != nil {
			return nil, err
		}
		s.index = refs
	}

	out := make([]Reference, len(s.index))
	copy(out, s.index)
	return out, nil
}

// scan reads the store directory and builds the reference index.
func (s *Store) scan() ([]Reference, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, &StorageError{Op: "read store directory", Err: err}
	}

	refs := make([]Reference, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		seq, identity, ok := parseReferenceName(entry.Name())
		if !ok {
			continue
		}
		refs = append(refs, Reference{
			SequenceNo: seq,
			Identity:   identity,
			Path:       filepath.Join(s.dir, entry.Name()),
		})
	}

	sort.Slice(refs, func(i, j int) bool {
		return refs[i].Path < refs[j].Path
	})
	return refs, nil
}

// invalidate drops the cached index so the next List rescans the directory.
func (s *Store) invalidate() {
	s.indexMu.Lock()
	s.index = nil
	s.indexMu.Unlock()
}

// Save writes a new reference image named <sequenceNo>_<identity>.png.
// The caller is responsible for having validated the image bytes.
func (s *Store) Save(sequenceNo, identity string, img []byte) (string, error) {
	filename := fmt.Sprintf("%s_%s.png", sequenceNo, identity)
	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, img, 0o644); err != nil {
		return "", &StorageError{Op: "write reference " + filename, Err: err}
	}
	s.invalidate()
	return filename, nil
}

// SaveRaw stores an image under an arbitrary filename without binding an
// identity. Files saved this way still participate in matching scans if
// their name happens to follow the reference scheme.
func (s *Store) SaveRaw(filename string, img []byte) (string, error) {
	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, img, 0o644); err != nil {
		return "", &StorageError{Op: "write file " + filename, Err: err}
	}
	s.invalidate()
	return filename, nil
}

// ReadImage loads the image bytes of a reference.
func (s *Store) ReadImage(ref Reference) ([]byte, error) {
	data, err := os.ReadFile(ref.Path)
	if err != nil {
		return nil, &StorageError{Op: "read reference " + filepath.Base(ref.Path), Err: err}
	}
	return data, nil
}
