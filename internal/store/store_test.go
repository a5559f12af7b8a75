package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return st
}

func TestParseReferenceName(t *testing.T) {
	tests := []struct {
		name         string
		filename     string
		wantSeq      string
		wantIdentity string
		wantOK       bool
	}{
		{"valid png", "001_u1.png", "001", "u1", true},
		{"valid jpg", "042_someone.jpg", "042", "someone", true},
		{"identity with dash", "001_user-one.png", "001", "user-one", true},
		{"no underscore", "notareference.png", "", "", false},
		{"no extension", "001_u1", "", "", false},
		{"empty identity", "001_.png", "", "", false},
		{"empty sequence", "_u1.png", "", "", false},
		{"name table", "names.json", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, identity, ok := parseReferenceName(tt.filename)
			if ok != tt.wantOK {
				t.Fatalf("parseReferenceName(%q) ok = %v, want %v", tt.filename, ok, tt.wantOK)
			}
			if seq != tt.wantSeq || identity != tt.wantIdentity {
				t.Errorf("parseReferenceName(%q) = (%q, %q), want (%q, %q)",
					tt.filename, seq, identity, tt.wantSeq, tt.wantIdentity)
			}
		})
	}
}

func TestStore_List_Empty(t *testing.T) {
	st := newTestStore(t)

	refs, err := st.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("expected empty store, got %d references", len(refs))
	}
}

func TestStore_SaveAndList(t *testing.T) {
	st := newTestStore(t)

	filename, err := st.Save("001", "u1", []byte("image-bytes"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if filename != "001_u1.png" {
		t.Errorf("expected filename 001_u1.png, got %s", filename)
	}

	refs, err := st.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("expected 1 reference, got %d", len(refs))
	}
	if refs[0].SequenceNo != "001" || refs[0].Identity != "u1" {
		t.Errorf("unexpected reference %+v", refs[0])
	}

	data, err := st.ReadImage(refs[0])
	if err != nil {
		t.Fatalf("ReadImage failed: %v", err)
	}
	if string(data) != "image-bytes" {
		t.Errorf("unexpected image content %q", data)
	}
}

func TestStore_List_SkipsNonConformingFiles(t *testing.T) {
	st := newTestStore(t)

	if _, err := st.Save("001", "u1", []byte("a")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	for _, name := range []string{"names.json", "README.txt", "noext"} {
		if err := os.WriteFile(filepath.Join(st.Dir(), name), []byte("x"), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	st.invalidate()

	refs, err := st.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("expected 1 reference, got %d", len(refs))
	}
}

func TestStore_List_DeterministicOrder(t *testing.T) {
	st := newTestStore(t)

	// Write out of order; List must sort by filename.
	for _, pair := range [][2]string{{"003", "c"}, {"001", "a"}, {"002", "b"}} {
		if _, err := st.Save(pair[0], pair[1], []byte("img")); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	first, err := st.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	second, err := st.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("expected 3 references, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("scan order not stable at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
	if first[0].Identity != "a" || first[1].Identity != "b" || first[2].Identity != "c" {
		t.Errorf("expected sorted order a,b,c, got %+v", first)
	}
}

func TestStore_List_IndexInvalidatedOnSave(t *testing.T) {
	st := newTestStore(t)

	if _, err := st.Save("001", "u1", []byte("a")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if refs, _ := st.List(); len(refs) != 1 {
		t.Fatalf("expected 1 reference, got %d", len(refs))
	}

	if _, err := st.Save("002", "u2", []byte("b")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	refs, err := st.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(refs) != 2 {
		t.Errorf("expected index refresh after save, got %d references", len(refs))
	}
}

func TestStore_SaveRaw(t *testing.T) {
	st := newTestStore(t)

	filename, err := st.SaveRaw("upload-abc-face.png", []byte("raw"))
	if err != nil {
		t.Fatalf("SaveRaw failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(st.Dir(), filename))
	if err != nil {
		t.Fatalf("stored file not readable: %v", err)
	}
	if string(data) != "raw" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestStore_Names(t *testing.T) {
	st := newTestStore(t)

	if name := st.GetName("u1"); name != UnknownName {
		t.Errorf("expected unknown sentinel %q, got %q", UnknownName, name)
	}

	if err := st.SetName("u1", "Alice"); err != nil {
		t.Fatalf("SetName failed: %v", err)
	}
	if name := st.GetName("u1"); name != "Alice" {
		t.Errorf("expected Alice, got %q", name)
	}

	// Last write wins on re-binding.
	if err := st.SetName("u1", "Alicia"); err != nil {
		t.Fatalf("SetName failed: %v", err)
	}
	if name := st.GetName("u1"); name != "Alicia" {
		t.Errorf("expected Alicia, got %q", name)
	}

	// Other identities stay unbound.
	if name := st.GetName("u2"); name != UnknownName {
		t.Errorf("expected unknown sentinel for u2, got %q", name)
	}
}

func TestStore_Names_CorruptTableResolvesToSentinel(t *testing.T) {
	st := newTestStore(t)

	if err := os.WriteFile(filepath.Join(st.Dir(), NameTableFile), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to write name table: %v", err)
	}

	// Reads fold the failure into the sentinel, writes must not.
	if name := st.GetName("u1"); name != UnknownName {
		t.Errorf("expected unknown sentinel for corrupt table, got %q", name)
	}
	var se *StorageError
	if err := st.SetName("u1", "Alice"); !errors.As(err, &se) {
		t.Errorf("expected StorageError from SetName on corrupt table, got %v", err)
	}
}

func TestStore_Names_SurviveReopen(t *testing.T) {
	dir := t.TempDir()
	st, err := New(dir)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := st.SetName("u1", "Alice"); err != nil {
		t.Fatalf("SetName failed: %v", err)
	}

	reopened, err := New(dir)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	if name := reopened.GetName("u1"); name != "Alice" {
		t.Errorf("expected Alice after reopen, got %q", name)
	}
}

func TestStore_Names_NoTempFileLeftBehind(t *testing.T) {
	st := newTestStore(t)

	if err := st.SetName("u1", "Alice"); err != nil {
		t.Fatalf("SetName failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(st.Dir(), NameTableFile+".tmp")); !os.IsNotExist(err) {
		t.Error("temp name table file left behind")
	}
}
