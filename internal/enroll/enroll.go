// Package enroll validates and persists new reference enrollments.
package enroll

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"

	"github.com/kozaktomas/face-gate/internal/store"
)

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("missing field %q", e.Field)
}

// DecodeError reports image bytes that could not be parsed.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not decode image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Request is one enrollment: a reference image bound to an identity tag
// and a display name.
type Request struct {
	SequenceNo string
	Identity   string
	Name       string
	Image      []byte
}

// Manager persists enrollments into a reference store.
type Manager struct {
	store *store.Store
}

func NewManager(st *store.Store) *Manager {
	return &Manager{store: st}
}

// validate checks that every field is present, naming the first missing
// one, and that tag fields are safe to embed in a filename.
func (r *Request) validate() error {
	switch {
	case r.SequenceNo == "":
		return &ValidationError{Field: "no"}
	case r.Identity == "":
		return &ValidationError{Field: "id"}
	case r.Name == "":
		return &ValidationError{Field: "name"}
	case len(r.Image) == 0:
		return &ValidationError{Field: "image"}
	}

	seq, err := SanitizeTag(r.SequenceNo)
	if err != nil {
		return &ValidationError{Field: "no", Reason: err.Error()}
	}
	id, err := SanitizeTag(r.Identity)
	if err != nil {
		return &ValidationError{Field: "id", Reason: err.Error()}
	}
	r.SequenceNo, r.Identity = seq, id
	return nil
}

// Enroll validates the request, persists the reference image, and binds
// the display name. Nothing is written when validation or image decoding
// fails. A name-table failure after the image write leaves an orphaned
// reference that resolves to the unknown-name sentinel; the returned
// error says so instead of papering over it.
func (m *Manager) Enroll(ctx context.Context, req Request) (string, error) {
	if err := req.validate(); err != nil {
		return "", err
	}

	encoded, err := reencodePNG(req.Image)
	if err != nil {
		return "", &DecodeError{Err: err}
	}

	filename, err := m.store.Save(req.SequenceNo, req.Identity, encoded)
	if err != nil {
		return "", err
	}

	if err := m.store.SetName(req.Identity, req.Name); err != nil {
		return "", fmt.Errorf("reference %s saved but name not bound: %w", filename, err)
	}

	return filename, nil
}

// reencodePNG decodes the submitted bytes and re-encodes them as PNG, so
// every stored reference has a known format regardless of what the client
// sent.
func reencodePNG(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
