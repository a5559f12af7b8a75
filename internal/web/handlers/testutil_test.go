package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/face-gate/internal/recognizer"
	"github.com/kozaktomas/face-gate/internal/store"
)

// newTestStore creates an empty reference store in a temp directory.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return st
}

// byteVerifier verifies a candidate when its bytes equal the query bytes.
type byteVerifier struct{}

func (byteVerifier) Verify(ctx context.Context, query, reference []byte) (recognizer.MatchResult, error) {
	if bytes.Equal(query, reference) {
		return recognizer.MatchResult{Verified: true, Distance: 0.1}, nil
	}
	return recognizer.MatchResult{Verified: false, Distance: 0.9}, nil
}

// stubAnalyzer returns canned analysis results or a canned error.
type stubAnalyzer struct {
	faces []recognizer.FaceAnalysis
	err   error
}

func (s *stubAnalyzer) Name() string { return "stub" }

func (s *stubAnalyzer) Analyze(ctx context.Context, img []byte, actions []string) ([]recognizer.FaceAnalysis, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.faces, nil
}

// imagePayload wraps raw bytes the way browser clients send frames.
func imagePayload(img []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(img)
}

// testPNG encodes a uniform-color PNG for enrollment tests.
func testPNG(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := range 16 {
		for y := range 16 {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

// jsonBody marshals a value into a request body buffer.
func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}
	return bytes.NewBuffer(data)
}

// parseJSONResponse parses a JSON response body into the target type.
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code.
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertJSONError checks if the response is a JSON error with the expected message.
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["error"] != expectedMessage {
		t.Errorf("expected error '%s', got '%s'", expectedMessage, result["error"])
	}
}
