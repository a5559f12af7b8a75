// Package recognizer wraps the external face model capability.
//
// Verification (same-person decision between two images) and attribute
// analysis (emotion, age) are consumed as black boxes behind small
// interfaces so the matching engine and the web layer never depend on a
// concrete backend. The default backend is a DeepFace-compatible REST
// service; OpenAI and Gemini vision models can serve as alternative
// analyzers when no such service is available.
package recognizer

import "context"

// ActionEmotion and ActionAge name the attribute estimations a caller can
// request from an Analyzer.
const (
	ActionEmotion = "emotion"
	ActionAge     = "age"
)

// MatchResult is the outcome of comparing two face images.
type MatchResult struct {
	Verified bool    `json:"verified"`
	Distance float64 `json:"distance"`
}

// FaceRegion is the bounding box of a detected face within the frame.
type FaceRegion struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// FaceAnalysis holds best-effort attribute estimates for one detected face.
type FaceAnalysis struct {
	Emotion string      `json:"dominant_emotion,omitempty"`
	Age     int         `json:"age,omitempty"`
	Region  *FaceRegion `json:"region,omitempty"`
}

// Verifier decides whether two images show the same person.
type Verifier interface {
	Verify(ctx context.Context, query, reference []byte) (MatchResult, error)
}

// Analyzer estimates face attributes for a single frame. Backends return
// one FaceAnalysis per detected face; a frame with no confident detection
// still yields a single best-effort result rather than an error.
type Analyzer interface {
	Name() string
	Analyze(ctx context.Context, img []byte, actions []string) ([]FaceAnalysis, error)
}
