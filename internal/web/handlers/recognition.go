package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/kozaktomas/face-gate/internal/match"
	"github.com/kozaktomas/face-gate/internal/recognizer"
)

// RecognitionHandler handles identity resolution endpoints.
type RecognitionHandler struct {
	engine   *match.Engine
	analyzer recognizer.Analyzer
}

// NewRecognitionHandler creates a new recognition handler.
func NewRecognitionHandler(engine *match.Engine, analyzer recognizer.Analyzer) *RecognitionHandler {
	return &RecognitionHandler{engine: engine, analyzer: analyzer}
}

// frameRequest is the shared request body for analyze and search: one
// image as base64 or a browser data URL.
type frameRequest struct {
	Image string `json:"image"`
}

// analyzedFace is one face in the analyze response: attribute estimates
// plus the resolved display name, or null when no reference matched.
type analyzedFace struct {
	recognizer.FaceAnalysis
	Name *string `json:"name"`
}

// Analyze estimates attributes for every face in the frame and merges in
// the resolved identity name.
func (h *RecognitionHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req frameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	img, err := decodeImagePayload(req.Image)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Attribute analysis is best effort: when the analyzer fails, the
	// response degrades to identity-only instead of failing the request.
	faces, err := h.analyzer.Analyze(r.Context(), img, []string{recognizer.ActionEmotion, recognizer.ActionAge})
	if err != nil {
		log.Printf("attribute analysis failed, returning identity only: %v", err)
		faces = []recognizer.FaceAnalysis{{}}
	}
	if len(faces) == 0 {
		faces = []recognizer.FaceAnalysis{{}}
	}

	resolved, err := h.engine.Resolve(r.Context(), img)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	var name *string
	if resolved.Found {
		name = &resolved.Name
	}

	out := make([]analyzedFace, 0, len(faces))
	for _, f := range faces {
		out = append(out, analyzedFace{FaceAnalysis: f, Name: name})
	}
	respondJSON(w, http.StatusOK, out)
}

// searchResponse carries the resolved name, null when nothing matched.
type searchResponse struct {
	Name *string `json:"name"`
}

// Search resolves the frame to an enrolled identity without attributes.
func (h *RecognitionHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req frameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	img, err := decodeImagePayload(req.Image)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resolved, err := h.engine.Resolve(r.Context(), img)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	var resp searchResponse
	if resolved.Found {
		resp.Name = &resolved.Name
	}
	respondJSON(w, http.StatusOK, resp)
}
