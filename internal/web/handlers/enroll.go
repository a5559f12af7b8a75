package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/kozaktomas/face-gate/internal/enroll"
)

// EnrollHandler handles identity enrollment.
type EnrollHandler struct {
	manager *enroll.Manager
}

// NewEnrollHandler creates a new enrollment handler.
func NewEnrollHandler(manager *enroll.Manager) *EnrollHandler {
	return &EnrollHandler{manager: manager}
}

// enrollRequest mirrors the client payload: sequence number, identity
// tag, display name, and the reference image as base64 or a data URL.
type enrollRequest struct {
	No    string `json:"no"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Enroll registers a new reference face.
func (h *EnrollHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	var req enrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	var img []byte
	if req.Image != "" {
		var err error
		img, err = decodeImagePayload(req.Image)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	filename, err := h.manager.Enroll(r.Context(), enroll.Request{
		SequenceNo: req.No,
		Identity:   req.ID,
		Name:       req.Name,
		Image:      img,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message":  "image saved successfully",
		"filename": filename,
	})
}
