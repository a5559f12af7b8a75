package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/kozaktomas/face-gate/internal/store"
)

// maxUploadSize caps multipart upload memory at 32 MB.
const maxUploadSize = 32 << 20

// UploadHandler handles raw face file uploads. Files stored this way
// carry no identity metadata and bypass the name table.
type UploadHandler struct {
	store *store.Store
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(st *store.Store) *UploadHandler {
	return &UploadHandler{store: st}
}

// safeUploadName builds a collision-free store filename from the client's
// filename. The base name is kept for traceability but prefixed with a
// uuid, so two uploads of "face.png" never overwrite each other.
func safeUploadName(clientName string) string {
	base := filepath.Base(clientName)
	base = strings.ReplaceAll(base, "_", "-")
	if base == "." || base == "/" || base == "" {
		base = "face.png"
	}
	return fmt.Sprintf("upload-%s-%s", uuid.NewString(), base)
}

// Upload stores a single multipart image file.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "no image file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to read uploaded file")
		return
	}
	if len(data) == 0 {
		respondError(w, http.StatusBadRequest, "uploaded file is empty")
		return
	}

	filename, err := h.store.SaveRaw(safeUploadName(header.Filename), data)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message":  "face image saved",
		"filename": filename,
	})
}
