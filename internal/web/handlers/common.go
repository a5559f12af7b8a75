package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/kozaktomas/face-gate/internal/enroll"
	"github.com/kozaktomas/face-gate/internal/store"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondDomainError maps domain errors to HTTP statuses: validation and
// decode problems are the client's to fix, storage problems are ours.
func respondDomainError(w http.ResponseWriter, err error) {
	var ve *enroll.ValidationError
	var de *enroll.DecodeError
	var se *store.StorageError
	switch {
	case errors.As(err, &ve), errors.As(err, &de):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &se):
		respondError(w, http.StatusInternalServerError, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeImagePayload turns a request image field into raw bytes. Clients
// send either a bare base64 string or a browser data URL
// ("data:image/png;base64,...."); the prefix up to the comma is ignored.
func decodeImagePayload(payload string) ([]byte, error) {
	if payload == "" {
		return nil, errors.New("image payload is empty")
	}
	if _, b64, ok := strings.Cut(payload, ","); ok {
		payload = b64
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, errors.New("image payload is not valid base64")
	}
	return data, nil
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
