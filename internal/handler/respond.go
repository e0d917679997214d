package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// respondError writes the standard error envelope
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]any{"success": false, "error": message})
}

// decodeJSON reads a JSON request body into dst with a 1MB cap
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	return dec.Decode(dst)
}
