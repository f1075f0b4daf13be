// Package handlers contains the HTTP request handlers. They are thin
// adapters over the listing and mail packages; the response shapes mirror
// what the site frontend already consumes.
package handlers

import (
	"encoding/json"
	"net/http"
)

// errorResponse is the client-facing error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError sends the error envelope. Messages are category-specific and
// human-readable; upstream error detail never reaches the client.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
