package handlers

import (
	"encoding/json"
	"net/http"

	"iptv-ranker/internal/logging"
)

// respondJSON writes v with the given status. Encoding failures can only be
// logged once the status line has been sent.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// respondError writes {"error": message} with the given status.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondStatus writes {"status": status} with the given status code.
func respondStatus(w http.ResponseWriter, code int, status string) {
	respondJSON(w, code, map[string]string{"status": status})
}

// errNoRun answers requests that need a completed run.
func errNoRun(w http.ResponseWriter) {
	respondError(w, http.StatusServiceUnavailable, "no run has completed yet")
}
