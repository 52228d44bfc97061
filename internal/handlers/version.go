package handlers

import (
	"net/http"

	"iptv-ranker/internal/startup"
)

// GetVersion reports the build that is serving requests.
func (h *Handlers) GetVersion(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	respondJSON(w, http.StatusOK, startup.GetBuildInfo())
}
