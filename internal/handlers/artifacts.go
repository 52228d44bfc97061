package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"iptv-ranker/internal/logging"
	"iptv-ranker/internal/pipeline"
)

// Content types of the served artifacts
var artifactContentTypes = map[string]string{
	pipeline.FormatM3U:    "audio/x-mpegurl",
	pipeline.FormatTXT:    "text/plain; charset=utf-8",
	pipeline.FormatCSV:    "text/csv; charset=utf-8",
	pipeline.FormatSQLite: "application/vnd.sqlite3",
}

// ServeArtifact returns a handler that serves the artifact of the given
// format from the last successful run. Text artifacts carry their digest as
// ETag so clients can revalidate with If-None-Match.
func (h *Handlers) ServeArtifact(format string) http.HandlerFunc {
	contentType := artifactContentTypes[format]
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return func(w http.ResponseWriter, r *http.Request) {
		summary, ok := h.runner.LastSummary()
		if !ok {
			errNoRun(w)
			return
		}
		artifact, ok := summary.Artifact(format)
		if !ok {
			respondError(w, http.StatusNotFound, format+" output is not enabled")
			return
		}

		f, err := os.Open(artifact.Path)
		if err != nil {
			logging.Error("failed to open %s: %v", artifact.Path, err)
			respondError(w, http.StatusInternalServerError, "artifact unavailable")
			return
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			logging.Error("failed to stat %s: %v", artifact.Path, err)
			respondError(w, http.StatusInternalServerError, "artifact unavailable")
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "no-cache")
		if artifact.Digest != "" {
			w.Header().Set("ETag", `"`+artifact.Digest+`"`)
		}
		http.ServeContent(w, r, filepath.Base(artifact.Path), info.ModTime(), f)
	}
}
