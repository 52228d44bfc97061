package handlers

import (
	"net/http"
	"runtime"
	"time"

	"iptv-ranker/internal/pipeline"
	"iptv-ranker/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusStarting = "starting"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Ready     bool   `json:"ready"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
	Running   bool   `json:"running"`
	LastRun   string `json:"lastRun,omitempty"`
	LastError string `json:"lastError,omitempty"`

	Validated   int                   `json:"validated"`
	Channels    int                   `json:"channels"`
	RunProgress *pipeline.RunProgress `json:"runProgress,omitempty"`

	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck returns the health status of the service. It answers 503 until
// the first run has produced artifacts, and reports degraded when the latest
// run failed while older artifacts are still being served.
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	hs := h.runner.GetHealthStatus()

	response := HealthResponse{
		Ready:        hs.Ready,
		Version:      startup.Version,
		Uptime:       hs.Uptime,
		Running:      hs.Running,
		LastError:    hs.LastError,
		Validated:    hs.Validated,
		Channels:     hs.Channels,
		RunProgress:  hs.RunProgress,
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}
	if !hs.LastRun.IsZero() {
		response.LastRun = hs.LastRun.Format(time.RFC3339)
	}

	switch {
	case !hs.Ready:
		response.Status = statusStarting
	case hs.LastError != "":
		response.Status = statusDegraded
	default:
		response.Status = statusHealthy
	}

	code := http.StatusOK
	if !hs.Ready {
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, code, response)
}

// LivenessCheck always answers 200 while the process serves requests
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		return
	}
	respondStatus(w, http.StatusOK, "alive")
}

// ReadinessCheck answers 200 once there is output to serve
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	if h.runner.IsReady() {
		respondStatus(w, http.StatusOK, "ready")
		return
	}
	respondStatus(w, http.StatusServiceUnavailable, "not_ready")
}
