package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"iptv-ranker/internal/candidate"
	"iptv-ranker/internal/ranking"
)

// StreamResponse is one ranked stream.
type StreamResponse struct {
	ID       string  `json:"id"`
	Logo     string  `json:"logo,omitempty"`
	Group    string  `json:"group"`
	Endpoint string  `json:"endpoint"`
	Latency  float64 `json:"latency"`
}

// ChannelResponse is one ranked channel with its streams, fastest first.
type ChannelResponse struct {
	Rank    int              `json:"rank"`
	Name    string           `json:"name"`
	Listed  bool             `json:"listed"`
	Streams []StreamResponse `json:"streams"`
}

func channelResponse(rank int, c ranking.Channel) ChannelResponse {
	resp := ChannelResponse{
		Rank:    rank,
		Name:    c.Name,
		Listed:  c.Listed,
		Streams: make([]StreamResponse, 0, len(c.Streams)),
	}
	for _, e := range c.Streams {
		resp.Streams = append(resp.Streams, streamResponse(e))
	}
	return resp
}

func streamResponse(e candidate.Entry) StreamResponse {
	return StreamResponse{
		ID:       e.ID,
		Logo:     e.Logo,
		Group:    e.Group,
		Endpoint: e.Endpoint,
		Latency:  e.Latency,
	}
}

// ListChannels returns the ranked channels of the last successful run.
func (h *Handlers) ListChannels(w http.ResponseWriter, _ *http.Request) {
	summary, ok := h.runner.LastSummary()
	if !ok {
		errNoRun(w)
		return
	}

	channels := summary.Ranking.Channels()
	resp := make([]ChannelResponse, 0, len(channels))
	for i, c := range channels {
		resp = append(resp, channelResponse(i+1, c))
	}

	respondJSON(w, http.StatusOK, resp)
}

// GetChannel returns one ranked channel by name.
func (h *Handlers) GetChannel(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.runner.LastSummary()
	if !ok {
		errNoRun(w)
		return
	}

	name := mux.Vars(r)["name"]
	for i, c := range summary.Ranking.Channels() {
		if c.Name == name {
			respondJSON(w, http.StatusOK, channelResponse(i+1, c))
			return
		}
	}
	respondError(w, http.StatusNotFound, "channel not found")
}

// GetSummary returns the summary of the last successful run.
func (h *Handlers) GetSummary(w http.ResponseWriter, _ *http.Request) {
	summary, ok := h.runner.LastSummary()
	if !ok {
		errNoRun(w)
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	respondJSON(w, http.StatusOK, summary)
}

// TriggerRun starts a run in the background.
func (h *Handlers) TriggerRun(w http.ResponseWriter, _ *http.Request) {
	if !h.runner.TriggerRun() {
		respondError(w, http.StatusConflict, "a run is already in progress")
		return
	}
	respondStatus(w, http.StatusAccepted, "started")
}
