package handlers

import (
	"iptv-ranker/internal/pipeline"
)

// Runner is the part of pipeline.Runner the handlers depend on.
type Runner interface {
	IsReady() bool
	IsRunning() bool
	TriggerRun() bool
	LastSummary() (pipeline.Summary, bool)
	GetHealthStatus() pipeline.HealthStatus
}

// Handlers serves the results of the most recent successful run.
type Handlers struct {
	runner Runner
}

// New creates Handlers backed by runner.
func New(runner Runner) *Handlers {
	return &Handlers{runner: runner}
}
