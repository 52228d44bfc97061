package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, phase := range []string{PhaseAvailability, PhaseLatency} {
		for _, result := range []string{"success", "failure", "timeout"} {
			ProbesTotal.WithLabelValues(phase, result)
		}
		ProbeDuration.WithLabelValues(phase)
		ProbesInFlight.WithLabelValues(phase)
		ProbeWorkers.WithLabelValues(phase)
	}

	for _, status := range []string{"success", "error"} {
		SourceFetchesTotal.WithLabelValues(status)
		RunsTotal.WithLabelValues(status)
	}

	for _, format := range []string{"m3u", "txt", "csv", "sqlite"} {
		ArtifactsWritten.WithLabelValues(format)
		ArtifactBytes.WithLabelValues(format)
	}
}
