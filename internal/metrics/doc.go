// Package metrics provides Prometheus instrumentation for the stream ranker.
//
// All metrics are prefixed with "iptv_ranker_" and are registered on the
// default registry through promauto. They are exposed by the serve mode's
// /metrics endpoint; a one-shot run still records them, which keeps the
// instrumentation path identical in both modes.
//
// # Metric Categories
//
// ## Probe Metrics
//
//   - ProbesTotal: Counter by phase (availability/latency) and result
//   - ProbeDuration: Histogram of probe time by phase
//   - ProbesInFlight: Gauge of probes waiting on the network
//   - ProbeWorkers: Gauge of configured pool size per phase
//
// ## Candidate Metrics
//
//   - CandidatesTotal, ValidatedTotal, ChannelsRanked: Gauges for the last run
//   - CandidatesDuplicate, CandidatesFiltered: Counters of dropped candidates
//
// ## Source Metrics
//
//   - SourceFetchesTotal: Counter of remote playlist downloads by status
//   - SourceFetchDuration: Histogram of download time
//
// ## Run Metrics
//
//   - RunsTotal, RunLastTimestamp, RunLastDuration, RunIsRunning
//
// ## Output Metrics
//
//   - ArtifactsWritten: Counter by format (m3u/txt/csv/sqlite)
//   - ArtifactBytes: Gauge of the last artifact size by format
package metrics
