package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Probe phase label values
const (
	PhaseAvailability = "availability"
	PhaseLatency      = "latency"
)

// Probe metrics
var (
	ProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iptv_ranker_probes_total",
			Help: "Total number of endpoint probes by phase and result",
		},
		[]string{"phase", "result"}, // result: "success", "failure", "timeout"
	)

	ProbeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "iptv_ranker_probe_duration_seconds",
			Help:    "Endpoint probe duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 10},
		},
		[]string{"phase"},
	)

	ProbesInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "iptv_ranker_probes_in_flight",
			Help: "Number of probes currently waiting on the network",
		},
		[]string{"phase"},
	)

	ProbeWorkers = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "iptv_ranker_probe_workers",
			Help: "Configured worker pool size per probe phase",
		},
		[]string{"phase"},
	)
)

// Candidate metrics
var (
	CandidatesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "iptv_ranker_candidates",
			Help: "Number of deduplicated candidates in the last run",
		},
	)

	CandidatesDuplicate = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "iptv_ranker_candidates_duplicate_total",
			Help: "Total number of candidates dropped because their endpoint was already seen",
		},
	)

	CandidatesFiltered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "iptv_ranker_candidates_filtered_total",
			Help: "Total number of candidates dropped by normalization rules",
		},
	)

	ValidatedTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "iptv_ranker_validated",
			Help: "Number of validated entries in the last run",
		},
	)

	ChannelsRanked = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "iptv_ranker_channels_ranked",
			Help: "Number of distinct channel names in the last ranking",
		},
	)
)

// Source metrics
var (
	SourceFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iptv_ranker_source_fetches_total",
			Help: "Total number of remote playlist fetches by status",
		},
		[]string{"status"}, // "success", "error"
	)

	SourceFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "iptv_ranker_source_fetch_duration_seconds",
			Help:    "Remote playlist fetch duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)
)

// Run metrics
var (
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iptv_ranker_runs_total",
			Help: "Total number of pipeline runs by status",
		},
		[]string{"status"}, // "success", "error"
	)

	RunLastTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "iptv_ranker_run_last_timestamp",
			Help: "Unix timestamp of the last completed pipeline run",
		},
	)

	RunLastDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "iptv_ranker_run_last_duration_seconds",
			Help: "Duration of the last pipeline run in seconds",
		},
	)

	RunIsRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "iptv_ranker_run_running",
			Help: "Whether a pipeline run is in progress (1 = running, 0 = idle)",
		},
	)
)

// Output metrics
var (
	ArtifactsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iptv_ranker_artifacts_written_total",
			Help: "Total number of output artifacts written by format",
		},
		[]string{"format"}, // "m3u", "txt", "csv", "sqlite"
	)

	ArtifactBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "iptv_ranker_artifact_size_bytes",
			Help: "Size of the last written artifact by format",
		},
		[]string{"format"},
	)
)

// HTTP metrics for serve mode
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iptv_ranker_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "iptv_ranker_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "iptv_ranker_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "iptv_ranker_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
