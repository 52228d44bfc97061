package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestProbeMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"ProbesTotal", ProbesTotal},
		{"ProbeDuration", ProbeDuration},
		{"ProbesInFlight", ProbesInFlight},
		{"ProbeWorkers", ProbeWorkers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestRunMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"CandidatesTotal", CandidatesTotal},
		{"CandidatesDuplicate", CandidatesDuplicate},
		{"CandidatesFiltered", CandidatesFiltered},
		{"ValidatedTotal", ValidatedTotal},
		{"ChannelsRanked", ChannelsRanked},
		{"SourceFetchesTotal", SourceFetchesTotal},
		{"SourceFetchDuration", SourceFetchDuration},
		{"RunsTotal", RunsTotal},
		{"RunLastTimestamp", RunLastTimestamp},
		{"RunLastDuration", RunLastDuration},
		{"RunIsRunning", RunIsRunning},
		{"ArtifactsWritten", ArtifactsWritten},
		{"ArtifactBytes", ArtifactBytes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestInitializeMetricsRegistersLabels(t *testing.T) {
	InitializeMetrics()

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	want := map[string]bool{
		"iptv_ranker_probes_total":            false,
		"iptv_ranker_probe_duration_seconds":  false,
		"iptv_ranker_artifacts_written_total": false,
		"iptv_ranker_runs_total":              false,
	}
	for _, mf := range families {
		if _, ok := want[mf.GetName()]; ok {
			want[mf.GetName()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("metric %s not exported after InitializeMetrics", name)
		}
	}
}

func TestSetAppInfo(_ *testing.T) {
	SetAppInfo("test", "abc123", "go1.25")
}
