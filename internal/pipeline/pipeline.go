package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"iptv-ranker/internal/candidate"
	"iptv-ranker/internal/logging"
	"iptv-ranker/internal/metrics"
	"iptv-ranker/internal/probe"
	"iptv-ranker/internal/ranking"
	"iptv-ranker/internal/source"
	"iptv-ranker/internal/validator"
)

var (
	// ErrNoTemplate is returned when the template file cannot be read.
	ErrNoTemplate = errors.New("template file not readable")
	// ErrNoSources is returned when neither remote sources nor candidate files are configured.
	ErrNoSources = errors.New("no candidate sources configured")
	// ErrOutputDir is returned when the output directory cannot be written.
	ErrOutputDir = errors.New("output directory not writable")
)

// Maximum edit distance for suggesting a template name to an unlisted channel
const suggestDistance = 2

// Config describes one run.
type Config struct {
	TemplateFile   string
	Sources        []string
	CandidateFiles []string

	OutputDir    string
	M3UName      string
	TXTName      string
	CSVName      string
	SQLiteExport string
	GroupOrder   []string
	StampURL     string
	// ChannelCap is the number of streams kept per channel; 0 or less keeps all.
	ChannelCap int

	Validator      validator.Config
	ProbeMethod    string
	ProbeReadBytes int
	UserAgent      string

	FetchWorkers int
	FetchTimeout time.Duration

	// Events, when set, receives one event per resolved probe.
	Events chan<- validator.Event

	// Now overrides the clock used for timestamps.
	Now func() time.Time
}

func (c Config) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Summary describes a finished run.
type Summary struct {
	StartedAt  time.Time     `json:"startedAt"`
	Duration   time.Duration `json:"duration"`
	Ingest     source.Stats  `json:"ingest"`
	Candidates int           `json:"candidates"`
	Available  int           `json:"available"`
	Validated  int           `json:"validated"`
	Channels   int           `json:"channels"`
	Streams    int           `json:"streams"`
	Unlisted   []string      `json:"unlisted,omitempty"`
	Artifacts  []Artifact    `json:"artifacts"`

	Ranking ranking.Ranking `json:"-"`
}

// String returns a one-line human readable summary.
func (s Summary) String() string {
	return fmt.Sprintf("%s candidates, %s available, %s validated, %s streams in %s channels (%s)",
		humanize.Comma(int64(s.Candidates)),
		humanize.Comma(int64(s.Available)),
		humanize.Comma(int64(s.Validated)),
		humanize.Comma(int64(s.Streams)),
		humanize.Comma(int64(s.Channels)),
		s.Duration.Round(time.Millisecond))
}

// Artifact returns the artifact with the given format.
func (s Summary) Artifact(format string) (Artifact, bool) {
	for _, a := range s.Artifacts {
		if a.Format == format {
			return a, true
		}
	}
	return Artifact{}, false
}

// Run executes one full validation run.
func Run(ctx context.Context, cfg Config) (Summary, error) {
	startTime := time.Now()
	summary := Summary{StartedAt: cfg.now()}

	tmpl, err := ranking.Load(cfg.TemplateFile)
	if err != nil {
		return summary, fmt.Errorf("%w: %v", ErrNoTemplate, err)
	}
	if len(cfg.Sources) == 0 && len(cfg.CandidateFiles) == 0 {
		return summary, ErrNoSources
	}
	if err := checkOutputDir(cfg.OutputDir); err != nil {
		return summary, fmt.Errorf("%w: %v", ErrOutputDir, err)
	}
	logging.Info("Template lists %d channels", tmpl.Len())

	store := candidate.NewStore()
	stats, err := source.Ingest(ctx, source.Config{
		Files:     cfg.CandidateFiles,
		URLs:      cfg.Sources,
		Workers:   cfg.FetchWorkers,
		Timeout:   cfg.FetchTimeout,
		UserAgent: cfg.UserAgent,
	}, store)
	if err != nil {
		return summary, err
	}
	summary.Ingest = stats
	summary.Candidates = store.Len()
	logging.Info("Ingested %s unique candidates from %d sources (%d failed, %s duplicates, %s filtered)",
		humanize.Comma(int64(store.Len())), stats.Sources, stats.Failed,
		humanize.Comma(int64(stats.Duplicates)), humanize.Comma(int64(stats.Filtered)))

	v := validator.New(cfg.Validator, newAvailability(cfg), newLatency(cfg))
	if cfg.Events != nil {
		v.SetEvents(cfg.Events)
	}
	outcomes := v.Run(ctx, store.All())
	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("run canceled: %w", err)
	}

	for _, o := range outcomes {
		if o.Entry.Available == candidate.Available {
			summary.Available++
		}
	}
	validated := validator.Validated(outcomes)
	summary.Validated = len(validated)
	metrics.ValidatedTotal.Set(float64(len(validated)))

	ranked := ranking.Rank(validated, tmpl, cfg.ChannelCap)
	summary.Ranking = ranked
	summary.Channels = ranked.Len()
	summary.Streams = len(ranked.Entries())
	summary.Unlisted = ranked.Unlisted()
	metrics.ChannelsRanked.Set(float64(ranked.Len()))
	logUnlisted(tmpl, summary.Unlisted)

	// The exports keep every validated stream; only the listing is capped.
	full := ranking.Rank(validated, tmpl, 0)
	artifacts, err := writeArtifacts(ctx, cfg, ranked, full, summary.StartedAt)
	if err != nil {
		return summary, err
	}
	summary.Artifacts = artifacts
	summary.Duration = time.Since(startTime)

	logging.Info("Run complete: %s", summary)
	return summary, nil
}

func newAvailability(cfg Config) *probe.Availability {
	return &probe.Availability{
		Client:    probe.NewClient(cfg.Validator.AvailabilityWorkers),
		Method:    cfg.ProbeMethod,
		ReadBytes: cfg.ProbeReadBytes,
		UserAgent: cfg.UserAgent,
	}
}

func newLatency(cfg Config) *probe.Latency {
	return &probe.Latency{
		Client:    probe.NewClient(cfg.Validator.LatencyWorkers),
		UserAgent: cfg.UserAgent,
	}
}

func logUnlisted(tmpl *ranking.Template, unlisted []string) {
	if len(unlisted) == 0 {
		return
	}
	logging.Info("%d channels are not in the template and follow the listed ones", len(unlisted))
	if !logging.IsDebugEnabled() {
		return
	}
	for _, name := range unlisted {
		if suggestion, ok := tmpl.Suggest(name, suggestDistance); ok {
			logging.Debug("  %s (template has %s)", name, suggestion)
		}
	}
}

func checkOutputDir(dir string) error {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".write-test-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
