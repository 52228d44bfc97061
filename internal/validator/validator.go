package validator

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"iptv-ranker/internal/candidate"
	"iptv-ranker/internal/logging"
	"iptv-ranker/internal/metrics"
	"iptv-ranker/internal/probe"
)

// Config bounds the two probe phases.
type Config struct {
	// AvailabilityWorkers is the maximum number of in-flight availability probes
	AvailabilityWorkers int
	// LatencyWorkers is the maximum number of in-flight latency probes
	LatencyWorkers int
	// AvailabilityTimeout is the deadline for a single availability probe
	AvailabilityTimeout time.Duration
	// LatencyTimeout is the deadline for a single latency probe
	LatencyTimeout time.Duration
}

// DefaultConfig returns the limits used by the original scripts: wide
// availability fan-out, narrower latency fan-out, 5s per probe.
func DefaultConfig() Config {
	return Config{
		AvailabilityWorkers: 50,
		LatencyWorkers:      20,
		AvailabilityTimeout: 5 * time.Second,
		LatencyTimeout:      5 * time.Second,
	}
}

// Outcome is the per-candidate result of a run.
type Outcome struct {
	// Entry carries the recorded Available and Latency values.
	Entry candidate.Entry
	// Diagnostic is the reason of the last failed probe, if any.
	Diagnostic string
	// TimedOut reports that the failing probe hit its deadline.
	TimedOut bool
}

// Event reports one resolved probe.
type Event struct {
	Phase     string
	Endpoint  string
	OK        bool
	Completed int64
	Total     int64
}

// Progress is a snapshot of completed and scheduled probes per phase.
type Progress struct {
	AvailabilityDone  int64 `json:"availabilityDone"`
	AvailabilityTotal int64 `json:"availabilityTotal"`
	LatencyDone       int64 `json:"latencyDone"`
	LatencyTotal      int64 `json:"latencyTotal"`
}

// Validator runs probe phases over candidate sets.
type Validator struct {
	config       Config
	availability probe.AvailabilityChecker
	latency      probe.LatencyMeasurer
	events       chan<- Event

	availDone  atomic.Int64
	availTotal atomic.Int64
	latDone    atomic.Int64
	latTotal   atomic.Int64
}

// New creates a Validator. Non-positive limits fall back to DefaultConfig values.
func New(config Config, availability probe.AvailabilityChecker, latency probe.LatencyMeasurer) *Validator {
	defaults := DefaultConfig()
	if config.AvailabilityWorkers <= 0 {
		config.AvailabilityWorkers = defaults.AvailabilityWorkers
	}
	if config.LatencyWorkers <= 0 {
		config.LatencyWorkers = defaults.LatencyWorkers
	}
	if config.AvailabilityTimeout <= 0 {
		config.AvailabilityTimeout = defaults.AvailabilityTimeout
	}
	if config.LatencyTimeout <= 0 {
		config.LatencyTimeout = defaults.LatencyTimeout
	}
	return &Validator{
		config:       config,
		availability: availability,
		latency:      latency,
	}
}

// SetEvents registers a channel that receives one Event per resolved probe.
// Sends never block; events are dropped when the channel is full.
func (v *Validator) SetEvents(ch chan<- Event) {
	v.events = ch
}

// Config returns the effective configuration.
func (v *Validator) Config() Config {
	return v.config
}

// Progress returns the current counters.
func (v *Validator) Progress() Progress {
	return Progress{
		AvailabilityDone:  v.availDone.Load(),
		AvailabilityTotal: v.availTotal.Load(),
		LatencyDone:       v.latDone.Load(),
		LatencyTotal:      v.latTotal.Load(),
	}
}

// probeJob is one candidate scheduled in a phase
type probeJob struct {
	index int
	entry candidate.Entry
}

// probeResult is the resolved probe for a job
type probeResult struct {
	index    int
	result   probe.Result
	canceled bool
}

// phase describes one probe pass
type phase struct {
	name    string
	workers int
	timeout time.Duration
	run     func(context.Context, candidate.Entry) probe.Result
	apply   func(*Outcome, probe.Result)
	done    *atomic.Int64
	total   *atomic.Int64
}

// Run probes every entry and returns one Outcome per entry, in input order.
// Canceling ctx stops dispatching; entries never probed keep Unknown
// availability and Unmeasured latency, while outcomes already recorded stay.
func (v *Validator) Run(ctx context.Context, entries []candidate.Entry) []Outcome {
	startTime := time.Now()

	outcomes := make([]Outcome, len(entries))
	for i, e := range entries {
		e.Available = candidate.Unknown
		e.Latency = candidate.Unmeasured
		outcomes[i] = Outcome{Entry: e}
	}

	v.availDone.Store(0)
	v.latDone.Store(0)
	v.latTotal.Store(0)

	all := make([]int, len(entries))
	for i := range all {
		all[i] = i
	}

	logging.Info("Validating %d streams with %d availability workers (timeout %v)",
		len(entries), v.config.AvailabilityWorkers, v.config.AvailabilityTimeout)

	v.runPhase(ctx, phase{
		name:    metrics.PhaseAvailability,
		workers: v.config.AvailabilityWorkers,
		timeout: v.config.AvailabilityTimeout,
		run:     v.availability.Check,
		apply: func(o *Outcome, r probe.Result) {
			if r.Available {
				o.Entry.Available = candidate.Available
				return
			}
			o.Entry.Available = candidate.Unavailable
			o.Diagnostic = r.Diagnostic
			o.TimedOut = r.TimedOut
		},
		done:  &v.availDone,
		total: &v.availTotal,
	}, all, outcomes)

	var reachable []int
	for i := range outcomes {
		if outcomes[i].Entry.Available == candidate.Available {
			reachable = append(reachable, i)
		}
	}

	logging.Info("Measuring latency of %d reachable streams with %d workers (timeout %v)",
		len(reachable), v.config.LatencyWorkers, v.config.LatencyTimeout)

	v.runPhase(ctx, phase{
		name:    metrics.PhaseLatency,
		workers: v.config.LatencyWorkers,
		timeout: v.config.LatencyTimeout,
		run:     v.latency.Measure,
		apply: func(o *Outcome, r probe.Result) {
			o.Entry.Latency = r.Latency
			if r.Diagnostic != "" {
				o.Diagnostic = r.Diagnostic
				o.TimedOut = r.TimedOut
			}
		},
		done:  &v.latDone,
		total: &v.latTotal,
	}, reachable, outcomes)

	validated := 0
	for i := range outcomes {
		if outcomes[i].Entry.Validated() {
			validated++
		}
	}
	logging.Info("Validation complete: %d/%d reachable, %d with measured latency in %v",
		len(reachable), len(entries), validated, time.Since(startTime).Round(time.Millisecond))

	return outcomes
}

// runPhase pushes jobs through a bounded pool and merges results through a
// single collector, which owns every write to outcomes.
func (v *Validator) runPhase(ctx context.Context, p phase, indexes []int, outcomes []Outcome) {
	p.total.Store(int64(len(indexes)))
	if len(indexes) == 0 {
		return
	}

	numWorkers := p.workers
	if numWorkers > len(indexes) {
		numWorkers = len(indexes)
	}
	metrics.ProbeWorkers.WithLabelValues(p.name).Set(float64(p.workers))

	jobs := make(chan probeJob)
	// Sized so that workers never wait on the collector.
	results := make(chan probeResult, len(indexes))

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				res := v.probeOne(ctx, p, job.entry)
				// A failure caused by the run being canceled says nothing about the stream.
				canceled := res.Diagnostic != "" && ctx.Err() != nil
				results <- probeResult{index: job.index, result: res, canceled: canceled}
			}
		}()
	}

	var collectorWg sync.WaitGroup
	collectorWg.Add(1)
	go func() {
		defer collectorWg.Done()
		for r := range results {
			o := &outcomes[r.index]
			if r.canceled {
				o.Diagnostic = "canceled before the probe resolved"
				continue
			}
			p.apply(o, r.result)
			completed := p.done.Add(1)

			ok := r.result.Diagnostic == ""
			if !ok {
				logging.Diagnostic(p.name, o.Entry.Endpoint, r.result.Diagnostic)
			}
			v.emit(Event{
				Phase:     p.name,
				Endpoint:  o.Entry.Endpoint,
				OK:        ok,
				Completed: completed,
				Total:     int64(len(indexes)),
			})
		}
	}()

	for _, idx := range indexes {
		if ctx.Err() != nil {
			break
		}
		select {
		case jobs <- probeJob{index: idx, entry: outcomes[idx].Entry}:
		case <-ctx.Done():
		}
	}
	close(jobs)

	wg.Wait()
	close(results)
	collectorWg.Wait()

	if ctx.Err() != nil {
		logging.Warn("%s phase canceled, %d of %d probes resolved",
			p.name, p.done.Load(), len(indexes))
	}
}

// probeOne runs a single probe under its own deadline and converts panics
// into failed results.
func (v *Validator) probeOne(ctx context.Context, p phase, entry candidate.Entry) (res probe.Result) {
	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	inFlight := metrics.ProbesInFlight.WithLabelValues(p.name)
	inFlight.Inc()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			res = probe.Result{
				Latency:    candidate.Unmeasured,
				Diagnostic: fmt.Sprintf("probe panic: %v", r),
			}
		}
		inFlight.Dec()
		metrics.ProbeDuration.WithLabelValues(p.name).Observe(time.Since(start).Seconds())
		metrics.ProbesTotal.WithLabelValues(p.name, resultLabel(res)).Inc()
	}()

	return p.run(probeCtx, entry)
}

func (v *Validator) emit(ev Event) {
	if v.events == nil {
		return
	}
	select {
	case v.events <- ev:
	default:
	}
}

func resultLabel(r probe.Result) string {
	switch {
	case r.Diagnostic == "":
		return "success"
	case r.TimedOut:
		return "timeout"
	default:
		return "failure"
	}
}

// Validated returns the entries of outcomes that passed both phases.
func Validated(outcomes []Outcome) []candidate.Entry {
	var out []candidate.Entry
	for _, o := range outcomes {
		if o.Entry.Validated() {
			out = append(out, o.Entry)
		}
	}
	return out
}
