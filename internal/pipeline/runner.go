package pipeline

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"iptv-ranker/internal/logging"
	"iptv-ranker/internal/metrics"
	"iptv-ranker/internal/validator"
)

// RunProgress is the progress of the run in flight.
type RunProgress struct {
	Trigger   string    `json:"trigger"`
	Phase     string    `json:"phase,omitempty"`
	Completed int64     `json:"completed"`
	Total     int64     `json:"total"`
	StartedAt time.Time `json:"startedAt"`
}

// HealthStatus contains health check information.
type HealthStatus struct {
	Ready       bool         `json:"ready"`
	Running     bool         `json:"running"`
	StartTime   time.Time    `json:"startTime"`
	Uptime      string       `json:"uptime"`
	LastRun     time.Time    `json:"lastRun,omitempty"`
	LastError   string       `json:"lastError,omitempty"`
	Validated   int          `json:"validated"`
	Channels    int          `json:"channels"`
	RunProgress *RunProgress `json:"runProgress,omitempty"`
}

// Runner repeats runs on an interval and on demand, keeping the last
// successful summary for the HTTP handlers.
type Runner struct {
	config    Config
	interval  time.Duration
	runFunc   func(context.Context, Config) (Summary, error)
	startTime time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	runMu     sync.Mutex
	isRunning bool
	lastRun   time.Time
	lastErr   error
	last      *Summary

	progress atomic.Value

	// Callback when a run completes successfully
	onRunComplete func(Summary)
}

// NewRunner creates a Runner. An interval of zero disables periodic runs.
func NewRunner(config Config, interval time.Duration) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Runner{
		config:    config,
		interval:  interval,
		runFunc:   Run,
		startTime: time.Now(),
		ctx:       ctx,
		cancel:    cancel,
	}
	r.progress.Store(RunProgress{})
	return r
}

// SetOnRunComplete sets a callback invoked after each successful run.
func (r *Runner) SetOnRunComplete(callback func(Summary)) {
	r.onRunComplete = callback
}

// Start runs once in the background and then on every interval tick.
func (r *Runner) Start() {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		logging.Info("Starting initial run in background...")
		r.runOnce("startup")
		r.periodicRun()
	}()
}

// Stop cancels the run in flight and waits for the loop to exit.
func (r *Runner) Stop() {
	r.cancel()
	r.wg.Wait()
}

func (r *Runner) periodicRun() {
	if r.interval <= 0 {
		return
	}
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logging.Debug("Periodic run triggered")
			r.runOnce("interval")
		case <-r.ctx.Done():
			return
		}
	}
}

// TriggerRun starts a run in the background. It reports false when a run is
// already in progress.
func (r *Runner) TriggerRun() bool {
	if !r.tryStartRun() {
		return false
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.execute("manual")
	}()
	return true
}

// runOnce runs unless another run is in progress.
func (r *Runner) runOnce(trigger string) {
	if !r.tryStartRun() {
		logging.Info("Skipping %s run, another run is in progress", trigger)
		return
	}
	r.execute(trigger)
}

// execute performs a run; the caller must hold the running flag.
func (r *Runner) execute(trigger string) {
	startTime := time.Now()
	r.progress.Store(RunProgress{Trigger: trigger, StartedAt: startTime})
	metrics.RunIsRunning.Set(1)

	events := make(chan validator.Event, 256)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range events {
			r.progress.Store(RunProgress{
				Trigger:   trigger,
				Phase:     ev.Phase,
				Completed: ev.Completed,
				Total:     ev.Total,
				StartedAt: startTime,
			})
			if r.config.Events != nil {
				select {
				case r.config.Events <- ev:
				default:
				}
			}
		}
	}()

	cfg := r.config
	cfg.Events = events
	summary, err := r.runFunc(r.ctx, cfg)
	close(events)
	<-done

	duration := time.Since(startTime)
	metrics.RunIsRunning.Set(0)
	metrics.RunLastDuration.Set(duration.Seconds())

	if err != nil {
		metrics.RunsTotal.WithLabelValues("error").Inc()
		logging.Error("%s run failed after %v: %v", trigger, duration.Round(time.Millisecond), err)
	} else {
		metrics.RunsTotal.WithLabelValues("success").Inc()
		metrics.RunLastTimestamp.Set(float64(time.Now().Unix()))
	}

	r.finishRun(summary, err)

	if err == nil && r.onRunComplete != nil {
		r.onRunComplete(summary)
	}
}

// tryStartRun attempts to start a run, returns false if already in progress.
func (r *Runner) tryStartRun() bool {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	if r.isRunning {
		return false
	}
	r.isRunning = true
	return true
}

// finishRun records the result and clears the running flag.
func (r *Runner) finishRun(summary Summary, err error) {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	r.isRunning = false
	r.lastRun = time.Now()
	r.lastErr = err
	if err == nil {
		s := summary
		r.last = &s
	}
	r.progress.Store(RunProgress{})
}

// IsRunning returns whether a run is currently in progress.
func (r *Runner) IsRunning() bool {
	r.runMu.Lock()
	defer r.runMu.Unlock()
	return r.isRunning
}

// IsReady returns true once a run has produced artifacts.
func (r *Runner) IsReady() bool {
	r.runMu.Lock()
	defer r.runMu.Unlock()
	return r.last != nil
}

// LastSummary returns the summary of the last successful run.
func (r *Runner) LastSummary() (Summary, bool) {
	r.runMu.Lock()
	defer r.runMu.Unlock()
	if r.last == nil {
		return Summary{}, false
	}
	return *r.last, true
}

// GetProgress returns the progress of the run in flight.
func (r *Runner) GetProgress() RunProgress {
	if p, ok := r.progress.Load().(RunProgress); ok {
		return p
	}
	return RunProgress{}
}

// GetHealthStatus returns detailed health information.
func (r *Runner) GetHealthStatus() HealthStatus {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	status := HealthStatus{
		Ready:     r.last != nil,
		Running:   r.isRunning,
		StartTime: r.startTime,
		Uptime:    time.Since(r.startTime).Round(time.Second).String(),
		LastRun:   r.lastRun,
	}
	if r.last != nil {
		status.Validated = r.last.Validated
		status.Channels = r.last.Channels
	}
	if r.lastErr != nil {
		status.LastError = r.lastErr.Error()
	}
	if r.isRunning {
		p := r.GetProgress()
		status.RunProgress = &p
	}
	return status
}
