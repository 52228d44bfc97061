package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"iptv-ranker/internal/validator"
)

// blockingRun returns a run function that reports one probe event and then
// waits for release.
func blockingRun(started chan<- struct{}, release <-chan struct{}, result Summary, err error) func(context.Context, Config) (Summary, error) {
	return func(ctx context.Context, cfg Config) (Summary, error) {
		if cfg.Events != nil {
			cfg.Events <- validator.Event{Phase: "availability", Completed: 1, Total: 4}
		}
		close(started)
		select {
		case <-release:
		case <-ctx.Done():
			return Summary{}, ctx.Err()
		}
		return result, err
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestRunnerTriggerRun(t *testing.T) {
	r := NewRunner(Config{}, 0)
	defer r.Stop()

	started := make(chan struct{})
	release := make(chan struct{})
	r.runFunc = blockingRun(started, release, Summary{Validated: 7, Channels: 3}, nil)

	completed := make(chan Summary, 1)
	r.SetOnRunComplete(func(s Summary) { completed <- s })

	if r.IsReady() {
		t.Fatal("IsReady() = true before any run")
	}
	if !r.TriggerRun() {
		t.Fatal("TriggerRun() = false on an idle runner")
	}
	<-started

	if !r.IsRunning() {
		t.Error("IsRunning() = false during a run")
	}
	if r.TriggerRun() {
		t.Error("TriggerRun() = true while a run is in progress")
	}

	waitFor(t, func() bool { return r.GetProgress().Completed == 1 })
	health := r.GetHealthStatus()
	if !health.Running || health.RunProgress == nil || health.RunProgress.Trigger != "manual" {
		t.Errorf("health during run = %+v", health)
	}

	close(release)
	select {
	case s := <-completed:
		if s.Validated != 7 {
			t.Errorf("callback summary validated = %d, want 7", s.Validated)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not complete")
	}

	waitFor(t, func() bool { return !r.IsRunning() })
	summary, ok := r.LastSummary()
	if !ok || summary.Channels != 3 {
		t.Errorf("LastSummary() = %+v, %v", summary, ok)
	}
	health = r.GetHealthStatus()
	if !health.Ready || health.Validated != 7 || health.Channels != 3 || health.RunProgress != nil {
		t.Errorf("health after run = %+v", health)
	}
}

func TestRunnerKeepsLastSuccessfulSummary(t *testing.T) {
	r := NewRunner(Config{}, 0)
	defer r.Stop()

	r.runFunc = func(context.Context, Config) (Summary, error) {
		return Summary{Validated: 5}, nil
	}
	r.runOnce("startup")

	r.runFunc = func(context.Context, Config) (Summary, error) {
		return Summary{}, errors.New("source down")
	}
	r.runOnce("interval")

	summary, ok := r.LastSummary()
	if !ok || summary.Validated != 5 {
		t.Errorf("LastSummary() = %+v, %v; want the earlier successful run", summary, ok)
	}
	if got := r.GetHealthStatus().LastError; got != "source down" {
		t.Errorf("LastError = %q, want %q", got, "source down")
	}
}

func TestRunnerForwardsEvents(t *testing.T) {
	events := make(chan validator.Event, 4)
	r := NewRunner(Config{Events: events}, 0)
	defer r.Stop()

	started := make(chan struct{})
	release := make(chan struct{})
	close(release)
	r.runFunc = blockingRun(started, release, Summary{}, nil)
	r.runOnce("manual")

	select {
	case ev := <-events:
		if ev.Phase != "availability" || ev.Total != 4 {
			t.Errorf("forwarded event = %+v", ev)
		}
	default:
		t.Error("no event forwarded to the configured channel")
	}
}

func TestRunnerStopCancelsRun(t *testing.T) {
	r := NewRunner(Config{}, time.Hour)

	started := make(chan struct{})
	r.runFunc = blockingRun(started, make(chan struct{}), Summary{}, nil)
	r.Start()
	<-started

	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop() did not return")
	}
	if r.IsReady() {
		t.Error("canceled run marked the runner ready")
	}
}
