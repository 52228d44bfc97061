package probe

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"iptv-ranker/internal/candidate"
)

func newStreamServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "video/mp2t")
		_, _ = w.Write([]byte("#EXTM3U\n#EXT-X-VERSION:3\n"))
	})
	mux.HandleFunc("/empty", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
			return
		}
		_, _ = w.Write([]byte("late"))
	})
	mux.HandleFunc("/delayed", func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(50 * time.Millisecond)
		_, _ = w.Write([]byte("data"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func entryFor(url string) candidate.Entry {
	return candidate.New("CCTV1", "", "", "央视频道", url)
}

func TestAvailabilityCheck(t *testing.T) {
	srv := newStreamServer(t)

	tests := []struct {
		name      string
		path      string
		method    string
		readBytes int
		want      bool
		status    int
	}{
		{"success GET", "/ok", "", 0, true, 200},
		{"success HEAD", "/ok", http.MethodHead, 0, true, 200},
		{"not found", "/missing", "", 0, false, 404},
		{"empty body without read", "/empty", "", 0, true, 200},
		{"empty body with read", "/empty", "", 16, false, 200},
		{"body read", "/ok", "", 4, true, 200},
		{"head ignores read bytes", "/empty", http.MethodHead, 16, true, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prober := &Availability{Client: srv.Client(), Method: tt.method, ReadBytes: tt.readBytes}
			res := prober.Check(context.Background(), entryFor(srv.URL+tt.path))

			if res.Available != tt.want {
				t.Errorf("Available = %v, want %v (diagnostic %q)", res.Available, tt.want, res.Diagnostic)
			}
			if res.Status != tt.status {
				t.Errorf("Status = %d, want %d", res.Status, tt.status)
			}
			if !tt.want && res.Diagnostic == "" {
				t.Error("expected a diagnostic for a failed probe")
			}
		})
	}
}

func TestAvailabilityTimeout(t *testing.T) {
	srv := newStreamServer(t)
	prober := &Availability{Client: srv.Client()}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	res := prober.Check(ctx, entryFor(srv.URL+"/slow"))
	if res.Available {
		t.Fatal("slow endpoint reported available")
	}
	if !res.TimedOut {
		t.Errorf("TimedOut = false, diagnostic %q", res.Diagnostic)
	}
}

func TestAvailabilityConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	prober := &Availability{Client: &http.Client{}}
	res := prober.Check(context.Background(), entryFor(url+"/live"))
	if res.Available {
		t.Error("closed server reported available")
	}
	if res.Diagnostic == "" {
		t.Error("expected a diagnostic")
	}
}

func TestAvailabilityMalformedEndpoint(t *testing.T) {
	prober := &Availability{}
	res := prober.Check(context.Background(), entryFor("://not a url"))
	if res.Available {
		t.Error("malformed endpoint reported available")
	}
}

func TestLatencyMeasure(t *testing.T) {
	srv := newStreamServer(t)
	prober := &Latency{Client: srv.Client()}

	res := prober.Measure(context.Background(), entryFor(srv.URL+"/delayed"))
	if math.IsInf(res.Latency, 1) {
		t.Fatalf("Latency unmeasured, diagnostic %q", res.Diagnostic)
	}
	if res.Latency < 0.04 {
		t.Errorf("Latency = %v, expected at least the handler delay", res.Latency)
	}
	if res.Latency > res.Elapsed.Seconds()+0.001 {
		t.Errorf("Latency %v exceeds elapsed %v", res.Latency, res.Elapsed)
	}
}

func TestLatencyFailuresAreUnmeasured(t *testing.T) {
	srv := newStreamServer(t)
	prober := &Latency{Client: srv.Client()}

	t.Run("status", func(t *testing.T) {
		res := prober.Measure(context.Background(), entryFor(srv.URL+"/missing"))
		if !math.IsInf(res.Latency, 1) {
			t.Errorf("Latency = %v, want +Inf", res.Latency)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		res := prober.Measure(ctx, entryFor(srv.URL+"/slow"))
		if !math.IsInf(res.Latency, 1) {
			t.Errorf("Latency = %v, want +Inf", res.Latency)
		}
		if !res.TimedOut {
			t.Error("TimedOut = false")
		}
	})
}

func TestUserAgentHeader(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	(&Availability{Client: srv.Client()}).Check(context.Background(), entryFor(srv.URL))
	if got != DefaultUserAgent {
		t.Errorf("User-Agent = %q, want %q", got, DefaultUserAgent)
	}

	(&Availability{Client: srv.Client(), UserAgent: "custom"}).Check(context.Background(), entryFor(srv.URL))
	if got != "custom" {
		t.Errorf("User-Agent = %q, want custom", got)
	}
}
