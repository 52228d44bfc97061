package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptrace"
	"time"

	"iptv-ranker/internal/candidate"
)

// DefaultUserAgent is sent with every probe request.
const DefaultUserAgent = "iptv-ranker/1.0"

// Result is the outcome of one probe.
type Result struct {
	// Available is set by availability probes.
	Available bool
	// Latency is set by latency probes; candidate.Unmeasured on failure.
	Latency float64
	// Status is the HTTP status code, 0 when no response was received.
	Status int
	// TimedOut reports that the probe's deadline expired.
	TimedOut bool
	// Diagnostic describes why the probe failed. Empty on success.
	Diagnostic string
	// Elapsed is the time spent in the probe.
	Elapsed time.Duration
}

// AvailabilityChecker decides whether an entry's endpoint is reachable.
type AvailabilityChecker interface {
	Check(ctx context.Context, entry candidate.Entry) Result
}

// LatencyMeasurer times an entry's endpoint.
type LatencyMeasurer interface {
	Measure(ctx context.Context, entry candidate.Entry) Result
}

// NewClient returns an HTTP client suited to probing many hosts at once.
// Timeouts are driven by request contexts, not by the client.
func NewClient(maxConnsPerHost int) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          200,
		MaxIdleConnsPerHost:   4,
		MaxConnsPerHost:       maxConnsPerHost,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
	return &http.Client{Transport: transport}
}

// Availability checks reachability with a single request.
type Availability struct {
	Client *http.Client
	// Method is GET or HEAD. Empty means GET.
	Method string
	// ReadBytes, when positive, requires the response body to deliver data;
	// up to ReadBytes are read before the connection is closed.
	ReadBytes int
	UserAgent string
}

// Check implements AvailabilityChecker.
func (a *Availability) Check(ctx context.Context, entry candidate.Entry) Result {
	start := time.Now()
	res := Result{Latency: candidate.Unmeasured}

	method := a.Method
	if method == "" {
		method = http.MethodGet
	}

	resp, err := do(ctx, a.Client, method, entry.Endpoint, a.UserAgent, nil)
	if err != nil {
		res.Elapsed = time.Since(start)
		res.TimedOut = isTimeout(ctx, err)
		res.Diagnostic = err.Error()
		return res
	}
	defer resp.Body.Close()

	res.Status = resp.StatusCode
	if !isSuccess(resp.StatusCode) {
		res.Elapsed = time.Since(start)
		res.Diagnostic = fmt.Sprintf("unexpected status %s", resp.Status)
		return res
	}

	if a.ReadBytes > 0 && method != http.MethodHead {
		n, err := io.CopyN(io.Discard, resp.Body, int64(a.ReadBytes))
		if n == 0 {
			res.Elapsed = time.Since(start)
			res.TimedOut = isTimeout(ctx, err)
			if err == nil || errors.Is(err, io.EOF) {
				res.Diagnostic = "empty response body"
			} else {
				res.Diagnostic = fmt.Sprintf("reading body: %v", err)
			}
			return res
		}
	}

	res.Available = true
	res.Elapsed = time.Since(start)
	return res
}

// Latency measures time to first byte with a single GET.
type Latency struct {
	Client    *http.Client
	UserAgent string
}

// Measure implements LatencyMeasurer.
func (l *Latency) Measure(ctx context.Context, entry candidate.Entry) Result {
	res := Result{Latency: candidate.Unmeasured}

	var firstByte time.Time
	trace := &httptrace.ClientTrace{
		GotFirstResponseByte: func() { firstByte = time.Now() },
	}

	start := time.Now()
	resp, err := do(httptrace.WithClientTrace(ctx, trace), l.Client, http.MethodGet, entry.Endpoint, l.UserAgent, nil)
	if err != nil {
		res.Elapsed = time.Since(start)
		res.TimedOut = isTimeout(ctx, err)
		res.Diagnostic = err.Error()
		return res
	}
	defer resp.Body.Close()

	done := time.Now()
	res.Status = resp.StatusCode
	res.Elapsed = done.Sub(start)
	if !isSuccess(resp.StatusCode) {
		res.Diagnostic = fmt.Sprintf("unexpected status %s", resp.Status)
		return res
	}

	if firstByte.IsZero() || firstByte.After(done) {
		firstByte = done
	}
	res.Latency = firstByte.Sub(start).Seconds()
	res.Available = true
	return res
}

func do(ctx context.Context, client *http.Client, method, endpoint, userAgent string, body io.Reader) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	return client.Do(req)
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
