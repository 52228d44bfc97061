package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"iptv-ranker/internal/logging"
	"iptv-ranker/internal/metrics"
	"iptv-ranker/internal/probe"
)

// DefaultMaxBytes caps the size of a downloaded playlist.
const DefaultMaxBytes = 32 << 20

// Fetched is the outcome of downloading one source.
type Fetched struct {
	URL     string
	Body    []byte
	Status  int
	Elapsed time.Duration
	Err     error
}

// Fetcher downloads playlists over HTTP.
type Fetcher struct {
	Client    *http.Client
	Workers   int
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64
}

// NewFetcher returns a Fetcher with workers parallel downloads and a
// per-request timeout.
func NewFetcher(workers int, timeout time.Duration) *Fetcher {
	if workers <= 0 {
		workers = 5
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Fetcher{
		Client:    &http.Client{},
		Workers:   workers,
		Timeout:   timeout,
		UserAgent: probe.DefaultUserAgent,
		MaxBytes:  DefaultMaxBytes,
	}
}

// Fetch downloads every URL. The result at index i belongs to urls[i].
func (f *Fetcher) Fetch(ctx context.Context, urls []string) []Fetched {
	results := make([]Fetched, len(urls))
	if len(urls) == 0 {
		return results
	}

	numWorkers := f.Workers
	if numWorkers > len(urls) {
		numWorkers = len(urls)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				// Each worker owns the slots of the indexes it receives.
				results[idx] = f.fetchOne(ctx, urls[idx])
			}
		}()
	}

	for i := range urls {
		if ctx.Err() != nil {
			results[i] = Fetched{URL: urls[i], Err: ctx.Err()}
			continue
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func (f *Fetcher) fetchOne(ctx context.Context, url string) Fetched {
	start := time.Now()
	result := Fetched{URL: url}

	body, status, err := f.get(ctx, url)
	result.Body = body
	result.Status = status
	result.Err = err
	result.Elapsed = time.Since(start)

	metrics.SourceFetchDuration.Observe(result.Elapsed.Seconds())
	if err != nil {
		metrics.SourceFetchesTotal.WithLabelValues("error").Inc()
		logging.Warn("Failed to fetch source %s: %v", url, err)
		return result
	}
	metrics.SourceFetchesTotal.WithLabelValues("success").Inc()
	logging.Debug("Fetched source %s (%d bytes in %v)", url, len(body), result.Elapsed.Round(time.Millisecond))
	return result
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, int, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, 0, errors.New("source URL is empty")
	}

	reqCtx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status)
	}

	maxBytes := f.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > maxBytes {
		return nil, resp.StatusCode, fmt.Errorf("playlist exceeds %d bytes", maxBytes)
	}
	return body, resp.StatusCode, nil
}
