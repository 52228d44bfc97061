package source

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"iptv-ranker/internal/candidate"
	"iptv-ranker/internal/database"
	"iptv-ranker/internal/logging"
	"iptv-ranker/internal/metrics"
	"iptv-ranker/internal/normalize"
	"iptv-ranker/internal/playlist"
)

// Config lists where candidates come from.
type Config struct {
	// Files are local candidate lists (CSV, or M3U by extension), read first.
	Files []string
	// URLs are remote M3U playlists, read after Files.
	URLs      []string
	Workers   int
	Timeout   time.Duration
	UserAgent string
}

// Stats summarizes an ingestion.
type Stats struct {
	Sources    int `json:"sources"`
	Failed     int `json:"failed"`
	Parsed     int `json:"parsed"`
	Filtered   int `json:"filtered"`
	Duplicates int `json:"duplicates"`
	Inserted   int `json:"inserted"`
}

// Ingest loads every configured source into store. Remote download failures
// are counted in Stats.Failed; unreadable local files abort with an error.
func Ingest(ctx context.Context, cfg Config, store *candidate.Store) (Stats, error) {
	var stats Stats

	for _, path := range cfg.Files {
		entries, err := ReadFile(ctx, path)
		if err != nil {
			return stats, err
		}
		stats.Sources++
		stats.add(store, entries)
		logging.Info("Loaded %d entries from %s", len(entries), path)
	}

	if len(cfg.URLs) > 0 {
		fetcher := NewFetcher(cfg.Workers, cfg.Timeout)
		if cfg.UserAgent != "" {
			fetcher.UserAgent = cfg.UserAgent
		}

		for _, fetched := range fetcher.Fetch(ctx, cfg.URLs) {
			stats.Sources++
			if fetched.Err != nil {
				stats.Failed++
				continue
			}
			entries, err := playlist.ParseM3U(bytes.NewReader(fetched.Body))
			if err != nil {
				logging.Warn("Failed to parse source %s: %v", fetched.URL, err)
			}
			stats.add(store, entries)
			logging.Info("Parsed %d entries from %s", len(entries), fetched.URL)
		}
	}

	metrics.CandidatesTotal.Set(float64(store.Len()))
	metrics.CandidatesFiltered.Add(float64(stats.Filtered))
	metrics.CandidatesDuplicate.Add(float64(stats.Duplicates))

	return stats, nil
}

func (s *Stats) add(store *candidate.Store, entries []candidate.Entry) {
	s.Parsed += len(entries)
	kept, dropped := normalize.All(entries)
	s.Filtered += dropped
	for _, n := range kept {
		if store.Insert(n) {
			s.Inserted++
		} else {
			s.Duplicates++
		}
	}
}

// ReadFile reads a local candidate list. Files ending in .m3u or .m3u8 are
// parsed as playlists, .db and .sqlite files as a previous SQLite export,
// anything else as CSV.
func ReadFile(ctx context.Context, path string) ([]candidate.Entry, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		entries, err := database.ReadExport(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read candidate file %s: %w", path, err)
		}
		return entries, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open candidate file: %w", err)
	}
	defer f.Close()

	var entries []candidate.Entry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".m3u", ".m3u8":
		entries, err = playlist.ParseM3U(f)
	default:
		entries, err = playlist.ReadCSV(f)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read candidate file %s: %w", path, err)
	}
	return entries, nil
}
