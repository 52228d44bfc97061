package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"iptv-ranker/internal/database"
	"iptv-ranker/internal/logging"
	"iptv-ranker/internal/metrics"
	"iptv-ranker/internal/playlist"
	"iptv-ranker/internal/ranking"
	"iptv-ranker/internal/workers"
)

// Artifact formats
const (
	FormatM3U    = "m3u"
	FormatTXT    = "txt"
	FormatCSV    = "csv"
	FormatSQLite = "sqlite"
)

// Artifact is one written output file.
type Artifact struct {
	Format string `json:"format"`
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	// Digest is the hex xxh3 hash of the content, empty for SQLite.
	Digest string `json:"digest,omitempty"`
}

// renderJob produces one artifact into a temporary file
type renderJob struct {
	format string
	path   string
	render func(ctx context.Context, tmpPath string) (Artifact, error)
}

// rename is swapped in tests to fail a move.
var rename = os.Rename

// writeArtifacts renders every artifact concurrently and moves them into
// place only when all of them succeeded. ranked feeds the playlist and the
// capped listing; full feeds the CSV and SQLite exports.
func writeArtifacts(ctx context.Context, cfg Config, ranked, full ranking.Ranking, generatedAt time.Time) ([]Artifact, error) {
	dir := cfg.OutputDir
	if dir == "" {
		dir = "."
	}

	fastest := ranked.Fastest()
	capped := ranked.Entries()
	exported := full.Entries()
	groupOrder := cfg.GroupOrder
	if len(groupOrder) == 0 {
		groupOrder = playlist.DefaultGroupOrder
	}

	var jobs []renderJob
	if cfg.M3UName != "" {
		jobs = append(jobs, renderJob{
			format: FormatM3U,
			path:   filepath.Join(dir, cfg.M3UName),
			render: textRenderer(FormatM3U, func(w io.Writer) error {
				return playlist.WriteM3U(w, fastest)
			}),
		})
	}
	if cfg.TXTName != "" {
		layout := playlist.Layout{GroupOrder: groupOrder, GeneratedAt: generatedAt, StampURL: cfg.StampURL}
		jobs = append(jobs, renderJob{
			format: FormatTXT,
			path:   filepath.Join(dir, cfg.TXTName),
			render: textRenderer(FormatTXT, func(w io.Writer) error {
				return playlist.WriteGrouped(w, capped, layout)
			}),
		})
	}
	if cfg.CSVName != "" {
		jobs = append(jobs, renderJob{
			format: FormatCSV,
			path:   filepath.Join(dir, cfg.CSVName),
			render: textRenderer(FormatCSV, func(w io.Writer) error {
				return playlist.WriteCSV(w, exported)
			}),
		})
	}
	if cfg.SQLiteExport != "" {
		jobs = append(jobs, renderJob{
			format: FormatSQLite,
			path:   cfg.SQLiteExport,
			render: func(ctx context.Context, tmpPath string) (Artifact, error) {
				if err := database.ExportRanked(ctx, tmpPath, exported, generatedAt); err != nil {
					return Artifact{}, err
				}
				info, err := os.Stat(tmpPath)
				if err != nil {
					return Artifact{}, err
				}
				return Artifact{Format: FormatSQLite, Size: info.Size()}, nil
			},
		})
	}

	tmpPaths := make([]string, len(jobs))
	artifacts := make([]Artifact, len(jobs))
	cleanup := func() {
		for _, p := range tmpPaths {
			if p != "" {
				_ = os.Remove(p)
			}
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers.ForCPU(len(jobs)))
	for i, job := range jobs {
		i, job := i, job
		tmpPaths[i] = temporaryPath(job.path)
		g.Go(func() error {
			a, err := job.render(gctx, tmpPaths[i])
			if err != nil {
				return fmt.Errorf("failed to render %s: %w", job.format, err)
			}
			a.Path = job.path
			artifacts[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		cleanup()
		return nil, err
	}

	finalPaths := make([]string, len(jobs))
	for i, job := range jobs {
		finalPaths[i] = job.path
	}
	if err := publish(tmpPaths, finalPaths); err != nil {
		cleanup()
		return nil, err
	}

	for _, a := range artifacts {
		metrics.ArtifactsWritten.WithLabelValues(a.Format).Inc()
		metrics.ArtifactBytes.WithLabelValues(a.Format).Set(float64(a.Size))
		logging.Info("  [OK] Wrote %s (%s)", a.Path, humanize.Bytes(uint64(a.Size)))
	}

	return artifacts, nil
}

// publish moves each rendered file onto its final path. Existing files are
// set aside first; if any move fails, every final path is put back the way
// it was before the call.
func publish(tmpPaths, finalPaths []string) error {
	backups := make([]string, len(finalPaths))
	moved := 0

	var err error
	for i, final := range finalPaths {
		if _, statErr := os.Lstat(final); statErr == nil {
			backup := backupPath(final)
			if err = rename(final, backup); err != nil {
				err = fmt.Errorf("failed to set aside %s: %w", final, err)
				break
			}
			backups[i] = backup
		}
		if err = rename(tmpPaths[i], final); err != nil {
			err = fmt.Errorf("failed to move %s into place: %w", final, err)
			break
		}
		moved++
	}

	if err == nil {
		for _, b := range backups {
			if b != "" {
				_ = os.Remove(b)
			}
		}
		return nil
	}

	for i := moved; i >= 0; i-- {
		switch {
		case backups[i] != "":
			if rbErr := rename(backups[i], finalPaths[i]); rbErr != nil {
				logging.Error("Failed to restore %s: %v", finalPaths[i], rbErr)
			}
		case i < moved:
			_ = os.Remove(finalPaths[i])
		}
	}
	return err
}

// textRenderer writes a text artifact and records its size and digest.
func textRenderer(format string, write func(io.Writer) error) func(context.Context, string) (Artifact, error) {
	return func(ctx context.Context, tmpPath string) (Artifact, error) {
		if err := ctx.Err(); err != nil {
			return Artifact{}, err
		}

		f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			return Artifact{}, err
		}

		hasher := xxh3.New()
		counter := &countingWriter{}
		if err := write(io.MultiWriter(f, hasher, counter)); err != nil {
			_ = f.Close()
			return Artifact{}, err
		}
		if err := f.Close(); err != nil {
			return Artifact{}, err
		}

		return Artifact{
			Format: format,
			Size:   counter.n,
			Digest: fmt.Sprintf("%016x", hasher.Sum64()),
		}, nil
	}
}

// temporaryPath returns a hidden sibling of path, so the rename stays on
// one filesystem.
func temporaryPath(path string) string {
	return filepath.Join(filepath.Dir(path), fmt.Sprintf(".%s.%d.tmp", filepath.Base(path), time.Now().UnixNano()))
}

func backupPath(path string) string {
	return filepath.Join(filepath.Dir(path), fmt.Sprintf(".%s.%d.bak", filepath.Base(path), time.Now().UnixNano()))
}

type countingWriter struct {
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}
