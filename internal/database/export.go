package database

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"iptv-ranker/internal/candidate"
	"iptv-ranker/internal/logging"
)

// ExportRanked writes entries, in order, to a fresh SQLite file at path.
// Any existing file at path is replaced.
func ExportRanked(ctx context.Context, path string, entries []candidate.Entry, generatedAt time.Time) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove previous export: %w", err)
	}

	d, err := New(ctx, path)
	if err != nil {
		return err
	}

	if err := d.ReplaceStreams(ctx, entries, generatedAt); err != nil {
		_ = d.Close()
		return err
	}
	if err := d.Close(); err != nil {
		return fmt.Errorf("failed to close export: %w", err)
	}

	logging.Debug("Wrote %d streams to %s", len(entries), path)
	return nil
}

// ReadExport returns the streams of a previous export at path as unprobed
// candidates, in rank order.
func ReadExport(ctx context.Context, path string) ([]candidate.Entry, error) {
	// New would create a missing file.
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	d, err := New(ctx, path)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	streams, err := d.Streams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read streams: %w", err)
	}

	entries := make([]candidate.Entry, len(streams))
	for i, s := range streams {
		entries[i] = candidate.New(s.Name, s.ID, s.Logo, s.Group, s.Endpoint)
	}
	return entries, nil
}

// ReplaceStreams swaps the stored streams for entries in one transaction.
func (d *Database) ReplaceStreams(ctx context.Context, entries []candidate.Entry, generatedAt time.Time) (err error) {
	tx, err := d.BeginBatch(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin export: %w", err)
	}
	defer func() {
		err = d.EndBatch(tx, err)
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM streams"); err != nil {
		return fmt.Errorf("failed to clear streams: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO streams (rank, name, tvg_id, logo, group_title, link, speed)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(link) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		// SQLite stores +Inf as REAL, but ranked entries are always measured.
		speed := e.Latency
		if math.IsInf(speed, 0) || math.IsNaN(speed) {
			speed = -1
		}
		if _, err = stmt.ExecContext(ctx, i+1, e.Name, e.ID, e.Logo, e.Group, e.Endpoint, speed); err != nil {
			return fmt.Errorf("failed to insert stream %s: %w", e.Endpoint, err)
		}
	}

	if err = writeExportMetadata(ctx, tx, generatedAt, len(entries)); err != nil {
		return fmt.Errorf("failed to store metadata: %w", err)
	}
	return nil
}

// Streams returns the stored streams in rank order.
func (d *Database) Streams(ctx context.Context) ([]candidate.Entry, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := d.db.QueryContext(ctx, `
		SELECT rank, name, tvg_id, logo, group_title, link, speed
		FROM streams ORDER BY rank
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []candidate.Entry
	for rows.Next() {
		var (
			e    candidate.Entry
			rank int
		)
		if err := rows.Scan(&rank, &e.Name, &e.ID, &e.Logo, &e.Group, &e.Endpoint, &e.Latency); err != nil {
			return nil, err
		}
		e.Seq = rank - 1
		if e.Latency < 0 {
			e.Latency = candidate.Unmeasured
		} else {
			e.Available = candidate.Available
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
