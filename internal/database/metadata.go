package database

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"
)

// Metadata keys written with every export
const (
	metaGeneratedAt = "generated_at"
	metaStreamCount = "stream_count"
)

// GetMetadata returns the value stored under key, or sql.ErrNoRows.
func (d *Database) GetMetadata(ctx context.Context, key string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var value string
	row := d.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key)
	if err := row.Scan(&value); err != nil {
		return "", err
	}
	return value, nil
}

// writeExportMetadata records when the export was generated and how many
// streams it holds.
func writeExportMetadata(ctx context.Context, tx *sql.Tx, generatedAt time.Time, streams int) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO metadata (key, value) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	values := [][2]string{
		{metaGeneratedAt, generatedAt.UTC().Format(time.RFC3339)},
		{metaStreamCount, strconv.Itoa(streams)},
	}
	for _, kv := range values {
		if _, err := stmt.ExecContext(ctx, kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}

// GeneratedAt returns the generation time of the export, or the zero time
// for a database that holds none.
func (d *Database) GeneratedAt(ctx context.Context) (time.Time, error) {
	value, err := d.GetMetadata(ctx, metaGeneratedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows) || (err == nil && value == ""):
		return time.Time{}, nil
	case err != nil:
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, value)
}
