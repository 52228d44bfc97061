package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"iptv-ranker/internal/logging"
)

// Default timeout for database operations
const defaultTimeout = 5 * time.Second

// Database wraps a SQLite export file.
type Database struct {
	db      *sql.DB
	dbPath  string
	mu      sync.RWMutex
	txStart time.Time
}

// New opens (creating if needed) the SQLite file at dbPath and ensures the
// export schema exists. The parent directory must already exist.
func New(ctx context.Context, dbPath string) (*Database, error) {
	logging.Debug("Database path: %s", dbPath)

	if info, err := os.Stat(filepath.Dir(dbPath)); err != nil {
		return nil, fmt.Errorf("database directory unavailable: %w", err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("database directory %s is not a directory", filepath.Dir(dbPath))
	}

	// One writer produces the file; a rollback journal leaves a single file
	// behind once it is closed.
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=DELETE&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	d := &Database{db: db, dbPath: dbPath}
	if err := d.setup(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after setup failure: %v", closeErr)
		}
		return nil, err
	}
	return d, nil
}

// setup checks the connection and creates the schema.
func (d *Database) setup(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	if err := d.db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := d.initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}
	return nil
}

func (d *Database) initialize(ctx context.Context) error {
	schema := `
	-- Ranked streams, in output order
	CREATE TABLE IF NOT EXISTS streams (
		rank INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		tvg_id TEXT NOT NULL,
		logo TEXT NOT NULL DEFAULT '',
		group_title TEXT NOT NULL DEFAULT '',
		link TEXT NOT NULL UNIQUE,
		speed REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_streams_name ON streams(name);
	CREATE INDEX IF NOT EXISTS idx_streams_group ON streams(group_title);

	-- Export metadata (generated_at, stream_count)
	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT
	);
	`

	_, err := d.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// Path returns the database file path.
func (d *Database) Path() string {
	return d.dbPath
}

// BeginBatch starts the transaction that a whole export is written in.
// Finish it with EndBatch.
func (d *Database) BeginBatch(ctx context.Context) (*sql.Tx, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.txStart = time.Now()
	return d.db.BeginTx(ctx, nil)
}

// EndBatch commits tx, or rolls it back when err is non-nil and returns err
// joined with any rollback failure.
func (d *Database) EndBatch(tx *sql.Tx, err error) error {
	defer logging.Debug("Export transaction finished in %v", time.Since(d.txStart).Round(time.Millisecond))

	if err == nil {
		return tx.Commit()
	}
	if rbErr := tx.Rollback(); rbErr != nil {
		return errors.Join(err, fmt.Errorf("rollback failed: %w", rbErr))
	}
	return err
}
