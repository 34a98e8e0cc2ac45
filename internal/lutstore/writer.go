package lutstore

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/MeKo-Tech/noiselut/internal/lut"

	_ "modernc.org/sqlite" // SQLite driver
)

const (
	// DefaultBatchSize is the number of buffers to hold before flushing to the database.
	DefaultBatchSize = 32
)

type entry struct {
	set string
	buf *lut.EncodedBuffer
}

// Writer writes lookup buffers to a store. It is safe for concurrent use.
type Writer struct {
	db        *sql.DB
	path      string
	batch     []entry
	metadata  Metadata
	batchSize int
	mu        sync.Mutex
}

// New creates a writer. The database is created if missing and the schema
// is initialized; existing metadata is replaced.
func New(path string, metadata Metadata) (*Writer, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	if err := insertMetadata(db, metadata); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to insert metadata: %w", err)
	}

	return &Writer{
		db:        db,
		path:      path,
		batch:     make([]entry, 0, DefaultBatchSize),
		batchSize: DefaultBatchSize,
		metadata:  metadata,
	}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS metadata (
			name TEXT NOT NULL,
			value TEXT
		);

		CREATE TABLE IF NOT EXISTS buffers (
			set_name TEXT NOT NULL,
			buffer_name TEXT NOT NULL,
			width INTEGER NOT NULL,
			wrap TEXT NOT NULL,
			filter TEXT NOT NULL,
			value_range TEXT NOT NULL,
			texels BLOB NOT NULL
		);

		CREATE UNIQUE INDEX IF NOT EXISTS buffer_index ON buffers (set_name, buffer_name);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

func insertMetadata(db *sql.DB, meta Metadata) error {
	if _, err := db.Exec("DELETE FROM metadata"); err != nil {
		return fmt.Errorf("failed to clear metadata: %w", err)
	}

	stmt, err := db.Prepare("INSERT INTO metadata (name, value) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare metadata insert: %w", err)
	}
	defer stmt.Close()

	for key, value := range meta.ToMap() {
		if _, err := stmt.Exec(key, value); err != nil {
			return fmt.Errorf("failed to insert metadata %q: %w", key, err)
		}
	}
	return nil
}

// WriteBuffer queues buf under set. When the batch is full it is flushed.
// The buffer is copied, so the caller may release it afterwards.
func (w *Writer) WriteBuffer(set string, buf *lut.EncodedBuffer) error {
	if buf == nil || buf.Width() == 0 {
		return fmt.Errorf("refusing to store empty buffer in set %q", set)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.batch = append(w.batch, entry{set: set, buf: buf.Clone()})
	if len(w.batch) >= w.batchSize {
		return w.flushLocked()
	}
	return nil
}

// Flush writes any queued buffers to the database.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.flushLocked()
}

func (w *Writer) flushLocked() error {
	if len(w.batch) == 0 {
		return nil
	}

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO buffers
		(set_name, buffer_name, width, wrap, filter, value_range, texels)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range w.batch {
		data, err := packTexels(e.buf.Texels)
		if err != nil {
			return fmt.Errorf("failed to pack %s/%s: %w", e.set, e.buf.Name, err)
		}
		if _, err := stmt.Exec(e.set, e.buf.Name, e.buf.Width(),
			string(e.buf.Sampler.Wrap), string(e.buf.Sampler.Filter), string(e.buf.Range), data); err != nil {
			return fmt.Errorf("failed to insert %s/%s: %w", e.set, e.buf.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	w.batch = w.batch[:0]
	return nil
}

// Close flushes remaining buffers and closes the database.
func (w *Writer) Close() error {
	if err := w.Flush(); err != nil {
		w.db.Close()
		return err
	}
	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
