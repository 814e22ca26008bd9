package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"Peek/pkg/screen"
)

// ========================================
// Journal - SQLite event journal
// ========================================

// Journal persists dispatched events to a SQLite database so recent
// activity can be queried after the fact. Writes are buffered and
// flushed on a timer or when the buffer fills.
type Journal struct {
	db     *sql.DB
	dbPath string

	writeBuffer    []screen.StoredEvent
	writeBufferMu  sync.Mutex
	flushInterval  time.Duration
	flushThreshold int
	flushTicker    *time.Ticker
	stopChan       chan struct{}

	stmtInsert *sql.Stmt
}

const journalSchemaSQL = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA cache_size = -64000;
PRAGMA temp_store = MEMORY;

CREATE TABLE IF NOT EXISTS events (
    id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    raw_kind INTEGER NOT NULL,
    owner_id TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL DEFAULT '',
    item_count INTEGER NOT NULL DEFAULT 0,
    timestamp INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_time ON events(timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_events_owner ON events(owner_id, timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind, timestamp DESC);
`

// OpenJournal opens (or creates) the journal database under dataDir.
func OpenJournal(dataDir string) (*Journal, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "events.db")

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=-64000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	j := &Journal{
		db:             db,
		dbPath:         dbPath,
		writeBuffer:    make([]screen.StoredEvent, 0, 256),
		flushInterval:  500 * time.Millisecond,
		flushThreshold: 200,
		stopChan:       make(chan struct{}),
	}

	if _, err := db.Exec(journalSchemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	j.stmtInsert, err = db.Prepare(`
		INSERT OR REPLACE INTO events (id, kind, raw_kind, owner_id, title, item_count, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare insert: %w", err)
	}

	j.startBackgroundWriter()

	JournalLog().Str("path", dbPath).Msg("Event journal opened")
	return j, nil
}

func (j *Journal) startBackgroundWriter() {
	j.flushTicker = time.NewTicker(j.flushInterval)

	go func() {
		for {
			select {
			case <-j.flushTicker.C:
				j.Flush()
			case <-j.stopChan:
				j.flushTicker.Stop()
				j.Flush()
				return
			}
		}
	}()
}

// Record buffers one event for persistence.
func (j *Journal) Record(ev screen.Event) {
	stored := screen.StoredEvent{
		ID:        ev.ID,
		Kind:      ev.Kind,
		RawKind:   ev.RawKind,
		OwnerID:   ev.OwnerID,
		Title:     ev.Title,
		ItemCount: ev.ItemCount,
		Timestamp: ev.Timestamp,
	}

	j.writeBufferMu.Lock()
	j.writeBuffer = append(j.writeBuffer, stored)
	shouldFlush := len(j.writeBuffer) >= j.flushThreshold
	j.writeBufferMu.Unlock()

	if shouldFlush {
		go j.Flush()
	}
}

// Flush writes the buffered events in a single transaction.
func (j *Journal) Flush() {
	j.writeBufferMu.Lock()
	if len(j.writeBuffer) == 0 {
		j.writeBufferMu.Unlock()
		return
	}
	batch := j.writeBuffer
	j.writeBuffer = make([]screen.StoredEvent, 0, 256)
	j.writeBufferMu.Unlock()

	tx, err := j.db.Begin()
	if err != nil {
		JournalLog().Err(err).Int("count", len(batch)).Msg("Failed to begin flush transaction")
		return
	}

	stmt := tx.Stmt(j.stmtInsert)
	for _, ev := range batch {
		if _, err := stmt.Exec(ev.ID, string(ev.Kind), ev.RawKind, ev.OwnerID, ev.Title, ev.ItemCount, ev.Timestamp); err != nil {
			JournalLog().Err(err).Str("eventId", ev.ID).Msg("Failed to insert event")
		}
	}

	if err := tx.Commit(); err != nil {
		JournalLog().Err(err).Int("count", len(batch)).Msg("Failed to commit flush")
		return
	}

	LogDebug("journal").Int("count", len(batch)).Msg("Flushed events")
}

// Recent returns up to limit events ordered newest first. Buffered
// events are flushed first so callers see everything recorded so far.
func (j *Journal) Recent(limit int) ([]screen.StoredEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	j.Flush()

	rows, err := j.db.Query(`
		SELECT id, kind, raw_kind, owner_id, title, item_count, timestamp
		FROM events ORDER BY timestamp DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := make([]screen.StoredEvent, 0, limit)
	for rows.Next() {
		var ev screen.StoredEvent
		var kind string
		if err := rows.Scan(&ev.ID, &kind, &ev.RawKind, &ev.OwnerID, &ev.Title, &ev.ItemCount, &ev.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		ev.Kind = screen.EventKind(kind)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// CleanupBefore deletes events older than the cutoff. Returns the number
// of rows removed.
func (j *Journal) CleanupBefore(cutoff time.Time) (int, error) {
	res, err := j.db.Exec(`DELETE FROM events WHERE timestamp < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old events: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		JournalLog().Int64("removed", n).Msg("Cleaned up old events")
	}
	return int(n), nil
}

// Close flushes outstanding events and closes the database.
func (j *Journal) Close() error {
	close(j.stopChan)

	// Give the background writer a moment to finish its final flush.
	time.Sleep(100 * time.Millisecond)

	if j.stmtInsert != nil {
		j.stmtInsert.Close()
	}
	return j.db.Close()
}
