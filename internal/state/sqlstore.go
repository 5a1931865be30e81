package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hzerrad/cronloop/internal/errs"
)

// SQLiteStore persists the single SchedulerState document as one row of
// a scheduler_state table, using a real SQL transaction
// (BEGIN IMMEDIATE ... COMMIT/ROLLBACK) for the "at most one writer at a
// time, across processes sharing the store" contract a durable backend
// needs; SQLite's own locking does the job instead of a hand-rolled
// file lock.
type SQLiteStore struct {
	db    *sql.DB
	clock Clock
}

const schema = `
CREATE TABLE IF NOT EXISTS scheduler_state (
	id       INTEGER PRIMARY KEY CHECK (id = 1),
	version  INTEGER NOT NULL,
	document TEXT NOT NULL
);`

// OpenSQLiteStore opens (creating if necessary) a SQLite-backed store at
// path. The "_txlock=immediate" DSN parameter is what makes every
// transaction below BEGIN IMMEDIATE rather than SQLite's default
// deferred lock, so a writer never loses a race to upgrade a shared lock
// into an exclusive one.
func OpenSQLiteStore(path string, clock Clock) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_txlock=immediate", path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite state store: %w", err)
	}
	db.SetMaxOpenConns(1) // one writer at a time, in-process too

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create scheduler_state schema: %w", err)
	}

	return &SQLiteStore{db: db, clock: clock}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Transaction(fn func(h Handle) error) error {
	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &errs.StateTransactionError{Op: "begin", Cause: err}
	}

	existing, err := readDocument(tx)
	if err != nil {
		tx.Rollback()
		return &errs.StateTransactionError{Op: "read", Cause: err}
	}

	h := &sqlHandle{clock: s.clock, existing: existing}
	if err := fn(h); err != nil {
		tx.Rollback()
		return err
	}

	if h.staged != nil {
		if err := writeDocument(tx, *h.staged); err != nil {
			tx.Rollback()
			return &errs.StateTransactionError{Op: "write", Cause: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &errs.StateTransactionError{Op: "commit", Cause: err}
	}
	return nil
}

func readDocument(tx *sql.Tx) (*SchedulerState, error) {
	var version int
	var raw string
	err := tx.QueryRow(`SELECT version, document FROM scheduler_state WHERE id = 1`).Scan(&version, &raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if version != CurrentVersion {
		// An older schema version is discarded and rebuilt.
		return nil, nil
	}

	var doc SchedulerState
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		// An unparseable document is treated as absent.
		return nil, nil
	}
	return &doc, nil
}

func writeDocument(tx *sql.Tx, doc SchedulerState) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		`INSERT INTO scheduler_state (id, version, document) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET version = excluded.version, document = excluded.document`,
		doc.Version, string(raw),
	)
	return err
}

type sqlHandle struct {
	clock    Clock
	existing *SchedulerState
	staged   *SchedulerState
}

func (h *sqlHandle) GetExistingState() (SchedulerState, bool) {
	if h.existing == nil {
		return SchedulerState{}, false
	}
	return h.existing.Clone(), true
}

func (h *sqlHandle) GetCurrentState() SchedulerState {
	if h.existing != nil {
		return h.existing.Clone()
	}
	return NewState(h.clock.Now())
}

func (h *sqlHandle) SetState(s SchedulerState) {
	doc := s.Clone()
	h.staged = &doc
}
