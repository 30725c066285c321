/*
Package sqlite persists reconciliation run history.

PURPOSE:
  A run's outcome matters after the process exits: the operator (and the
  HTTP panel) need to see what the last runs did, how many records each
  appended and why one failed. This store keeps that history in a local
  SQLite database, append-only.

APPEND-ONLY:
  Runs are immutable facts. There is no UPDATE or DELETE on the runs table;
  a re-run is a new row.

WAL MODE:
  The database is opened with WAL so the HTTP reader never blocks the
  batch writer.

USAGE:
  store, err := sqlite.New("./runs.db")   // ":memory:" for tests
  defer store.Close()
  reconciler.Runs = store

SEE ALSO:
  - ledger/store.go: the RunRecorder interface implemented here
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/sla-engine/ledger"
)

// Store implements ledger.RunRecorder over SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (creating if needed) the run-history database.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Run history (append-only)
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		outcome TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		appended INTEGER NOT NULL,
		computed INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		cross_filled INTEGER NOT NULL,
		new_order_ids_json TEXT,
		error TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordRun appends one run result.
func (s *Store) RecordRun(ctx context.Context, result ledger.RunResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := json.Marshal(result.NewOrderIDs)
	if err != nil {
		return err
	}
	errText := ""
	if result.Err != nil {
		errText = result.Err.Error()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, outcome, started_at, finished_at,
			appended, computed, skipped, cross_filled, new_order_ids_json, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.RunID,
		string(result.Outcome),
		result.Started.UTC().Format(time.RFC3339Nano),
		result.Finished.UTC().Format(time.RFC3339Nano),
		result.Appended,
		result.Computed,
		result.Skipped,
		result.CrossFilled,
		string(ids),
		errText,
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", result.RunID, err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]ledger.RunResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, outcome, started_at, finished_at,
			appended, computed, skipped, cross_filled, new_order_ids_json, error
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []ledger.RunResult
	for rows.Next() {
		var (
			r                 ledger.RunResult
			outcome           string
			started, finished string
			idsJSON, errText  string
		)
		if err := rows.Scan(&r.RunID, &outcome, &started, &finished,
			&r.Appended, &r.Computed, &r.Skipped, &r.CrossFilled,
			&idsJSON, &errText); err != nil {
			return nil, err
		}
		r.Outcome = ledger.Outcome(outcome)
		if t, err := time.Parse(time.RFC3339Nano, started); err == nil {
			r.Started = t
		}
		if t, err := time.Parse(time.RFC3339Nano, finished); err == nil {
			r.Finished = t
		}
		if idsJSON != "" {
			if err := json.Unmarshal([]byte(idsJSON), &r.NewOrderIDs); err != nil {
				return nil, fmt.Errorf("corrupt order id list for run %s: %w", r.RunID, err)
			}
		}
		if errText != "" {
			r.Err = fmt.Errorf("%s", errText)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
