/*
store.go - Persistence interfaces between the reconciler and its files

PURPOSE:
  The reconciler is written against these interfaces, not against a workbook
  library. Production uses the excelize-backed implementations in
  store/workbook; tests use store/memory.

SINGLE-COMMIT CONTRACT:
  LedgerStore.Commit is the run's only durable write. Every in-memory
  mutation (appends, cross-fill updates, derived fields) becomes visible in
  one save; a failure at any earlier step leaves the ledger file untouched.

FEED CLEANUP ORDERING:
  FeedStore.Clear is invoked only after Commit succeeds. A crash between the
  two loses no source rows: the feeds still hold them and the next run
  re-ingests (the secondary feed deduplicates, the primary feed supersedes).

IMPLEMENTATIONS:
  - store/workbook: .xlsx files via excelize
  - store/memory:   in-memory, for engine tests
*/
package ledger

import "context"

// LedgerStore loads the ledger into a Table and commits it back.
type LedgerStore interface {
	// Load opens the ledger, drops a stray blank row under the header, binds
	// the schema and returns the table. A missing file is a
	// MissingSourceError; an unbindable header row is a SchemaError.
	Load(ctx context.Context) (*Table, error)

	// Commit persists the table's appended rows and tracked cell updates in a
	// single write, preserving all columns and formatting the engine does not
	// own.
	Commit(ctx context.Context, t *Table) error
}

// Row is one intake-feed row keyed by folded header label.
type Row map[string]string

// Feed is a raw intake feed: its folded header row plus data rows. Headers
// are carried separately so required-column checks work on an empty feed.
type Feed struct {
	Headers []string
	Rows    []Row
}

// FeedStore reads one intake feed and clears it after a successful commit.
type FeedStore interface {
	// Read returns the feed with folded headers. A missing file is a
	// MissingSourceError.
	Read(ctx context.Context) (*Feed, error)

	// Clear removes all data rows, keeping the header row, so a re-run does
	// not re-ingest the same records. Called only after Commit succeeds.
	Clear(ctx context.Context) error
}

// ReferenceStore reads the secondary reference dataset.
type ReferenceStore interface {
	// Read returns the key->attributes lookup. An absent file or a file
	// missing required columns yields (nil, nil): cross-fill is skipped,
	// logged, never fatal.
	Read(ctx context.Context) (map[string]ReferenceEntry, error)
}

// RunRecorder persists run results for later inspection. Optional.
type RunRecorder interface {
	RecordRun(ctx context.Context, result RunResult) error
}
