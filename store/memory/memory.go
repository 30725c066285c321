// Package memory provides in-memory implementations of the ledger store
// interfaces for tests and development. Semantics mirror store/workbook:
// single-write commit, header-folded feed rows, post-commit feed clearing.
package memory

import (
	"context"
	"sync"

	"github.com/warp/sla-engine/ledger"
)

// =============================================================================
// LEDGER
// =============================================================================

// Ledger is an in-memory ledger.LedgerStore.
type Ledger struct {
	mu      sync.Mutex
	headers []string
	rows    [][]string
	missing bool

	Commits   int   // number of successful commits, for test assertions
	CommitErr error // when set, Commit fails without persisting anything
}

// NewLedger seeds an in-memory ledger with a header row and data rows.
func NewLedger(headers []string, rows [][]string) *Ledger {
	l := &Ledger{headers: append([]string(nil), headers...)}
	for _, row := range rows {
		l.rows = append(l.rows, append([]string(nil), row...))
	}
	return l
}

// NewMissingLedger simulates an absent ledger file.
func NewMissingLedger() *Ledger { return &Ledger{missing: true} }

func (l *Ledger) Load(_ context.Context) (*ledger.Table, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.missing {
		return nil, &ledger.MissingSourceError{Source: "ledger", Path: "(memory)"}
	}
	rows := make([][]string, len(l.rows))
	for i, row := range l.rows {
		rows[i] = append([]string(nil), row...)
	}
	return ledger.NewTable(l.headers, rows)
}

func (l *Ledger) Commit(_ context.Context, t *ledger.Table) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.CommitErr != nil {
		return l.CommitErr
	}

	// Mirror the table's view wholesale: the table already reflects the
	// blank-row drop, the cell updates and the appended rows.
	rows := make([][]string, t.RowCount())
	for i := range rows {
		rows[i] = append([]string(nil), t.Row(i)...)
	}
	l.rows = rows
	l.Commits++
	return nil
}

// Rows returns a copy of the committed data rows.
func (l *Ledger) Rows() [][]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	rows := make([][]string, len(l.rows))
	for i, row := range l.rows {
		rows[i] = append([]string(nil), row...)
	}
	return rows
}

// =============================================================================
// FEED
// =============================================================================

// Feed is an in-memory ledger.FeedStore.
type Feed struct {
	mu      sync.Mutex
	headers []string
	rows    []ledger.Row
	missing bool

	Cleared int // number of Clear calls, for test assertions
}

// NewFeed seeds a feed with folded headers and rows.
func NewFeed(headers []string, rows []ledger.Row) *Feed {
	return &Feed{headers: headers, rows: rows}
}

// NewMissingFeed simulates an absent feed file.
func NewMissingFeed() *Feed { return &Feed{missing: true} }

func (f *Feed) Read(_ context.Context) (*ledger.Feed, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.missing {
		return nil, &ledger.MissingSourceError{Source: "feed", Path: "(memory)"}
	}
	return &ledger.Feed{Headers: f.headers, Rows: f.rows}, nil
}

func (f *Feed) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = nil
	f.Cleared++
	return nil
}

// =============================================================================
// REFERENCE
// =============================================================================

// Reference is an in-memory ledger.ReferenceStore.
type Reference struct {
	Entries map[string]ledger.ReferenceEntry
}

func (r *Reference) Read(_ context.Context) (map[string]ledger.ReferenceEntry, error) {
	return r.Entries, nil
}
