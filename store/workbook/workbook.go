/*
Package workbook implements the ledger store interfaces over .xlsx files.

PURPOSE:
  Production persistence for the SLA engine. The ledger, both intake feeds
  and the reference dataset all live in Excel workbooks maintained alongside
  the operator's other tooling, so this package speaks xlsx via excelize.

OWNERSHIP DISCIPLINE:
  The engine owns appended rows, cross-filled cells and the three derived
  columns - nothing else. Commit therefore performs targeted writes
  (SetCellValue per tracked update, whole rows only at the tail) instead of
  rewriting sheets, so column widths, extra columns and conditional formats
  owned by the workbook survive every run.

SINGLE WRITE:
  Commit opens the workbook, applies the blank-row removal, the tracked
  updates and the appended rows, and saves once. Feed clearing is a separate
  operation invoked by the reconciler strictly after Commit succeeds.

SEE ALSO:
  - ledger/store.go: the interfaces implemented here
  - consolidate.go: CSV export merge into the primary feed
*/
package workbook

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/warp/sla-engine/ledger"
)

// =============================================================================
// LEDGER FILE
// =============================================================================

// LedgerFile is the excelize-backed ledger.LedgerStore.
type LedgerFile struct {
	Path  string
	Sheet string // empty means the active sheet
}

func (l *LedgerFile) Load(_ context.Context) (*ledger.Table, error) {
	if _, err := os.Stat(l.Path); err != nil {
		return nil, &ledger.MissingSourceError{Source: "ledger", Path: l.Path}
	}
	f, err := excelize.OpenFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", l.Path, err)
	}
	defer f.Close()

	sheet := l.sheetName(f)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read ledger sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, &ledger.SchemaError{Source: "ledger", Missing: ledger.CanonicalColumns}
	}
	return ledger.NewTable(rows[0], rows[1:])
}

func (l *LedgerFile) Commit(_ context.Context, t *ledger.Table) error {
	f, err := excelize.OpenFile(l.Path)
	if err != nil {
		return fmt.Errorf("open ledger %s: %w", l.Path, err)
	}
	defer f.Close()
	sheet := l.sheetName(f)

	// The table's row indexes assume the stray blank row is gone, so the
	// removal must happen before any indexed write.
	if t.BlankRowDropped() {
		if err := f.RemoveRow(sheet, 2); err != nil {
			return fmt.Errorf("drop blank ledger row: %w", err)
		}
	}

	for _, u := range t.Updates() {
		cell, err := excelize.CoordinatesToCellName(u.Col+1, u.Row+2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, u.Value); err != nil {
			return fmt.Errorf("write ledger cell %s: %w", cell, err)
		}
	}

	for i, row := range t.AppendedRows() {
		sheetRow := t.AppendStart() + i + 2 // +1 for header, +1 for 1-basing
		cell, err := excelize.CoordinatesToCellName(1, sheetRow)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("append ledger row %d: %w", sheetRow, err)
		}
	}

	if err := f.Save(); err != nil {
		return fmt.Errorf("save ledger %s: %w", l.Path, err)
	}
	return nil
}

func (l *LedgerFile) sheetName(f *excelize.File) string {
	if l.Sheet != "" {
		return l.Sheet
	}
	return f.GetSheetName(f.GetActiveSheetIndex())
}

// =============================================================================
// FEED FILE
// =============================================================================

// FeedFile is the excelize-backed ledger.FeedStore.
type FeedFile struct {
	Path  string
	Sheet string
	Name  string // "primary feed" / "secondary feed", used in errors
}

func (ff *FeedFile) Read(_ context.Context) (*ledger.Feed, error) {
	if _, err := os.Stat(ff.Path); err != nil {
		return nil, &ledger.MissingSourceError{Source: ff.Name, Path: ff.Path}
	}
	f, err := excelize.OpenFile(ff.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s %s: %w", ff.Name, ff.Path, err)
	}
	defer f.Close()

	sheet := ff.sheetName(f)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read %s sheet %s: %w", ff.Name, sheet, err)
	}
	if len(rows) == 0 {
		return &ledger.Feed{}, nil
	}

	headers := ledger.FoldHeaders(rows[0])
	feed := &ledger.Feed{Headers: headers}
	for _, raw := range rows[1:] {
		row := make(ledger.Row, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(raw) {
				row[h] = raw[i]
			} else {
				row[h] = ""
			}
		}
		feed.Rows = append(feed.Rows, row)
	}
	return feed, nil
}

// Clear deletes every data row, keeping the header and whatever templates,
// validations or macros the workbook carries.
func (ff *FeedFile) Clear(_ context.Context) error {
	f, err := excelize.OpenFile(ff.Path)
	if err != nil {
		return fmt.Errorf("open %s %s: %w", ff.Name, ff.Path, err)
	}
	defer f.Close()

	sheet := ff.sheetName(f)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read %s sheet %s: %w", ff.Name, sheet, err)
	}
	for i := len(rows); i >= 2; i-- {
		if err := f.RemoveRow(sheet, i); err != nil {
			return fmt.Errorf("clear %s row %d: %w", ff.Name, i, err)
		}
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("save %s %s: %w", ff.Name, ff.Path, err)
	}
	return nil
}

func (ff *FeedFile) sheetName(f *excelize.File) string {
	if ff.Sheet != "" {
		return ff.Sheet
	}
	return f.GetSheetName(f.GetActiveSheetIndex())
}

// =============================================================================
// REFERENCE FILE
// =============================================================================

// ReferenceFile is the excelize-backed ledger.ReferenceStore. Absence or a
// short schema is a logged no-op, never an error.
type ReferenceFile struct {
	Path  string
	Sheet string
	Log   *logrus.Logger
}

var referenceRequired = []string{
	ledger.ColOrderID, ledger.ColPromoter, ledger.ColPhone, ledger.ColRatedPowerKW,
}

func (rf *ReferenceFile) Read(_ context.Context) (map[string]ledger.ReferenceEntry, error) {
	if _, err := os.Stat(rf.Path); err != nil {
		rf.logger().WithField("path", rf.Path).Info("reference dataset absent")
		return nil, nil
	}
	f, err := excelize.OpenFile(rf.Path)
	if err != nil {
		rf.logger().WithError(err).Warn("reference dataset unreadable, cross-fill skipped")
		return nil, nil
	}
	defer f.Close()

	sheet := rf.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	rows, err := f.GetRows(sheet)
	if err != nil || len(rows) == 0 {
		rf.logger().Warn("reference dataset empty, cross-fill skipped")
		return nil, nil
	}

	// Bind reference headers through the alias table (rated power may
	// arrive bracketed).
	index := make(map[string]int)
	for i, h := range ledger.FoldHeaders(rows[0]) {
		if canonical, ok := ledger.ReferenceAliases[h]; ok {
			h = canonical
		}
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	for _, col := range referenceRequired {
		if _, ok := index[col]; !ok {
			rf.logger().WithField("missing", col).Warn("reference dataset missing required column, cross-fill skipped")
			return nil, nil
		}
	}

	get := func(row []string, col string) string {
		i := index[col]
		if i < len(row) {
			return row[i]
		}
		return ""
	}

	entries := make(map[string]ledger.ReferenceEntry)
	for _, row := range rows[1:] {
		key := ledger.NormalizeKey(get(row, ledger.ColOrderID))
		if key == "" {
			continue
		}
		entries[key] = ledger.ReferenceEntry{
			Promoter:     get(row, ledger.ColPromoter),
			Phone:        get(row, ledger.ColPhone),
			RatedPowerKW: ledger.NormalizePower(get(row, ledger.ColRatedPowerKW)),
		}
	}
	return entries, nil
}

func (rf *ReferenceFile) logger() *logrus.Logger {
	if rf.Log != nil {
		return rf.Log
	}
	return logrus.StandardLogger()
}
