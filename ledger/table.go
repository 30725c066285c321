/*
table.go - In-memory view of the ledger workbook for one run

PURPOSE:
  The reconciler never edits the workbook directly. A store loads the ledger
  into a Table, the run mutates the Table in memory, and a single Commit
  persists it. The Table therefore tracks exactly what the run is allowed to
  change: cell updates on pre-existing rows (cross-fill only) and whole rows
  appended at the tail. Everything else in the workbook is out of the engine's
  ownership and must survive untouched.

BLANK ROW NORMALIZATION:
  Some hand-edited workbooks carry a stray, entirely blank row directly under
  the header. NewTable drops it before processing and flags the drop so the
  committing store can mirror the removal.

APPEND HANDLES:
  Append returns an explicit Handle per new record. The SLA step iterates
  these handles instead of inferring a contiguous row range from file size,
  so insertion-order changes can never point the step at the wrong rows.
*/
package ledger

// CellUpdate is one tracked mutation on a pre-existing row.
// Row is the 0-based data-row index (the header row is not counted),
// Col the 0-based column index.
type CellUpdate struct {
	Row   int
	Col   int
	Value string
}

// Handle identifies one record appended during the current run.
type Handle struct {
	Row     int // 0-based data-row index in the Table
	OrderID string
}

// Table is the mutable in-memory ledger for one run.
type Table struct {
	headers []string // folded actual header row, may exceed CanonicalColumns
	schema  *Schema
	rows    [][]string

	blankRowDropped bool
	appendStart     int
	updates         []CellUpdate
}

// NewTable binds the ledger schema over headers and adopts rows as the
// historical data region. An entirely blank first data row is dropped as a
// formatting artifact. All canonical columns are required; a missing one is
// a SchemaError.
func NewTable(headers []string, rows [][]string) (*Table, error) {
	schema, err := BindSchema("ledger", headers, CanonicalColumns)
	if err != nil {
		return nil, err
	}

	t := &Table{
		headers: FoldHeaders(headers),
		schema:  schema,
	}

	if len(rows) > 0 && rowIsBlank(rows[0]) {
		rows = rows[1:]
		t.blankRowDropped = true
	}
	t.rows = make([][]string, 0, len(rows))
	for _, row := range rows {
		t.rows = append(t.rows, padRow(row, len(t.headers)))
	}
	t.appendStart = len(t.rows)
	return t, nil
}

// Schema returns the one-shot column binding for this table.
func (t *Table) Schema() *Schema { return t.schema }

// Headers returns the folded header row.
func (t *Table) Headers() []string { return t.headers }

// RowCount returns the number of data rows, appended ones included.
func (t *Table) RowCount() int { return len(t.rows) }

// BlankRowDropped reports whether a stray blank row under the header was
// removed at load.
func (t *Table) BlankRowDropped() bool { return t.blankRowDropped }

// Get returns the cell value at row for a canonical column, "" if unbound.
func (t *Table) Get(row int, col string) string {
	i := t.schema.Col(col)
	if i < 0 || row < 0 || row >= len(t.rows) || i >= len(t.rows[row]) {
		return ""
	}
	return t.rows[row][i]
}

// Set writes a cell value. Mutations on pre-existing rows are tracked as
// CellUpdates so the committing store can write them without rewriting the
// whole sheet; appended rows are persisted wholesale and need no tracking.
func (t *Table) Set(row int, col, value string) {
	i := t.schema.Col(col)
	if i < 0 || row < 0 || row >= len(t.rows) {
		return
	}
	t.rows[row][i] = value
	if row < t.appendStart {
		t.updates = append(t.updates, CellUpdate{Row: row, Col: i, Value: value})
	}
}

// Append adds a record as a new tail row in canonical column order and
// returns its handle. Columns the schema does not bind stay blank.
func (t *Table) Append(rec Record) Handle {
	row := make([]string, len(t.headers))
	for _, col := range CanonicalColumns {
		if i := t.schema.Col(col); i >= 0 && i < len(row) {
			row[i] = rec.field(col)
		}
	}
	t.rows = append(t.rows, row)
	return Handle{Row: len(t.rows) - 1, OrderID: NormalizeKey(rec.OrderID)}
}

// HistoricalKeys returns the set of normalized non-blank order ids present
// before this run appended anything.
func (t *Table) HistoricalKeys() map[string]bool {
	keys := make(map[string]bool)
	for row := 0; row < t.appendStart; row++ {
		if k := NormalizeKey(t.Get(row, ColOrderID)); k != "" {
			keys[k] = true
		}
	}
	return keys
}

// Updates returns the tracked mutations on pre-existing rows.
func (t *Table) Updates() []CellUpdate { return t.updates }

// AppendStart returns the index of the first row appended this run.
func (t *Table) AppendStart() int { return t.appendStart }

// AppendedRows returns the rows appended this run, in append order.
func (t *Table) AppendedRows() [][]string { return t.rows[t.appendStart:] }

// Row returns a data row by index (shared backing array; callers must not
// mutate).
func (t *Table) Row(i int) []string { return t.rows[i] }

func rowIsBlank(row []string) bool {
	for _, v := range row {
		if !isBlank(v) {
			return false
		}
	}
	return true
}

func padRow(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}
