package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// SCHEMA BINDING
// =============================================================================

func TestFoldHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Dirección", "DIRECCION"},
		{"  Nombre Cliente ", "NOMBRE_CLIENTE"},
		{"PEDIDO", "PEDIDO"},
		{"Año", "ANO"},
		{"potencia ac kw", "POTENCIA_AC_KW"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FoldHeader(tt.in), "input %q", tt.in)
	}
}

func TestFoldHeaders_DropsTrailingBlanks(t *testing.T) {
	got := FoldHeaders([]string{"Pedido", "", "Cliente", "  ", ""})
	assert.Equal(t, []string{"PEDIDO", "", "CLIENTE"}, got)
}

func TestBindSchema_ResolvesIndexesOnce(t *testing.T) {
	s, err := BindSchema("test", []string{"Pedido", "Dirección", "Cliente"}, []string{"PEDIDO", "CLIENTE"})
	require.NoError(t, err)

	assert.Equal(t, 0, s.Col("PEDIDO"))
	assert.Equal(t, 1, s.Col("DIRECCION"))
	assert.Equal(t, 2, s.Col("CLIENTE"))
	assert.Equal(t, -1, s.Col("PROMOTER"))
	assert.True(t, s.Has("PEDIDO"))
	assert.False(t, s.Has("PROMOTER"))
	assert.Equal(t, 3, s.Width())
}

func TestBindSchema_MissingRequired(t *testing.T) {
	_, err := BindSchema("ledger", []string{"PEDIDO"}, []string{"PEDIDO", "CLIENTE", "PROMOTER"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchema))
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{"CLIENTE", "PROMOTER"}, schemaErr.Missing)
}

func TestBindSchema_DuplicateHeaderFirstWins(t *testing.T) {
	s, err := BindSchema("test", []string{"PEDIDO", "CLIENTE", "PEDIDO"}, []string{"PEDIDO"})
	require.NoError(t, err)
	assert.Equal(t, 0, s.Col("PEDIDO"))
}

// =============================================================================
// TABLE
// =============================================================================

func TestNewTable_DropsBlankFirstDataRow(t *testing.T) {
	blank := make([]string, len(CanonicalColumns))
	table, err := NewTable(CanonicalColumns, [][]string{
		blank,
		rowWith(map[string]string{ColOrderID: "A100"}),
	})
	require.NoError(t, err)

	assert.True(t, table.BlankRowDropped())
	assert.Equal(t, 1, table.RowCount())
	assert.Equal(t, "A100", table.Get(0, ColOrderID))
}

func TestNewTable_PadsShortRows(t *testing.T) {
	table, err := NewTable(CanonicalColumns, [][]string{{"A100"}})
	require.NoError(t, err)

	assert.Equal(t, "A100", table.Get(0, ColOrderID))
	assert.Equal(t, "", table.Get(0, ColSLAStatus), "short row reads as blank, not out of range")
}

func TestTable_AppendAndHandles(t *testing.T) {
	table, err := NewTable(CanonicalColumns, [][]string{
		rowWith(map[string]string{ColOrderID: "A100"}),
	})
	require.NoError(t, err)

	h := table.Append(Record{OrderID: " a200 ", Client: "CLIENTE DOS"})

	assert.Equal(t, 1, h.Row)
	assert.Equal(t, "A200", h.OrderID, "handle key is normalized")
	assert.Equal(t, 1, table.AppendStart())
	assert.Equal(t, 2, table.RowCount())
	require.Len(t, table.AppendedRows(), 1)
	assert.Equal(t, "CLIENTE DOS", table.Get(1, ColClient))
}

func TestTable_SetTracksOnlyHistoricalRows(t *testing.T) {
	table, err := NewTable(CanonicalColumns, [][]string{
		rowWith(map[string]string{ColOrderID: "A100"}),
	})
	require.NoError(t, err)
	table.Append(Record{OrderID: "A200"})

	table.Set(0, ColPromoter, "ACME") // historical row: tracked
	table.Set(1, ColPromoter, "ACME") // appended row: persisted wholesale

	updates := table.Updates()
	require.Len(t, updates, 1)
	assert.Equal(t, 0, updates[0].Row)
	assert.Equal(t, table.Schema().Col(ColPromoter), updates[0].Col)
	assert.Equal(t, "ACME", updates[0].Value)
}

func TestTable_HistoricalKeysExcludeAppendedRows(t *testing.T) {
	table, err := NewTable(CanonicalColumns, [][]string{
		rowWith(map[string]string{ColOrderID: " a100 "}),
		rowWith(map[string]string{ColOrderID: ""}),
	})
	require.NoError(t, err)
	table.Append(Record{OrderID: "A200"})

	keys := table.HistoricalKeys()

	assert.Equal(t, map[string]bool{"A100": true}, keys)
}

func TestTable_ExtraLedgerColumnsSurvive(t *testing.T) {
	// The real workbook carries operator-owned columns beyond the canonical
	// set; they must stay addressable and keep their width on append.
	headers := append(append([]string(nil), CanonicalColumns...), "NOTAS_INTERNAS")
	row := append(rowWith(map[string]string{ColOrderID: "A100"}), "no tocar")

	table, err := NewTable(headers, [][]string{row})
	require.NoError(t, err)

	h := table.Append(Record{OrderID: "A200"})
	appended := table.Row(h.Row)
	assert.Len(t, appended, len(headers))
	assert.Equal(t, "no tocar", table.Row(0)[len(headers)-1])
}
