package workbook

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/sla-engine/ledger"
)

func writeCSV(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestConsolidateCSV_MergesExports(t *testing.T) {
	dir := t.TempDir()

	// Two exports with different column orders and one absent column each.
	writeCSV(t, filepath.Join(dir, "pending_a.csv"),
		"Pedido,Nombre_Cliente,Direccion,Municipio\n"+
			"A100,CLIENTE UNO,CL 10,MEDELLIN\n"+
			"A200,CLIENTE DOS,CL 20,BELLO\n")
	writeCSV(t, filepath.Join(dir, "pending_b.csv"),
		"Municipio,Pedido,Actividad\n"+
			"ITAGUI,B300,ACVIS\n")

	outPath := filepath.Join(dir, "primary_feed.xlsx")
	n, err := ConsolidateCSV(filepath.Join(dir, "pending_*.csv"), outPath)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rows := readWorkbook(t, outPath)
	require.Len(t, rows, 4)
	assert.Equal(t, "Pedido", rows[0][0], "header row carries the upstream spelling")

	// Column alignment by header label, not by source position.
	headerIdx := make(map[string]int)
	for i, h := range rows[0] {
		headerIdx[h] = i
	}
	assert.Equal(t, "A100", rows[1][headerIdx["Pedido"]])
	assert.Equal(t, "MEDELLIN", rows[1][headerIdx["Municipio"]])
	assert.Equal(t, "B300", rows[3][headerIdx["Pedido"]])
	assert.Equal(t, "ITAGUI", rows[3][headerIdx["Municipio"]])
	assert.Equal(t, "ACVIS", rows[3][headerIdx["Actividad"]])
}

func TestConsolidateCSV_Latin1ExportHeadersAlign(t *testing.T) {
	// GIVEN: An upstream export in latin-1, accented headers as raw 0xF3
	//        bytes rather than UTF-8 sequences
	// WHEN: The export is consolidated
	// THEN: The accented merge columns bind instead of silently dropping

	dir := t.TempDir()
	content := []byte("Pedido,Tipo_Direcci\xf3n,Observaci\xf3n_Solicitud\n" +
		"A100,URBANO,SIN NOVEDAD\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pending_latin1.csv"), content, 0o644))

	outPath := filepath.Join(dir, "primary_feed.xlsx")
	n, err := ConsolidateCSV(filepath.Join(dir, "pending_*.csv"), outPath)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	rows := readWorkbook(t, outPath)
	require.Len(t, rows, 2)
	headerIdx := make(map[string]int)
	for i, h := range rows[0] {
		headerIdx[h] = i
	}
	assert.Equal(t, "URBANO", rows[1][headerIdx["Tipo_Dirección"]])
	assert.Equal(t, "SIN NOVEDAD", rows[1][headerIdx["Observación_Solicitud"]])
}

func TestConsolidateCSV_NoMatchesIsAnError(t *testing.T) {
	dir := t.TempDir()

	_, err := ConsolidateCSV(filepath.Join(dir, "pending_*.csv"), filepath.Join(dir, "out.xlsx"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ledger.ErrMissingSource))
}

func TestConsolidateCSV_HeaderOnlyExportContributesNothing(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, filepath.Join(dir, "pending_empty.csv"),
		"Pedido,Nombre_Cliente\n")
	writeCSV(t, filepath.Join(dir, "pending_one.csv"),
		"Pedido,Nombre_Cliente\nA100,CLIENTE UNO\n")

	outPath := filepath.Join(dir, "primary_feed.xlsx")
	n, err := ConsolidateCSV(filepath.Join(dir, "pending_*.csv"), outPath)

	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
