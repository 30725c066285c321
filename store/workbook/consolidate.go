/*
consolidate.go - Merge raw CSV exports into the primary feed workbook

PURPOSE:
  The upstream system drops one CSV per work-order class (pending_*.csv).
  ConsolidateCSV concatenates them, aligns the columns onto the primary
  feed's fixed merge set (synthesizing blanks for absent columns), and writes
  the result as the primary feed workbook for the next reconciliation run.
*/
package workbook

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/warp/sla-engine/ledger"
)

// mergeColumns is the fixed column set of the consolidated primary feed, in
// the upstream export's own header spelling. The feed normalizer maps these
// onto the canonical schema at run time.
var mergeColumns = []string{
	"Pedido",
	"Tipo_Trabajo",
	"Fecha_Concepto",
	"Fecha_Inicio_ANS",
	"ClienteID",
	"Nombre_Cliente",
	"Direccion",
	"Municipio",
	"Subzona",
	"Coordenadax",
	"Coordenaday",
	"Actividad",
	"Tipo_Dirección",
	"Observación_Solicitud",
	"Pedido_CRM",
	"Detalle Visita",
	"Tipo Medidor",
}

// ConsolidateCSV merges every CSV matching pattern into a single primary
// feed workbook at outPath. Returns the number of data rows written.
// No matching files is an error: a consolidation run with nothing to
// consolidate is an operator mistake, not an empty feed.
func ConsolidateCSV(pattern, outPath string) (int, error) {
	files, err := filepath.Glob(pattern)
	if err != nil {
		return 0, fmt.Errorf("bad csv pattern %q: %w", pattern, err)
	}
	if len(files) == 0 {
		return 0, &ledger.MissingSourceError{Source: "csv exports", Path: pattern}
	}

	var merged [][]string
	for _, path := range files {
		rows, err := readCSV(path)
		if err != nil {
			return 0, err
		}
		merged = append(merged, rows...)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(mergeColumns))
	for i, c := range mergeColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return 0, err
	}
	for i, row := range merged {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return 0, err
		}
	}

	if err := f.SaveAs(outPath); err != nil {
		return 0, fmt.Errorf("save consolidated feed %s: %w", outPath, err)
	}
	return len(merged), nil
}

// readCSV reads one export and aligns it onto mergeColumns by header label.
// Exports arrive latin-1 encoded; decodeLatin1 lifts them onto UTF-8 so the
// accented headers ("Tipo_Dirección", "Observación_Solicitud") fold onto
// their merge columns instead of silently dropping.
func readCSV(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open csv %s: %w", path, err)
	}

	r := csv.NewReader(strings.NewReader(decodeLatin1(data)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	// Column index per merge column, by folded header.
	index := make(map[string]int)
	for i, h := range records[0] {
		index[ledger.FoldHeader(h)] = i
	}

	var rows [][]string
	for _, raw := range records[1:] {
		row := make([]string, len(mergeColumns))
		for j, col := range mergeColumns {
			if i, ok := index[ledger.FoldHeader(col)]; ok && i < len(raw) {
				row[j] = raw[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// decodeLatin1 converts a latin-1 byte stream to UTF-8. Latin-1 code points
// map 1:1 onto Unicode, so each high byte becomes its rune. Input that is
// already valid UTF-8 passes through unchanged.
func decodeLatin1(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}
