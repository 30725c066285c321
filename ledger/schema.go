/*
schema.go - Header folding and one-shot schema binding

PURPOSE:
  The ledger and both intake feeds are located by header label, not by fixed
  position. Instead of scanning the header row on every access, the binding is
  executed once per run: fold every header into canonical form, resolve each
  canonical column to a stable index, and fail fast with a SchemaError if a
  required label is absent. Everything downstream works through the resulting
  Schema accessor.

HEADER FOLDING:
  Trim, upper-case, spaces to underscores, and accent folding so the Spanish
  feed exports bind cleanly ("Dirección" -> "DIRECCION"). Folding is applied
  to workbook headers and to alias-table keys alike.
*/
package ledger

import (
	"strings"
)

// accentFold flattens the accented vowels that appear in the feed exports.
var accentFold = strings.NewReplacer(
	"Á", "A", "É", "E", "Í", "I", "Ó", "O", "Ú", "U",
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u",
	"Ñ", "N", "ñ", "n",
)

// FoldHeader normalizes one header label into canonical comparison form.
func FoldHeader(h string) string {
	h = strings.TrimSpace(h)
	h = accentFold.Replace(h)
	h = strings.ToUpper(h)
	h = strings.ReplaceAll(h, " ", "_")
	return h
}

// FoldHeaders normalizes a header row, dropping trailing blanks.
func FoldHeaders(headers []string) []string {
	out := make([]string, 0, len(headers))
	for _, h := range headers {
		out = append(out, FoldHeader(h))
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

// =============================================================================
// SCHEMA - Stable column binding for one run
// =============================================================================

// Schema maps canonical column names to column indexes in an actual header
// row. Built once per run; immutable afterwards.
type Schema struct {
	index map[string]int
	width int
}

// BindSchema folds headers and resolves every canonical column to an index.
// required lists the canonical columns that must be present; any absent one
// makes the binding fail with a SchemaError naming source.
func BindSchema(source string, headers []string, required []string) (*Schema, error) {
	folded := FoldHeaders(headers)
	s := &Schema{index: make(map[string]int, len(folded)), width: len(folded)}
	for i, h := range folded {
		if h == "" {
			continue
		}
		if _, dup := s.index[h]; !dup {
			s.index[h] = i
		}
	}

	var missing []string
	for _, col := range required {
		if _, ok := s.index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Source: source, Missing: missing}
	}
	return s, nil
}

// Col returns the column index for a canonical name, or -1 when unbound.
func (s *Schema) Col(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}

// Has reports whether the canonical column is bound.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Width returns the number of header cells the schema was bound over.
func (s *Schema) Width() int { return s.width }

// NormalizeKey trims and upper-cases an order id for set membership and
// reference lookups.
func NormalizeKey(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// isBlank reports whether a cell value is empty after trimming.
func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
