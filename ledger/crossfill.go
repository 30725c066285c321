/*
crossfill.go - Reference-dataset cross-fill (blank cells only)

PURPOSE:
  The reference dataset is independently maintained and knows three things
  the intake feeds often miss: promoter, phone and rated power. Cross-fill
  copies those attributes into the ledger, but only into cells that are
  currently blank. A non-blank value in the ledger always wins, whatever the
  reference says.

TWO PASSES PER RUN:
  1. Over the candidate records before they are appended.
  2. Over the whole ledger, catching pre-existing rows that were missing
     attributes before this run.
*/
package ledger

// crossFillColumns are the attributes owned by the reference dataset.
var crossFillColumns = []string{ColPromoter, ColPhone, ColRatedPowerKW}

// CrossFillRecords fills blank promoter/phone/power fields on candidate
// records from the reference lookup. Returns the number of cells filled.
func CrossFillRecords(records []Record, ref map[string]ReferenceEntry) int {
	if len(ref) == 0 {
		return 0
	}
	filled := 0
	for i := range records {
		entry, ok := ref[NormalizeKey(records[i].OrderID)]
		if !ok {
			continue
		}
		if isBlank(records[i].Promoter) && !isBlank(entry.Promoter) {
			records[i].Promoter = entry.Promoter
			filled++
		}
		if isBlank(records[i].Phone) && !isBlank(entry.Phone) {
			records[i].Phone = entry.Phone
			filled++
		}
		if isBlank(records[i].RatedPowerKW) && !isBlank(entry.RatedPowerKW) {
			records[i].RatedPowerKW = entry.RatedPowerKW
			filled++
		}
	}
	return filled
}

// CrossFillTable fills blank promoter/phone/power cells across every ledger
// row whose key is present in the lookup. Returns the number of cells filled.
func CrossFillTable(t *Table, ref map[string]ReferenceEntry) int {
	if len(ref) == 0 {
		return 0
	}
	filled := 0
	for row := 0; row < t.RowCount(); row++ {
		entry, ok := ref[NormalizeKey(t.Get(row, ColOrderID))]
		if !ok {
			continue
		}
		for _, col := range crossFillColumns {
			if !t.Schema().Has(col) {
				continue
			}
			if !isBlank(t.Get(row, col)) {
				continue
			}
			if v := entry.value(col); !isBlank(v) {
				t.Set(row, col, v)
				filled++
			}
		}
	}
	return filled
}

func (e ReferenceEntry) value(col string) string {
	switch col {
	case ColPromoter:
		return e.Promoter
	case ColPhone:
		return e.Phone
	case ColRatedPowerKW:
		return e.RatedPowerKW
	}
	return ""
}
