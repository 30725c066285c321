/*
Package sla holds the deadline rule table and the status classifier.

PURPOSE:
  Two pure decision tables with no I/O and no state:
  - Resolve maps a free-text visit-detail label (with the visit-type code as
    fallback) to a required number of working days.
  - Classify maps a signed remaining-days count to a status label.

RULE ORDER MATTERS:
  Resolve evaluates its predicates in a fixed order and the first match wins.
  A label like "2DA VISITA Y DOCUMENTOS" matches the ordinal rule (12 days)
  before the document rule (5 days) is ever considered. Reordering the table
  changes deadlines; the tests in sla_test.go pin the order.

UNRESOLVED LABELS:
  When neither the detail label nor the visit-type code matches, Resolve
  reports no rule. The reconciler leaves the record's derived fields blank and
  may resolve it on a future run once the source data improves.

SEE ALSO:
  - calendar: consumes the working-day counts produced here
  - ledger/reconciler.go: applies both tables to newly appended records
*/
package sla

import "strings"

// Working-day counts selected by the rule table.
const (
	DaysVisit     = 12 // ordinal visits and visit-with-documents
	DaysDocuments = 5  // standalone document deliveries
	DaysMetering  = 9  // direct/semi-direct/indirect metering, C08/C09 fallback
)

// ordinalMarkers are the visit ordinals that select the 12-day rule.
var ordinalMarkers = []string{"1ER", "1RA", "2DA", "3ER", "3RA", "4TA", "5TA"}

// meteringLabels select the 9-day rule on exact match.
var meteringLabels = map[string]bool{
	"DIRECTA":      true,
	"SEMIDIRECTA":  true,
	"INDIRECTA":    true,
}

// fallbackVisitTypes select the 9-day rule when the detail label resolved nothing.
var fallbackVisitTypes = map[string]bool{
	"C08": true,
	"C09": true,
}

// Resolve returns the required working days for a visit-detail label, falling
// back on the visit-type code when the label is inconclusive. ok is false when
// no rule matched. Comparisons are whitespace-trimmed and case-insensitive.
func Resolve(detail, visitType string) (days int, ok bool) {
	if days, ok = ResolveDetail(detail); ok {
		return days, true
	}
	return ResolveVisitType(visitType)
}

// ResolveDetail applies the ordered detail-label rules only.
func ResolveDetail(detail string) (days int, ok bool) {
	d := strings.ToUpper(strings.TrimSpace(detail))

	// 12 days: ordinal visit ("1ER VISITA", "3RA VISITA ...") even without
	// any mention of documents.
	if strings.Contains(d, "VISITA") && containsAny(d, ordinalMarkers) {
		return DaysVisit, true
	}

	// 12 days: visit combined with documents ("VISITA Y DOCUMENTOS").
	if strings.Contains(d, "VISITA") && strings.Contains(d, "DOC") {
		return DaysVisit, true
	}

	// 5 days: standalone documents, prefix match covers singular/plural.
	if d == "DOCUMENTOS" || strings.HasPrefix(d, "DOCUMENT") {
		return DaysDocuments, true
	}

	// 9 days: metering visit classes, exact match only.
	if meteringLabels[d] {
		return DaysMetering, true
	}

	return 0, false
}

// ResolveVisitType applies the visit-type fallback rule only.
func ResolveVisitType(visitType string) (days int, ok bool) {
	if fallbackVisitTypes[strings.ToUpper(strings.TrimSpace(visitType))] {
		return DaysMetering, true
	}
	return 0, false
}

// ForcedVisitType returns a visit-type code implied by the detail label, if
// any. A first-visit label always means a C07 work order, regardless of what
// code the feed carried.
func ForcedVisitType(detail string) (code string, ok bool) {
	if strings.Contains(strings.ToUpper(strings.TrimSpace(detail)), "1RA VISITA") {
		return "C07", true
	}
	return "", false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
