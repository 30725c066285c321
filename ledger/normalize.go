/*
normalize.go - Intake-feed adapters onto the canonical schema

PURPOSE:
  Each intake feed arrives with its own Spanish export headers and quirks.
  The two normalizers here rename source headers onto canonical column names
  via fixed alias tables, verify the minimum column set, trim/upper-case the
  key text fields, apply the sub-zone lookup tables and drop rows without an
  order id. The output is a slice of candidate Records in canonical form;
  everything after this point is feed-agnostic.

FEED QUIRKS HANDLED:
  - Primary: address cells prefixed with a protective apostrophe; sub-zone
    "METROPOLITANA SUR" spelling variants; activity code mapped to a visit
    type only when the detail label resolves nothing.
  - Secondary: coded sub-zone column (ORI/MET/...); rated power under an
    aliased header; attention date and visit time always start blank.

HARD VS SOFT FAILURES:
  A missing required column is a SchemaError for the whole feed. Per-field
  oddities (unparseable power, unknown sub-zone code) degrade to a pass-through
  or blank value and never fail the run.
*/
package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/sla-engine/sla"
)

// Feed-only columns that never reach the ledger.
const (
	colActivity    = "ACTIVITY"
	colSubzoneCode = "SUBZONE_CODE"
)

// =============================================================================
// ALIAS TABLES - folded source header -> canonical column
// =============================================================================

var primaryAliases = map[string]string{
	"PEDIDO":              ColOrderID,
	"DIRECCION":           ColAddress,
	"MUNICIPIO":           ColMunicipality,
	"NOMBRE_CLIENTE":      ColClient,
	"CLIENTE":             ColClient,
	"SUBZONA":             ColSubzone,
	"COORDENADAX":         ColCoordX,
	"COORDENADAY":         ColCoordY,
	"FECHA_INICIO_ANS":    ColStatusChangeDate,
	"FECHA_CAMBIO_ESTADO": ColStatusChangeDate,
	"DETALLE_VISITA":      ColVisitDetail,
	"TIPO_VISITA":         ColVisitType,
	"TIPO_DIRECCION":      ColUrbanRural,
	"URBANO/RURAL":        ColUrbanRural,
	"URBANO_RURAL":        ColUrbanRural,
	"TIPO_MEDIDOR":        ColMeterType,
	"TIPO_MEDIDOR_":       ColMeterType,
	"TIPO_DE_MEDIDOR":     ColMeterType,
	"MEDIDOR":             ColMeterType,
	"ACTIVIDAD":           colActivity,
}

var secondaryAliases = map[string]string{
	"PEDIDO":              ColOrderID,
	"DIRECCION":           ColAddress,
	"MUNICIPIO":           ColMunicipality,
	"CLIENTE":             ColClient,
	"NOMBRE_CLIENTE":      ColClient,
	"SUBZONA":             ColSubzone,
	"SUBZONA_ID":          colSubzoneCode,
	"PROMOTOR":            ColPromoter,
	"CELULAR":             ColPhone,
	"POTENCIA_AC_KW":      ColRatedPowerKW,
	"POTENCIA_AC_[KW]":    ColRatedPowerKW,
	"DETALLE_VISITA":      ColVisitDetail,
	"COORDENADAX":         ColCoordX,
	"COORDENADAY":         ColCoordY,
	"URBANO_RURAL":        ColUrbanRural,
	"TIPO_DIRECCION":      ColUrbanRural,
	"TIPO_VISITA":         ColVisitType,
	"OBSERVACION":         ColObservation,
	"FECHA_CAMBIO_ESTADO": ColStatusChangeDate,
}

// ReferenceAliases maps reference-dataset headers onto canonical columns.
// Exported for the workbook store, which normalizes the reference file before
// building the lookup.
var ReferenceAliases = map[string]string{
	"PEDIDO":           ColOrderID,
	"PROMOTOR":         ColPromoter,
	"CELULAR":          ColPhone,
	"POTENCIA_AC_KW":   ColRatedPowerKW,
	"POTENCIA_AC_[KW]": ColRatedPowerKW,
}

// subzoneVariants collapses historical spelling variants onto the canonical
// sub-zone name.
var subzoneVariants = map[string]string{
	"METROPOLITANA SUR":  "METROPOLITANA",
	"METROPOLITANA-SUR":  "METROPOLITANA",
	"METROPOLITANA  SUR": "METROPOLITANA",
}

// subzoneCodes resolves the secondary feed's coded sub-zone column.
// Unknown codes degrade to blank.
var subzoneCodes = map[string]string{
	"ORI": "ORIENTE",
	"MET": "METROPOLITANA",
	"OCC": "OCCIDENTE",
	"SUR": "SUROESTE",
	"ND":  "NORDESTE",
}

// requiredPrimaryColumns is the minimum column set of the primary feed.
var requiredPrimaryColumns = []string{
	ColOrderID, ColAddress, ColMunicipality, ColClient, ColSubzone,
	ColCoordX, ColCoordY, ColStatusChangeDate,
}

// requiredSecondaryColumns is the minimum column set of the secondary feed.
var requiredSecondaryColumns = []string{ColOrderID}

// =============================================================================
// NORMALIZERS
// =============================================================================

// NormalizePrimary adapts the primary intake feed. Every surviving row is a
// candidate record regardless of historical membership; the reconciler
// appends them under the primary-feed supersede policy.
func NormalizePrimary(f *Feed) ([]Record, error) {
	headers := aliasHeaders(f.Headers, primaryAliases)
	if err := checkRequired("primary feed", headers, requiredPrimaryColumns); err != nil {
		return nil, err
	}

	var records []Record
	seen := make(map[string]bool)
	for _, raw := range f.Rows {
		row := aliasRow(raw, primaryAliases)
		orderID := NormalizeKey(row[ColOrderID])
		if orderID == "" || seen[orderID] {
			continue
		}
		seen[orderID] = true

		rec := Record{
			OrderID:          orderID,
			Address:          strings.TrimPrefix(strings.TrimSpace(row[ColAddress]), "'"),
			Municipality:     strings.TrimSpace(row[ColMunicipality]),
			Client:           upper(row[ColClient]),
			Subzone:          canonicalSubzone(row[ColSubzone]),
			VisitType:        upper(row[ColVisitType]),
			VisitDetail:      upper(row[ColVisitDetail]),
			CoordX:           strings.TrimSpace(row[ColCoordX]),
			CoordY:           strings.TrimSpace(row[ColCoordY]),
			MeterType:        strings.TrimSpace(row[ColMeterType]),
			UrbanRural:       upper(row[ColUrbanRural]),
			StatusChangeDate: strings.TrimSpace(row[ColStatusChangeDate]),
		}
		applyVisitTypeRules(&rec, row[colActivity])
		records = append(records, rec)
	}
	return records, nil
}

// NormalizeSecondary adapts the secondary intake feed. The reconciler drops
// candidates whose order id already exists in the historical key set.
func NormalizeSecondary(f *Feed) ([]Record, error) {
	headers := aliasHeaders(f.Headers, secondaryAliases)
	if err := checkRequired("secondary feed", headers, requiredSecondaryColumns); err != nil {
		return nil, err
	}

	var records []Record
	seen := make(map[string]bool)
	for _, raw := range f.Rows {
		row := aliasRow(raw, secondaryAliases)
		orderID := NormalizeKey(row[ColOrderID])
		if orderID == "" || seen[orderID] {
			continue
		}
		seen[orderID] = true

		rec := Record{
			OrderID:      orderID,
			Address:      strings.TrimSpace(row[ColAddress]),
			Municipality: strings.TrimSpace(row[ColMunicipality]),
			Client:       upper(row[ColClient]),
			Subzone:      canonicalSubzone(row[ColSubzone]),
			Promoter:     strings.TrimSpace(row[ColPromoter]),
			Phone:        strings.TrimSpace(row[ColPhone]),
			// Attention date and visit time are scheduled later by the
			// operator; they always start blank.
			AttentionDate:    "",
			VisitTime:        "",
			RatedPowerKW:     NormalizePower(row[ColRatedPowerKW]),
			VisitDetail:      upper(row[ColVisitDetail]),
			CoordX:           strings.TrimSpace(row[ColCoordX]),
			CoordY:           strings.TrimSpace(row[ColCoordY]),
			UrbanRural:       upper(row[ColUrbanRural]),
			VisitType:        upper(row[ColVisitType]),
			Observation:      upper(row[ColObservation]),
			StatusChangeDate: strings.TrimSpace(row[ColStatusChangeDate]),
		}
		if rec.Subzone == "" {
			if code, ok := row[colSubzoneCode]; ok {
				rec.Subzone = subzoneCodes[NormalizeKey(code)]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// NormalizePower canonicalizes a rated-power value through decimal parsing.
// A comma decimal separator is tolerated; anything unparseable passes through
// trimmed but otherwise verbatim.
func NormalizePower(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(trimmed, ",", "."))
	if err != nil {
		return trimmed
	}
	return d.String()
}

// =============================================================================
// HELPERS
// =============================================================================

func upper(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

func canonicalSubzone(s string) string {
	z := upper(s)
	if canonical, ok := subzoneVariants[z]; ok {
		return canonical
	}
	return z
}

// applyVisitTypeRules fills the visit type from the detail label or, failing
// that, from the feed's activity code. A forced type from the detail label
// always wins over whatever the feed carried.
func applyVisitTypeRules(rec *Record, activity string) {
	if code, ok := sla.ForcedVisitType(rec.VisitDetail); ok {
		rec.VisitType = code
		return
	}
	if rec.VisitType != "" {
		return
	}
	switch NormalizeKey(activity) {
	case "":
	case "ACVIS":
		rec.VisitType = "C09"
	default:
		rec.VisitType = "C07"
	}
}

func aliasHeaders(headers []string, aliases map[string]string) map[string]bool {
	out := make(map[string]bool, len(headers))
	for _, h := range FoldHeaders(headers) {
		if canonical, ok := aliases[h]; ok {
			h = canonical
		}
		if h != "" {
			out[h] = true
		}
	}
	return out
}

func aliasRow(raw Row, aliases map[string]string) Row {
	out := make(Row, len(raw))
	for k, v := range raw {
		if canonical, ok := aliases[k]; ok {
			k = canonical
		}
		if _, exists := out[k]; !exists || !isBlank(v) {
			out[k] = v
		}
	}
	return out
}

func checkRequired(source string, headers map[string]bool, required []string) error {
	var missing []string
	for _, col := range required {
		if !headers[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Source: source, Missing: missing}
	}
	return nil
}
