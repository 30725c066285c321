/*
Package ledger implements the work-order ledger: canonical schema, intake-feed
normalization, reference cross-fill and the reconciliation run itself.

PURPOSE:
  The ledger is the cumulative, append-only store of every field-visit work
  order ever ingested. Each reconciliation run merges new orders from two
  intake feeds, cross-fills a handful of attributes from a reference dataset,
  and derives (once per order, never recomputed) an SLA deadline, a
  remaining-days count and a status label.

KEY TYPES IN THIS FILE (record.go):
  Record:         One work order in canonical form
  ReferenceEntry: Attributes cross-filled from the reference dataset
  Canonical column names and their fixed order

DERIVED FIELDS:
  DEADLINE_DATE, DAYS_REMAINING and SLA_STATUS are owned by the SLA step of
  the reconciler. Once non-blank they are immutable: no later run touches them.

SEE ALSO:
  - schema.go: Header folding and one-shot schema binding
  - normalize.go: Feed adapters producing Records
  - reconciler.go: The run state machine
*/
package ledger

// Canonical column names of the ledger workbook. The ledger may carry extra
// columns beyond these; the engine preserves them and never shrinks the
// header set.
const (
	ColOrderID          = "ORDER_ID"
	ColAddress          = "ADDRESS"
	ColMunicipality     = "MUNICIPALITY"
	ColClient           = "CLIENT"
	ColSubzone          = "SUBZONE"
	ColPromoter         = "PROMOTER"
	ColPhone            = "PHONE"
	ColAttentionDate    = "ATTENTION_DATE"
	ColVisitTime        = "VISIT_TIME"
	ColReviewer         = "REVIEWER"
	ColVisitType        = "VISIT_TYPE"
	ColObservation      = "OBSERVATION"
	ColClosingDate      = "CLOSING_DATE"
	ColRatedPowerKW     = "RATED_POWER_KW"
	ColVisitDetail      = "VISIT_DETAIL"
	ColCoordX           = "COORD_X"
	ColCoordY           = "COORD_Y"
	ColMeterType        = "METER_TYPE"
	ColUrbanRural       = "URBAN_RURAL"
	ColStatusChangeDate = "STATUS_CHANGE_DATE"
	ColDeadlineDate     = "DEADLINE_DATE"
	ColDaysRemaining    = "DAYS_REMAINING"
	ColSLAStatus        = "SLA_STATUS"
)

// CanonicalColumns is the fixed canonical column order.
var CanonicalColumns = []string{
	ColOrderID,
	ColAddress,
	ColMunicipality,
	ColClient,
	ColSubzone,
	ColPromoter,
	ColPhone,
	ColAttentionDate,
	ColVisitTime,
	ColReviewer,
	ColVisitType,
	ColObservation,
	ColClosingDate,
	ColRatedPowerKW,
	ColVisitDetail,
	ColCoordX,
	ColCoordY,
	ColMeterType,
	ColUrbanRural,
	ColStatusChangeDate,
	ColDeadlineDate,
	ColDaysRemaining,
	ColSLAStatus,
}

// Record is one work order in canonical form. All non-derived fields are
// strings exactly as they will be written into the ledger; date fields keep
// the source formatting until the SLA step parses them.
type Record struct {
	OrderID          string
	Address          string
	Municipality     string
	Client           string
	Subzone          string
	Promoter         string
	Phone            string
	AttentionDate    string
	VisitTime        string
	Reviewer         string
	VisitType        string
	Observation      string
	ClosingDate      string
	RatedPowerKW     string
	VisitDetail      string
	CoordX           string
	CoordY           string
	MeterType        string
	UrbanRural       string
	StatusChangeDate string

	// Derived fields, owned by the SLA step. Blank on append.
	DeadlineDate  string
	DaysRemaining string
	SLAStatus     string
}

// field returns the record value for a canonical column name.
func (r *Record) field(col string) string {
	switch col {
	case ColOrderID:
		return r.OrderID
	case ColAddress:
		return r.Address
	case ColMunicipality:
		return r.Municipality
	case ColClient:
		return r.Client
	case ColSubzone:
		return r.Subzone
	case ColPromoter:
		return r.Promoter
	case ColPhone:
		return r.Phone
	case ColAttentionDate:
		return r.AttentionDate
	case ColVisitTime:
		return r.VisitTime
	case ColReviewer:
		return r.Reviewer
	case ColVisitType:
		return r.VisitType
	case ColObservation:
		return r.Observation
	case ColClosingDate:
		return r.ClosingDate
	case ColRatedPowerKW:
		return r.RatedPowerKW
	case ColVisitDetail:
		return r.VisitDetail
	case ColCoordX:
		return r.CoordX
	case ColCoordY:
		return r.CoordY
	case ColMeterType:
		return r.MeterType
	case ColUrbanRural:
		return r.UrbanRural
	case ColStatusChangeDate:
		return r.StatusChangeDate
	case ColDeadlineDate:
		return r.DeadlineDate
	case ColDaysRemaining:
		return r.DaysRemaining
	case ColSLAStatus:
		return r.SLAStatus
	}
	return ""
}

// ReferenceEntry holds the attributes cross-filled from the reference
// dataset, keyed by normalized order id. Read-only from the engine's side.
type ReferenceEntry struct {
	Promoter     string
	Phone        string
	RatedPowerKW string
}
