/*
dto.go - Data Transfer Objects for API responses

PURPOSE:
  JSON shapes for API communication, decoupled from the internal domain
  model so fields can be renamed without breaking the panel.

NAMING CONVENTION:
  - *DTO: Response types returned to clients

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/sla-engine/ledger"
)

// RunDTO is one reconciliation run in API responses.
type RunDTO struct {
	RunID       string   `json:"run_id"`
	Outcome     string   `json:"outcome"`
	Started     string   `json:"started"`
	Finished    string   `json:"finished"`
	Appended    int      `json:"appended"`
	Computed    int      `json:"computed"`
	Skipped     int      `json:"skipped"`
	CrossFilled int      `json:"cross_filled"`
	NewOrderIDs []string `json:"new_order_ids,omitempty"`
	Error       string   `json:"error,omitempty"`
}

func runResultDTO(r ledger.RunResult) RunDTO {
	dto := RunDTO{
		RunID:       r.RunID,
		Outcome:     string(r.Outcome),
		Started:     r.Started.UTC().Format(time.RFC3339),
		Finished:    r.Finished.UTC().Format(time.RFC3339),
		Appended:    r.Appended,
		Computed:    r.Computed,
		Skipped:     r.Skipped,
		CrossFilled: r.CrossFilled,
		NewOrderIDs: r.NewOrderIDs,
	}
	if r.Err != nil {
		dto.Error = r.Err.Error()
	}
	return dto
}

// OrderDTO is one ledger row in canonical form. Blank derived fields mean
// "not yet due for classification".
type OrderDTO struct {
	OrderID          string `json:"order_id"`
	Address          string `json:"address"`
	Municipality     string `json:"municipality"`
	Client           string `json:"client"`
	Subzone          string `json:"subzone"`
	Promoter         string `json:"promoter"`
	Phone            string `json:"phone"`
	VisitType        string `json:"visit_type"`
	VisitDetail      string `json:"visit_detail"`
	RatedPowerKW     string `json:"rated_power_kw"`
	CoordX           string `json:"coord_x"`
	CoordY           string `json:"coord_y"`
	MeterType        string `json:"meter_type"`
	UrbanRural       string `json:"urban_rural"`
	StatusChangeDate string `json:"status_change_date"`
	DeadlineDate     string `json:"deadline_date"`
	DaysRemaining    string `json:"days_remaining"`
	SLAStatus        string `json:"sla_status"`
}

func orderDTO(t *ledger.Table, row int) OrderDTO {
	return OrderDTO{
		OrderID:          t.Get(row, ledger.ColOrderID),
		Address:          t.Get(row, ledger.ColAddress),
		Municipality:     t.Get(row, ledger.ColMunicipality),
		Client:           t.Get(row, ledger.ColClient),
		Subzone:          t.Get(row, ledger.ColSubzone),
		Promoter:         t.Get(row, ledger.ColPromoter),
		Phone:            t.Get(row, ledger.ColPhone),
		VisitType:        t.Get(row, ledger.ColVisitType),
		VisitDetail:      t.Get(row, ledger.ColVisitDetail),
		RatedPowerKW:     t.Get(row, ledger.ColRatedPowerKW),
		CoordX:           t.Get(row, ledger.ColCoordX),
		CoordY:           t.Get(row, ledger.ColCoordY),
		MeterType:        t.Get(row, ledger.ColMeterType),
		UrbanRural:       t.Get(row, ledger.ColUrbanRural),
		StatusChangeDate: t.Get(row, ledger.ColStatusChangeDate),
		DeadlineDate:     t.Get(row, ledger.ColDeadlineDate),
		DaysRemaining:    t.Get(row, ledger.ColDaysRemaining),
		SLAStatus:        t.Get(row, ledger.ColSLAStatus),
	}
}

// ErrorDTO is the error payload shape.
type ErrorDTO struct {
	Error string `json:"error"`
}
