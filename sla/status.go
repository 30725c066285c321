package sla

// Status labels derived from the remaining-days count.
type Status string

const (
	StatusNone     Status = ""              // no deadline computed yet
	StatusOverdue  Status = "OVERDUE"       // deadline passed
	StatusAlertDue Status = "ALERT-0-DAYS"  // deadline is today
	StatusAlert    Status = "ALERT"         // one or two working days left
	StatusOnTime   Status = "ON-TIME"       // more than two days left
)

// Classify maps a signed remaining-days count to a status label.
// nil means no deadline exists for the record and yields the empty status.
func Classify(remaining *int) Status {
	if remaining == nil {
		return StatusNone
	}
	switch {
	case *remaining < 0:
		return StatusOverdue
	case *remaining == 0:
		return StatusAlertDue
	case *remaining <= 2:
		return StatusAlert
	default:
		return StatusOnTime
	}
}
