/*
Package calendar provides business-day arithmetic over a configured holiday set.

PURPOSE:
  The SLA engine measures deadlines in working days: any day that is not a
  Saturday, not a Sunday and not a configured holiday. This package owns that
  definition. A Calendar is built once per run from an immutable Config and
  passed into the reconciler; there is no ambient global calendar state, which
  keeps tests deterministic (inject a synthetic holiday set, get exact dates).

KEY TYPES:
  Config:   Immutable holiday configuration (weekends are implicit)
  Calendar: Working-day predicates and AddWorkingDays arithmetic

USAGE:
  cal := calendar.New(calendar.Config{Holidays: calendar.DefaultHolidays()})
  deadline := cal.AddWorkingDays(start, 12)

SEE ALSO:
  - holidays.go: Built-in holiday table and JSON file loader
  - sla/rules.go: Supplies the working-day counts fed into AddWorkingDays
*/
package calendar

import (
	"time"
)

// =============================================================================
// CONFIG
// =============================================================================

// Config is the immutable input for building a Calendar.
// Weekends (Saturday/Sunday) are always non-working and are not configurable.
type Config struct {
	Holidays []time.Time
}

// =============================================================================
// CALENDAR
// =============================================================================

// Calendar answers working-day questions for one run.
// It is immutable after New and safe for concurrent reads.
type Calendar struct {
	holidays map[time.Time]struct{}
}

// New builds a Calendar from cfg. Holiday timestamps are normalized to
// midnight UTC so callers can pass dates with arbitrary clock components.
func New(cfg Config) *Calendar {
	c := &Calendar{holidays: make(map[time.Time]struct{}, len(cfg.Holidays))}
	for _, h := range cfg.Holidays {
		c.holidays[dateOnly(h)] = struct{}{}
	}
	return c
}

// IsWeekend reports whether t falls on Saturday or Sunday.
func (c *Calendar) IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsHoliday reports whether t's date is in the configured holiday set.
func (c *Calendar) IsHoliday(t time.Time) bool {
	_, ok := c.holidays[dateOnly(t)]
	return ok
}

// IsWorkingDay reports whether t counts toward an SLA deadline.
func (c *Calendar) IsWorkingDay(t time.Time) bool {
	return !c.IsWeekend(t) && !c.IsHoliday(t)
}

// AddWorkingDays returns the date n working days after start.
// It walks forward one calendar day at a time, consuming a day only when it is
// a working day. n is a small positive count (5, 9 or 12 in practice); n <= 0
// returns start unchanged.
func (c *Calendar) AddWorkingDays(start time.Time, n int) time.Time {
	d := dateOnly(start)
	for n > 0 {
		d = d.AddDate(0, 0, 1)
		if c.IsWorkingDay(d) {
			n--
		}
	}
	return d
}

// HolidayCount returns the number of configured holidays.
func (c *Calendar) HolidayCount() int { return len(c.holidays) }

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
