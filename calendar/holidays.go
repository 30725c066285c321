package calendar

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// holidayDate is a shorthand for building the default table.
func holidayDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DefaultHolidays returns the built-in national holiday table covering the
// 2025 and 2026 calendar years. Later years are supplied via LoadHolidays so
// extending the calendar does not require a rebuild.
func DefaultHolidays() []time.Time {
	return []time.Time{
		// 2025
		holidayDate(2025, time.January, 1),
		holidayDate(2025, time.January, 6),
		holidayDate(2025, time.March, 24),
		holidayDate(2025, time.April, 17),
		holidayDate(2025, time.April, 18),
		holidayDate(2025, time.May, 1),
		holidayDate(2025, time.May, 26),
		holidayDate(2025, time.June, 16),
		holidayDate(2025, time.June, 23),
		holidayDate(2025, time.July, 7),
		holidayDate(2025, time.August, 7),
		holidayDate(2025, time.August, 18),
		holidayDate(2025, time.October, 13),
		holidayDate(2025, time.November, 3),
		holidayDate(2025, time.November, 17),
		holidayDate(2025, time.December, 8),
		holidayDate(2025, time.December, 25),

		// 2026
		holidayDate(2026, time.January, 1),
		holidayDate(2026, time.January, 12),
		holidayDate(2026, time.March, 23),
		holidayDate(2026, time.April, 2),
		holidayDate(2026, time.April, 3),
		holidayDate(2026, time.May, 1),
		holidayDate(2026, time.May, 18),
		holidayDate(2026, time.June, 8),
		holidayDate(2026, time.June, 15),
		holidayDate(2026, time.June, 29),
		holidayDate(2026, time.July, 20),
		holidayDate(2026, time.August, 7),
		holidayDate(2026, time.August, 17),
		holidayDate(2026, time.October, 12),
		holidayDate(2026, time.November, 2),
		holidayDate(2026, time.November, 16),
		holidayDate(2026, time.December, 8),
		holidayDate(2026, time.December, 25),
	}
}

// LoadHolidays reads a JSON array of "YYYY-MM-DD" strings from path.
// This is the extension point for future calendar years.
func LoadHolidays(path string) ([]time.Time, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read holiday file: %w", err)
	}

	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse holiday file %s: %w", path, err)
	}

	holidays := make([]time.Time, 0, len(raw))
	for _, s := range raw {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday date %q in %s: %w", s, path, err)
		}
		holidays = append(holidays, d)
	}
	return holidays, nil
}
