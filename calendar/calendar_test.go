package calendar_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/sla-engine/calendar"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestAddWorkingDays_FridayPlusOne_SkipsWeekend(t *testing.T) {
	// GIVEN: No holidays configured
	// WHEN: Adding 1 working day to a Friday
	// THEN: Result is the following Monday

	cal := calendar.New(calendar.Config{})

	friday := date(2025, time.September, 5)
	require.Equal(t, time.Friday, friday.Weekday())

	got := cal.AddWorkingDays(friday, 1)
	assert.Equal(t, date(2025, time.September, 8), got)
	assert.Equal(t, time.Monday, got.Weekday())
}

func TestAddWorkingDays_FridayPlusOne_SkipsHolidayMonday(t *testing.T) {
	// GIVEN: The following Monday is a configured holiday
	// WHEN: Adding 1 working day to a Friday
	// THEN: Result is Tuesday

	monday := date(2025, time.September, 8)
	cal := calendar.New(calendar.Config{Holidays: []time.Time{monday}})

	got := cal.AddWorkingDays(date(2025, time.September, 5), 1)
	assert.Equal(t, date(2025, time.September, 9), got)
}

func TestAddWorkingDays_TwelveDays_NoHolidaysInRange(t *testing.T) {
	// Monday 2025-09-01 + 12 working days = Wednesday 2025-09-17
	cal := calendar.New(calendar.Config{})

	start := date(2025, time.September, 1)
	require.Equal(t, time.Monday, start.Weekday())

	got := cal.AddWorkingDays(start, 12)
	assert.Equal(t, date(2025, time.September, 17), got)
}

func TestAddWorkingDays_ZeroOrNegative_ReturnsStartDate(t *testing.T) {
	cal := calendar.New(calendar.Config{})
	start := date(2025, time.September, 3)

	assert.Equal(t, start, cal.AddWorkingDays(start, 0))
	assert.Equal(t, start, cal.AddWorkingDays(start, -3))
}

func TestAddWorkingDays_NormalizesClockComponents(t *testing.T) {
	// Holiday configured with a non-midnight timestamp still matches.
	holiday := time.Date(2025, time.September, 8, 14, 30, 0, 0, time.UTC)
	cal := calendar.New(calendar.Config{Holidays: []time.Time{holiday}})

	got := cal.AddWorkingDays(time.Date(2025, time.September, 5, 9, 0, 0, 0, time.UTC), 1)
	assert.Equal(t, date(2025, time.September, 9), got)
}

func TestIsWorkingDay(t *testing.T) {
	cal := calendar.New(calendar.Config{Holidays: []time.Time{date(2025, time.December, 25)}})

	tests := []struct {
		name string
		day  time.Time
		want bool
	}{
		{"weekday", date(2025, time.September, 3), true},
		{"saturday", date(2025, time.September, 6), false},
		{"sunday", date(2025, time.September, 7), false},
		{"holiday", date(2025, time.December, 25), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cal.IsWorkingDay(tt.day))
		})
	}
}

func TestDefaultHolidays_CoversBothYears(t *testing.T) {
	holidays := calendar.DefaultHolidays()
	require.Len(t, holidays, 35)

	cal := calendar.New(calendar.Config{Holidays: holidays})
	assert.True(t, cal.IsHoliday(date(2025, time.January, 1)))
	assert.True(t, cal.IsHoliday(date(2026, time.December, 25)))
	assert.False(t, cal.IsHoliday(date(2025, time.September, 3)))
}

func TestLoadHolidays_FromJSONFile(t *testing.T) {
	path := t.TempDir() + "/holidays.json"
	require.NoError(t, writeFile(path, `["2027-01-01","2027-12-25"]`))

	holidays, err := calendar.LoadHolidays(path)
	require.NoError(t, err)
	require.Len(t, holidays, 2)
	assert.Equal(t, date(2027, time.January, 1), holidays[0])
}

func TestLoadHolidays_RejectsBadDate(t *testing.T) {
	path := t.TempDir() + "/holidays.json"
	require.NoError(t, writeFile(path, `["not-a-date"]`))

	_, err := calendar.LoadHolidays(path)
	assert.Error(t, err)
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
