package calendar_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronos/hr-engine/calendar"
)

func date(y int, m time.Month, d int) calendar.Date {
	return calendar.NewDate(y, m, d)
}

// =============================================================================
// WORKING DAYS
// =============================================================================

func TestWorkingDays(t *testing.T) {
	// 2025-12-01 is a Monday.
	tests := []struct {
		name  string
		start calendar.Date
		end   calendar.Date
		want  int
	}{
		{"monday through friday", date(2025, time.December, 1), date(2025, time.December, 5), 5},
		{"monday to following monday", date(2025, time.December, 1), date(2025, time.December, 8), 6},
		{"single weekday", date(2025, time.December, 3), date(2025, time.December, 3), 1},
		{"single saturday", date(2025, time.December, 6), date(2025, time.December, 6), 0},
		{"weekend only", date(2025, time.December, 6), date(2025, time.December, 7), 0},
		{"end before start", date(2025, time.December, 5), date(2025, time.December, 1), 0},
		{"two full weeks", date(2025, time.December, 1), date(2025, time.December, 14), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calendar.WorkingDays(tt.start, tt.end))
		})
	}
}

func TestCalendarDays(t *testing.T) {
	assert.Equal(t, 7, calendar.CalendarDays(date(2025, time.December, 1), date(2025, time.December, 7)))
	assert.Equal(t, 1, calendar.CalendarDays(date(2025, time.December, 1), date(2025, time.December, 1)))
	assert.Equal(t, 0, calendar.CalendarDays(date(2025, time.December, 2), date(2025, time.December, 1)))
}

// =============================================================================
// OVERLAP
// =============================================================================

func TestOverlaps(t *testing.T) {
	a1, a2 := date(2025, time.December, 1), date(2025, time.December, 10)
	b1, b2 := date(2025, time.December, 5), date(2025, time.December, 8)

	assert.True(t, calendar.Overlaps(a1, a2, b1, b2), "contained range overlaps")
	assert.True(t, calendar.Overlaps(a1, a2, a2, a2.AddDays(5)), "shared boundary day overlaps")
	assert.False(t, calendar.Overlaps(a1, a2, a2.AddDays(1), a2.AddDays(5)), "adjacent ranges do not overlap")
}

func TestOverlaps_Symmetric(t *testing.T) {
	base := date(2025, time.June, 1)
	for i := 0; i < 20; i++ {
		a1 := base.AddDays(i)
		a2 := a1.AddDays(i % 7)
		b1 := base.AddDays(20 - i)
		b2 := b1.AddDays(i % 5)
		assert.Equal(t,
			calendar.Overlaps(a1, a2, b1, b2),
			calendar.Overlaps(b1, b2, a1, a2),
			"overlap must be symmetric for %s..%s vs %s..%s", a1, a2, b1, b2)
	}
}

func TestOverlapWorkingDays(t *testing.T) {
	// 12-05 Fri, 12-06 Sat, 12-07 Sun, 12-08 Mon -> 2 working days.
	got := calendar.OverlapWorkingDays(
		date(2025, time.December, 1), date(2025, time.December, 10),
		date(2025, time.December, 5), date(2025, time.December, 8))
	assert.Equal(t, 2, got)

	assert.Equal(t, 0, calendar.OverlapWorkingDays(
		date(2025, time.December, 1), date(2025, time.December, 2),
		date(2025, time.December, 9), date(2025, time.December, 10)))
}

// =============================================================================
// BOUNDARIES & ENCODING
// =============================================================================

func TestWeekBoundaries(t *testing.T) {
	wed := date(2025, time.December, 3)
	assert.Equal(t, date(2025, time.December, 1), calendar.StartOfWeek(wed))
	assert.Equal(t, date(2025, time.December, 7), calendar.EndOfWeek(wed))

	// Sunday belongs to the week starting the previous Monday.
	sun := date(2025, time.December, 7)
	assert.Equal(t, date(2025, time.December, 1), calendar.StartOfWeek(sun))
}

func TestMonthBoundaries(t *testing.T) {
	d := date(2025, time.February, 14)
	assert.Equal(t, date(2025, time.February, 1), calendar.StartOfMonth(d))
	assert.Equal(t, date(2025, time.February, 28), calendar.EndOfMonth(d))

	leap := date(2024, time.February, 10)
	assert.Equal(t, date(2024, time.February, 29), calendar.EndOfMonth(leap))
}

func TestDateJSON(t *testing.T) {
	d := date(2025, time.December, 1)

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-12-01"`, string(raw))

	var back calendar.Date
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, d.Equal(back))

	// RFC3339 timestamps are truncated to their calendar day.
	require.NoError(t, json.Unmarshal([]byte(`"2025-12-01T15:04:05Z"`), &back))
	assert.True(t, d.Equal(back))

	require.NoError(t, json.Unmarshal([]byte(`null`), &back))
	assert.True(t, back.IsZero())
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45m", calendar.FormatDuration(45*time.Minute))
	assert.Equal(t, "1h 05m", calendar.FormatDuration(65*time.Minute))
	assert.Equal(t, "0m", calendar.FormatDuration(-time.Minute))
}
