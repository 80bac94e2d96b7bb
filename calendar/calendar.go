/*
Package calendar provides date arithmetic for the HR engine.

PURPOSE:
  All vacation and scheduling logic counts in whole calendar days.
  This package owns the Date value type (midnight-normalized, UTC) and
  the working-day / range-overlap arithmetic built on top of it.

KEY CONCEPTS:
  - Date: A calendar day. Time-of-day is always stripped on construction.
  - Working day: Monday through Friday. Weekends never count toward
    vacation consumption or team availability.
  - Ranges are ALWAYS inclusive on both ends. A request from Monday to
    Monday spans exactly one day.

USAGE:
  start := calendar.NewDate(2025, time.December, 1)
  end := calendar.NewDate(2025, time.December, 5)
  days := calendar.WorkingDays(start, end) // 5

SEE ALSO:
  - vacation/manager.go: conflict and availability math built on this
*/
package calendar

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Calendar day, normalized to midnight UTC
// =============================================================================

type Date struct {
	t time.Time
}

// NewDate constructs a Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates any timestamp to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Today returns the current calendar day.
func Today() Date {
	return DateOf(time.Now().UTC())
}

// ParseDate parses an ISO-8601 date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{t: d.t.AddDate(0, n, 0)} }

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool          { return d.t.IsZero() }
func (d Date) Time() time.Time       { return d.t }

func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Date) IsWorkday() bool { return !d.IsWeekend() }

func (d Date) String() string { return d.t.Format("2006-01-02") }

// MarshalJSON encodes the date as an ISO-8601 string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts both plain dates and full RFC3339 timestamps,
// truncating the latter to their calendar day.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		*d = Date{}
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		*d = DateOf(t)
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	*d = DateOf(t)
	return nil
}

// =============================================================================
// WORKING-DAY ARITHMETIC
// =============================================================================

// WorkingDays counts Monday-Friday days in the inclusive range [start, end].
// Returns 0 when end is before start. A single weekday counts as 1,
// a single weekend day as 0.
func WorkingDays(start, end Date) int {
	if end.Before(start) {
		return 0
	}
	count := 0
	for d := start; d.BeforeOrEqual(end); d = d.AddDays(1) {
		if d.IsWorkday() {
			count++
		}
	}
	return count
}

// CalendarDays counts all days in the inclusive range, 0 if end < start.
func CalendarDays(start, end Date) int {
	if end.Before(start) {
		return 0
	}
	return int(end.t.Sub(start.t).Hours()/24) + 1
}

// Overlaps reports whether two inclusive ranges share at least one
// calendar day. Symmetric in its arguments.
func Overlaps(aStart, aEnd, bStart, bEnd Date) bool {
	return aStart.BeforeOrEqual(bEnd) && bStart.BeforeOrEqual(aEnd)
}

// OverlapWorkingDays counts the working days in the intersection of the
// two inclusive ranges, 0 when they do not intersect.
func OverlapWorkingDays(aStart, aEnd, bStart, bEnd Date) int {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	return WorkingDays(start, end)
}

// Covers reports whether day falls inside the inclusive range.
func Covers(start, end, day Date) bool {
	return start.BeforeOrEqual(day) && day.BeforeOrEqual(end)
}

// =============================================================================
// BOUNDARIES & FORMATTING
// =============================================================================

// StartOfWeek returns the Monday of the week containing d.
func StartOfWeek(d Date) Date {
	offset := int(d.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7 // Sunday
	}
	return d.AddDays(-offset)
}

// EndOfWeek returns the Sunday of the week containing d.
func EndOfWeek(d Date) Date { return StartOfWeek(d).AddDays(6) }

func StartOfMonth(d Date) Date { return NewDate(d.Year(), d.Month(), 1) }

func EndOfMonth(d Date) Date {
	return NewDate(d.Year(), d.Month(), 1).AddMonths(1).AddDays(-1)
}

// FormatDuration renders a duration as "Hh MMm" for break displays.
func FormatDuration(dur time.Duration) string {
	if dur < 0 {
		dur = 0
	}
	h := int(dur.Hours())
	m := int(dur.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", h, m)
}
