/*
Package worksession tracks clock-in/clock-out records and breaks.

PURPOSE:
  Work sessions are the records time-correction requests amend. This
  package owns the session lifecycle (clock in, breaks, clock out) and
  the background monitor that flags overlong breaks.

SEE ALSO:
  - monitor.go: periodic long-break checks
  - correction: amendment workflow against these sessions
*/
package worksession

import (
	"context"
	"errors"
	"time"

	"github.com/chronos/hr-engine/calendar"
)

// =============================================================================
// WORK SESSION - One clock-in/clock-out record
// =============================================================================

type Break struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"`
}

// Duration returns the break length, using now for still-open breaks.
func (b Break) Duration(now time.Time) time.Duration {
	end := now
	if b.End != nil {
		end = *b.End
	}
	return end.Sub(b.Start)
}

type WorkSession struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employee_id"`
	ClockIn    time.Time  `json:"clock_in"`
	ClockOut   *time.Time `json:"clock_out,omitempty"`
	Breaks     []Break    `json:"breaks,omitempty"`
}

// Open reports whether the employee is still clocked in.
func (s *WorkSession) Open() bool { return s.ClockOut == nil }

// OpenBreak returns the current unfinished break, or nil.
func (s *WorkSession) OpenBreak() *Break {
	for i := range s.Breaks {
		if s.Breaks[i].End == nil {
			return &s.Breaks[i]
		}
	}
	return nil
}

// BreakTotal sums all break durations, open ones up to now.
func (s *WorkSession) BreakTotal(now time.Time) time.Duration {
	var total time.Duration
	for _, b := range s.Breaks {
		total += b.Duration(now)
	}
	return total
}

// BreakDisplay formats the accumulated break time for dashboards.
func (s *WorkSession) BreakDisplay(now time.Time) string {
	return calendar.FormatDuration(s.BreakTotal(now))
}

// =============================================================================
// STORE - Session persistence
// =============================================================================

var (
	ErrSessionNotFound  = errors.New("work session not found")
	ErrAlreadyClockedIn = errors.New("employee already has an open session")
	ErrNotClockedIn     = errors.New("no open session for employee")
	ErrBreakOpen        = errors.New("a break is already in progress")
	ErrNoOpenBreak      = errors.New("no break in progress")
)

// Store persists work sessions. Implemented by store/sqlite.
type Store interface {
	SaveSession(ctx context.Context, s WorkSession) error
	GetSession(ctx context.Context, id string) (*WorkSession, error)

	// OpenSession returns the employee's current open session, or
	// ErrSessionNotFound when they are not clocked in.
	OpenSession(ctx context.Context, employeeID string) (*WorkSession, error)

	// ListOpenSessions returns every session without a clock-out.
	ListOpenSessions(ctx context.Context) ([]*WorkSession, error)

	// ListSessions returns an employee's sessions, newest first.
	ListSessions(ctx context.Context, employeeID string) ([]*WorkSession, error)
}
