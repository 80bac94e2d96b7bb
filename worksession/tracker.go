/*
tracker.go - Clock-in/out and break lifecycle

PURPOSE:
  The write side of work sessions. Enforces the small state machine:
  an employee has at most one open session, a session has at most one
  open break, and clocking out closes any open break.
*/
package worksession

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Tracker drives the session state machine over a Store.
type Tracker struct {
	store Store
	log   *zap.Logger
	now   func() time.Time
}

func NewTracker(store Store, log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{store: store, log: log, now: time.Now}
}

// ClockIn opens a new session for the employee.
func (t *Tracker) ClockIn(ctx context.Context, employeeID string) (*WorkSession, error) {
	if _, err := t.store.OpenSession(ctx, employeeID); err == nil {
		return nil, ErrAlreadyClockedIn
	} else if !errors.Is(err, ErrSessionNotFound) {
		return nil, err
	}

	now := t.now()
	session := WorkSession{
		ID:         fmt.Sprintf("ws-%d", now.UnixNano()),
		EmployeeID: employeeID,
		ClockIn:    now,
	}
	if err := t.store.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	t.log.Info("clocked in",
		zap.String("session", session.ID), zap.String("employee", employeeID))
	return &session, nil
}

// ClockOut closes the employee's open session, ending any open break.
func (t *Tracker) ClockOut(ctx context.Context, employeeID string) (*WorkSession, error) {
	session, err := t.store.OpenSession(ctx, employeeID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrNotClockedIn
		}
		return nil, err
	}

	now := t.now()
	if b := session.OpenBreak(); b != nil {
		b.End = &now
	}
	session.ClockOut = &now

	if err := t.store.SaveSession(ctx, *session); err != nil {
		return nil, err
	}

	t.log.Info("clocked out",
		zap.String("session", session.ID),
		zap.String("employee", employeeID),
		zap.String("break_total", session.BreakDisplay(now)))
	return session, nil
}

// StartBreak begins a break on the employee's open session.
func (t *Tracker) StartBreak(ctx context.Context, employeeID string) (*WorkSession, error) {
	session, err := t.store.OpenSession(ctx, employeeID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrNotClockedIn
		}
		return nil, err
	}
	if session.OpenBreak() != nil {
		return nil, ErrBreakOpen
	}

	session.Breaks = append(session.Breaks, Break{Start: t.now()})
	if err := t.store.SaveSession(ctx, *session); err != nil {
		return nil, err
	}
	return session, nil
}

// EndBreak closes the open break on the employee's session.
func (t *Tracker) EndBreak(ctx context.Context, employeeID string) (*WorkSession, error) {
	session, err := t.store.OpenSession(ctx, employeeID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrNotClockedIn
		}
		return nil, err
	}
	b := session.OpenBreak()
	if b == nil {
		return nil, ErrNoOpenBreak
	}

	now := t.now()
	b.End = &now
	if err := t.store.SaveSession(ctx, *session); err != nil {
		return nil, err
	}
	return session, nil
}
