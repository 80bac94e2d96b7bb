package worksession_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronos/hr-engine/worksession"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// memStore is an in-memory worksession.Store for tests.
type memStore struct {
	mu       sync.Mutex
	sessions map[string]worksession.WorkSession
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]worksession.WorkSession)}
}

func (m *memStore) SaveSession(_ context.Context, s worksession.WorkSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memStore) GetSession(_ context.Context, id string) (*worksession.WorkSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, worksession.ErrSessionNotFound
	}
	return &s, nil
}

func (m *memStore) OpenSession(_ context.Context, employeeID string) (*worksession.WorkSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.EmployeeID == employeeID && s.Open() {
			out := s
			return &out, nil
		}
	}
	return nil, worksession.ErrSessionNotFound
}

func (m *memStore) ListOpenSessions(_ context.Context) ([]*worksession.WorkSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*worksession.WorkSession
	for _, s := range m.sessions {
		if s.Open() {
			c := s
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *memStore) ListSessions(_ context.Context, employeeID string) ([]*worksession.WorkSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*worksession.WorkSession
	for _, s := range m.sessions {
		if s.EmployeeID == employeeID {
			c := s
			out = append(out, &c)
		}
	}
	return out, nil
}

// =============================================================================
// CLOCK IN / CLOCK OUT
// =============================================================================

func TestClockIn(t *testing.T) {
	tracker := worksession.NewTracker(newMemStore(), nil)
	ctx := context.Background()

	session, err := tracker.ClockIn(ctx, "emp-1")
	require.NoError(t, err)

	assert.Equal(t, "emp-1", session.EmployeeID)
	assert.True(t, session.Open())
	assert.False(t, session.ClockIn.IsZero())
}

func TestClockIn_TwiceFails(t *testing.T) {
	tracker := worksession.NewTracker(newMemStore(), nil)
	ctx := context.Background()

	_, err := tracker.ClockIn(ctx, "emp-1")
	require.NoError(t, err)

	_, err = tracker.ClockIn(ctx, "emp-1")
	assert.ErrorIs(t, err, worksession.ErrAlreadyClockedIn)
}

func TestClockOut(t *testing.T) {
	tracker := worksession.NewTracker(newMemStore(), nil)
	ctx := context.Background()

	_, err := tracker.ClockIn(ctx, "emp-1")
	require.NoError(t, err)

	session, err := tracker.ClockOut(ctx, "emp-1")
	require.NoError(t, err)
	assert.False(t, session.Open())
	require.NotNil(t, session.ClockOut)

	// Clocking out again: no open session left.
	_, err = tracker.ClockOut(ctx, "emp-1")
	assert.ErrorIs(t, err, worksession.ErrNotClockedIn)
}

func TestClockOut_ClosesOpenBreak(t *testing.T) {
	store := newMemStore()
	tracker := worksession.NewTracker(store, nil)
	ctx := context.Background()

	_, err := tracker.ClockIn(ctx, "emp-1")
	require.NoError(t, err)
	_, err = tracker.StartBreak(ctx, "emp-1")
	require.NoError(t, err)

	session, err := tracker.ClockOut(ctx, "emp-1")
	require.NoError(t, err)

	require.Len(t, session.Breaks, 1)
	assert.NotNil(t, session.Breaks[0].End, "open break must be ended by clock-out")
	assert.Nil(t, session.OpenBreak())
}

// =============================================================================
// BREAKS
// =============================================================================

func TestBreakLifecycle(t *testing.T) {
	tracker := worksession.NewTracker(newMemStore(), nil)
	ctx := context.Background()

	// Breaks need an open session.
	_, err := tracker.StartBreak(ctx, "emp-1")
	assert.ErrorIs(t, err, worksession.ErrNotClockedIn)

	_, err = tracker.ClockIn(ctx, "emp-1")
	require.NoError(t, err)

	_, err = tracker.EndBreak(ctx, "emp-1")
	assert.ErrorIs(t, err, worksession.ErrNoOpenBreak)

	session, err := tracker.StartBreak(ctx, "emp-1")
	require.NoError(t, err)
	require.NotNil(t, session.OpenBreak())

	_, err = tracker.StartBreak(ctx, "emp-1")
	assert.ErrorIs(t, err, worksession.ErrBreakOpen)

	session, err = tracker.EndBreak(ctx, "emp-1")
	require.NoError(t, err)
	assert.Nil(t, session.OpenBreak())
	require.Len(t, session.Breaks, 1)
}

func TestBreakTotal(t *testing.T) {
	start := time.Date(2025, time.December, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)
	session := worksession.WorkSession{
		ID:         "ws-1",
		EmployeeID: "emp-1",
		ClockIn:    start.Add(-3 * time.Hour),
		Breaks: []worksession.Break{
			{Start: start, End: &end},
			{Start: end.Add(time.Hour)}, // still open
		},
	}

	now := end.Add(time.Hour + 15*time.Minute)
	assert.Equal(t, 45*time.Minute, session.BreakTotal(now))
	assert.Equal(t, "45m", session.BreakDisplay(now))
}
