package worksession_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronos/hr-engine/worksession"
)

type recordingNotifier struct {
	count atomic.Int64
	seen  chan string
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{seen: make(chan string, 8)}
}

func (n *recordingNotifier) Notify(_ context.Context, subject, _ string) error {
	n.count.Add(1)
	n.seen <- subject
	return nil
}

func sessionWithOpenBreak(store *memStore, id, employee string, breakAge time.Duration) {
	start := time.Now().Add(-breakAge)
	_ = store.SaveSession(context.Background(), worksession.WorkSession{
		ID:         id,
		EmployeeID: employee,
		ClockIn:    start.Add(-2 * time.Hour),
		Breaks:     []worksession.Break{{Start: start}},
	})
}

func TestBreakMonitor_NotifiesOnceForLongBreak(t *testing.T) {
	store := newMemStore()
	sessionWithOpenBreak(store, "ws-1", "emp-1", time.Hour)

	notifier := newRecordingNotifier()
	monitor := worksession.NewBreakMonitor(store, notifier, nil)
	monitor.CheckInterval = 5 * time.Millisecond
	monitor.BreakThreshold = 45 * time.Minute

	monitor.Start()
	defer monitor.Stop()

	select {
	case subject := <-notifier.seen:
		assert.Contains(t, subject, "emp-1")
	case <-time.After(2 * time.Second):
		t.Fatal("expected a long-break notification")
	}

	// Several more ticks: the same break must not be flagged again.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(1), notifier.count.Load())
}

func TestBreakMonitor_IgnoresShortBreaks(t *testing.T) {
	store := newMemStore()
	sessionWithOpenBreak(store, "ws-1", "emp-1", 10*time.Minute)

	notifier := newRecordingNotifier()
	monitor := worksession.NewBreakMonitor(store, notifier, nil)
	monitor.CheckInterval = 5 * time.Millisecond

	monitor.Start()
	time.Sleep(50 * time.Millisecond)
	monitor.Stop()

	assert.Zero(t, notifier.count.Load())
}

func TestBreakMonitor_NilNotifierOnlyLogs(t *testing.T) {
	store := newMemStore()
	sessionWithOpenBreak(store, "ws-1", "emp-1", time.Hour)

	monitor := worksession.NewBreakMonitor(store, nil, nil)
	monitor.CheckInterval = 5 * time.Millisecond

	require.NotPanics(t, func() {
		monitor.Start()
		time.Sleep(20 * time.Millisecond)
		monitor.Stop()
	})
}

func TestBreakMonitor_StartStopIdempotent(t *testing.T) {
	monitor := worksession.NewBreakMonitor(newMemStore(), nil, nil)
	monitor.CheckInterval = 5 * time.Millisecond

	monitor.Start()
	monitor.Start() // no-op while running
	monitor.Stop()
	monitor.Stop() // no-op once stopped
}
