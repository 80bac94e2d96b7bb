/*
monitor.go - Periodic long-break checks

PURPOSE:
  Background goroutine that scans open sessions and notifies when an
  open break exceeds the configured threshold. Each break is flagged at
  most once.

DESIGN:
  - Ticker-driven with a configurable check interval
  - Start/Stop lifecycle; Stop blocks until the goroutine exits so the
    monitor never leaks past the owning process's shutdown
  - Notification failures are logged and do not stop the monitor

USAGE:
  monitor := worksession.NewBreakMonitor(store, notifier, log)
  monitor.Start()
  defer monitor.Stop()
*/
package worksession

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/chronos/hr-engine/calendar"
)

// Notifier delivers long-break alerts. Implemented by notify.Mailer;
// a nil Notifier disables delivery but keeps the logging.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

// BreakMonitor periodically flags overlong open breaks.
type BreakMonitor struct {
	Store          Store
	Notifier       Notifier
	CheckInterval  time.Duration
	BreakThreshold time.Duration

	log      *zap.Logger
	ticker   *time.Ticker
	stop     chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	running  bool
	notified map[string]bool // session id -> already flagged
}

func NewBreakMonitor(store Store, notifier Notifier, log *zap.Logger) *BreakMonitor {
	if log == nil {
		log = zap.NewNop()
	}
	return &BreakMonitor{
		Store:          store,
		Notifier:       notifier,
		CheckInterval:  time.Minute,
		BreakThreshold: 45 * time.Minute,
		log:            log,
		notified:       make(map[string]bool),
	}
}

// Start begins the periodic checks. Calling Start twice is a no-op.
func (m *BreakMonitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}
	m.running = true
	m.stop = make(chan struct{})
	m.ticker = time.NewTicker(m.CheckInterval)
	m.wg.Add(1)

	go m.run()

	m.log.Info("break monitor started",
		zap.Duration("interval", m.CheckInterval),
		zap.Duration("threshold", m.BreakThreshold))
}

// Stop halts the checks and waits for the goroutine to exit.
func (m *BreakMonitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.ticker.Stop()
	close(m.stop)
	m.mu.Unlock()

	m.wg.Wait()
	m.log.Info("break monitor stopped")
}

func (m *BreakMonitor) run() {
	defer m.wg.Done()

	m.check()

	for {
		select {
		case <-m.ticker.C:
			m.check()
		case <-m.stop:
			return
		}
	}
}

func (m *BreakMonitor) check() {
	ctx := context.Background()
	now := time.Now()

	sessions, err := m.Store.ListOpenSessions(ctx)
	if err != nil {
		m.log.Warn("break check failed to list sessions", zap.Error(err))
		return
	}

	for _, session := range sessions {
		b := session.OpenBreak()
		if b == nil || b.Duration(now) < m.BreakThreshold {
			continue
		}

		m.mu.Lock()
		already := m.notified[session.ID]
		m.notified[session.ID] = true
		m.mu.Unlock()
		if already {
			continue
		}

		dur := calendar.FormatDuration(b.Duration(now))
		m.log.Warn("long break detected",
			zap.String("session", session.ID),
			zap.String("employee", session.EmployeeID),
			zap.String("duration", dur))

		if m.Notifier == nil {
			continue
		}
		subject := fmt.Sprintf("Long break: %s", session.EmployeeID)
		body := fmt.Sprintf("Employee %s has been on break for %s (session %s).",
			session.EmployeeID, dur, session.ID)
		if err := m.Notifier.Notify(ctx, subject, body); err != nil {
			m.log.Warn("failed to send break notification", zap.Error(err))
		}
	}
}
