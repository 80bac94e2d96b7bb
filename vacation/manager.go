/*
manager.go - Approval workflow and derived vacation views

PURPOSE:
  Everything a reviewer or dashboard needs on top of the raw request
  collection: approve/reject transitions, conflict detection between
  approved ranges, team availability math, per-employee summaries, and
  calendar-grid generation.

WORKFLOW:
  pending ──▶ approved   (Approve)
  pending ──▶ rejected   (Reject)
  pending ──▶ cancelled  (Store.Cancel)

  Transitions only ever fire from pending. Approving an already-approved
  request changes nothing - the first reviewer's stamp is retained. This
  idempotence is intentional; callers must not rely on errors here.

AVAILABILITY MODEL:
  Availability on a day = (team size - employees on approved vacation)
  divided by team size. Weekends are excluded from availability results
  and report 0 in calendar grids.

SEE ALSO:
  - store.go: the collection these views are computed from
  - calendar: working-day and overlap arithmetic
*/
package vacation

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/chronos/hr-engine/calendar"
)

// Manager runs the approval workflow and computes derived views.
type Manager struct {
	store *Store
	log   *zap.Logger

	mu     sync.RWMutex
	filter Filter
}

func NewManager(store *Store, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{store: store, log: log}
}

// =============================================================================
// APPROVAL WORKFLOW
// =============================================================================

// Approve moves a pending request to approved, stamping the reviewer.
// Absent or non-pending requests are silently left alone and nil is
// returned for the request.
func (m *Manager) Approve(ctx context.Context, id, reviewer, comments string) (*Request, error) {
	req, err := m.store.review(ctx, id, StatusApproved, reviewer, comments)
	if err != nil {
		return nil, err
	}
	if req != nil {
		m.log.Info("vacation request approved",
			zap.String("id", id), zap.String("reviewer", reviewer))
	}
	return req, nil
}

// Reject moves a pending request to rejected. Same no-op semantics as
// Approve for absent or already-terminal requests.
func (m *Manager) Reject(ctx context.Context, id, reviewer, comments string) (*Request, error) {
	req, err := m.store.review(ctx, id, StatusRejected, reviewer, comments)
	if err != nil {
		return nil, err
	}
	if req != nil {
		m.log.Info("vacation request rejected",
			zap.String("id", id), zap.String("reviewer", reviewer))
	}
	return req, nil
}

// =============================================================================
// CONFLICT DETECTION
// =============================================================================

// Conflicts returns one entry per approved request (excluding the target
// itself) whose range overlaps the target's. An empty slice means the
// request is clear; unknown ids also return empty.
func (m *Manager) Conflicts(id string) []Conflict {
	target, ok := m.store.GetByID(id)
	if !ok {
		return nil
	}

	var conflicts []Conflict
	for _, r := range m.store.ByStatus(StatusApproved) {
		if r.ID == target.ID {
			continue
		}
		if !calendar.Overlaps(target.StartDate, target.EndDate, r.StartDate, r.EndDate) {
			continue
		}
		conflicts = append(conflicts, Conflict{
			Request:      target,
			ApprovedWith: r,
			OverlapDays: calendar.OverlapWorkingDays(
				target.StartDate, target.EndDate, r.StartDate, r.EndDate),
		})
	}
	return conflicts
}

// =============================================================================
// TEAM AVAILABILITY
// =============================================================================

// onVacation returns the distinct employee ids with an approved request
// covering the given day.
func onVacation(approved []*Request, day calendar.Date) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, r := range approved {
		if r.Covers(day) && !seen[r.EmployeeID] {
			seen[r.EmployeeID] = true
			ids = append(ids, r.EmployeeID)
		}
	}
	return ids
}

func availabilityPct(available, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(available)).Div(decimal.NewFromInt(int64(total)))
}

// TeamAvailability computes per-day coverage for every WEEKDAY in the
// inclusive range. Weekends are excluded from the result entirely.
func (m *Manager) TeamAvailability(start, end calendar.Date) []TeamAvailability {
	approved := m.store.ByStatus(StatusApproved)
	policy := m.store.Policy()

	var out []TeamAvailability
	for d := start; d.BeforeOrEqual(end); d = d.AddDays(1) {
		if d.IsWeekend() {
			continue
		}
		away := onVacation(approved, d)
		available := policy.TeamSize - len(away)
		out = append(out, TeamAvailability{
			Date:                   d,
			TotalEmployees:         policy.TeamSize,
			AvailableEmployees:     available,
			OnVacation:             away,
			AvailabilityPercentage: availabilityPct(available, policy.TeamSize),
		})
	}
	return out
}

// ValidateTeamAvailability simulates approving the given request: on each
// working day of its range the requester is treated as absent on top of
// everyone already on approved vacation. If any day would drop below the
// policy threshold, the result is invalid and names the offending date.
// Unknown ids are invalid immediately.
func (m *Manager) ValidateTeamAvailability(id string) ValidationResult {
	target, ok := m.store.GetByID(id)
	if !ok {
		return ValidationResult{Valid: false, Message: fmt.Sprintf("request %s not found", id)}
	}

	approved := m.store.ByStatus(StatusApproved)
	policy := m.store.Policy()

	for d := target.StartDate; d.BeforeOrEqual(target.EndDate); d = d.AddDays(1) {
		if d.IsWeekend() {
			continue
		}
		away := onVacation(approved, d)
		absent := len(away)

		// The requester only counts once even if they already have an
		// approved overlapping request.
		alreadyAway := false
		for _, empID := range away {
			if empID == target.EmployeeID {
				alreadyAway = true
				break
			}
		}
		if !alreadyAway {
			absent++
		}

		pct := availabilityPct(policy.TeamSize-absent, policy.TeamSize)
		if pct.LessThan(policy.MinAvailability) {
			return ValidationResult{
				Valid: false,
				Message: fmt.Sprintf("team availability on %s would drop to %s%%, below the minimum of %s%%",
					d,
					pct.Mul(decimal.NewFromInt(100)).Round(0),
					policy.MinAvailability.Mul(decimal.NewFromInt(100)).Round(0)),
			}
		}
	}
	return ValidationResult{Valid: true}
}

// =============================================================================
// SUMMARIES & CALENDAR GRID
// =============================================================================

// EmployeeSummaries groups every request by employee and reports usage
// against the annual allowance, sorted by display name.
func (m *Manager) EmployeeSummaries() []EmployeeSummary {
	policy := m.store.Policy()

	byEmployee := make(map[string]*EmployeeSummary)
	var order []string
	for _, r := range m.store.All() {
		s, ok := byEmployee[r.EmployeeID]
		if !ok {
			s = &EmployeeSummary{
				EmployeeID:       r.EmployeeID,
				TotalDaysAllowed: policy.AnnualAllowanceDays,
			}
			byEmployee[r.EmployeeID] = s
			order = append(order, r.EmployeeID)
		}
		if s.EmployeeName == "" {
			s.EmployeeName = r.EmployeeName
		}
		switch {
		case r.Status == StatusApproved && r.Type == TypeVacation:
			s.DaysUsed += r.TotalDays
		case r.Status == StatusPending:
			s.DaysPending += r.TotalDays
		}
	}

	out := make([]EmployeeSummary, 0, len(order))
	for _, id := range order {
		s := byEmployee[id]
		s.DaysRemaining = s.TotalDaysAllowed - s.DaysUsed
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		ni, nj := out[i].EmployeeName, out[j].EmployeeName
		if ni == nj {
			return out[i].EmployeeID < out[j].EmployeeID
		}
		return ni < nj
	})
	return out
}

// GenerateCalendar builds one CalendarDay per calendar day in the
// inclusive range. Weekends carry zero availability and are flagged.
func (m *Manager) GenerateCalendar(start, end calendar.Date) []CalendarDay {
	approved := m.store.ByStatus(StatusApproved)
	policy := m.store.Policy()

	var out []CalendarDay
	for d := start; d.BeforeOrEqual(end); d = d.AddDays(1) {
		day := CalendarDay{
			Date:         d,
			IsWeekend:    d.IsWeekend(),
			Requests:     []*Request{},
			Availability: decimal.Zero,
		}
		for _, r := range approved {
			if r.Covers(d) {
				day.Requests = append(day.Requests, r)
			}
		}
		if !day.IsWeekend {
			away := onVacation(approved, d)
			day.Availability = availabilityPct(policy.TeamSize-len(away), policy.TeamSize)
		}
		out = append(out, day)
	}
	return out
}

// =============================================================================
// FILTERED VIEWS
// =============================================================================

// SetFilter replaces the active filter. Takes effect on the next read.
func (m *Manager) SetFilter(f Filter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filter = f
}

// ClearFilter resets the filter to match everything.
func (m *Manager) ClearFilter() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filter = Filter{}
}

func (m *Manager) currentFilter() Filter {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.filter
}

func applyFilter(requests []*Request, f Filter) []*Request {
	out := make([]*Request, 0, len(requests))
	for _, r := range requests {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Requests returns all requests restricted by the active filter,
// preserving collection order.
func (m *Manager) Requests() []*Request {
	return applyFilter(m.store.All(), m.currentFilter())
}

// Pending returns pending requests restricted by the active filter.
func (m *Manager) Pending() []*Request {
	return applyFilter(m.store.ByStatus(StatusPending), m.currentFilter())
}

// Approved returns approved requests restricted by the active filter.
func (m *Manager) Approved() []*Request {
	return applyFilter(m.store.ByStatus(StatusApproved), m.currentFilter())
}
