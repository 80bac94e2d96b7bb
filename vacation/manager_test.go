package vacation_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronos/hr-engine/vacation"
)

func newManager(t *testing.T) (*vacation.Store, *vacation.Manager) {
	t.Helper()
	s, _ := newEmptyStore(t)
	return s, vacation.NewManager(s, nil)
}

// =============================================================================
// APPROVAL WORKFLOW
// =============================================================================

func TestApprove_StampsReviewer(t *testing.T) {
	s, m := newManager(t)
	ctx := context.Background()

	req, err := s.Create(ctx, weekForm(date(2025, time.December, 1)), "emp-1")
	require.NoError(t, err)

	approved, err := m.Approve(ctx, req.ID, "mgr-1", "have fun")
	require.NoError(t, err)
	require.NotNil(t, approved)

	assert.Equal(t, vacation.StatusApproved, approved.Status)
	assert.Equal(t, "mgr-1", approved.ReviewedBy)
	assert.Equal(t, "have fun", approved.ReviewComments)
	assert.NotNil(t, approved.ReviewedAt)
}

func TestApprove_SecondTransitionIsNoOp(t *testing.T) {
	// GIVEN: an approved request
	// WHEN: it is approved again, then rejected
	// THEN: the first reviewer's stamp is retained, status unchanged
	s, m := newManager(t)
	ctx := context.Background()

	req, err := s.Create(ctx, weekForm(date(2025, time.December, 1)), "emp-1")
	require.NoError(t, err)

	_, err = m.Approve(ctx, req.ID, "mgr-1", "first")
	require.NoError(t, err)

	again, err := m.Approve(ctx, req.ID, "mgr-2", "second")
	require.NoError(t, err)
	assert.Nil(t, again, "second approve must report a no-op")

	rejected, err := m.Reject(ctx, req.ID, "mgr-3", "changed my mind")
	require.NoError(t, err)
	assert.Nil(t, rejected)

	got, _ := s.GetByID(req.ID)
	assert.Equal(t, vacation.StatusApproved, got.Status)
	assert.Equal(t, "mgr-1", got.ReviewedBy)
	assert.Equal(t, "first", got.ReviewComments)
}

func TestReject_UnknownIDIsNoOp(t *testing.T) {
	_, m := newManager(t)
	rejected, err := m.Reject(context.Background(), "missing", "mgr-1", "")
	require.NoError(t, err)
	assert.Nil(t, rejected)
}

// =============================================================================
// CONFLICTS
// =============================================================================

func TestConflicts_NoneWithoutApprovedOverlap(t *testing.T) {
	s, m := newManager(t)
	ctx := context.Background()

	req, err := s.Create(ctx, weekForm(date(2025, time.December, 1)), "emp-1")
	require.NoError(t, err)

	assert.Empty(t, m.Conflicts(req.ID))
	assert.Empty(t, m.Conflicts("missing"))
}

func TestConflicts_CountsOverlapWorkingDays(t *testing.T) {
	// emp-1: 2025-12-01..12-10 (pending target)
	// emp-2: 2025-12-05..12-08 approved -> overlap working days = 2 (Fri, Mon)
	s, m := newManager(t)
	ctx := context.Background()

	target, err := s.Create(ctx, vacation.CreateForm{
		Type:      vacation.TypeVacation,
		StartDate: date(2025, time.December, 1),
		EndDate:   date(2025, time.December, 10),
	}, "emp-1")
	require.NoError(t, err)

	other, err := s.Create(ctx, vacation.CreateForm{
		Type:      vacation.TypeVacation,
		StartDate: date(2025, time.December, 5),
		EndDate:   date(2025, time.December, 8),
	}, "emp-2")
	require.NoError(t, err)
	_, err = m.Approve(ctx, other.ID, "mgr-1", "")
	require.NoError(t, err)

	conflicts := m.Conflicts(target.ID)
	require.Len(t, conflicts, 1)
	assert.Equal(t, other.ID, conflicts[0].ApprovedWith.ID)
	assert.Equal(t, 2, conflicts[0].OverlapDays)
}

// =============================================================================
// TEAM AVAILABILITY
// =============================================================================

func TestTeamAvailability_ExcludesWeekends(t *testing.T) {
	_, m := newManager(t)

	// Mon..Sun: only 5 weekdays reported.
	days := m.TeamAvailability(date(2025, time.December, 1), date(2025, time.December, 7))
	require.Len(t, days, 5)
	for _, d := range days {
		assert.False(t, d.Date.IsWeekend())
		assert.Equal(t, 10, d.TotalEmployees)
		assert.Equal(t, 10, d.AvailableEmployees)
		assert.True(t, d.AvailabilityPercentage.Equal(decimal.NewFromInt(1)))
	}
}

func TestTeamAvailability_CountsApprovedAbsences(t *testing.T) {
	s, m := newManager(t)
	ctx := context.Background()

	req, err := s.Create(ctx, weekForm(date(2025, time.December, 1)), "emp-1")
	require.NoError(t, err)
	_, err = m.Approve(ctx, req.ID, "mgr-1", "")
	require.NoError(t, err)

	days := m.TeamAvailability(date(2025, time.December, 1), date(2025, time.December, 1))
	require.Len(t, days, 1)
	assert.Equal(t, 9, days[0].AvailableEmployees)
	assert.Equal(t, []string{"emp-1"}, days[0].OnVacation)
	assert.True(t, days[0].AvailabilityPercentage.Equal(decimal.NewFromFloat(0.9)))
}

func TestValidateTeamAvailability(t *testing.T) {
	s, m := newManager(t)
	ctx := context.Background()

	// Three other employees approved off for the same week. With the
	// requester that makes 4 of 10 absent: 60% < 70% threshold.
	for _, emp := range []string{"emp-2", "emp-3", "emp-4"} {
		req, err := s.Create(ctx, weekForm(date(2025, time.December, 1)), emp)
		require.NoError(t, err)
		_, err = m.Approve(ctx, req.ID, "mgr-1", "")
		require.NoError(t, err)
	}

	target, err := s.Create(ctx, weekForm(date(2025, time.December, 1)), "emp-1")
	require.NoError(t, err)

	result := m.ValidateTeamAvailability(target.ID)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Message, "2025-12-01", "message must name the offending date")
}

func TestValidateTeamAvailability_PassesAboveThreshold(t *testing.T) {
	s, m := newManager(t)
	ctx := context.Background()

	// Two others off: requester makes 3 of 10 absent, exactly 70%.
	for _, emp := range []string{"emp-2", "emp-3"} {
		req, err := s.Create(ctx, weekForm(date(2025, time.December, 1)), emp)
		require.NoError(t, err)
		_, err = m.Approve(ctx, req.ID, "mgr-1", "")
		require.NoError(t, err)
	}

	target, err := s.Create(ctx, weekForm(date(2025, time.December, 1)), "emp-1")
	require.NoError(t, err)

	assert.True(t, m.ValidateTeamAvailability(target.ID).Valid)
}

func TestValidateTeamAvailability_UnknownID(t *testing.T) {
	_, m := newManager(t)
	result := m.ValidateTeamAvailability("missing")
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Message)
}

// =============================================================================
// SUMMARIES & CALENDAR
// =============================================================================

func TestEmployeeSummaries_SortedByName(t *testing.T) {
	s, m := newManager(t)
	ctx := context.Background()

	zoe := weekForm(date(2025, time.December, 1))
	zoe.EmployeeName = "Zoe"
	reqZ, err := s.Create(ctx, zoe, "emp-z")
	require.NoError(t, err)
	_, err = m.Approve(ctx, reqZ.ID, "mgr-1", "")
	require.NoError(t, err)

	adam := weekForm(date(2025, time.December, 8))
	adam.EmployeeName = "Adam"
	_, err = s.Create(ctx, adam, "emp-a")
	require.NoError(t, err)

	summaries := m.EmployeeSummaries()
	require.Len(t, summaries, 2)

	assert.Equal(t, "Adam", summaries[0].EmployeeName)
	assert.Equal(t, 0, summaries[0].DaysUsed)
	assert.Equal(t, 5, summaries[0].DaysPending)
	assert.Equal(t, 22, summaries[0].DaysRemaining)

	assert.Equal(t, "Zoe", summaries[1].EmployeeName)
	assert.Equal(t, 5, summaries[1].DaysUsed)
	assert.Equal(t, 17, summaries[1].DaysRemaining)
}

func TestGenerateCalendar_WeekRange(t *testing.T) {
	s, m := newManager(t)
	ctx := context.Background()

	req, err := s.Create(ctx, weekForm(date(2025, time.December, 1)), "emp-1")
	require.NoError(t, err)
	_, err = m.Approve(ctx, req.ID, "mgr-1", "")
	require.NoError(t, err)

	days := m.GenerateCalendar(date(2025, time.December, 1), date(2025, time.December, 7))
	require.Len(t, days, 7)

	for i, d := range days {
		wantWeekend := i >= 5 // Sat 12-06, Sun 12-07
		assert.Equal(t, wantWeekend, d.IsWeekend, "day %s", d.Date)
		if wantWeekend {
			assert.True(t, d.Availability.IsZero())
		}
	}

	// Monday has one employee out of ten away.
	assert.Len(t, days[0].Requests, 1)
	assert.True(t, days[0].Availability.Equal(decimal.NewFromFloat(0.9)))
}

// =============================================================================
// FILTERS
// =============================================================================

func TestFilter_ByEmployeePreservesOrder(t *testing.T) {
	s, m := newManager(t)
	ctx := context.Background()

	first, err := s.Create(ctx, weekForm(date(2025, time.November, 3)), "emp-1")
	require.NoError(t, err)
	_, err = s.Create(ctx, weekForm(date(2025, time.November, 10)), "emp-2")
	require.NoError(t, err)
	third, err := s.Create(ctx, weekForm(date(2025, time.December, 1)), "emp-1")
	require.NoError(t, err)

	m.SetFilter(vacation.Filter{EmployeeID: "emp-1"})

	got := m.Requests()
	require.Len(t, got, 2)
	assert.Equal(t, third.ID, got[0].ID, "newest first, same as the underlying collection")
	assert.Equal(t, first.ID, got[1].ID)

	m.ClearFilter()
	assert.Len(t, m.Requests(), 3)
}

func TestFilter_RestrictsPendingView(t *testing.T) {
	s, m := newManager(t)
	ctx := context.Background()

	mine, err := s.Create(ctx, weekForm(date(2025, time.December, 1)), "emp-1")
	require.NoError(t, err)
	_, err = s.Create(ctx, weekForm(date(2025, time.December, 8)), "emp-2")
	require.NoError(t, err)

	m.SetFilter(vacation.Filter{EmployeeID: "emp-1"})

	pending := m.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, mine.ID, pending[0].ID)
}

func TestFilter_DateRange(t *testing.T) {
	s, m := newManager(t)
	ctx := context.Background()

	_, err := s.Create(ctx, weekForm(date(2025, time.November, 3)), "emp-1")
	require.NoError(t, err)
	dec, err := s.Create(ctx, weekForm(date(2025, time.December, 1)), "emp-1")
	require.NoError(t, err)

	m.SetFilter(vacation.Filter{
		StartDate: date(2025, time.December, 1),
		EndDate:   date(2025, time.December, 31),
	})

	got := m.Requests()
	require.Len(t, got, 1)
	assert.Equal(t, dec.ID, got[0].ID)
}
