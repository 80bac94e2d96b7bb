/*
Package vacation implements the vacation request store and the
management workflow built on top of it.

PURPOSE:
  Employees request time off; managers approve or reject. This package
  owns the request collection, its persistence, and every derived view
  computed from it: balances, conflicts, team availability, per-employee
  summaries, and calendar grids.

KEY CONCEPTS IN THIS FILE (types.go):
  - Request: A vacation request with its inclusive date range
  - Status: pending -> approved | rejected | cancelled (all terminal)
  - Policy: Fixed business constants (allowance, team size, threshold)
  - Derived types: Balance, Conflict, TeamAvailability, EmployeeSummary,
    CalendarDay - computed on read, never persisted

DESIGN PRINCIPLES:
  1. TotalDays is always recomputed from the date range, never taken
     from the caller.
  2. Exactly one terminal transition may ever happen from pending.
     Further transitions are silent no-ops, not errors.
  3. Percentages use decimal.Decimal to avoid floating-point drift.

SEE ALSO:
  - store.go: collection ownership and persistence
  - manager.go: approval workflow and derived computations
*/
package vacation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/chronos/hr-engine/calendar"
)

// =============================================================================
// REQUEST - A vacation request
// =============================================================================

type Type string

const (
	TypeVacation     Type = "vacation"
	TypePersonalDay  Type = "personal_day"
	TypeSickLeave    Type = "sick_leave"
	TypeCompensatory Type = "compensatory_time"
	TypeOther        Type = "other"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transition is permitted.
func (s Status) Terminal() bool { return s != StatusPending }

// Request is an employee's time-off ask over an inclusive date range.
type Request struct {
	ID           string        `json:"id"`
	EmployeeID   string        `json:"employee_id"`
	EmployeeName string        `json:"employee_name,omitempty"`
	Type         Type          `json:"type"`
	StartDate    calendar.Date `json:"start_date"`
	EndDate      calendar.Date `json:"end_date"`

	// TotalDays is the working-day count of [StartDate, EndDate].
	// Recomputed on create; never trusted from input.
	TotalDays int `json:"total_days"`

	Status      Status    `json:"status"`
	RequestedAt time.Time `json:"requested_at"`

	// Review fields, set only on approve/reject.
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy     string     `json:"reviewed_by,omitempty"`
	ReviewComments string     `json:"review_comments,omitempty"`
}

// Covers reports whether the request's range includes the given day.
func (r *Request) Covers(day calendar.Date) bool {
	return calendar.Covers(r.StartDate, r.EndDate, day)
}

// CreateForm is the caller-supplied part of a new request.
type CreateForm struct {
	Type         Type          `json:"type"`
	StartDate    calendar.Date `json:"start_date"`
	EndDate      calendar.Date `json:"end_date"`
	EmployeeName string        `json:"employee_name,omitempty"`
}

// =============================================================================
// POLICY - Fixed business constants
// =============================================================================

// Policy holds the business constants the workflow computes against.
type Policy struct {
	// AnnualAllowanceDays is each employee's vacation-day entitlement.
	AnnualAllowanceDays int

	// TeamSize is the headcount availability is computed against.
	TeamSize int

	// MinAvailability is the fraction of the team that must remain
	// available on any working day (e.g. 0.7).
	MinAvailability decimal.Decimal
}

func DefaultPolicy() Policy {
	return Policy{
		AnnualAllowanceDays: 22,
		TeamSize:            10,
		MinAvailability:     decimal.NewFromFloat(0.7),
	}
}

// =============================================================================
// DERIVED VIEWS - Computed on read, never persisted
// =============================================================================

// Balance summarizes vacation-type days for one employee.
type Balance struct {
	TotalVacationDays     int `json:"total_vacation_days"`
	UsedVacationDays      int `json:"used_vacation_days"`
	RemainingVacationDays int `json:"remaining_vacation_days"`
	PendingVacationDays   int `json:"pending_vacation_days"`
}

// Conflict pairs a request with an approved request whose range overlaps.
type Conflict struct {
	Request      *Request `json:"request"`
	ApprovedWith *Request `json:"approved_with"`
	OverlapDays  int      `json:"overlap_days"`
}

// TeamAvailability describes one working day's coverage.
type TeamAvailability struct {
	Date                   calendar.Date   `json:"date"`
	TotalEmployees         int             `json:"total_employees"`
	AvailableEmployees     int             `json:"available_employees"`
	OnVacation             []string        `json:"on_vacation"`
	AvailabilityPercentage decimal.Decimal `json:"availability_percentage"`
}

// EmployeeSummary aggregates one employee's vacation usage.
type EmployeeSummary struct {
	EmployeeID       string `json:"employee_id"`
	EmployeeName     string `json:"employee_name,omitempty"`
	TotalDaysAllowed int    `json:"total_days_allowed"`
	DaysUsed         int    `json:"days_used"`
	DaysPending      int    `json:"days_pending"`
	DaysRemaining    int    `json:"days_remaining"`
}

// CalendarDay is one cell of a generated calendar grid.
type CalendarDay struct {
	Date         calendar.Date   `json:"date"`
	IsWeekend    bool            `json:"is_weekend"`
	Requests     []*Request      `json:"requests"`
	Availability decimal.Decimal `json:"availability"`
}

// ValidationResult reports whether a request passes availability checks.
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// Filter restricts the pending/approved derived views.
// Zero-value fields are ignored.
type Filter struct {
	EmployeeID string
	Status     Status
	StartDate  calendar.Date
	EndDate    calendar.Date
}

// Matches applies the filter to a single request.
func (f Filter) Matches(r *Request) bool {
	if f.EmployeeID != "" && r.EmployeeID != f.EmployeeID {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if !f.StartDate.IsZero() && r.EndDate.Before(f.StartDate) {
		return false
	}
	if !f.EndDate.IsZero() && r.StartDate.After(f.EndDate) {
		return false
	}
	return true
}
