/*
Package correction implements the time-correction request workflow.

PURPOSE:
  Employees ask to amend a recorded clock-in/clock-out pair; reviewers
  approve or deny. Unlike the vacation store, the source of truth is a
  remote HR API - this package keeps an optimistic local cache that is
  only updated after the remote call succeeds (cache-aside).

KEY CONCEPTS IN THIS FILE (types.go):
  - Request: A correction against an existing work session
  - Status: pending -> approved | denied (both terminal)
  - The terminal rejection status is "denied" EVERYWHERE. Comparisons
    against any other spelling are a bug.

SEE ALSO:
  - client.go: REST client for the upstream API
  - service.go: cache-aside orchestration and validation
*/
package correction

import "time"

// =============================================================================
// REQUEST - A correction to a recorded work session
// =============================================================================

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
)

// MinReasonLength is the shortest acceptable free-text reason.
const MinReasonLength = 10

// Request asks to amend the clock-in and/or clock-out of a work session.
type Request struct {
	ID            string `json:"id"`
	EmployeeID    string `json:"employee_id"`
	WorkSessionID string `json:"work_session_id"`

	// At least one of these should differ from the original session.
	RequestedClockIn  *time.Time `json:"requested_clock_in,omitempty"`
	RequestedClockOut *time.Time `json:"requested_clock_out,omitempty"`

	Reason    string    `json:"reason"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`

	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy  string     `json:"reviewed_by,omitempty"`
	ReviewNotes string     `json:"review_notes,omitempty"`
}

// CreateForm is the payload for a new correction request.
type CreateForm struct {
	EmployeeID        string     `json:"employee_id"`
	WorkSessionID     string     `json:"work_session_id"`
	RequestedClockIn  *time.Time `json:"requested_clock_in,omitempty"`
	RequestedClockOut *time.Time `json:"requested_clock_out,omitempty"`
	Reason            string     `json:"reason"`
}

// UpdateForm amends an existing pending request.
type UpdateForm struct {
	RequestedClockIn  *time.Time `json:"requested_clock_in,omitempty"`
	RequestedClockOut *time.Time `json:"requested_clock_out,omitempty"`
	Reason            string     `json:"reason,omitempty"`
}

// ListQuery filters the upstream list endpoint. Zero values are omitted.
type ListQuery struct {
	EmployeeID string
	Status     Status
}
