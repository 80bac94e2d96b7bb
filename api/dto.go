/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON shapes for the HTTP surface. Domain types carry their own JSON
  tags and are returned directly where they serialize cleanly; the
  types here exist where the wire shape diverges from the domain type
  (decimal percentages become plain floats) or where a request body has
  no domain counterpart.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: uses these types
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/chronos/hr-engine/vacation"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CreateVacationRequest is the body for submitting a vacation request.
type CreateVacationRequest struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	Type         string `json:"type"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
}

// ReviewRequest is the body for approve/reject endpoints.
type ReviewRequest struct {
	Reviewer string `json:"reviewer"`
	Comments string `json:"comments,omitempty"`
}

// ClockRequest is the body for clock-in/out and break endpoints.
type ClockRequest struct {
	EmployeeID string `json:"employee_id"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// AvailabilityDTO renders one working day's coverage with a plain float
// percentage.
type AvailabilityDTO struct {
	Date                   string   `json:"date"`
	TotalEmployees         int      `json:"total_employees"`
	AvailableEmployees     int      `json:"available_employees"`
	OnVacation             []string `json:"on_vacation"`
	AvailabilityPercentage float64  `json:"availability_percentage"`
}

// CalendarDayDTO is one cell of the calendar grid.
type CalendarDayDTO struct {
	Date         string              `json:"date"`
	IsWeekend    bool                `json:"is_weekend"`
	Requests     []*vacation.Request `json:"requests"`
	Availability float64             `json:"availability"`
}

// ConflictDTO pairs a request with an overlapping approved one.
type ConflictDTO struct {
	RequestID    string `json:"request_id"`
	ApprovedWith string `json:"approved_with"`
	EmployeeID   string `json:"employee_id"`
	OverlapDays  int    `json:"overlap_days"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func pctFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func toAvailabilityDTOs(days []vacation.TeamAvailability) []AvailabilityDTO {
	dtos := make([]AvailabilityDTO, len(days))
	for i, d := range days {
		onVacation := d.OnVacation
		if onVacation == nil {
			onVacation = []string{}
		}
		dtos[i] = AvailabilityDTO{
			Date:                   d.Date.String(),
			TotalEmployees:         d.TotalEmployees,
			AvailableEmployees:     d.AvailableEmployees,
			OnVacation:             onVacation,
			AvailabilityPercentage: pctFloat(d.AvailabilityPercentage),
		}
	}
	return dtos
}

func toCalendarDTOs(days []vacation.CalendarDay) []CalendarDayDTO {
	dtos := make([]CalendarDayDTO, len(days))
	for i, d := range days {
		dtos[i] = CalendarDayDTO{
			Date:         d.Date.String(),
			IsWeekend:    d.IsWeekend,
			Requests:     d.Requests,
			Availability: pctFloat(d.Availability),
		}
	}
	return dtos
}

func toConflictDTOs(conflicts []vacation.Conflict) []ConflictDTO {
	dtos := make([]ConflictDTO, len(conflicts))
	for i, c := range conflicts {
		dtos[i] = ConflictDTO{
			RequestID:    c.Request.ID,
			ApprovedWith: c.ApprovedWith.ID,
			EmployeeID:   c.ApprovedWith.EmployeeID,
			OverlapDays:  c.OverlapDays,
		}
	}
	return dtos
}
