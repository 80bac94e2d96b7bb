package vacation

import (
	"time"

	"github.com/chronos/hr-engine/calendar"
)

// seedRequests is the fixed example dataset used when the persistence
// port holds no (or corrupt) data. Newest first, matching store order.
func seedRequests() []*Request {
	reviewedAt := time.Date(2025, time.May, 20, 10, 0, 0, 0, time.UTC)

	return []*Request{
		{
			ID:           "vac-seed-3",
			EmployeeID:   "emp-3",
			EmployeeName: "Clara Osei",
			Type:         TypePersonalDay,
			StartDate:    calendar.NewDate(2025, time.September, 12),
			EndDate:      calendar.NewDate(2025, time.September, 12),
			TotalDays:    1,
			Status:       StatusPending,
			RequestedAt:  time.Date(2025, time.August, 30, 9, 15, 0, 0, time.UTC),
		},
		{
			ID:           "vac-seed-2",
			EmployeeID:   "emp-2",
			EmployeeName: "Ben Harlow",
			Type:         TypeVacation,
			StartDate:    calendar.NewDate(2025, time.August, 18),
			EndDate:      calendar.NewDate(2025, time.August, 22),
			TotalDays:    5,
			Status:       StatusPending,
			RequestedAt:  time.Date(2025, time.July, 28, 14, 30, 0, 0, time.UTC),
		},
		{
			ID:             "vac-seed-1",
			EmployeeID:     "emp-1",
			EmployeeName:   "Ana Ferreira",
			Type:           TypeVacation,
			StartDate:      calendar.NewDate(2025, time.June, 2),
			EndDate:        calendar.NewDate(2025, time.June, 6),
			TotalDays:      5,
			Status:         StatusApproved,
			RequestedAt:    time.Date(2025, time.May, 15, 8, 0, 0, 0, time.UTC),
			ReviewedAt:     &reviewedAt,
			ReviewedBy:     "mgr-1",
			ReviewComments: "enjoy",
		},
	}
}
