package dto

import (
	"time"

	"github.com/google/uuid"
)

type ReportRangeRequest struct {
	OrganizationId uuid.UUID
	From           time.Time
	To             time.Time
}

type EmployeeShiftSummary struct {
	UserId       uuid.UUID `json:"user_id"`
	Email        string    `json:"email,omitempty"`
	FullName     string    `json:"full_name,omitempty"`
	ShiftCount   int       `json:"shift_count"`
	OpenShifts   int       `json:"open_shifts"`
	TotalSeconds int64     `json:"total_seconds"`
	TotalHours   float64   `json:"total_hours"`
}

type ShiftSummaryResponse struct {
	From      time.Time               `json:"from"`
	To        time.Time               `json:"to"`
	Employees []*EmployeeShiftSummary `json:"employees"`
	Totals    EmployeeShiftSummary    `json:"totals"`
}

type ServiceTicketCount struct {
	ServiceId uuid.UUID `json:"service_id"`
	Name      string    `json:"name"`
	Count     int64     `json:"count"`
}

type TicketSummaryResponse struct {
	Total     int64                 `json:"total"`
	ByStatus  map[string]int64      `json:"by_status"`
	ByService []*ServiceTicketCount `json:"by_service"`
}
