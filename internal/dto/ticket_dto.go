package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTicketRequest struct {
	OrganizationId uuid.UUID `json:"organization_id" validate:"required"`
	ServiceId      uuid.UUID `json:"service_id" validate:"required"`
	Title          string    `json:"title" validate:"omitempty,max=200"`
	Description    string    `json:"description" validate:"required,max=4000"`
	Source         string    `json:"-"`
}

type ListTicketsRequest struct {
	OrganizationId uuid.UUID
	Status         string
	ServiceId      *uuid.UUID
	Limit          int
	Offset         int
}

type UpdateTicketStatusRequest struct {
	OrganizationId uuid.UUID
	TicketId       uuid.UUID
	Status         string `json:"status" validate:"required,oneof=open in_progress resolved closed"`
}

type TicketResponse struct {
	Id             uuid.UUID  `json:"id"`
	OrganizationId uuid.UUID  `json:"organization_id"`
	ServiceId      uuid.UUID  `json:"service_id"`
	UserId         uuid.UUID  `json:"user_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	Source         string     `json:"source"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type TicketListResponse struct {
	Items  []*TicketResponse `json:"items"`
	Total  int64             `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

// TicketAlertMessage is the in-process bus payload for a new ticket.
type TicketAlertMessage struct {
	TicketId       uuid.UUID `json:"ticket_id"`
	OrganizationId uuid.UUID `json:"organization_id"`
}
