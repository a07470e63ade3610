package dto

import (
	"shiftdesk-be/pkg/intent"

	"github.com/google/uuid"
)

type ChatMessageRequest struct {
	OrganizationId uuid.UUID  `json:"organization_id" validate:"required"`
	Text           string     `json:"text" validate:"max=2000"`
	Latitude       *float64   `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude      *float64   `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	ServiceId      *uuid.UUID `json:"service_id"`
}

// Reply kinds.
const (
	ChatReplyText          = "text"
	ChatReplyHelp          = "help"
	ChatReplyNeedsLocation = "needsLocation"
	ChatReplyNeedsService  = "needsService"
	ChatReplyNeedsDesc     = "needsDescription"
	ChatReplyShiftStarted  = "shiftStarted"
	ChatReplyShiftEnded    = "shiftEnded"
	ChatReplyTicketCreated = "ticketCreated"
	ChatReplyTicketList    = "ticketList"
	ChatReplyCancelled     = "cancelled"
)

// ChatButton is a quick reply; Value is sent back verbatim as the next text
// (or as service_id for service choices).
type ChatButton struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type ChatReplyResponse struct {
	Kind    string            `json:"kind"`
	Message string            `json:"message"`
	Intent  intent.Result     `json:"intent"`
	Buttons []ChatButton      `json:"buttons,omitempty"`
	Shift   *ShiftResponse    `json:"shift,omitempty"`
	Ticket  *TicketResponse   `json:"ticket,omitempty"`
	Tickets []*TicketResponse `json:"tickets,omitempty"`
}

type ClassifyRequest struct {
	OrganizationId uuid.UUID `json:"organization_id" validate:"required"`
	Text           string    `json:"text" validate:"max=2000"`
}
