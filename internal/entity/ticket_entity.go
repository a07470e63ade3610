package entity

import (
	"time"

	"github.com/google/uuid"
)

type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

var TicketStatuses = []TicketStatus{
	TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed,
}

// ticketTransitions lists the statuses reachable from each status.
// Closed is terminal.
var ticketTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusOpen:       {TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed},
	TicketStatusInProgress: {TicketStatusOpen, TicketStatusResolved, TicketStatusClosed},
	TicketStatusResolved:   {TicketStatusInProgress, TicketStatusClosed},
}

func (s TicketStatus) Valid() bool {
	_, ok := ticketTransitions[s]
	return ok || s == TicketStatusClosed
}

func (s TicketStatus) CanTransitionTo(next TicketStatus) bool {
	for _, allowed := range ticketTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type TicketSource string

const (
	TicketSourceForm TicketSource = "form"
	TicketSourceChat TicketSource = "chat"
)

type Ticket struct {
	Id             uuid.UUID
	OrganizationId uuid.UUID
	ServiceId      uuid.UUID
	UserId         uuid.UUID
	Title          string
	Description    string
	Status         TicketStatus
	Source         TicketSource
	ResolvedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SetStatus applies a legal transition and stamps ResolvedAt.
func (t *Ticket) SetStatus(next TicketStatus, now time.Time) bool {
	if !t.Status.CanTransitionTo(next) {
		return false
	}
	t.Status = next
	switch next {
	case TicketStatusResolved, TicketStatusClosed:
		if t.ResolvedAt == nil {
			t.ResolvedAt = &now
		}
	default:
		t.ResolvedAt = nil
	}
	return true
}
