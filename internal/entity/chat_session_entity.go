package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatState string

const (
	ChatStateIdle ChatState = "idle"
	// ChatStateAwaitingDescription waits for the ticket text after a bare "ticket".
	ChatStateAwaitingDescription ChatState = "awaiting_description"
	// ChatStateAwaitingService holds a ticket description until a service is picked.
	ChatStateAwaitingService ChatState = "awaiting_service"
)

// ChatSession is the per user and organization conversation state.
type ChatSession struct {
	UserId         uuid.UUID
	OrganizationId uuid.UUID
	State          ChatState
	Description    string
	UpdatedAt      time.Time
}

func ChatSessionKey(userID, orgID uuid.UUID) string {
	return userID.String() + ":" + orgID.String()
}

func (s *ChatSession) Key() string {
	return ChatSessionKey(s.UserId, s.OrganizationId)
}
