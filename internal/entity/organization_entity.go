package entity

import (
	"time"

	"github.com/google/uuid"
)

type Organization struct {
	Id         uuid.UUID
	Name       string
	ChatLocale string
	// ChatPhrases maps intent action names to extra synonyms.
	ChatPhrases map[string][]string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Service struct {
	Id             uuid.UUID
	OrganizationId uuid.UUID
	Name           string
	Description    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type MembershipRole string

const (
	MembershipRoleEmployee MembershipRole = "employee"
	MembershipRoleAdmin    MembershipRole = "admin"
)

func (r MembershipRole) Valid() bool {
	return r == MembershipRoleEmployee || r == MembershipRoleAdmin
}

type Membership struct {
	Id             uuid.UUID
	OrganizationId uuid.UUID
	UserId         uuid.UUID
	Role           MembershipRole
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// User is set when the repository preloads it.
	User *User
}

func (m *Membership) IsAdmin() bool {
	return m != nil && m.Role == MembershipRoleAdmin
}
