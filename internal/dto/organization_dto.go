package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateOrganizationRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=120"`
	ChatLocale string `json:"chat_locale" validate:"omitempty,max=16"`
	// AdminEmail, when set, makes that existing user the first org admin.
	AdminEmail string `json:"admin_email" validate:"omitempty,email"`
}

type OrganizationResponse struct {
	Id          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	ChatLocale  string              `json:"chat_locale"`
	ChatPhrases map[string][]string `json:"chat_phrases,omitempty"`
	MyRole      string              `json:"my_role,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// UpdateChatSettingsRequest replaces the organization's locale and extra
// phrases. Phrase keys are matcher actions (start, end, createTicket, listTickets).
type UpdateChatSettingsRequest struct {
	OrganizationId uuid.UUID
	ChatLocale     string              `json:"chat_locale" validate:"required,max=16"`
	ChatPhrases    map[string][]string `json:"chat_phrases" validate:"omitempty,max=4,dive,max=50,dive,required,max=80"`
}

type CreateServiceRequest struct {
	OrganizationId uuid.UUID
	Name           string `json:"name" validate:"required,min=1,max=120"`
	Description    string `json:"description" validate:"max=500"`
}

type ServiceResponse struct {
	Id             uuid.UUID `json:"id"`
	OrganizationId uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type AddMemberRequest struct {
	OrganizationId uuid.UUID
	Email          string `json:"email" validate:"required,email"`
	Role           string `json:"role" validate:"required,oneof=employee admin"`
}

type UpdateMemberRoleRequest struct {
	OrganizationId uuid.UUID
	UserId         uuid.UUID
	Role           string `json:"role" validate:"required,oneof=employee admin"`
}

type MemberResponse struct {
	Id        uuid.UUID `json:"id"`
	UserId    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
