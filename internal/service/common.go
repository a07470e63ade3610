package service

import (
	"context"
	"time"

	"shiftdesk-be/internal/dto"
	"shiftdesk-be/internal/entity"
	"shiftdesk-be/internal/pkg/apperror"
	"shiftdesk-be/pkg/events"

	"github.com/google/uuid"
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID uuid.UUID
	Role   entity.UserRole
}

func (a Actor) IsSuperAdmin() bool {
	return a.Role == entity.UserRoleSuperAdmin
}

// EventPublisher is satisfied by *nats.Publisher.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, events.Event) error { return nil }

func publisherOrNop(p EventPublisher) EventPublisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

var (
	ErrOrganizationNotFound = apperror.NotFound("organization not found")
	ErrServiceNotFound      = apperror.NotFound("service not found")
	ErrUserNotFound         = apperror.NotFound("user not found")
	ErrMemberNotFound       = apperror.NotFound("member not found")
	ErrTicketNotFound       = apperror.NotFound("ticket not found")
	ErrNotMember            = apperror.Forbidden("not a member of this organization")
	ErrNotAdmin             = apperror.Forbidden("organization admin role required")
	ErrAlreadyMember        = apperror.Conflict("user is already a member")
	ErrLastAdmin            = apperror.Conflict("organization must keep at least one admin")
	ErrShiftAlreadyOpen     = apperror.Conflict("a shift is already open")
	ErrNoOpenShift          = apperror.Conflict("no open shift")
	ErrLocationRequired     = apperror.BadRequest("latitude and longitude are required")
	ErrIllegalTransition    = apperror.Conflict("illegal ticket status transition")
	ErrEmailTaken           = apperror.Conflict("email already registered")
	ErrInvalidCredentials   = apperror.Unauthorized("invalid email or password")
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		Id:        u.Id,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func toOrganizationResponse(o *entity.Organization, myRole string) *dto.OrganizationResponse {
	return &dto.OrganizationResponse{
		Id:          o.Id,
		Name:        o.Name,
		ChatLocale:  o.ChatLocale,
		ChatPhrases: o.ChatPhrases,
		MyRole:      myRole,
		CreatedAt:   o.CreatedAt,
	}
}

func toServiceResponse(s *entity.Service) *dto.ServiceResponse {
	return &dto.ServiceResponse{
		Id:             s.Id,
		OrganizationId: s.OrganizationId,
		Name:           s.Name,
		Description:    s.Description,
		CreatedAt:      s.CreatedAt,
	}
}

func toMemberResponse(m *entity.Membership) *dto.MemberResponse {
	res := &dto.MemberResponse{
		Id:        m.Id,
		UserId:    m.UserId,
		Role:      string(m.Role),
		CreatedAt: m.CreatedAt,
	}
	if m.User != nil {
		res.Email = m.User.Email
		res.FullName = m.User.FullName
	}
	return res
}

func toShiftResponse(s *entity.Shift, now time.Time) *dto.ShiftResponse {
	return &dto.ShiftResponse{
		Id:              s.Id,
		OrganizationId:  s.OrganizationId,
		UserId:          s.UserId,
		ServiceId:       s.ServiceId,
		StartedAt:       s.StartedAt,
		EndedAt:         s.EndedAt,
		StartLatitude:   s.StartLatitude,
		StartLongitude:  s.StartLongitude,
		StartAddress:    s.StartAddress,
		EndLatitude:     s.EndLatitude,
		EndLongitude:    s.EndLongitude,
		EndAddress:      s.EndAddress,
		DurationSeconds: int64(s.Duration(now) / time.Second),
		Open:            s.IsOpen(),
	}
}

func toTicketResponse(t *entity.Ticket) *dto.TicketResponse {
	return &dto.TicketResponse{
		Id:             t.Id,
		OrganizationId: t.OrganizationId,
		ServiceId:      t.ServiceId,
		UserId:         t.UserId,
		Title:          t.Title,
		Description:    t.Description,
		Status:         string(t.Status),
		Source:         string(t.Source),
		ResolvedAt:     t.ResolvedAt,
		CreatedAt:      t.CreatedAt,
	}
}

func toTicketResponses(tickets []*entity.Ticket) []*dto.TicketResponse {
	out := make([]*dto.TicketResponse, len(tickets))
	for i, t := range tickets {
		out[i] = toTicketResponse(t)
	}
	return out
}
