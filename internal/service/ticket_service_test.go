package service

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"shiftdesk-be/internal/dto"
	"shiftdesk-be/internal/entity"
	"shiftdesk-be/internal/pkg/apperror"
	"shiftdesk-be/pkg/events"
	"shiftdesk-be/pkg/intent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTitleFrom(t *testing.T) {
	long := strings.Repeat("word ", 30)
	tests := []struct {
		name        string
		description string
		want        string
	}{
		{name: "short", description: "printer jammed", want: "printer jammed"},
		{name: "first line", description: "  printer jammed\nsecond floor, near the stairs", want: "printer jammed"},
		{name: "long cut at word", description: long, want: strings.TrimSpace(strings.Repeat("word ", 16)) + "…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, titleFrom(tt.description))
		})
	}
}

func TestTicketCreate(t *testing.T) {
	f := newFixture(t)
	org, _, employee := f.team(t, intent.LocaleEnglish)
	svc := f.service(t, org, "Maintenance")
	other := f.org(t, "Other", intent.LocaleEnglish)
	foreign := f.service(t, other, "Reception")

	res, err := f.tickets.Create(f.ctx, employee, &dto.CreateTicketRequest{
		OrganizationId: org.Id,
		ServiceId:      svc.Id,
		Description:    "The printer on the 2nd floor is jammed",
	})
	require.NoError(t, err)
	assert.Equal(t, "The printer on the 2nd floor is jammed", res.Title)
	assert.Equal(t, "open", res.Status)
	assert.Equal(t, "form", res.Source)
	assert.Equal(t, employee.UserID, res.UserId)

	assert.Equal(t, []string{events.TicketCreated}, f.events.types())
	require.Len(t, f.alerts.messages, 1)
	assert.Equal(t, dto.TicketAlertMessage{TicketId: res.Id, OrganizationId: org.Id}, f.alerts.messages[0])

	chat, err := f.tickets.Create(f.ctx, employee, &dto.CreateTicketRequest{
		OrganizationId: org.Id, ServiceId: svc.Id, Title: "Lights", Description: "off", Source: "chat",
	})
	require.NoError(t, err)
	assert.Equal(t, "Lights", chat.Title)
	assert.Equal(t, "chat", chat.Source)

	_, err = f.tickets.Create(f.ctx, employee, &dto.CreateTicketRequest{OrganizationId: org.Id, ServiceId: foreign.Id, Description: "x"})
	assert.ErrorIs(t, err, ErrServiceNotFound)

	_, err = f.tickets.Create(f.ctx, employee, &dto.CreateTicketRequest{OrganizationId: org.Id, ServiceId: svc.Id, Description: "   "})
	assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))
}

func TestTicketVisibility(t *testing.T) {
	f := newFixture(t)
	org, admin, employee := f.team(t, intent.LocaleEnglish)
	colleague := f.user(t, "colleague@acme.test", entity.UserRoleUser)
	f.member(t, org, colleague, entity.MembershipRoleEmployee)
	plumbing := f.service(t, org, "Plumbing")
	power := f.service(t, org, "Power")

	create := func(actor Actor, svc *entity.Service, text string) *dto.TicketResponse {
		res, err := f.tickets.Create(f.ctx, actor, &dto.CreateTicketRequest{OrganizationId: org.Id, ServiceId: svc.Id, Description: text})
		require.NoError(t, err)
		return res
	}
	mine := create(employee, plumbing, "leaking tap")
	create(employee, power, "no power in room 4")
	theirs := create(colleague, plumbing, "blocked drain")

	list, err := f.tickets.ListMine(f.ctx, employee, &dto.ListTicketsRequest{OrganizationId: org.Id})
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.Total)
	assert.Equal(t, defaultPageSize, list.Limit)

	_, err = f.tickets.Get(f.ctx, employee, org.Id, theirs.Id)
	assert.ErrorIs(t, err, ErrTicketNotFound)
	got, err := f.tickets.Get(f.ctx, employee, org.Id, mine.Id)
	require.NoError(t, err)
	assert.Equal(t, "leaking tap", got.Description)
	_, err = f.tickets.Get(f.ctx, admin, org.Id, theirs.Id)
	assert.NoError(t, err)

	_, err = f.tickets.ListByOrganization(f.ctx, employee, &dto.ListTicketsRequest{OrganizationId: org.Id})
	assert.ErrorIs(t, err, ErrNotAdmin)

	tests := []struct {
		name  string
		req   dto.ListTicketsRequest
		total int64
		items int
	}{
		{name: "all", req: dto.ListTicketsRequest{}, total: 3, items: 3},
		{name: "by service", req: dto.ListTicketsRequest{ServiceId: &plumbing.Id}, total: 2, items: 2},
		{name: "by status", req: dto.ListTicketsRequest{Status: "resolved"}, total: 0, items: 0},
		{name: "paged", req: dto.ListTicketsRequest{Limit: 2, Offset: 2}, total: 3, items: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			req.OrganizationId = org.Id
			res, err := f.tickets.ListByOrganization(f.ctx, admin, &req)
			require.NoError(t, err)
			assert.Equal(t, tt.total, res.Total)
			assert.Len(t, res.Items, tt.items)
		})
	}

	_, err = f.tickets.ListByOrganization(f.ctx, admin, &dto.ListTicketsRequest{OrganizationId: org.Id, Status: "lost"})
	assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))
}

func TestTicketUpdateStatus(t *testing.T) {
	f := newFixture(t)
	org, admin, employee := f.team(t, intent.LocaleEnglish)
	svc := f.service(t, org, "Maintenance")

	ticket, err := f.tickets.Create(f.ctx, employee, &dto.CreateTicketRequest{OrganizationId: org.Id, ServiceId: svc.Id, Description: "door stuck"})
	require.NoError(t, err)

	update := func(actor Actor, status string) (*dto.TicketResponse, error) {
		return f.tickets.UpdateStatus(f.ctx, actor, &dto.UpdateTicketStatusRequest{OrganizationId: org.Id, TicketId: ticket.Id, Status: status})
	}

	_, err = update(employee, "in_progress")
	assert.ErrorIs(t, err, ErrNotAdmin)

	res, err := update(admin, "in_progress")
	require.NoError(t, err)
	assert.Equal(t, "in_progress", res.Status)
	assert.Nil(t, res.ResolvedAt)

	f.advance(time.Hour)
	res, err = update(admin, "resolved")
	require.NoError(t, err)
	require.NotNil(t, res.ResolvedAt)
	assert.Equal(t, f.clock, *res.ResolvedAt)

	published := len(f.events.types())
	res, err = update(admin, "resolved")
	require.NoError(t, err, "same status is a no-op")
	assert.Equal(t, "resolved", res.Status)
	assert.Len(t, f.events.types(), published)

	_, err = update(admin, "open")
	assert.ErrorIs(t, err, ErrIllegalTransition)

	_, err = update(admin, "closed")
	require.NoError(t, err)
	_, err = update(admin, "in_progress")
	assert.ErrorIs(t, err, ErrIllegalTransition)

	last := f.events.last()
	assert.Equal(t, events.TicketStatusChanged, last.EventType())
	assert.Equal(t, "resolved", last.Payload()["previous_status"])
	assert.Equal(t, "closed", last.Payload()["status"])
}
