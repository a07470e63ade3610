package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"shiftdesk-be/internal/dto"
	"shiftdesk-be/internal/entity"
	"shiftdesk-be/internal/pkg/logger"
	"shiftdesk-be/internal/repository/memory"
	"shiftdesk-be/pkg/events"
	"shiftdesk-be/pkg/intent"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

func (p *recordingPublisher) last() events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return nil
	}
	return p.events[len(p.events)-1]
}

type recordingAlerts struct {
	mu       sync.Mutex
	messages []dto.TicketAlertMessage
}

func (a *recordingAlerts) PublishTicketAlert(_ context.Context, msg dto.TicketAlertMessage) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.messages = append(a.messages, msg)
	return nil
}

type fakeGeocoder struct {
	address string
}

func (g fakeGeocoder) Reverse(_ context.Context, lat, lng float64) (*dto.AddressResponse, error) {
	return &dto.AddressResponse{Formatted: g.address, Latitude: lat, Longitude: lng}, nil
}

func (g fakeGeocoder) Describe(context.Context, float64, float64) string {
	return g.address
}

// fixture wires the services over the in-memory store.
type fixture struct {
	ctx      context.Context
	store    *memory.Store
	matchers *MatcherProvider
	events   *recordingPublisher
	alerts   *recordingAlerts
	orgs     IOrganizationService
	shifts   *shiftService
	tickets  *ticketService
	clock    time.Time
}

const testAddress = "Via Roma 1, Milano"

func newFixture(t *testing.T) *fixture {
	t.Helper()

	registry, err := intent.NewBuiltinRegistry(intent.DefaultConfig(), intent.LocaleMulti)
	require.NoError(t, err)

	f := &fixture{
		ctx:      context.Background(),
		store:    memory.NewStore(),
		matchers: NewMatcherProvider(registry, time.Minute),
		events:   &recordingPublisher{},
		alerts:   &recordingAlerts{},
		clock:    time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
	}
	log := logger.NewNopLogger()

	f.orgs = NewOrganizationService(f.store, f.matchers, log)
	f.shifts = NewShiftService(f.store, f.orgs, fakeGeocoder{address: testAddress}, f.events, log).(*shiftService)
	f.shifts.now = func() time.Time { return f.clock }
	f.tickets = NewTicketService(f.store, f.orgs, f.events, f.alerts, log).(*ticketService)
	f.tickets.now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.clock = f.clock.Add(d)
}

func (f *fixture) user(t *testing.T, email string, role entity.UserRole) Actor {
	t.Helper()
	u := &entity.User{Id: uuid.New(), Email: email, FullName: "User " + email, Role: role}
	require.NoError(t, f.store.NewUnitOfWork(f.ctx).UserRepository().Create(f.ctx, u))
	return Actor{UserID: u.Id, Role: role}
}

func (f *fixture) org(t *testing.T, name, locale string) *entity.Organization {
	t.Helper()
	org := &entity.Organization{Id: uuid.New(), Name: name, ChatLocale: locale}
	require.NoError(t, f.store.NewUnitOfWork(f.ctx).OrganizationRepository().Create(f.ctx, org))
	return org
}

func (f *fixture) member(t *testing.T, org *entity.Organization, actor Actor, role entity.MembershipRole) {
	t.Helper()
	m := &entity.Membership{Id: uuid.New(), OrganizationId: org.Id, UserId: actor.UserID, Role: role}
	require.NoError(t, f.store.NewUnitOfWork(f.ctx).MembershipRepository().Create(f.ctx, m))
}

func (f *fixture) service(t *testing.T, org *entity.Organization, name string) *entity.Service {
	t.Helper()
	svc := &entity.Service{Id: uuid.New(), OrganizationId: org.Id, Name: name}
	require.NoError(t, f.store.NewUnitOfWork(f.ctx).ServiceRepository().Create(f.ctx, svc))
	return svc
}

// team creates an organization with one admin and one employee.
func (f *fixture) team(t *testing.T, locale string) (*entity.Organization, Actor, Actor) {
	t.Helper()
	org := f.org(t, "Acme "+locale, locale)
	admin := f.user(t, "admin-"+org.Id.String()[:8]+"@acme.test", entity.UserRoleUser)
	employee := f.user(t, "employee-"+org.Id.String()[:8]+"@acme.test", entity.UserRoleUser)
	f.member(t, org, admin, entity.MembershipRoleAdmin)
	f.member(t, org, employee, entity.MembershipRoleEmployee)
	return org, admin, employee
}

func ptr[T any](v T) *T {
	return &v
}
