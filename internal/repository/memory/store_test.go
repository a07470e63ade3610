package memory

import (
	"context"
	"testing"
	"time"

	"shiftdesk-be/internal/entity"
	"shiftdesk-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreUsers(t *testing.T) {
	ctx := context.Background()
	uow := NewStore().NewUnitOfWork(ctx)
	users := uow.UserRepository()

	u := &entity.User{Email: " Anna@Acme.test "}
	require.NoError(t, users.Create(ctx, u))
	assert.NotEqual(t, uuid.Nil, u.Id)
	assert.Equal(t, entity.UserRoleUser, u.Role)
	assert.False(t, u.CreatedAt.IsZero())

	assert.Error(t, users.Create(ctx, &entity.User{Email: "anna@acme.test"}), "email is unique")

	found, err := users.FindOne(ctx, specification.ByEmail{Email: "ANNA@acme.test"})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, u.Id, found.Id)

	found.FullName = "changed"
	again, err := users.FindOne(ctx, specification.ByID{ID: u.Id})
	require.NoError(t, err)
	assert.Empty(t, again.FullName, "results are copies")

	missing, err := users.FindOne(ctx, specification.ByID{ID: uuid.New()})
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStoreQueries(t *testing.T) {
	ctx := context.Background()
	uow := NewStore().NewUnitOfWork(ctx)
	orgID, userID := uuid.New(), uuid.New()
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		s := &entity.Shift{OrganizationId: orgID, UserId: userID, StartedAt: base.Add(time.Duration(i) * time.Hour)}
		if i < 4 {
			end := s.StartedAt.Add(30 * time.Minute)
			s.EndedAt = &end
		}
		require.NoError(t, uow.ShiftRepository().Create(ctx, s))
	}
	shifts := uow.ShiftRepository()

	open, err := shifts.FindAll(ctx, specification.OpenShift{})
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, base.Add(4*time.Hour), open[0].StartedAt)

	page, err := shifts.FindAll(ctx,
		specification.ByOrganizationID{OrganizationID: orgID},
		specification.OrderBy{Field: "started_at", Desc: true},
		specification.Pagination{Limit: 2, Offset: 1},
	)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, base.Add(3*time.Hour), page[0].StartedAt)
	assert.Equal(t, base.Add(2*time.Hour), page[1].StartedAt)

	count, err := shifts.Count(ctx, specification.StartedBetween{From: base.Add(time.Hour), To: base.Add(3 * time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, err = shifts.FindAll(ctx, specification.OrderBy{Field: "password"})
	assert.Error(t, err)
}

func TestStoreMembershipsAndTickets(t *testing.T) {
	ctx := context.Background()
	uow := NewStore().NewUnitOfWork(ctx)

	user := &entity.User{Email: "anna@acme.test", FullName: "Anna"}
	require.NoError(t, uow.UserRepository().Create(ctx, user))
	orgA := &entity.Organization{Name: "A"}
	orgB := &entity.Organization{Name: "B"}
	require.NoError(t, uow.OrganizationRepository().Create(ctx, orgA))
	require.NoError(t, uow.OrganizationRepository().Create(ctx, orgB))
	assert.Equal(t, "multi", orgA.ChatLocale)

	m := &entity.Membership{OrganizationId: orgA.Id, UserId: user.Id}
	require.NoError(t, uow.MembershipRepository().Create(ctx, m))
	assert.Equal(t, entity.MembershipRoleEmployee, m.Role)
	assert.Error(t, uow.MembershipRepository().Create(ctx, &entity.Membership{OrganizationId: orgA.Id, UserId: user.Id}))

	orgs, err := uow.OrganizationRepository().FindAll(ctx, specification.MemberOf{UserID: user.Id})
	require.NoError(t, err)
	require.Len(t, orgs, 1)
	assert.Equal(t, orgA.Id, orgs[0].Id)

	withUser, err := uow.MembershipRepository().FindOne(ctx, specification.ByUserID{UserID: user.Id}, specification.WithUser{})
	require.NoError(t, err)
	require.NotNil(t, withUser.User)
	assert.Equal(t, "Anna", withUser.User.FullName)

	svc := uuid.New()
	old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tickets := uow.TicketRepository()
	require.NoError(t, tickets.Create(ctx, &entity.Ticket{OrganizationId: orgA.Id, ServiceId: svc}))
	require.NoError(t, tickets.Create(ctx, &entity.Ticket{OrganizationId: orgA.Id, ServiceId: svc, Status: entity.TicketStatusClosed, CreatedAt: old}))

	byStatus, err := tickets.CountByStatus(ctx, specification.ByOrganizationID{OrganizationID: orgA.Id})
	require.NoError(t, err)
	assert.Equal(t, map[entity.TicketStatus]int64{entity.TicketStatusOpen: 1, entity.TicketStatusClosed: 1}, byStatus)

	recent, err := tickets.CountByService(ctx, specification.CreatedBetween{From: old.Add(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]int64{svc: 1}, recent)
}

func TestStoreUnitOfWork(t *testing.T) {
	ctx := context.Background()
	uow := NewStore().NewUnitOfWork(ctx)

	assert.Error(t, uow.Commit())
	require.NoError(t, uow.Begin(ctx))
	assert.Error(t, uow.Begin(ctx))
	require.NoError(t, uow.Commit())
	assert.NoError(t, uow.Rollback())
}
