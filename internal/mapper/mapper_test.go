package mapper

import (
	"testing"
	"time"

	"shiftdesk-be/internal/entity"
	"shiftdesk-be/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestOrganizationPhrasesJSON(t *testing.T) {
	m := NewOrganizationMapper()
	org := &entity.Organization{
		Id:          uuid.New(),
		Name:        "Acme",
		ChatLocale:  "it",
		ChatPhrases: map[string][]string{"start": {"attacco"}},
	}

	row := m.ToModel(org)
	assert.JSONEq(t, `{"start":["attacco"]}`, string(row.ChatPhrases))
	assert.Equal(t, org, m.ToEntity(row))

	empty := m.ToModel(&entity.Organization{Name: "Bare"})
	assert.Nil(t, empty.ChatPhrases)
	assert.Nil(t, m.ToEntity(empty).ChatPhrases)

	broken := m.ToEntity(&model.Organization{ChatPhrases: datatypes.JSON(`{not json`)})
	assert.Nil(t, broken.ChatPhrases)
}

func TestMembershipCarriesPreloadedUser(t *testing.T) {
	m := NewOrganizationMapper()
	userID := uuid.New()
	row := &model.Membership{
		Id:     uuid.New(),
		UserId: userID,
		Role:   "admin",
		User:   &model.User{Id: userID, Email: "boss@acme.test", Role: "user"},
	}

	ms := m.MembershipToEntity(row)
	require.NotNil(t, ms.User)
	assert.Equal(t, "boss@acme.test", ms.User.Email)
	assert.True(t, ms.IsAdmin())
	assert.Nil(t, m.MembershipToModel(ms).User)
}

func TestTicketAndShiftMappers(t *testing.T) {
	now := time.Now().UTC()
	ticket := &entity.Ticket{Id: uuid.New(), Title: "Leak", Status: entity.TicketStatusOpen, Source: entity.TicketSourceChat, CreatedAt: now}
	assert.Equal(t, ticket, NewTicketMapper().ToEntity(NewTicketMapper().ToModel(ticket)))

	lat := 45.07
	shift := &entity.Shift{Id: uuid.New(), StartedAt: now, StartLatitude: &lat, StartAddress: "Via Roma 1"}
	assert.Equal(t, shift, NewShiftMapper().ToEntity(NewShiftMapper().ToModel(shift)))

	assert.Nil(t, NewShiftMapper().ToEntity(nil))
	assert.Len(t, NewTicketMapper().ToEntities([]*model.Ticket{{}, {}}), 2)
}
