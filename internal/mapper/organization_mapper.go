package mapper

import (
	"encoding/json"

	"shiftdesk-be/internal/entity"
	"shiftdesk-be/internal/model"

	"gorm.io/datatypes"
)

type OrganizationMapper struct {
	users *UserMapper
}

func NewOrganizationMapper() *OrganizationMapper {
	return &OrganizationMapper{users: NewUserMapper()}
}

func (m *OrganizationMapper) ToEntity(o *model.Organization) *entity.Organization {
	if o == nil {
		return nil
	}
	var phrases map[string][]string
	if len(o.ChatPhrases) > 0 {
		// A malformed column degrades to "no extra phrases".
		_ = json.Unmarshal(o.ChatPhrases, &phrases)
	}
	return &entity.Organization{
		Id:          o.Id,
		Name:        o.Name,
		ChatLocale:  o.ChatLocale,
		ChatPhrases: phrases,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func (m *OrganizationMapper) ToModel(o *entity.Organization) *model.Organization {
	if o == nil {
		return nil
	}
	var phrases datatypes.JSON
	if len(o.ChatPhrases) > 0 {
		if raw, err := json.Marshal(o.ChatPhrases); err == nil {
			phrases = datatypes.JSON(raw)
		}
	}
	return &model.Organization{
		Id:          o.Id,
		Name:        o.Name,
		ChatLocale:  o.ChatLocale,
		ChatPhrases: phrases,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func (m *OrganizationMapper) ToEntities(orgs []*model.Organization) []*entity.Organization {
	entities := make([]*entity.Organization, len(orgs))
	for i, o := range orgs {
		entities[i] = m.ToEntity(o)
	}
	return entities
}

func (m *OrganizationMapper) ServiceToEntity(s *model.Service) *entity.Service {
	if s == nil {
		return nil
	}
	return &entity.Service{
		Id:             s.Id,
		OrganizationId: s.OrganizationId,
		Name:           s.Name,
		Description:    s.Description,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func (m *OrganizationMapper) ServiceToModel(s *entity.Service) *model.Service {
	if s == nil {
		return nil
	}
	return &model.Service{
		Id:             s.Id,
		OrganizationId: s.OrganizationId,
		Name:           s.Name,
		Description:    s.Description,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func (m *OrganizationMapper) ServicesToEntities(services []*model.Service) []*entity.Service {
	entities := make([]*entity.Service, len(services))
	for i, s := range services {
		entities[i] = m.ServiceToEntity(s)
	}
	return entities
}

func (m *OrganizationMapper) MembershipToEntity(ms *model.Membership) *entity.Membership {
	if ms == nil {
		return nil
	}
	return &entity.Membership{
		Id:             ms.Id,
		OrganizationId: ms.OrganizationId,
		UserId:         ms.UserId,
		Role:           entity.MembershipRole(ms.Role),
		CreatedAt:      ms.CreatedAt,
		UpdatedAt:      ms.UpdatedAt,
		User:           m.users.ToEntity(ms.User),
	}
}

// MembershipToModel leaves the User association unset so saving a
// membership never writes the user row.
func (m *OrganizationMapper) MembershipToModel(ms *entity.Membership) *model.Membership {
	if ms == nil {
		return nil
	}
	return &model.Membership{
		Id:             ms.Id,
		OrganizationId: ms.OrganizationId,
		UserId:         ms.UserId,
		Role:           string(ms.Role),
		CreatedAt:      ms.CreatedAt,
		UpdatedAt:      ms.UpdatedAt,
	}
}

func (m *OrganizationMapper) MembershipsToEntities(memberships []*model.Membership) []*entity.Membership {
	entities := make([]*entity.Membership, len(memberships))
	for i, ms := range memberships {
		entities[i] = m.MembershipToEntity(ms)
	}
	return entities
}
