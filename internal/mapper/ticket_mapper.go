package mapper

import (
	"shiftdesk-be/internal/entity"
	"shiftdesk-be/internal/model"
)

type TicketMapper struct{}

func NewTicketMapper() *TicketMapper {
	return &TicketMapper{}
}

func (m *TicketMapper) ToEntity(t *model.Ticket) *entity.Ticket {
	if t == nil {
		return nil
	}
	return &entity.Ticket{
		Id:             t.Id,
		OrganizationId: t.OrganizationId,
		ServiceId:      t.ServiceId,
		UserId:         t.UserId,
		Title:          t.Title,
		Description:    t.Description,
		Status:         entity.TicketStatus(t.Status),
		Source:         entity.TicketSource(t.Source),
		ResolvedAt:     t.ResolvedAt,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func (m *TicketMapper) ToModel(t *entity.Ticket) *model.Ticket {
	if t == nil {
		return nil
	}
	return &model.Ticket{
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
		UpdatedAt:      t.UpdatedAt,
	}
}

func (m *TicketMapper) ToEntities(tickets []*model.Ticket) []*entity.Ticket {
	entities := make([]*entity.Ticket, len(tickets))
	for i, t := range tickets {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
