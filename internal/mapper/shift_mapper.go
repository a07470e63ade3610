package mapper

import (
	"shiftdesk-be/internal/entity"
	"shiftdesk-be/internal/model"
)

type ShiftMapper struct{}

func NewShiftMapper() *ShiftMapper {
	return &ShiftMapper{}
}

func (m *ShiftMapper) ToEntity(s *model.Shift) *entity.Shift {
	if s == nil {
		return nil
	}
	return &entity.Shift{
		Id:             s.Id,
		OrganizationId: s.OrganizationId,
		UserId:         s.UserId,
		ServiceId:      s.ServiceId,
		StartedAt:      s.StartedAt,
		EndedAt:        s.EndedAt,
		StartLatitude:  s.StartLatitude,
		StartLongitude: s.StartLongitude,
		StartAddress:   s.StartAddress,
		EndLatitude:    s.EndLatitude,
		EndLongitude:   s.EndLongitude,
		EndAddress:     s.EndAddress,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func (m *ShiftMapper) ToModel(s *entity.Shift) *model.Shift {
	if s == nil {
		return nil
	}
	return &model.Shift{
		Id:             s.Id,
		OrganizationId: s.OrganizationId,
		UserId:         s.UserId,
		ServiceId:      s.ServiceId,
		StartedAt:      s.StartedAt,
		EndedAt:        s.EndedAt,
		StartLatitude:  s.StartLatitude,
		StartLongitude: s.StartLongitude,
		StartAddress:   s.StartAddress,
		EndLatitude:    s.EndLatitude,
		EndLongitude:   s.EndLongitude,
		EndAddress:     s.EndAddress,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func (m *ShiftMapper) ToEntities(shifts []*model.Shift) []*entity.Shift {
	entities := make([]*entity.Shift, len(shifts))
	for i, s := range shifts {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
