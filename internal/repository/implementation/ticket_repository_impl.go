package implementation

import (
	"context"
	"errors"

	"shiftdesk-be/internal/entity"
	"shiftdesk-be/internal/mapper"
	"shiftdesk-be/internal/model"
	"shiftdesk-be/internal/repository/contract"
	"shiftdesk-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TicketRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TicketMapper
}

func NewTicketRepository(db *gorm.DB) contract.TicketRepository {
	return &TicketRepositoryImpl{
		db:     db,
		mapper: mapper.NewTicketMapper(),
	}
}

func (r *TicketRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TicketRepositoryImpl) Create(ctx context.Context, ticket *entity.Ticket) error {
	m := r.mapper.ToModel(ticket)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*ticket = *r.mapper.ToEntity(m)
	return nil
}

func (r *TicketRepositoryImpl) Update(ctx context.Context, ticket *entity.Ticket) error {
	m := r.mapper.ToModel(ticket)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*ticket = *r.mapper.ToEntity(m)
	return nil
}

func (r *TicketRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Ticket{}, id).Error
}

func (r *TicketRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Ticket, error) {
	var m model.Ticket
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TicketRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Ticket, error) {
	var models []*model.Ticket
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *TicketRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Ticket{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type groupCount struct {
	Key   string
	Total int64
}

func (r *TicketRepositoryImpl) groupBy(ctx context.Context, column string, specs ...specification.Specification) ([]groupCount, error) {
	var rows []groupCount
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Ticket{}), specs...)
	err := query.
		Select(column + "::text AS key, COUNT(*) AS total").
		Group(column).
		Scan(&rows).Error
	return rows, err
}

func (r *TicketRepositoryImpl) CountByStatus(ctx context.Context, specs ...specification.Specification) (map[entity.TicketStatus]int64, error) {
	rows, err := r.groupBy(ctx, "status", specs...)
	if err != nil {
		return nil, err
	}
	out := make(map[entity.TicketStatus]int64, len(rows))
	for _, row := range rows {
		out[entity.TicketStatus(row.Key)] = row.Total
	}
	return out, nil
}

func (r *TicketRepositoryImpl) CountByService(ctx context.Context, specs ...specification.Specification) (map[uuid.UUID]int64, error) {
	rows, err := r.groupBy(ctx, "service_id", specs...)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		id, err := uuid.Parse(row.Key)
		if err != nil {
			return nil, err
		}
		out[id] = row.Total
	}
	return out, nil
}
