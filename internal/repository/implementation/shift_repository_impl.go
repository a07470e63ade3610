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

type ShiftRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ShiftMapper
}

func NewShiftRepository(db *gorm.DB) contract.ShiftRepository {
	return &ShiftRepositoryImpl{
		db:     db,
		mapper: mapper.NewShiftMapper(),
	}
}

func (r *ShiftRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ShiftRepositoryImpl) Create(ctx context.Context, shift *entity.Shift) error {
	m := r.mapper.ToModel(shift)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*shift = *r.mapper.ToEntity(m)
	return nil
}

func (r *ShiftRepositoryImpl) Update(ctx context.Context, shift *entity.Shift) error {
	m := r.mapper.ToModel(shift)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*shift = *r.mapper.ToEntity(m)
	return nil
}

func (r *ShiftRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Shift{}, id).Error
}

func (r *ShiftRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Shift, error) {
	var m model.Shift
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ShiftRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Shift, error) {
	var models []*model.Shift
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ShiftRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Shift{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
