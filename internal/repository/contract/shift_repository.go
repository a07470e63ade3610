package contract

import (
	"context"

	"shiftdesk-be/internal/entity"
	"shiftdesk-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ShiftRepository interface {
	Create(ctx context.Context, shift *entity.Shift) error
	Update(ctx context.Context, shift *entity.Shift) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Shift, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Shift, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
