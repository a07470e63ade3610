package contract

import (
	"context"

	"shiftdesk-be/internal/entity"
	"shiftdesk-be/internal/repository/specification"

	"github.com/google/uuid"
)

type TicketRepository interface {
	Create(ctx context.Context, ticket *entity.Ticket) error
	Update(ctx context.Context, ticket *entity.Ticket) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Ticket, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Ticket, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// CountByStatus groups matching tickets by status.
	CountByStatus(ctx context.Context, specs ...specification.Specification) (map[entity.TicketStatus]int64, error)
	// CountByService groups matching tickets by service.
	CountByService(ctx context.Context, specs ...specification.Specification) (map[uuid.UUID]int64, error)
}
