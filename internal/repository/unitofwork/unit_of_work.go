package unitofwork

import (
	"context"

	"shiftdesk-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	OrganizationRepository() contract.OrganizationRepository
	ServiceRepository() contract.ServiceRepository
	MembershipRepository() contract.MembershipRepository
	ShiftRepository() contract.ShiftRepository
	TicketRepository() contract.TicketRepository
}
