package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"shiftdesk-be/internal/dto"
	"shiftdesk-be/internal/entity"
	"shiftdesk-be/internal/pkg/apperror"
	"shiftdesk-be/internal/pkg/logger"
	"shiftdesk-be/internal/repository/specification"
	"shiftdesk-be/internal/repository/unitofwork"
	"shiftdesk-be/pkg/events"

	"github.com/google/uuid"
)

type ITicketService interface {
	Create(ctx context.Context, actor Actor, req *dto.CreateTicketRequest) (*dto.TicketResponse, error)
	// Get is allowed for the author and for org admins.
	Get(ctx context.Context, actor Actor, orgID, ticketID uuid.UUID) (*dto.TicketResponse, error)
	ListMine(ctx context.Context, actor Actor, req *dto.ListTicketsRequest) (*dto.TicketListResponse, error)
	ListByOrganization(ctx context.Context, actor Actor, req *dto.ListTicketsRequest) (*dto.TicketListResponse, error)
	UpdateStatus(ctx context.Context, actor Actor, req *dto.UpdateTicketStatusRequest) (*dto.TicketResponse, error)
}

type ticketService struct {
	uowFactory    unitofwork.RepositoryFactory
	organizations IOrganizationService
	publisher     EventPublisher
	alerts        IPublisherService
	logger        logger.ILogger
	now           func() time.Time
}

func NewTicketService(
	uowFactory unitofwork.RepositoryFactory,
	organizations IOrganizationService,
	publisher EventPublisher,
	alerts IPublisherService,
	log logger.ILogger,
) ITicketService {
	return &ticketService{
		uowFactory:    uowFactory,
		organizations: organizations,
		publisher:     publisherOrNop(publisher),
		alerts:        alerts,
		logger:        log,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

const maxTitleRunes = 80

// titleFrom takes the first line of the description, shortened to a word
// boundary when it is too long.
func titleFrom(description string) string {
	line := strings.TrimSpace(description)
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	if utf8.RuneCountInString(line) <= maxTitleRunes {
		return line
	}
	runes := []rune(line)[:maxTitleRunes]
	cut := string(runes)
	if i := strings.LastIndex(cut, " "); i > maxTitleRunes/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + "…"
}

func (s *ticketService) Create(ctx context.Context, actor Actor, req *dto.CreateTicketRequest) (*dto.TicketResponse, error) {
	if _, err := s.organizations.RequireMember(ctx, actor, req.OrganizationId); err != nil {
		return nil, err
	}
	if _, err := s.organizations.Service(ctx, req.OrganizationId, req.ServiceId); err != nil {
		return nil, err
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, apperror.BadRequest("description is required")
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = titleFrom(description)
	}
	source := entity.TicketSourceForm
	if req.Source == string(entity.TicketSourceChat) {
		source = entity.TicketSourceChat
	}

	ticket := &entity.Ticket{
		Id:             uuid.New(),
		OrganizationId: req.OrganizationId,
		ServiceId:      req.ServiceId,
		UserId:         actor.UserID,
		Title:          title,
		Description:    description,
		Status:         entity.TicketStatusOpen,
		Source:         source,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.TicketRepository().Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publish(ctx, events.TicketCreated, ticket, nil)
	if s.alerts != nil {
		msg := dto.TicketAlertMessage{TicketId: ticket.Id, OrganizationId: ticket.OrganizationId}
		if err := s.alerts.PublishTicketAlert(ctx, msg); err != nil {
			s.logger.Warn("TICKET", "Failed to queue ticket alert", map[string]interface{}{"ticket_id": ticket.Id, "error": err})
		}
	}
	return toTicketResponse(ticket), nil
}

func (s *ticketService) Get(ctx context.Context, actor Actor, orgID, ticketID uuid.UUID) (*dto.TicketResponse, error) {
	membership, err := s.organizations.RequireMember(ctx, actor, orgID)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	ticket, err := uow.TicketRepository().FindOne(ctx,
		specification.ByID{ID: ticketID},
		specification.ByOrganizationID{OrganizationID: orgID},
	)
	if err != nil {
		return nil, err
	}
	if ticket == nil || (!membership.IsAdmin() && ticket.UserId != actor.UserID) {
		return nil, ErrTicketNotFound
	}
	return toTicketResponse(ticket), nil
}

func (s *ticketService) ListMine(ctx context.Context, actor Actor, req *dto.ListTicketsRequest) (*dto.TicketListResponse, error) {
	if _, err := s.organizations.RequireMember(ctx, actor, req.OrganizationId); err != nil {
		return nil, err
	}
	return s.list(ctx, req, specification.ByUserID{UserID: actor.UserID})
}

func (s *ticketService) ListByOrganization(ctx context.Context, actor Actor, req *dto.ListTicketsRequest) (*dto.TicketListResponse, error) {
	if err := s.organizations.RequireAdmin(ctx, actor, req.OrganizationId); err != nil {
		return nil, err
	}
	return s.list(ctx, req)
}

func (s *ticketService) list(ctx context.Context, req *dto.ListTicketsRequest, extra ...specification.Specification) (*dto.TicketListResponse, error) {
	filters := append([]specification.Specification{
		specification.ByOrganizationID{OrganizationID: req.OrganizationId},
	}, extra...)
	if req.Status != "" {
		if !entity.TicketStatus(req.Status).Valid() {
			return nil, apperror.BadRequest("unknown ticket status")
		}
		filters = append(filters, specification.ByStatus{Status: req.Status})
	}
	if req.ServiceId != nil {
		filters = append(filters, specification.ByServiceID{ServiceID: *req.ServiceId})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	total, err := uow.TicketRepository().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	limit, offset := clampPage(req.Limit, req.Offset)
	page := append(filters,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	tickets, err := uow.TicketRepository().FindAll(ctx, page...)
	if err != nil {
		return nil, err
	}

	return &dto.TicketListResponse{
		Items:  toTicketResponses(tickets),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

func (s *ticketService) UpdateStatus(ctx context.Context, actor Actor, req *dto.UpdateTicketStatusRequest) (*dto.TicketResponse, error) {
	if err := s.organizations.RequireAdmin(ctx, actor, req.OrganizationId); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	ticket, err := uow.TicketRepository().FindOne(ctx,
		specification.ByID{ID: req.TicketId},
		specification.ByOrganizationID{OrganizationID: req.OrganizationId},
	)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, ErrTicketNotFound
	}

	previous := ticket.Status
	next := entity.TicketStatus(req.Status)
	if previous == next {
		return toTicketResponse(ticket), nil
	}
	if !ticket.SetStatus(next, s.now()) {
		return nil, ErrIllegalTransition
	}

	if err := uow.TicketRepository().Update(ctx, ticket); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publish(ctx, events.TicketStatusChanged, ticket, map[string]interface{}{
		"previous_status": string(previous),
		"changed_by":      actor.UserID.String(),
	})
	return toTicketResponse(ticket), nil
}

func (s *ticketService) publish(ctx context.Context, eventType string, ticket *entity.Ticket, extra map[string]interface{}) {
	data := map[string]interface{}{
		"organization_id": ticket.OrganizationId.String(),
		"service_id":      ticket.ServiceId.String(),
		"user_id":         ticket.UserId.String(),
		"ticket_id":       ticket.Id.String(),
		"title":           ticket.Title,
		"status":          string(ticket.Status),
		"source":          string(ticket.Source),
	}
	for k, v := range extra {
		data[k] = v
	}
	if err := s.publisher.Publish(ctx, events.New(eventType, data)); err != nil {
		s.logger.Warn("TICKET", "Failed to publish event", map[string]interface{}{
			"event": eventType, "ticket_id": ticket.Id, "error": err,
		})
	}
}
