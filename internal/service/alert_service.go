package service

import (
	"context"
	"encoding/json"
	"errors"

	"shiftdesk-be/internal/dto"
	"shiftdesk-be/internal/pkg/logger"
	"shiftdesk-be/internal/pkg/mailer"
	"shiftdesk-be/internal/repository/specification"
	"shiftdesk-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
)

// IAlertService consumes ticket alerts from the in-process bus and emails
// the organization's admins.
type IAlertService interface {
	Consume(ctx context.Context) error
}

type alertService struct {
	subscriber    message.Subscriber
	topicName     string
	uowFactory    unitofwork.RepositoryFactory
	organizations IOrganizationService
	mailer        mailer.IEmailService
	logger        logger.ILogger
}

func NewAlertService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	organizations IOrganizationService,
	emailService mailer.IEmailService,
	log logger.ILogger,
) IAlertService {
	return &alertService{
		subscriber:    subscriber,
		topicName:     topicName,
		uowFactory:    uowFactory,
		organizations: organizations,
		mailer:        emailService,
		logger:        log,
	}
}

func (s *alertService) Consume(ctx context.Context) error {
	messages, err := s.subscriber.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *alertService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.TicketAlertMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.logger.Error("ALERT", "Failed to unmarshal ticket alert", map[string]interface{}{"error": err})
		msg.Ack() // poison message, retrying cannot help
		return
	}

	alert, recipients, err := s.buildAlert(ctx, payload)
	if err != nil {
		s.logger.Error("ALERT", "Failed to load ticket alert data", map[string]interface{}{
			"ticket_id": payload.TicketId, "error": err,
		})
		msg.Nack()
		return
	}
	if alert == nil || len(recipients) == 0 {
		msg.Ack()
		return
	}

	if err := s.mailer.SendTicketAlert(recipients, *alert); err != nil {
		// Mail delivery is best-effort; the ticket itself is stored.
		s.logger.Error("ALERT", "Failed to send ticket alert", map[string]interface{}{
			"ticket_id": payload.TicketId, "error": err,
		})
		msg.Ack()
		return
	}

	s.logger.Info("ALERT", "Ticket alert sent", map[string]interface{}{
		"ticket_id": payload.TicketId, "recipients": len(recipients),
	})
	msg.Ack()
}

// buildAlert returns (nil, nil, nil) when the ticket or its organization
// no longer exists.
func (s *alertService) buildAlert(ctx context.Context, payload dto.TicketAlertMessage) (*mailer.TicketAlert, []string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	ticket, err := uow.TicketRepository().FindOne(ctx, specification.ByID{ID: payload.TicketId})
	if err != nil || ticket == nil {
		return nil, nil, err
	}

	org, err := s.organizations.Organization(ctx, ticket.OrganizationId)
	if errors.Is(err, ErrOrganizationNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	serviceName := ""
	if svc, err := s.organizations.Service(ctx, ticket.OrganizationId, ticket.ServiceId); err == nil {
		serviceName = svc.Name
	}

	alert := &mailer.TicketAlert{
		TicketId:         ticket.Id.String(),
		OrganizationName: org.Name,
		ServiceName:      serviceName,
		Title:            ticket.Title,
		Description:      ticket.Description,
		Source:           string(ticket.Source),
		CreatedAt:        ticket.CreatedAt,
	}
	if author, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: ticket.UserId}); err == nil && author != nil {
		alert.AuthorName = author.FullName
		alert.AuthorEmail = author.Email
	}

	recipients, err := s.organizations.AdminEmails(ctx, ticket.OrganizationId)
	if err != nil {
		return nil, nil, err
	}
	return alert, recipients, nil
}
