package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shiftdesk-be/internal/dto"
	"shiftdesk-be/internal/entity"
	"shiftdesk-be/internal/pkg/logger"
	"shiftdesk-be/pkg/intent"

	"github.com/google/uuid"
)

type IChatService interface {
	// HandleMessage classifies one chat line and runs the resolved workflow.
	HandleMessage(ctx context.Context, actor Actor, req *dto.ChatMessageRequest) (*dto.ChatReplyResponse, error)
	// Classify only runs the matcher; nothing is executed.
	Classify(ctx context.Context, actor Actor, req *dto.ClassifyRequest) (intent.Result, error)
	Reset(ctx context.Context, actor Actor, orgID uuid.UUID) error
}

// ChatSessionStore is satisfied by *memory.SessionRepository.
type ChatSessionStore interface {
	Save(session *entity.ChatSession)
	Get(userID, orgID uuid.UUID) (*entity.ChatSession, bool)
	Delete(userID, orgID uuid.UUID)
}

type chatService struct {
	matchers      *MatcherProvider
	sessions      ChatSessionStore
	organizations IOrganizationService
	shifts        IShiftService
	tickets       ITicketService
	logger        logger.ILogger
}

func NewChatService(
	matchers *MatcherProvider,
	sessions ChatSessionStore,
	organizations IOrganizationService,
	shifts IShiftService,
	tickets ITicketService,
	log logger.ILogger,
) IChatService {
	return &chatService{
		matchers:      matchers,
		sessions:      sessions,
		organizations: organizations,
		shifts:        shifts,
		tickets:       tickets,
		logger:        log,
	}
}

const chatTicketListSize = 5

// chatConversation carries what one HandleMessage call needs.
type chatConversation struct {
	actor   Actor
	org     *entity.Organization
	matcher *intent.Matcher
	text    chatText
	req     *dto.ChatMessageRequest
}

func (s *chatService) open(ctx context.Context, actor Actor, orgID uuid.UUID) (*entity.Organization, *intent.Matcher, error) {
	if _, err := s.organizations.RequireMember(ctx, actor, orgID); err != nil {
		return nil, nil, err
	}
	org, err := s.organizations.Organization(ctx, orgID)
	if err != nil {
		return nil, nil, err
	}
	return org, s.matchers.ForOrganization(org), nil
}

func (s *chatService) Classify(ctx context.Context, actor Actor, req *dto.ClassifyRequest) (intent.Result, error) {
	_, matcher, err := s.open(ctx, actor, req.OrganizationId)
	if err != nil {
		return intent.NoMatch(), err
	}
	return matcher.Classify(req.Text), nil
}

func (s *chatService) Reset(ctx context.Context, actor Actor, orgID uuid.UUID) error {
	if _, err := s.organizations.RequireMember(ctx, actor, orgID); err != nil {
		return err
	}
	s.sessions.Delete(actor.UserID, orgID)
	return nil
}

func (s *chatService) HandleMessage(ctx context.Context, actor Actor, req *dto.ChatMessageRequest) (*dto.ChatReplyResponse, error) {
	org, matcher, err := s.open(ctx, actor, req.OrganizationId)
	if err != nil {
		return nil, err
	}
	c := &chatConversation{
		actor:   actor,
		org:     org,
		matcher: matcher,
		text:    textsFor(org.ChatLocale),
		req:     req,
	}
	input := strings.TrimSpace(req.Text)

	if session, ok := s.sessions.Get(actor.UserID, org.Id); ok {
		switch session.State {
		case entity.ChatStateAwaitingDescription:
			return s.continueDescription(ctx, c, session, input)
		case entity.ChatStateAwaitingService:
			return s.continueService(ctx, c, session, input)
		}
	}

	result := matcher.Classify(input)
	s.logger.Debug("CHAT", "Classified message", map[string]interface{}{
		"organization_id": org.Id,
		"user_id":         actor.UserID,
		"kind":            result.Kind,
		"action":          result.Action,
	})

	var reply *dto.ChatReplyResponse
	switch result.Action {
	case intent.ActionStart:
		reply, err = s.startShift(ctx, c)
	case intent.ActionEnd:
		reply, err = s.endShift(ctx, c)
	case intent.ActionListTickets:
		reply, err = s.listTickets(ctx, c)
	case intent.ActionCreateTicket:
		if result.Note == "" {
			s.sessions.Save(&entity.ChatSession{
				UserId:         actor.UserID,
				OrganizationId: org.Id,
				State:          entity.ChatStateAwaitingDescription,
			})
			reply = &dto.ChatReplyResponse{Kind: dto.ChatReplyNeedsDesc, Message: c.text.askDescription}
		} else {
			reply, err = s.submitTicket(ctx, c, result.Note)
		}
	default:
		reply = &dto.ChatReplyResponse{Kind: dto.ChatReplyHelp, Message: c.text.help, Buttons: c.text.menu}
	}
	if err != nil {
		return nil, err
	}
	reply.Intent = result
	return reply, nil
}

func (s *chatService) continueDescription(ctx context.Context, c *chatConversation, session *entity.ChatSession, input string) (*dto.ChatReplyResponse, error) {
	if isCancel(input) {
		s.sessions.Delete(session.UserId, session.OrganizationId)
		return &dto.ChatReplyResponse{Kind: dto.ChatReplyCancelled, Message: c.text.cancelled, Intent: intent.NoMatch(), Buttons: c.text.menu}, nil
	}
	if input == "" {
		return &dto.ChatReplyResponse{Kind: dto.ChatReplyNeedsDesc, Message: c.text.askDescription, Intent: intent.NoMatch()}, nil
	}
	s.sessions.Delete(session.UserId, session.OrganizationId)
	reply, err := s.submitTicket(ctx, c, input)
	if err != nil {
		return nil, err
	}
	reply.Intent = intent.Match(intent.ActionCreateTicket, input)
	return reply, nil
}

func (s *chatService) continueService(ctx context.Context, c *chatConversation, session *entity.ChatSession, input string) (*dto.ChatReplyResponse, error) {
	result := intent.Match(intent.ActionCreateTicket, session.Description)
	if isCancel(input) {
		s.sessions.Delete(session.UserId, session.OrganizationId)
		return &dto.ChatReplyResponse{Kind: dto.ChatReplyCancelled, Message: c.text.cancelled, Intent: intent.NoMatch(), Buttons: c.text.menu}, nil
	}

	services, err := s.organizations.Services(ctx, c.org.Id)
	if err != nil {
		return nil, err
	}
	chosen := pickService(c.matcher, services, c.req.ServiceId, input)
	if chosen == nil {
		return &dto.ChatReplyResponse{
			Kind:    dto.ChatReplyNeedsService,
			Message: c.text.unknownService,
			Intent:  result,
			Buttons: serviceButtons(services),
		}, nil
	}

	s.sessions.Delete(session.UserId, session.OrganizationId)
	reply, err := s.createTicket(ctx, c, chosen, session.Description)
	if err != nil {
		return nil, err
	}
	reply.Intent = result
	return reply, nil
}

// pickService resolves the service from an explicit id, an id sent back as
// text by a button, or a fuzzy match on the service name.
func pickService(m *intent.Matcher, services []*entity.Service, explicit *uuid.UUID, input string) *entity.Service {
	if explicit != nil {
		for _, svc := range services {
			if svc.Id == *explicit {
				return svc
			}
		}
		return nil
	}
	if id, err := uuid.Parse(input); err == nil {
		for _, svc := range services {
			if svc.Id == id {
				return svc
			}
		}
		return nil
	}

	normalized := intent.Normalize(input)
	for _, svc := range services {
		if intent.Normalize(svc.Name) == normalized {
			return svc
		}
	}
	var found *entity.Service
	for _, svc := range services {
		if m.FuzzyMatchesPhrase(input, svc.Name) {
			if found != nil {
				return nil // ambiguous
			}
			found = svc
		}
	}
	return found
}

func serviceButtons(services []*entity.Service) []dto.ChatButton {
	buttons := make([]dto.ChatButton, 0, len(services))
	for _, svc := range services {
		buttons = append(buttons, dto.ChatButton{Label: svc.Name, Value: svc.Id.String()})
	}
	return buttons
}

// submitTicket creates the ticket right away when the service is known,
// otherwise parks the description until the user picks one.
func (s *chatService) submitTicket(ctx context.Context, c *chatConversation, description string) (*dto.ChatReplyResponse, error) {
	services, err := s.organizations.Services(ctx, c.org.Id)
	if err != nil {
		return nil, err
	}

	var chosen *entity.Service
	switch {
	case c.req.ServiceId != nil:
		chosen = pickService(c.matcher, services, c.req.ServiceId, "")
		if chosen == nil {
			return nil, ErrServiceNotFound
		}
	case len(services) == 0:
		return &dto.ChatReplyResponse{Kind: dto.ChatReplyText, Message: c.text.noServices}, nil
	case len(services) == 1:
		chosen = services[0]
	default:
		s.sessions.Save(&entity.ChatSession{
			UserId:         c.actor.UserID,
			OrganizationId: c.org.Id,
			State:          entity.ChatStateAwaitingService,
			Description:    description,
		})
		return &dto.ChatReplyResponse{
			Kind:    dto.ChatReplyNeedsService,
			Message: c.text.askService,
			Buttons: serviceButtons(services),
		}, nil
	}
	return s.createTicket(ctx, c, chosen, description)
}

func (s *chatService) createTicket(ctx context.Context, c *chatConversation, svc *entity.Service, description string) (*dto.ChatReplyResponse, error) {
	ticket, err := s.tickets.Create(ctx, c.actor, &dto.CreateTicketRequest{
		OrganizationId: c.org.Id,
		ServiceId:      svc.Id,
		Description:    description,
		Source:         string(entity.TicketSourceChat),
	})
	if err != nil {
		return nil, err
	}
	return &dto.ChatReplyResponse{
		Kind:    dto.ChatReplyTicketCreated,
		Message: fmt.Sprintf(c.text.ticketCreated, svc.Name),
		Ticket:  ticket,
	}, nil
}

func (s *chatService) startShift(ctx context.Context, c *chatConversation) (*dto.ChatReplyResponse, error) {
	if c.req.Latitude == nil || c.req.Longitude == nil {
		return &dto.ChatReplyResponse{Kind: dto.ChatReplyNeedsLocation, Message: c.text.needsLocation}, nil
	}
	shift, err := s.shifts.ClockIn(ctx, c.actor, &dto.ClockInRequest{
		OrganizationId: c.org.Id,
		ServiceId:      c.req.ServiceId,
		Latitude:       c.req.Latitude,
		Longitude:      c.req.Longitude,
	})
	if errors.Is(err, ErrShiftAlreadyOpen) {
		return &dto.ChatReplyResponse{Kind: dto.ChatReplyText, Message: c.text.alreadyClockedIn}, nil
	}
	if err != nil {
		return nil, err
	}
	message := c.text.shiftStarted
	if shift.StartAddress != "" {
		message += " " + fmt.Sprintf(c.text.at, shift.StartAddress)
	}
	return &dto.ChatReplyResponse{Kind: dto.ChatReplyShiftStarted, Message: message, Shift: shift}, nil
}

func (s *chatService) endShift(ctx context.Context, c *chatConversation) (*dto.ChatReplyResponse, error) {
	shift, err := s.shifts.ClockOut(ctx, c.actor, &dto.ClockOutRequest{
		OrganizationId: c.org.Id,
		Latitude:       c.req.Latitude,
		Longitude:      c.req.Longitude,
	})
	if errors.Is(err, ErrNoOpenShift) {
		return &dto.ChatReplyResponse{Kind: dto.ChatReplyText, Message: c.text.notClockedIn}, nil
	}
	if err != nil {
		return nil, err
	}
	return &dto.ChatReplyResponse{
		Kind:    dto.ChatReplyShiftEnded,
		Message: fmt.Sprintf(c.text.shiftEnded, formatDuration(shift.DurationSeconds)),
		Shift:   shift,
	}, nil
}

func (s *chatService) listTickets(ctx context.Context, c *chatConversation) (*dto.ChatReplyResponse, error) {
	list, err := s.tickets.ListMine(ctx, c.actor, &dto.ListTicketsRequest{
		OrganizationId: c.org.Id,
		Limit:          chatTicketListSize,
	})
	if err != nil {
		return nil, err
	}
	message := c.text.noTickets
	if len(list.Items) > 0 {
		message = fmt.Sprintf(c.text.ticketList, len(list.Items), list.Total)
	}
	return &dto.ChatReplyResponse{Kind: dto.ChatReplyTicketList, Message: message, Tickets: list.Items}, nil
}

var cancelWords = map[string]bool{"cancel": true, "annulla": true}

func isCancel(input string) bool {
	return cancelWords[intent.Normalize(input)]
}

func formatDuration(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	return fmt.Sprintf("%dh %02dm", h, m)
}

// chatText holds the reply strings of one language.
type chatText struct {
	help             string
	askDescription   string
	askService       string
	unknownService   string
	noServices       string
	cancelled        string
	needsLocation    string
	alreadyClockedIn string
	notClockedIn     string
	shiftStarted     string
	shiftEnded       string
	at               string
	ticketCreated    string
	ticketList       string
	noTickets        string
	menu             []dto.ChatButton
}

var chatTexts = map[string]chatText{
	intent.LocaleEnglish: {
		help:             "Sorry, I didn't understand. Pick one of the options below.",
		askDescription:   "Describe the problem and I'll open a ticket.",
		askService:       "Which service is this about?",
		unknownService:   "I couldn't tell which service you meant. Pick one below.",
		noServices:       "This organization has no services yet, so tickets can't be opened.",
		cancelled:        "Cancelled.",
		needsLocation:    "I need your location to start the shift.",
		alreadyClockedIn: "You are already clocked in.",
		notClockedIn:     "You are not clocked in.",
		shiftStarted:     "Shift started.",
		shiftEnded:       "Shift ended after %s.",
		at:               "Location: %s.",
		ticketCreated:    "Ticket opened for %s.",
		ticketList:       "Here are your latest %d tickets (%d in total).",
		noTickets:        "You have no tickets.",
		menu: []dto.ChatButton{
			{Label: "Start shift", Value: "start shift"},
			{Label: "End shift", Value: "end shift"},
			{Label: "New ticket", Value: "new ticket"},
			{Label: "My tickets", Value: "my tickets"},
		},
	},
	intent.LocaleItalian: {
		help:             "Non ho capito. Scegli una delle opzioni qui sotto.",
		askDescription:   "Descrivi il problema e apro una segnalazione.",
		askService:       "Per quale servizio?",
		unknownService:   "Non ho capito il servizio. Scegline uno qui sotto.",
		noServices:       "Questa organizzazione non ha ancora servizi, non posso aprire segnalazioni.",
		cancelled:        "Annullato.",
		needsLocation:    "Mi serve la tua posizione per iniziare il turno.",
		alreadyClockedIn: "Hai già un turno aperto.",
		notClockedIn:     "Non hai turni aperti.",
		shiftStarted:     "Turno iniziato.",
		shiftEnded:       "Turno terminato dopo %s.",
		at:               "Posizione: %s.",
		ticketCreated:    "Segnalazione aperta per %s.",
		ticketList:       "Ecco le tue ultime %d segnalazioni (%d in totale).",
		noTickets:        "Non hai segnalazioni.",
		menu: []dto.ChatButton{
			{Label: "Inizia turno", Value: "inizia turno"},
			{Label: "Fine turno", Value: "fine turno"},
			{Label: "Nuova segnalazione", Value: "nuova segnalazione"},
			{Label: "Le mie segnalazioni", Value: "le mie segnalazioni"},
		},
	},
}

// textsFor picks reply strings by locale. Mixed-language tables reply in English.
func textsFor(locale string) chatText {
	if t, ok := chatTexts[locale]; ok {
		return t
	}
	return chatTexts[intent.LocaleEnglish]
}
