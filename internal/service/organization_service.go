package service

import (
	"context"
	"strings"

	"shiftdesk-be/internal/dto"
	"shiftdesk-be/internal/entity"
	"shiftdesk-be/internal/pkg/logger"
	"shiftdesk-be/internal/repository/specification"
	"shiftdesk-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IOrganizationService interface {
	// Super-admin operations
	Create(ctx context.Context, req *dto.CreateOrganizationRequest) (*dto.OrganizationResponse, error)
	ListAll(ctx context.Context) ([]*dto.OrganizationResponse, error)
	Delete(ctx context.Context, orgID uuid.UUID) error
	UpdateChatSettings(ctx context.Context, req *dto.UpdateChatSettingsRequest) (*dto.OrganizationResponse, error)

	// Member operations
	Get(ctx context.Context, actor Actor, orgID uuid.UUID) (*dto.OrganizationResponse, error)
	ListMine(ctx context.Context, actor Actor) ([]*dto.OrganizationResponse, error)
	ListServices(ctx context.Context, actor Actor, orgID uuid.UUID) ([]*dto.ServiceResponse, error)

	// Org-admin operations
	CreateService(ctx context.Context, actor Actor, req *dto.CreateServiceRequest) (*dto.ServiceResponse, error)
	DeleteService(ctx context.Context, actor Actor, orgID, serviceID uuid.UUID) error
	AddMember(ctx context.Context, actor Actor, req *dto.AddMemberRequest) (*dto.MemberResponse, error)
	UpdateMemberRole(ctx context.Context, actor Actor, req *dto.UpdateMemberRoleRequest) (*dto.MemberResponse, error)
	RemoveMember(ctx context.Context, actor Actor, orgID, userID uuid.UUID) error
	ListMembers(ctx context.Context, actor Actor, orgID uuid.UUID) ([]*dto.MemberResponse, error)

	// Used by the other services
	RequireMember(ctx context.Context, actor Actor, orgID uuid.UUID) (*entity.Membership, error)
	RequireAdmin(ctx context.Context, actor Actor, orgID uuid.UUID) error
	Organization(ctx context.Context, orgID uuid.UUID) (*entity.Organization, error)
	Services(ctx context.Context, orgID uuid.UUID) ([]*entity.Service, error)
	Service(ctx context.Context, orgID, serviceID uuid.UUID) (*entity.Service, error)
	AdminEmails(ctx context.Context, orgID uuid.UUID) ([]string, error)
}

type organizationService struct {
	uowFactory unitofwork.RepositoryFactory
	matchers   *MatcherProvider
	logger     logger.ILogger
}

func NewOrganizationService(uowFactory unitofwork.RepositoryFactory, matchers *MatcherProvider, log logger.ILogger) IOrganizationService {
	return &organizationService{
		uowFactory: uowFactory,
		matchers:   matchers,
		logger:     log,
	}
}

func (s *organizationService) Create(ctx context.Context, req *dto.CreateOrganizationRequest) (*dto.OrganizationResponse, error) {
	locale := req.ChatLocale
	if locale == "" {
		locale = s.matchers.Registry().DefaultLocale()
	}
	if _, err := s.matchers.Build(locale, nil); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	var admin *entity.User
	if req.AdminEmail != "" {
		var err error
		admin, err = uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.AdminEmail})
		if err != nil {
			return nil, err
		}
		if admin == nil {
			return nil, ErrUserNotFound
		}
	}

	org := &entity.Organization{
		Id:         uuid.New(),
		Name:       strings.TrimSpace(req.Name),
		ChatLocale: locale,
	}
	if err := uow.OrganizationRepository().Create(ctx, org); err != nil {
		return nil, err
	}

	if admin != nil {
		membership := &entity.Membership{
			Id:             uuid.New(),
			OrganizationId: org.Id,
			UserId:         admin.Id,
			Role:           entity.MembershipRoleAdmin,
		}
		if err := uow.MembershipRepository().Create(ctx, membership); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("ORGANIZATION", "Organization created", map[string]interface{}{"organization_id": org.Id, "name": org.Name})
	return toOrganizationResponse(org, ""), nil
}

func (s *organizationService) ListAll(ctx context.Context) ([]*dto.OrganizationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	orgs, err := uow.OrganizationRepository().FindAll(ctx, specification.OrderBy{Field: "name"})
	if err != nil {
		return nil, err
	}
	out := make([]*dto.OrganizationResponse, len(orgs))
	for i, org := range orgs {
		out[i] = toOrganizationResponse(org, "")
	}
	return out, nil
}

func (s *organizationService) Delete(ctx context.Context, orgID uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	org, err := uow.OrganizationRepository().FindOne(ctx, specification.ByID{ID: orgID})
	if err != nil {
		return err
	}
	if org == nil {
		return ErrOrganizationNotFound
	}

	memberships, err := uow.MembershipRepository().FindAll(ctx, specification.ByOrganizationID{OrganizationID: orgID})
	if err != nil {
		return err
	}
	for _, m := range memberships {
		if err := uow.MembershipRepository().Delete(ctx, m.Id); err != nil {
			return err
		}
	}
	if err := uow.OrganizationRepository().Delete(ctx, orgID); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.matchers.Invalidate(orgID)
	s.logger.Info("ORGANIZATION", "Organization deleted", map[string]interface{}{"organization_id": orgID})
	return nil
}

func (s *organizationService) UpdateChatSettings(ctx context.Context, req *dto.UpdateChatSettingsRequest) (*dto.OrganizationResponse, error) {
	if _, err := s.matchers.Build(req.ChatLocale, req.ChatPhrases); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	org, err := uow.OrganizationRepository().FindOne(ctx, specification.ByID{ID: req.OrganizationId})
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, ErrOrganizationNotFound
	}

	org.ChatLocale = req.ChatLocale
	org.ChatPhrases = req.ChatPhrases
	if err := uow.OrganizationRepository().Update(ctx, org); err != nil {
		return nil, err
	}

	s.matchers.Invalidate(org.Id)
	s.logger.Info("ORGANIZATION", "Chat settings updated", map[string]interface{}{
		"organization_id": org.Id,
		"locale":          org.ChatLocale,
	})
	return toOrganizationResponse(org, ""), nil
}

func (s *organizationService) Get(ctx context.Context, actor Actor, orgID uuid.UUID) (*dto.OrganizationResponse, error) {
	membership, err := s.RequireMember(ctx, actor, orgID)
	if err != nil {
		return nil, err
	}
	org, err := s.Organization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return toOrganizationResponse(org, string(membership.Role)), nil
}

func (s *organizationService) ListMine(ctx context.Context, actor Actor) ([]*dto.OrganizationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	memberships, err := uow.MembershipRepository().FindAll(ctx, specification.ByUserID{UserID: actor.UserID})
	if err != nil {
		return nil, err
	}
	roles := make(map[uuid.UUID]string, len(memberships))
	for _, m := range memberships {
		roles[m.OrganizationId] = string(m.Role)
	}

	orgs, err := uow.OrganizationRepository().FindAll(ctx,
		specification.MemberOf{UserID: actor.UserID},
		specification.OrderBy{Field: "name"},
	)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.OrganizationResponse, len(orgs))
	for i, org := range orgs {
		out[i] = toOrganizationResponse(org, roles[org.Id])
	}
	return out, nil
}

func (s *organizationService) ListServices(ctx context.Context, actor Actor, orgID uuid.UUID) ([]*dto.ServiceResponse, error) {
	if _, err := s.RequireMember(ctx, actor, orgID); err != nil {
		return nil, err
	}
	services, err := s.Services(ctx, orgID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ServiceResponse, len(services))
	for i, svc := range services {
		out[i] = toServiceResponse(svc)
	}
	return out, nil
}

func (s *organizationService) CreateService(ctx context.Context, actor Actor, req *dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	if err := s.RequireAdmin(ctx, actor, req.OrganizationId); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	svc := &entity.Service{
		Id:             uuid.New(),
		OrganizationId: req.OrganizationId,
		Name:           strings.TrimSpace(req.Name),
		Description:    strings.TrimSpace(req.Description),
	}
	if err := uow.ServiceRepository().Create(ctx, svc); err != nil {
		return nil, err
	}
	return toServiceResponse(svc), nil
}

func (s *organizationService) DeleteService(ctx context.Context, actor Actor, orgID, serviceID uuid.UUID) error {
	if err := s.RequireAdmin(ctx, actor, orgID); err != nil {
		return err
	}
	if _, err := s.Service(ctx, orgID, serviceID); err != nil {
		return err
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ServiceRepository().Delete(ctx, serviceID)
}

func (s *organizationService) AddMember(ctx context.Context, actor Actor, req *dto.AddMemberRequest) (*dto.MemberResponse, error) {
	if err := s.RequireAdmin(ctx, actor, req.OrganizationId); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	existing, err := uow.MembershipRepository().FindOne(ctx,
		specification.ByOrganizationID{OrganizationID: req.OrganizationId},
		specification.ByUserID{UserID: user.Id},
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyMember
	}

	membership := &entity.Membership{
		Id:             uuid.New(),
		OrganizationId: req.OrganizationId,
		UserId:         user.Id,
		Role:           entity.MembershipRole(req.Role),
	}
	if err := uow.MembershipRepository().Create(ctx, membership); err != nil {
		return nil, err
	}
	membership.User = user
	return toMemberResponse(membership), nil
}

func (s *organizationService) UpdateMemberRole(ctx context.Context, actor Actor, req *dto.UpdateMemberRoleRequest) (*dto.MemberResponse, error) {
	if err := s.RequireAdmin(ctx, actor, req.OrganizationId); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	membership, err := uow.MembershipRepository().FindOne(ctx,
		specification.ByOrganizationID{OrganizationID: req.OrganizationId},
		specification.ByUserID{UserID: req.UserId},
		specification.WithUser{},
	)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, ErrMemberNotFound
	}

	next := entity.MembershipRole(req.Role)
	if membership.IsAdmin() && next != entity.MembershipRoleAdmin {
		if err := s.ensureAnotherAdmin(ctx, uow, req.OrganizationId); err != nil {
			return nil, err
		}
	}

	user := membership.User
	membership.Role = next
	if err := uow.MembershipRepository().Update(ctx, membership); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	membership.User = user
	return toMemberResponse(membership), nil
}

func (s *organizationService) RemoveMember(ctx context.Context, actor Actor, orgID, userID uuid.UUID) error {
	if err := s.RequireAdmin(ctx, actor, orgID); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	membership, err := uow.MembershipRepository().FindOne(ctx,
		specification.ByOrganizationID{OrganizationID: orgID},
		specification.ByUserID{UserID: userID},
	)
	if err != nil {
		return err
	}
	if membership == nil {
		return ErrMemberNotFound
	}
	if membership.IsAdmin() {
		if err := s.ensureAnotherAdmin(ctx, uow, orgID); err != nil {
			return err
		}
	}
	if err := uow.MembershipRepository().Delete(ctx, membership.Id); err != nil {
		return err
	}
	return uow.Commit()
}

func (s *organizationService) ensureAnotherAdmin(ctx context.Context, uow unitofwork.UnitOfWork, orgID uuid.UUID) error {
	admins, err := uow.MembershipRepository().Count(ctx,
		specification.ByOrganizationID{OrganizationID: orgID},
		specification.ByMembershipRole{Role: string(entity.MembershipRoleAdmin)},
	)
	if err != nil {
		return err
	}
	if admins <= 1 {
		return ErrLastAdmin
	}
	return nil
}

func (s *organizationService) ListMembers(ctx context.Context, actor Actor, orgID uuid.UUID) ([]*dto.MemberResponse, error) {
	if err := s.RequireAdmin(ctx, actor, orgID); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	memberships, err := uow.MembershipRepository().FindAll(ctx,
		specification.ByOrganizationID{OrganizationID: orgID},
		specification.WithUser{},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.MemberResponse, len(memberships))
	for i, m := range memberships {
		out[i] = toMemberResponse(m)
	}
	return out, nil
}

// RequireMember returns the caller's membership. Super-admins get an
// implicit admin membership in every existing organization.
func (s *organizationService) RequireMember(ctx context.Context, actor Actor, orgID uuid.UUID) (*entity.Membership, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	membership, err := uow.MembershipRepository().FindOne(ctx,
		specification.ByOrganizationID{OrganizationID: orgID},
		specification.ByUserID{UserID: actor.UserID},
	)
	if err != nil {
		return nil, err
	}
	if membership != nil {
		return membership, nil
	}

	if actor.IsSuperAdmin() {
		if _, err := s.Organization(ctx, orgID); err != nil {
			return nil, err
		}
		return &entity.Membership{OrganizationId: orgID, UserId: actor.UserID, Role: entity.MembershipRoleAdmin}, nil
	}
	return nil, ErrNotMember
}

func (s *organizationService) RequireAdmin(ctx context.Context, actor Actor, orgID uuid.UUID) error {
	membership, err := s.RequireMember(ctx, actor, orgID)
	if err != nil {
		return err
	}
	if !membership.IsAdmin() {
		return ErrNotAdmin
	}
	return nil
}

func (s *organizationService) Organization(ctx context.Context, orgID uuid.UUID) (*entity.Organization, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	org, err := uow.OrganizationRepository().FindOne(ctx, specification.ByID{ID: orgID})
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, ErrOrganizationNotFound
	}
	return org, nil
}

func (s *organizationService) Services(ctx context.Context, orgID uuid.UUID) ([]*entity.Service, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ServiceRepository().FindAll(ctx,
		specification.ByOrganizationID{OrganizationID: orgID},
		specification.OrderBy{Field: "name"},
	)
}

func (s *organizationService) Service(ctx context.Context, orgID, serviceID uuid.UUID) (*entity.Service, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	svc, err := uow.ServiceRepository().FindOne(ctx,
		specification.ByID{ID: serviceID},
		specification.ByOrganizationID{OrganizationID: orgID},
	)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}
	return svc, nil
}

func (s *organizationService) AdminEmails(ctx context.Context, orgID uuid.UUID) ([]string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	admins, err := uow.MembershipRepository().FindAll(ctx,
		specification.ByOrganizationID{OrganizationID: orgID},
		specification.ByMembershipRole{Role: string(entity.MembershipRoleAdmin)},
		specification.WithUser{},
	)
	if err != nil {
		return nil, err
	}
	emails := make([]string, 0, len(admins))
	for _, m := range admins {
		if m.User != nil && m.User.Email != "" {
			emails = append(emails, m.User.Email)
		}
	}
	return emails, nil
}
