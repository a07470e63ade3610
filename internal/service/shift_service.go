package service

import (
	"context"
	"errors"
	"time"

	"shiftdesk-be/internal/dto"
	"shiftdesk-be/internal/entity"
	"shiftdesk-be/internal/pkg/logger"
	"shiftdesk-be/internal/repository/specification"
	"shiftdesk-be/internal/repository/unitofwork"
	"shiftdesk-be/pkg/events"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IShiftService interface {
	ClockIn(ctx context.Context, actor Actor, req *dto.ClockInRequest) (*dto.ShiftResponse, error)
	ClockOut(ctx context.Context, actor Actor, req *dto.ClockOutRequest) (*dto.ShiftResponse, error)
	// Current returns the open shift, or nil when the caller is clocked out.
	Current(ctx context.Context, actor Actor, orgID uuid.UUID) (*dto.ShiftResponse, error)
	ListMine(ctx context.Context, actor Actor, req *dto.ListShiftsRequest) ([]*dto.ShiftResponse, error)
}

type shiftService struct {
	uowFactory    unitofwork.RepositoryFactory
	organizations IOrganizationService
	geocoder      IGeocodeService
	publisher     EventPublisher
	logger        logger.ILogger
	now           func() time.Time
}

func NewShiftService(
	uowFactory unitofwork.RepositoryFactory,
	organizations IOrganizationService,
	geocoder IGeocodeService,
	publisher EventPublisher,
	log logger.ILogger,
) IShiftService {
	return &shiftService{
		uowFactory:    uowFactory,
		organizations: organizations,
		geocoder:      geocoder,
		publisher:     publisherOrNop(publisher),
		logger:        log,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *shiftService) describe(ctx context.Context, lat, lng *float64) string {
	if s.geocoder == nil || lat == nil || lng == nil {
		return ""
	}
	return s.geocoder.Describe(ctx, *lat, *lng)
}

func (s *shiftService) ClockIn(ctx context.Context, actor Actor, req *dto.ClockInRequest) (*dto.ShiftResponse, error) {
	if _, err := s.organizations.RequireMember(ctx, actor, req.OrganizationId); err != nil {
		return nil, err
	}
	if req.Latitude == nil || req.Longitude == nil {
		return nil, ErrLocationRequired
	}
	if req.ServiceId != nil {
		if _, err := s.organizations.Service(ctx, req.OrganizationId, *req.ServiceId); err != nil {
			return nil, err
		}
	}

	address := s.describe(ctx, req.Latitude, req.Longitude)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	open, err := uow.ShiftRepository().FindOne(ctx,
		specification.ByOrganizationID{OrganizationID: req.OrganizationId},
		specification.ByUserID{UserID: actor.UserID},
		specification.OpenShift{},
	)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, ErrShiftAlreadyOpen
	}

	shift := &entity.Shift{
		Id:             uuid.New(),
		OrganizationId: req.OrganizationId,
		UserId:         actor.UserID,
		ServiceId:      req.ServiceId,
		StartedAt:      s.now(),
		StartLatitude:  req.Latitude,
		StartLongitude: req.Longitude,
		StartAddress:   address,
	}
	if err := uow.ShiftRepository().Create(ctx, shift); err != nil {
		// A concurrent clock-in won the idx_shifts_one_open race.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrShiftAlreadyOpen
		}
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publish(ctx, events.ShiftStarted, shift)
	return toShiftResponse(shift, s.now()), nil
}

func (s *shiftService) ClockOut(ctx context.Context, actor Actor, req *dto.ClockOutRequest) (*dto.ShiftResponse, error) {
	if _, err := s.organizations.RequireMember(ctx, actor, req.OrganizationId); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	shift, err := uow.ShiftRepository().FindOne(ctx,
		specification.ByOrganizationID{OrganizationID: req.OrganizationId},
		specification.ByUserID{UserID: actor.UserID},
		specification.OpenShift{},
	)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, ErrNoOpenShift
	}

	now := s.now()
	shift.EndedAt = &now
	shift.EndLatitude = req.Latitude
	shift.EndLongitude = req.Longitude
	shift.EndAddress = s.describe(ctx, req.Latitude, req.Longitude)

	if err := uow.ShiftRepository().Update(ctx, shift); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publish(ctx, events.ShiftEnded, shift)
	return toShiftResponse(shift, now), nil
}

func (s *shiftService) Current(ctx context.Context, actor Actor, orgID uuid.UUID) (*dto.ShiftResponse, error) {
	if _, err := s.organizations.RequireMember(ctx, actor, orgID); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	shift, err := uow.ShiftRepository().FindOne(ctx,
		specification.ByOrganizationID{OrganizationID: orgID},
		specification.ByUserID{UserID: actor.UserID},
		specification.OpenShift{},
	)
	if err != nil || shift == nil {
		return nil, err
	}
	return toShiftResponse(shift, s.now()), nil
}

func (s *shiftService) ListMine(ctx context.Context, actor Actor, req *dto.ListShiftsRequest) ([]*dto.ShiftResponse, error) {
	if _, err := s.organizations.RequireMember(ctx, actor, req.OrganizationId); err != nil {
		return nil, err
	}

	limit, offset := clampPage(req.Limit, req.Offset)
	uow := s.uowFactory.NewUnitOfWork(ctx)
	shifts, err := uow.ShiftRepository().FindAll(ctx,
		specification.ByOrganizationID{OrganizationID: req.OrganizationId},
		specification.ByUserID{UserID: actor.UserID},
		specification.StartedBetween{From: req.From, To: req.To},
		specification.OrderBy{Field: "started_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]*dto.ShiftResponse, len(shifts))
	for i, shift := range shifts {
		out[i] = toShiftResponse(shift, now)
	}
	return out, nil
}

// publish is best-effort; the shift is already committed.
func (s *shiftService) publish(ctx context.Context, eventType string, shift *entity.Shift) {
	data := map[string]interface{}{
		"organization_id": shift.OrganizationId.String(),
		"user_id":         shift.UserId.String(),
		"shift_id":        shift.Id.String(),
		"started_at":      shift.StartedAt.Format(time.RFC3339),
		"address":         shift.StartAddress,
	}
	if shift.EndedAt != nil {
		data["ended_at"] = shift.EndedAt.Format(time.RFC3339)
		data["address"] = shift.EndAddress
		data["duration_seconds"] = int64(shift.Duration(*shift.EndedAt) / time.Second)
	}
	if err := s.publisher.Publish(ctx, events.New(eventType, data)); err != nil {
		s.logger.Warn("SHIFT", "Failed to publish event", map[string]interface{}{
			"event": eventType, "shift_id": shift.Id, "error": err,
		})
	}
}
