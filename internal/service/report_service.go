package service

import (
	"context"
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"time"

	"shiftdesk-be/internal/dto"
	"shiftdesk-be/internal/entity"
	"shiftdesk-be/internal/repository/specification"
	"shiftdesk-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IReportService interface {
	ShiftSummary(ctx context.Context, actor Actor, req *dto.ReportRangeRequest) (*dto.ShiftSummaryResponse, error)
	TicketSummary(ctx context.Context, actor Actor, req *dto.ReportRangeRequest) (*dto.TicketSummaryResponse, error)
	ExportShiftsCSV(ctx context.Context, actor Actor, req *dto.ReportRangeRequest, w io.Writer) error
}

type reportService struct {
	uowFactory    unitofwork.RepositoryFactory
	organizations IOrganizationService
	now           func() time.Time
}

func NewReportService(uowFactory unitofwork.RepositoryFactory, organizations IOrganizationService) IReportService {
	return &reportService{
		uowFactory:    uowFactory,
		organizations: organizations,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

const defaultReportWindow = 30 * 24 * time.Hour

// normalizeRange fills a missing upper bound with now and a missing lower
// bound with a 30 day window before it.
func normalizeRange(req *dto.ReportRangeRequest, now time.Time) (time.Time, time.Time) {
	to := req.To
	if to.IsZero() {
		to = now
	}
	from := req.From
	if from.IsZero() {
		from = to.Add(-defaultReportWindow)
	}
	return from, to
}

func (s *reportService) loadShifts(ctx context.Context, actor Actor, req *dto.ReportRangeRequest) ([]*entity.Shift, map[uuid.UUID]*entity.User, time.Time, time.Time, error) {
	if err := s.organizations.RequireAdmin(ctx, actor, req.OrganizationId); err != nil {
		return nil, nil, time.Time{}, time.Time{}, err
	}
	from, to := normalizeRange(req, s.now())

	uow := s.uowFactory.NewUnitOfWork(ctx)
	shifts, err := uow.ShiftRepository().FindAll(ctx,
		specification.ByOrganizationID{OrganizationID: req.OrganizationId},
		specification.StartedBetween{From: from, To: to},
		specification.OrderBy{Field: "started_at"},
	)
	if err != nil {
		return nil, nil, from, to, err
	}

	members, err := uow.MembershipRepository().FindAll(ctx,
		specification.ByOrganizationID{OrganizationID: req.OrganizationId},
		specification.WithUser{},
	)
	if err != nil {
		return nil, nil, from, to, err
	}
	users := make(map[uuid.UUID]*entity.User, len(members))
	for _, m := range members {
		if m.User != nil {
			users[m.UserId] = m.User
		}
	}
	return shifts, users, from, to, nil
}

func (s *reportService) ShiftSummary(ctx context.Context, actor Actor, req *dto.ReportRangeRequest) (*dto.ShiftSummaryResponse, error) {
	shifts, users, from, to, err := s.loadShifts(ctx, actor, req)
	if err != nil {
		return nil, err
	}

	employees := SummarizeShifts(shifts, users, s.now())
	totals := dto.EmployeeShiftSummary{}
	for _, e := range employees {
		totals.ShiftCount += e.ShiftCount
		totals.OpenShifts += e.OpenShifts
		totals.TotalSeconds += e.TotalSeconds
	}
	totals.TotalHours = hours(totals.TotalSeconds)

	return &dto.ShiftSummaryResponse{From: from, To: to, Employees: employees, Totals: totals}, nil
}

// SummarizeShifts groups shifts per employee. Open shifts count up to now.
// Employees are ordered by worked time, then by email.
func SummarizeShifts(shifts []*entity.Shift, users map[uuid.UUID]*entity.User, now time.Time) []*dto.EmployeeShiftSummary {
	byUser := make(map[uuid.UUID]*dto.EmployeeShiftSummary)
	for _, shift := range shifts {
		sum, ok := byUser[shift.UserId]
		if !ok {
			sum = &dto.EmployeeShiftSummary{UserId: shift.UserId}
			if u := users[shift.UserId]; u != nil {
				sum.Email = u.Email
				sum.FullName = u.FullName
			}
			byUser[shift.UserId] = sum
		}
		sum.ShiftCount++
		if shift.IsOpen() {
			sum.OpenShifts++
		}
		sum.TotalSeconds += int64(shift.Duration(now) / time.Second)
	}

	out := make([]*dto.EmployeeShiftSummary, 0, len(byUser))
	for _, sum := range byUser {
		sum.TotalHours = hours(sum.TotalSeconds)
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSeconds != out[j].TotalSeconds {
			return out[i].TotalSeconds > out[j].TotalSeconds
		}
		if out[i].Email != out[j].Email {
			return out[i].Email < out[j].Email
		}
		return out[i].UserId.String() < out[j].UserId.String()
	})
	return out
}

// hours rounds to two decimals.
func hours(seconds int64) float64 {
	return float64(seconds*100/3600) / 100
}

func (s *reportService) TicketSummary(ctx context.Context, actor Actor, req *dto.ReportRangeRequest) (*dto.TicketSummaryResponse, error) {
	if err := s.organizations.RequireAdmin(ctx, actor, req.OrganizationId); err != nil {
		return nil, err
	}
	from, to := normalizeRange(req, s.now())
	filters := []specification.Specification{
		specification.ByOrganizationID{OrganizationID: req.OrganizationId},
		specification.CreatedBetween{From: from, To: to},
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	byStatus, err := uow.TicketRepository().CountByStatus(ctx, filters...)
	if err != nil {
		return nil, err
	}
	byService, err := uow.TicketRepository().CountByService(ctx, filters...)
	if err != nil {
		return nil, err
	}
	services, err := s.organizations.Services(ctx, req.OrganizationId)
	if err != nil {
		return nil, err
	}

	res := &dto.TicketSummaryResponse{ByStatus: make(map[string]int64, len(entity.TicketStatuses))}
	for _, status := range entity.TicketStatuses {
		res.ByStatus[string(status)] = byStatus[status]
		res.Total += byStatus[status]
	}

	names := make(map[uuid.UUID]string, len(services))
	for _, svc := range services {
		names[svc.Id] = svc.Name
	}
	for id, count := range byService {
		res.ByService = append(res.ByService, &dto.ServiceTicketCount{ServiceId: id, Name: names[id], Count: count})
	}
	sort.Slice(res.ByService, func(i, j int) bool {
		if res.ByService[i].Count != res.ByService[j].Count {
			return res.ByService[i].Count > res.ByService[j].Count
		}
		return res.ByService[i].Name < res.ByService[j].Name
	})
	return res, nil
}

func (s *reportService) ExportShiftsCSV(ctx context.Context, actor Actor, req *dto.ReportRangeRequest, w io.Writer) error {
	shifts, users, _, _, err := s.loadShifts(ctx, actor, req)
	if err != nil {
		return err
	}
	services, err := s.organizations.Services(ctx, req.OrganizationId)
	if err != nil {
		return err
	}
	names := make(map[uuid.UUID]string, len(services))
	for _, svc := range services {
		names[svc.Id] = svc.Name
	}
	return WriteShiftsCSV(w, shifts, users, names, s.now())
}

var shiftCSVHeader = []string{
	"shift_id", "user_id", "email", "full_name", "service",
	"started_at", "ended_at", "duration_seconds", "start_address", "end_address",
}

// WriteShiftsCSV writes one row per shift. Times are RFC 3339 in UTC; an
// open shift has an empty ended_at and its duration measured up to now.
func WriteShiftsCSV(w io.Writer, shifts []*entity.Shift, users map[uuid.UUID]*entity.User, serviceNames map[uuid.UUID]string, now time.Time) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(shiftCSVHeader); err != nil {
		return err
	}
	for _, shift := range shifts {
		var email, name, service, ended string
		if u := users[shift.UserId]; u != nil {
			email, name = u.Email, u.FullName
		}
		if shift.ServiceId != nil {
			service = serviceNames[*shift.ServiceId]
		}
		if shift.EndedAt != nil {
			ended = shift.EndedAt.UTC().Format(time.RFC3339)
		}
		record := []string{
			shift.Id.String(),
			shift.UserId.String(),
			email,
			name,
			service,
			shift.StartedAt.UTC().Format(time.RFC3339),
			ended,
			strconv.FormatInt(int64(shift.Duration(now)/time.Second), 10),
			shift.StartAddress,
			shift.EndAddress,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
