package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"shiftdesk-be/internal/entity"
	"shiftdesk-be/internal/repository/contract"
	"shiftdesk-be/internal/repository/specification"
	"shiftdesk-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// Store is an in-process implementation of the repository layer. It
// understands the specifications the services use and backs the service
// tests and the demo mode of the seed command.
type Store struct {
	mu sync.Mutex

	users         *table[entity.User]
	organizations *table[entity.Organization]
	services      *table[entity.Service]
	memberships   *table[entity.Membership]
	shifts        *table[entity.Shift]
	tickets       *table[entity.Ticket]
}

func NewStore() *Store {
	return &Store{
		users:         newTable[entity.User](),
		organizations: newTable[entity.Organization](),
		services:      newTable[entity.Service](),
		memberships:   newTable[entity.Membership](),
		shifts:        newTable[entity.Shift](),
		tickets:       newTable[entity.Ticket](),
	}
}

// NewUnitOfWork makes Store a unitofwork.RepositoryFactory.
func (s *Store) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{store: s}
}

// row is the subset of columns the specifications filter and sort on.
type row struct {
	id, userID, orgID, serviceID uuid.UUID
	email, name, status, role    string
	open                         bool
	startedAt, createdAt         time.Time
}

type table[T any] struct {
	items map[uuid.UUID]*T
	order []uuid.UUID
}

func newTable[T any]() *table[T] {
	return &table[T]{items: make(map[uuid.UUID]*T)}
}

func (t *table[T]) all() []*T {
	out := make([]*T, 0, len(t.order))
	for _, id := range t.order {
		if v, ok := t.items[id]; ok {
			out = append(out, v)
		}
	}
	return out
}

func (t *table[T]) remove(id uuid.UUID) {
	delete(t.items, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			return
		}
	}
}

type query struct {
	filters  []func(row) bool
	order    string
	desc     bool
	limit    int
	offset   int
	withUser bool
}

// compile must be called with s.mu held.
func (s *Store) compile(specs []specification.Specification) (*query, error) {
	q := &query{limit: -1}
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			q.filters = append(q.filters, func(r row) bool { return r.id == sp.ID })
		case specification.ByIDs:
			set := make(map[uuid.UUID]bool, len(sp.IDs))
			for _, id := range sp.IDs {
				set[id] = true
			}
			q.filters = append(q.filters, func(r row) bool { return set[r.id] })
		case specification.ByEmail:
			email := strings.ToLower(strings.TrimSpace(sp.Email))
			q.filters = append(q.filters, func(r row) bool { return r.email == email })
		case specification.ByUserID:
			q.filters = append(q.filters, func(r row) bool { return r.userID == sp.UserID })
		case specification.ByOrganizationID:
			q.filters = append(q.filters, func(r row) bool { return r.orgID == sp.OrganizationID })
		case specification.ByMembershipRole:
			q.filters = append(q.filters, func(r row) bool { return r.role == sp.Role })
		case specification.ByStatus:
			q.filters = append(q.filters, func(r row) bool { return r.status == sp.Status })
		case specification.ByServiceID:
			q.filters = append(q.filters, func(r row) bool { return r.serviceID == sp.ServiceID })
		case specification.OpenShift:
			q.filters = append(q.filters, func(r row) bool { return r.open })
		case specification.StartedBetween:
			q.filters = append(q.filters, func(r row) bool {
				if !sp.From.IsZero() && r.startedAt.Before(sp.From) {
					return false
				}
				return sp.To.IsZero() || r.startedAt.Before(sp.To)
			})
		case specification.CreatedBetween:
			q.filters = append(q.filters, func(r row) bool {
				if !sp.From.IsZero() && r.createdAt.Before(sp.From) {
					return false
				}
				return sp.To.IsZero() || r.createdAt.Before(sp.To)
			})
		case specification.MemberOf:
			orgs := make(map[uuid.UUID]bool)
			for _, m := range s.memberships.all() {
				if m.UserId == sp.UserID {
					orgs[m.OrganizationId] = true
				}
			}
			q.filters = append(q.filters, func(r row) bool { return orgs[r.id] })
		case specification.WithUser:
			q.withUser = true
		case specification.OrderBy:
			switch sp.Field {
			case "created_at", "started_at", "name", "email":
			default:
				return nil, fmt.Errorf("memory: unsupported order field %q", sp.Field)
			}
			q.order, q.desc = sp.Field, sp.Desc
		case specification.Pagination:
			q.limit, q.offset = sp.Limit, sp.Offset
		default:
			return nil, fmt.Errorf("memory: unsupported specification %T", spec)
		}
	}
	return q, nil
}

func (q *query) match(r row) bool {
	for _, f := range q.filters {
		if !f(r) {
			return false
		}
	}
	return true
}

func (q *query) less(a, b row) bool {
	var lt, gt bool
	switch q.order {
	case "created_at":
		lt, gt = a.createdAt.Before(b.createdAt), a.createdAt.After(b.createdAt)
	case "started_at":
		lt, gt = a.startedAt.Before(b.startedAt), a.startedAt.After(b.startedAt)
	case "name":
		lt, gt = a.name < b.name, a.name > b.name
	case "email":
		lt, gt = a.email < b.email, a.email > b.email
	}
	if q.desc {
		return gt
	}
	return lt
}

// repo is a generic table-backed repository.
type repo[T any] struct {
	store  *Store
	table  func(*Store) *table[T]
	view   func(*T) row
	id     func(*T) *uuid.UUID
	init   func(*T, time.Time)
	touch  func(*T, time.Time)
	unique func(a, b *T) bool
	loaded func(*Store, *T, *query) *T
}

func (r *repo[T]) Create(_ context.Context, v *T) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	t := r.table(r.store)
	if r.unique != nil {
		for _, existing := range t.all() {
			if r.unique(existing, v) {
				return fmt.Errorf("memory: duplicate key for %T", v)
			}
		}
	}
	id := r.id(v)
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	if _, exists := t.items[*id]; exists {
		return fmt.Errorf("memory: duplicate primary key %s", *id)
	}
	now := time.Now().UTC()
	r.init(v, now)
	stored := *v
	t.items[*id] = &stored
	t.order = append(t.order, *id)
	return nil
}

func (r *repo[T]) Update(_ context.Context, v *T) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	t := r.table(r.store)
	id := *r.id(v)
	if _, ok := t.items[id]; !ok {
		t.order = append(t.order, id)
	}
	r.touch(v, time.Now().UTC())
	stored := *v
	t.items[id] = &stored
	return nil
}

func (r *repo[T]) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.table(r.store).remove(id)
	return nil
}

func (r *repo[T]) selectRows(specs []specification.Specification) ([]*T, error) {
	q, err := r.store.compile(specs)
	if err != nil {
		return nil, err
	}
	var out []*T
	for _, v := range r.table(r.store).all() {
		if q.match(r.view(v)) {
			out = append(out, v)
		}
	}
	if q.order != "" {
		sort.SliceStable(out, func(i, j int) bool { return q.less(r.view(out[i]), r.view(out[j])) })
	}
	if q.offset > 0 {
		if q.offset >= len(out) {
			out = nil
		} else {
			out = out[q.offset:]
		}
	}
	if q.limit >= 0 && q.limit < len(out) {
		out = out[:q.limit]
	}
	copies := make([]*T, len(out))
	for i, v := range out {
		c := *v
		copies[i] = &c
		if r.loaded != nil {
			copies[i] = r.loaded(r.store, copies[i], q)
		}
	}
	return copies, nil
}

func (r *repo[T]) FindOne(_ context.Context, specs ...specification.Specification) (*T, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rows, err := r.selectRows(specs)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (r *repo[T]) FindAll(_ context.Context, specs ...specification.Specification) ([]*T, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.selectRows(specs)
}

func (r *repo[T]) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rows, err := r.selectRows(specs)
	return int64(len(rows)), err
}

// stamp keeps a caller-provided CreatedAt, as gorm does.
func stamp(createdAt, updatedAt *time.Time, now time.Time) {
	if createdAt.IsZero() {
		*createdAt = now
	}
	*updatedAt = now
}

type ticketRepo struct {
	*repo[entity.Ticket]
}

func (r ticketRepo) CountByStatus(ctx context.Context, specs ...specification.Specification) (map[entity.TicketStatus]int64, error) {
	tickets, err := r.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	out := make(map[entity.TicketStatus]int64)
	for _, t := range tickets {
		out[t.Status]++
	}
	return out, nil
}

func (r ticketRepo) CountByService(ctx context.Context, specs ...specification.Specification) (map[uuid.UUID]int64, error) {
	tickets, err := r.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]int64)
	for _, t := range tickets {
		out[t.ServiceId]++
	}
	return out, nil
}

type unitOfWork struct {
	store *Store
	open  bool
}

func (u *unitOfWork) Begin(context.Context) error {
	if u.open {
		return fmt.Errorf("transaction already started")
	}
	u.open = true
	return nil
}

// Commit and Rollback only track state; writes are applied immediately.
func (u *unitOfWork) Commit() error {
	if !u.open {
		return fmt.Errorf("no transaction to commit")
	}
	u.open = false
	return nil
}

func (u *unitOfWork) Rollback() error {
	u.open = false
	return nil
}

func (u *unitOfWork) UserRepository() contract.UserRepository {
	return &repo[entity.User]{
		store: u.store,
		table: func(s *Store) *table[entity.User] { return s.users },
		view: func(v *entity.User) row {
			return row{id: v.Id, email: v.Email, name: v.FullName, role: string(v.Role), createdAt: v.CreatedAt}
		},
		id: func(v *entity.User) *uuid.UUID { return &v.Id },
		init: func(v *entity.User, now time.Time) {
			v.Email = strings.ToLower(strings.TrimSpace(v.Email))
			if v.Role == "" {
				v.Role = entity.UserRoleUser
			}
			stamp(&v.CreatedAt, &v.UpdatedAt, now)
		},
		touch:  func(v *entity.User, now time.Time) { v.UpdatedAt = now },
		unique: func(a, b *entity.User) bool { return strings.EqualFold(a.Email, b.Email) },
	}
}

func (u *unitOfWork) OrganizationRepository() contract.OrganizationRepository {
	return &repo[entity.Organization]{
		store: u.store,
		table: func(s *Store) *table[entity.Organization] { return s.organizations },
		view: func(v *entity.Organization) row {
			return row{id: v.Id, name: v.Name, createdAt: v.CreatedAt}
		},
		id: func(v *entity.Organization) *uuid.UUID { return &v.Id },
		init: func(v *entity.Organization, now time.Time) {
			if v.ChatLocale == "" {
				v.ChatLocale = "multi"
			}
			stamp(&v.CreatedAt, &v.UpdatedAt, now)
		},
		touch: func(v *entity.Organization, now time.Time) { v.UpdatedAt = now },
	}
}

func (u *unitOfWork) ServiceRepository() contract.ServiceRepository {
	return &repo[entity.Service]{
		store: u.store,
		table: func(s *Store) *table[entity.Service] { return s.services },
		view: func(v *entity.Service) row {
			return row{id: v.Id, orgID: v.OrganizationId, name: v.Name, createdAt: v.CreatedAt}
		},
		id:    func(v *entity.Service) *uuid.UUID { return &v.Id },
		init:  func(v *entity.Service, now time.Time) { stamp(&v.CreatedAt, &v.UpdatedAt, now) },
		touch: func(v *entity.Service, now time.Time) { v.UpdatedAt = now },
	}
}

func (u *unitOfWork) MembershipRepository() contract.MembershipRepository {
	return &repo[entity.Membership]{
		store: u.store,
		table: func(s *Store) *table[entity.Membership] { return s.memberships },
		view: func(v *entity.Membership) row {
			return row{id: v.Id, orgID: v.OrganizationId, userID: v.UserId, role: string(v.Role), createdAt: v.CreatedAt}
		},
		id: func(v *entity.Membership) *uuid.UUID { return &v.Id },
		init: func(v *entity.Membership, now time.Time) {
			if v.Role == "" {
				v.Role = entity.MembershipRoleEmployee
			}
			v.User = nil
			stamp(&v.CreatedAt, &v.UpdatedAt, now)
		},
		touch: func(v *entity.Membership, now time.Time) {
			v.User = nil
			v.UpdatedAt = now
		},
		unique: func(a, b *entity.Membership) bool {
			return a.OrganizationId == b.OrganizationId && a.UserId == b.UserId
		},
		loaded: func(s *Store, v *entity.Membership, q *query) *entity.Membership {
			if q.withUser {
				if user, ok := s.users.items[v.UserId]; ok {
					c := *user
					v.User = &c
				}
			}
			return v
		},
	}
}

func (u *unitOfWork) ShiftRepository() contract.ShiftRepository {
	return &repo[entity.Shift]{
		store: u.store,
		table: func(s *Store) *table[entity.Shift] { return s.shifts },
		view: func(v *entity.Shift) row {
			r := row{id: v.Id, orgID: v.OrganizationId, userID: v.UserId, open: v.EndedAt == nil, startedAt: v.StartedAt, createdAt: v.CreatedAt}
			if v.ServiceId != nil {
				r.serviceID = *v.ServiceId
			}
			return r
		},
		id:    func(v *entity.Shift) *uuid.UUID { return &v.Id },
		init:  func(v *entity.Shift, now time.Time) { stamp(&v.CreatedAt, &v.UpdatedAt, now) },
		touch: func(v *entity.Shift, now time.Time) { v.UpdatedAt = now },
	}
}

func (u *unitOfWork) TicketRepository() contract.TicketRepository {
	return ticketRepo{&repo[entity.Ticket]{
		store: u.store,
		table: func(s *Store) *table[entity.Ticket] { return s.tickets },
		view: func(v *entity.Ticket) row {
			return row{id: v.Id, orgID: v.OrganizationId, userID: v.UserId, serviceID: v.ServiceId, status: string(v.Status), createdAt: v.CreatedAt}
		},
		id: func(v *entity.Ticket) *uuid.UUID { return &v.Id },
		init: func(v *entity.Ticket, now time.Time) {
			if v.Status == "" {
				v.Status = entity.TicketStatusOpen
			}
			if v.Source == "" {
				v.Source = entity.TicketSourceForm
			}
			stamp(&v.CreatedAt, &v.UpdatedAt, now)
		},
		touch: func(v *entity.Ticket, now time.Time) { v.UpdatedAt = now },
	}}
}
