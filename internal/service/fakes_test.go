package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/facilityops/resolution-service/internal/domain"
	"github.com/facilityops/resolution-service/internal/events"
	"github.com/facilityops/resolution-service/internal/repository"
)

// fakeTicketRepo mirrors the store's optimistic-concurrency contract in
// memory: ApplyTransition fails with ErrVersionConflict on a stale version
// and bumps the version on success.
type fakeTicketRepo struct {
	mu            sync.Mutex
	seq           int
	tickets       map[string]domain.Ticket
	entries       map[string][]domain.ActivityLogEntry
	activeCounts  map[string]map[string]int
	conflictsLeft int
	applyCalls    int
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{
		tickets:      map[string]domain.Ticket{},
		entries:      map[string][]domain.ActivityLogEntry{},
		activeCounts: map[string]map[string]int{},
	}
}

func (f *fakeTicketRepo) seed(t domain.Ticket) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.Version == 0 {
		t.Version = 1
	}
	f.tickets[t.ID] = t
}

func (f *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket, entries []domain.ActivityLogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", f.seq)
	ticket.Version = 1
	f.tickets[ticket.ID] = *ticket
	f.appendEntries(ticket.ID, entries)
	return nil
}

func (f *fakeTicketRepo) ApplyTransition(_ context.Context, ticket *domain.Ticket, entries []domain.ActivityLogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applyCalls++
	if f.conflictsLeft > 0 {
		f.conflictsLeft--
		return repository.ErrVersionConflict
	}
	stored, ok := f.tickets[ticket.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if stored.Version != ticket.Version {
		return repository.ErrVersionConflict
	}
	ticket.Version++
	f.tickets[ticket.ID] = *ticket
	f.appendEntries(ticket.ID, entries)
	return nil
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := stored
	return &out, nil
}

func (f *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Ticket
	for _, t := range f.tickets {
		if filter.PropertyID != nil && t.PropertyID != *filter.PropertyID {
			continue
		}
		if filter.RaisedBy != nil && t.RaisedBy != *filter.RaisedBy {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

func (f *fakeTicketRepo) CountActiveByResolver(_ context.Context, propertyID string) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int{}
	for k, v := range f.activeCounts[propertyID] {
		counts[k] = v
	}
	return counts, nil
}

func (f *fakeTicketRepo) entriesFor(ticketID string) []domain.ActivityLogEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.ActivityLogEntry{}, f.entries[ticketID]...)
}

func (f *fakeTicketRepo) appendEntries(ticketID string, entries []domain.ActivityLogEntry) {
	for _, entry := range entries {
		entry.TicketID = ticketID
		entry.CreatedAt = time.Now()
		f.entries[ticketID] = append(f.entries[ticketID], entry)
	}
}

type fakeActivityRepo struct {
	tickets *fakeTicketRepo
}

func (f *fakeActivityRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.ActivityLogEntry, error) {
	return f.tickets.entriesFor(ticketID), nil
}

type fakeStatRepo struct {
	mu        sync.Mutex
	available map[string][]domain.ResolverStat
	upserted  []domain.ResolverStat
}

func newFakeStatRepo() *fakeStatRepo {
	return &fakeStatRepo{available: map[string][]domain.ResolverStat{}}
}

func (f *fakeStatRepo) Upsert(_ context.Context, stat *domain.ResolverStat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserted = append(f.upserted, *stat)
	return nil
}

func (f *fakeStatRepo) SetAvailability(_ context.Context, userID, propertyID string, available bool) error {
	return nil
}

func (f *fakeStatRepo) ListAvailable(_ context.Context, propertyID string, skillGroupID *string) ([]domain.ResolverStat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.ResolverStat
	for _, stat := range f.available[propertyID] {
		if skillGroupID != nil && stat.SkillGroupID != *skillGroupID {
			continue
		}
		result = append(result, stat)
	}
	return result, nil
}

func (f *fakeStatRepo) GetByKey(_ context.Context, userID, propertyID, skillGroupID string) (*domain.ResolverStat, error) {
	return nil, pgx.ErrNoRows
}

type fakeCatalogRepo struct {
	groupsByCode     map[string]domain.SkillGroup
	categoriesByCode map[string]domain.IssueCategory
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		groupsByCode:     map[string]domain.SkillGroup{},
		categoriesByCode: map[string]domain.IssueCategory{},
	}
}

func (f *fakeCatalogRepo) addCategory(category domain.IssueCategory) {
	f.categoriesByCode[category.Code] = category
}

func (f *fakeCatalogRepo) addGroup(group domain.SkillGroup) {
	f.groupsByCode[group.Code] = group
}

func (f *fakeCatalogRepo) SkillGroupByID(_ context.Context, id string) (*domain.SkillGroup, error) {
	for _, group := range f.groupsByCode {
		if group.ID == id {
			g := group
			return &g, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeCatalogRepo) SkillGroupByCode(_ context.Context, code string) (*domain.SkillGroup, error) {
	group, ok := f.groupsByCode[code]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &group, nil
}

func (f *fakeCatalogRepo) IssueCategoryByID(_ context.Context, id string) (*domain.IssueCategory, error) {
	for _, category := range f.categoriesByCode {
		if category.ID == id {
			c := category
			return &c, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeCatalogRepo) IssueCategoryByCode(_ context.Context, code string) (*domain.IssueCategory, error) {
	category, ok := f.categoriesByCode[code]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &category, nil
}

type fakeMembershipRepo struct {
	memberships map[string]domain.Membership
}

func (f *fakeMembershipRepo) Get(_ context.Context, userID, propertyID string) (*domain.Membership, error) {
	m, ok := f.memberships[userID+"/"+propertyID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &m, nil
}

// eventRecorder captures published events for assertions.
type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) record(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *eventRecorder) recorded() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Event{}, r.events...)
}

func (r *eventRecorder) subscribeAll(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventTicketAssigned, r.record)
	dispatcher.Subscribe(events.EventTicketWaitlisted, r.record)
	dispatcher.Subscribe(events.EventTicketCompleted, r.record)
}
