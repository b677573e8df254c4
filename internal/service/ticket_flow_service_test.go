package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/facilityops/resolution-service/internal/classifier"
	"github.com/facilityops/resolution-service/internal/domain"
	"github.com/facilityops/resolution-service/internal/events"
	apperrors "github.com/facilityops/resolution-service/pkg/util/errorutil"
)

type flowFixture struct {
	service  *TicketFlowService
	tickets  *fakeTicketRepo
	catalog  *fakeCatalogRepo
	recorder *eventRecorder
}

func newFlowFixture() *flowFixture {
	tickets := newFakeTicketRepo()
	catalog := newFakeCatalogRepo()
	catalog.addCategory(domain.IssueCategory{
		ID: "cat-hvac", Code: "hvac", Name: "HVAC", SkillGroupID: "sg-hvac",
	})
	catalog.addCategory(domain.IssueCategory{
		ID: "cat-plumbing", Code: "plumbing", Name: "Plumbing", SkillGroupID: "sg-plumbing",
	})

	dispatcher := events.NewInMemoryDispatcher()
	recorder := &eventRecorder{}
	recorder.subscribeAll(dispatcher)

	service := NewTicketFlowService(FlowDependencies{
		TicketRepo:   tickets,
		ActivityRepo: &fakeActivityRepo{tickets: tickets},
		CatalogRepo:  catalog,
		Classifier:   classifier.NewDefault(),
		Dispatcher:   dispatcher,
		Logger:       zap.NewNop(),
	})
	return &flowFixture{service: service, tickets: tickets, catalog: catalog, recorder: recorder}
}

func (f *flowFixture) seedOpenTicket(id string) {
	category := "cat-hvac"
	group := "sg-hvac"
	deadline := time.Now().Add(4 * time.Hour)
	f.tickets.seed(domain.Ticket{
		ID:                   id,
		PropertyID:           "prop-1",
		Description:          "AC not cooling in room 204",
		CategoryID:           &category,
		SkillGroupID:         &group,
		Confidence:           domain.ConfidenceHigh,
		ClassificationSource: domain.SourceRules,
		Status:               domain.TicketStatusOpen,
		RaisedBy:             "resident-1",
		SLADeadline:          &deadline,
	})
}

func TestFlowAssignAcceptResolve(t *testing.T) {
	f := newFlowFixture()
	f.seedOpenTicket("ticket-1")
	ctx := context.Background()

	ticket, err := f.service.Assign(ctx, "manager-1", "ticket-1", "resolver-1")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusAssigned, ticket.Status)

	ticket, err = f.service.Accept(ctx, "resolver-1", "ticket-1")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, ticket.Status)

	ticket, err = f.service.UpdateStatus(ctx, "resolver-1", "ticket-1", domain.TicketStatusResolved, nil, false)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, ticket.Status)
	require.NotNil(t, ticket.ResolvedAt)

	entries := f.tickets.entriesFor("ticket-1")
	require.Len(t, entries, 3)
	assert.Equal(t, domain.ActionAssigned, entries[0].Action)
	assert.Equal(t, domain.ActionAccepted, entries[1].Action)
	assert.Equal(t, domain.ActionStatusChanged, entries[2].Action)

	recorded := f.recorder.recorded()
	require.Len(t, recorded, 2)
	assert.Equal(t, events.EventTicketAssigned, recorded[0].Type)
	assert.Equal(t, events.EventTicketCompleted, recorded[1].Type)
}

func TestFlowRetriesOnceOnVersionConflict(t *testing.T) {
	f := newFlowFixture()
	f.seedOpenTicket("ticket-1")
	f.tickets.conflictsLeft = 1

	ticket, err := f.service.Assign(context.Background(), "manager-1", "ticket-1", "resolver-1")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusAssigned, ticket.Status)
	assert.Equal(t, 2, f.tickets.applyCalls)
}

func TestFlowSurfacesConflictAfterRetry(t *testing.T) {
	f := newFlowFixture()
	f.seedOpenTicket("ticket-1")
	f.tickets.conflictsLeft = 2

	_, err := f.service.Assign(context.Background(), "manager-1", "ticket-1", "resolver-1")
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
	assert.Equal(t, 2, f.tickets.applyCalls)
}

func TestFlowUnknownTicket(t *testing.T) {
	f := newFlowFixture()

	_, err := f.service.Accept(context.Background(), "resolver-1", "missing")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestFlowPauseTwicePersistsOnce(t *testing.T) {
	f := newFlowFixture()
	f.seedOpenTicket("ticket-1")
	ctx := context.Background()

	ticket, err := f.service.PauseSLA(ctx, "resolver-1", "ticket-1", "waiting for part")
	require.NoError(t, err)
	assert.True(t, ticket.SLAPaused)
	assert.Equal(t, 1, f.tickets.applyCalls)

	ticket, err = f.service.PauseSLA(ctx, "resolver-1", "ticket-1", "again")
	require.NoError(t, err)
	assert.True(t, ticket.SLAPaused)
	assert.Equal(t, 1, f.tickets.applyCalls, "second pause must not write")
}

func TestFlowReclassifyVagueDescriptionWaitlists(t *testing.T) {
	f := newFlowFixture()
	category := "cat-hvac"
	group := "sg-hvac"
	assignee := "resolver-1"
	f.tickets.seed(domain.Ticket{
		ID:                   "ticket-2",
		PropertyID:           "prop-1",
		Description:          "please look into this",
		CategoryID:           &category,
		SkillGroupID:         &group,
		Confidence:           domain.ConfidenceMedium,
		ClassificationSource: domain.SourceRules,
		Status:               domain.TicketStatusAssigned,
		AssignedTo:           &assignee,
		RaisedBy:             "resident-1",
	})

	ticket, err := f.service.Reclassify(context.Background(), "ops-1", "ticket-2")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusWaitlist, ticket.Status)
	assert.True(t, ticket.IsVague)
	assert.Nil(t, ticket.AssignedTo)
	assert.Equal(t, domain.SourceRulesReeval, ticket.ClassificationSource)

	recorded := f.recorder.recorded()
	require.Len(t, recorded, 1)
	assert.Equal(t, events.EventTicketWaitlisted, recorded[0].Type)
}

func TestFlowOverrideUnknownCategory(t *testing.T) {
	f := newFlowFixture()
	f.seedOpenTicket("ticket-1")

	_, err := f.service.OverrideClassification(context.Background(), "manager-1", "ticket-1", "nonexistent")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestFlowRateByNonCreatorForbidden(t *testing.T) {
	f := newFlowFixture()
	category := "cat-hvac"
	f.tickets.seed(domain.Ticket{
		ID:         "ticket-3",
		PropertyID: "prop-1",
		CategoryID: &category,
		Status:     domain.TicketStatusResolved,
		RaisedBy:   "resident-1",
	})

	_, err := f.service.Rate(context.Background(), "resolver-1", "ticket-3", 5)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
	assert.Zero(t, f.tickets.applyCalls)
}

func TestFlowGetTicketReturnsTrail(t *testing.T) {
	f := newFlowFixture()
	f.seedOpenTicket("ticket-1")
	ctx := context.Background()

	_, err := f.service.Assign(ctx, "manager-1", "ticket-1", "resolver-1")
	require.NoError(t, err)

	ticket, entries, err := f.service.GetTicket(ctx, "ticket-1")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusAssigned, ticket.Status)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActionAssigned, entries[0].Action)
}
