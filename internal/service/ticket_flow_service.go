package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/facilityops/resolution-service/internal/classifier"
	"github.com/facilityops/resolution-service/internal/domain"
	"github.com/facilityops/resolution-service/internal/events"
	"github.com/facilityops/resolution-service/internal/lifecycle"
	"github.com/facilityops/resolution-service/internal/repository"
	apperrors "github.com/facilityops/resolution-service/pkg/util/errorutil"
)

// TicketFlowService drives the ticket state machine against the store.
// Each transition runs as a read-modify-write guarded by the ticket version;
// a lost race is retried once with fresh state before surfacing a conflict.
type TicketFlowService struct {
	tickets    repository.TicketRepository
	activity   repository.ActivityLogRepository
	catalog    repository.CatalogRepository
	classifier *classifier.Classifier
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// FlowDependencies bundles collaborators for the flow service.
type FlowDependencies struct {
	TicketRepo   repository.TicketRepository
	ActivityRepo repository.ActivityLogRepository
	CatalogRepo  repository.CatalogRepository
	Classifier   *classifier.Classifier
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewTicketFlowService constructs the service.
func NewTicketFlowService(deps FlowDependencies) *TicketFlowService {
	return &TicketFlowService{
		tickets:    deps.TicketRepo,
		activity:   deps.ActivityRepo,
		catalog:    deps.CatalogRepo,
		classifier: deps.Classifier,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// Assign places the ticket with the given resolver.
func (s *TicketFlowService) Assign(ctx context.Context, actorID, ticketID, resolverID string) (*domain.Ticket, error) {
	return s.transition(ctx, ticketID, func(t *domain.Ticket) (*lifecycle.Result, error) {
		return lifecycle.Assign(t, resolverID, actorID, time.Now())
	})
}

// Accept lets the assignee start work.
func (s *TicketFlowService) Accept(ctx context.Context, actorID, ticketID string) (*domain.Ticket, error) {
	return s.transition(ctx, ticketID, func(t *domain.Ticket) (*lifecycle.Result, error) {
		return lifecycle.Accept(t, actorID, time.Now())
	})
}

// OverrideClassification pins the category named by code.
func (s *TicketFlowService) OverrideClassification(ctx context.Context, actorID, ticketID, categoryCode string) (*domain.Ticket, error) {
	category, err := s.catalog.IssueCategoryByCode(ctx, categoryCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("issue category", map[string]any{"code": categoryCode})
		}
		return nil, apperrors.NewDependencyFailure("store", err)
	}
	return s.transition(ctx, ticketID, func(t *domain.Ticket) (*lifecycle.Result, error) {
		return lifecycle.OverrideClassification(t, *category, actorID, time.Now())
	})
}

// Reclassify re-runs the rules over the stored description.
func (s *TicketFlowService) Reclassify(ctx context.Context, actorID, ticketID string) (*domain.Ticket, error) {
	return s.transition(ctx, ticketID, func(t *domain.Ticket) (*lifecycle.Result, error) {
		classification := s.classifier.Classify(t.Description)
		category, err := s.resolveCategory(ctx, classification)
		if err != nil {
			return nil, err
		}
		return lifecycle.Reclassify(t, classification, category, actorID, time.Now())
	})
}

// PauseSLA stops the SLA clock.
func (s *TicketFlowService) PauseSLA(ctx context.Context, actorID, ticketID, reason string) (*domain.Ticket, error) {
	return s.transition(ctx, ticketID, func(t *domain.Ticket) (*lifecycle.Result, error) {
		return lifecycle.PauseSLA(t, reason, actorID, time.Now())
	})
}

// ResumeSLA restarts the SLA clock, extending the deadline.
func (s *TicketFlowService) ResumeSLA(ctx context.Context, actorID, ticketID string) (*domain.Ticket, error) {
	return s.transition(ctx, ticketID, func(t *domain.Ticket) (*lifecycle.Result, error) {
		return lifecycle.ResumeSLA(t, actorID, time.Now())
	})
}

// UpdateStatus is the generic board-style transition.
func (s *TicketFlowService) UpdateStatus(ctx context.Context, actorID, ticketID string, newStatus domain.TicketStatus, newAssignee *string, assigneeProvided bool) (*domain.Ticket, error) {
	return s.transition(ctx, ticketID, func(t *domain.Ticket) (*lifecycle.Result, error) {
		return lifecycle.UpdateStatus(t, newStatus, newAssignee, assigneeProvided, actorID, time.Now())
	})
}

// Rate records the creator's satisfaction score.
func (s *TicketFlowService) Rate(ctx context.Context, actorID, ticketID string, rating int) (*domain.Ticket, error) {
	return s.transition(ctx, ticketID, func(t *domain.Ticket) (*lifecycle.Result, error) {
		return lifecycle.Rate(t, rating, actorID, time.Now())
	})
}

// Close retires a resolved ticket.
func (s *TicketFlowService) Close(ctx context.Context, actorID, ticketID string) (*domain.Ticket, error) {
	return s.transition(ctx, ticketID, func(t *domain.Ticket) (*lifecycle.Result, error) {
		return lifecycle.Close(t, actorID, time.Now())
	})
}

// AttachPhotos stores before/after photo URLs.
func (s *TicketFlowService) AttachPhotos(ctx context.Context, actorID, ticketID string, beforeURL, afterURL *string) (*domain.Ticket, error) {
	return s.transition(ctx, ticketID, func(t *domain.Ticket) (*lifecycle.Result, error) {
		return lifecycle.AttachPhotos(t, beforeURL, afterURL, actorID, time.Now())
	})
}

// GetTicket fetches a ticket with its activity trail.
func (s *TicketFlowService) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, []domain.ActivityLogEntry, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, nil, apperrors.NewDependencyFailure("store", err)
	}
	entries, err := s.activity.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, nil, apperrors.NewDependencyFailure("store", err)
	}
	return ticket, entries, nil
}

// ListTickets returns tickets matching the filter.
func (s *TicketFlowService) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.NewDependencyFailure("store", err)
	}
	return tickets, nil
}

func (s *TicketFlowService) resolveCategory(ctx context.Context, classification domain.ClassificationResult) (*domain.IssueCategory, error) {
	if classification.IssueCode == nil {
		return nil, nil
	}
	category, err := s.catalog.IssueCategoryByCode(ctx, *classification.IssueCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// A rule code without a catalog row routes to triage.
			return nil, nil
		}
		return nil, apperrors.NewDependencyFailure("store", err)
	}
	return category, nil
}

func (s *TicketFlowService) transition(ctx context.Context, ticketID string, apply func(*domain.Ticket) (*lifecycle.Result, error)) (*domain.Ticket, error) {
	for attempt := 0; attempt < 2; attempt++ {
		ticket, err := s.tickets.GetByID(ctx, ticketID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
			}
			return nil, apperrors.NewDependencyFailure("store", err)
		}

		result, err := apply(ticket)
		if err != nil {
			return nil, err
		}
		if len(result.Entries) == 0 {
			// No-op transition; nothing to persist or emit.
			return ticket, nil
		}

		if err := s.tickets.ApplyTransition(ctx, ticket, result.Entries); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				continue
			}
			return nil, apperrors.NewDependencyFailure("store", err)
		}

		publishEvents(ctx, s.dispatcher, result.Events)
		return ticket, nil
	}
	return nil, apperrors.NewConflict("ticket changed concurrently, retry", map[string]any{
		"ticket_id": ticketID,
	})
}

// publishEvents stamps and publishes transition events after commit.
func publishEvents(ctx context.Context, dispatcher events.Dispatcher, evts []events.Event) {
	if dispatcher == nil {
		return
	}
	for _, event := range evts {
		event.ID = uuid.NewString()
		event.Timestamp = time.Now()
		_ = dispatcher.Publish(ctx, event)
	}
}
