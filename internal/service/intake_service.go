package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/facilityops/resolution-service/internal/classifier"
	"github.com/facilityops/resolution-service/internal/domain"
	"github.com/facilityops/resolution-service/internal/events"
	"github.com/facilityops/resolution-service/internal/lifecycle"
	"github.com/facilityops/resolution-service/internal/repository"
	"github.com/facilityops/resolution-service/internal/scorer"
	apperrors "github.com/facilityops/resolution-service/pkg/util/errorutil"
)

// IntakeService turns a raised issue into a classified, and where possible
// assigned, ticket. Classification happens immediately on intake; assignment
// is best effort: an empty candidate pool defers the ticket as open rather
// than failing the request.
type IntakeService struct {
	tickets           repository.TicketRepository
	stats             repository.ResolverStatRepository
	catalog           repository.CatalogRepository
	classifier        *classifier.Classifier
	counts            *ActiveCountsProvider
	dispatcher        events.Dispatcher
	logger            *zap.Logger
	defaultSLAMinutes int
}

// IntakeDependencies bundles collaborators for the intake service.
type IntakeDependencies struct {
	TicketRepo        repository.TicketRepository
	StatRepo          repository.ResolverStatRepository
	CatalogRepo       repository.CatalogRepository
	Classifier        *classifier.Classifier
	Counts            *ActiveCountsProvider
	Dispatcher        events.Dispatcher
	Logger            *zap.Logger
	DefaultSLAMinutes int
}

// IntakeInput describes a raised issue.
type IntakeInput struct {
	PropertyID     string
	Description    string
	PhotoBeforeURL *string
}

// NewIntakeService constructs the service.
func NewIntakeService(deps IntakeDependencies) *IntakeService {
	return &IntakeService{
		tickets:           deps.TicketRepo,
		stats:             deps.StatRepo,
		catalog:           deps.CatalogRepo,
		classifier:        deps.Classifier,
		counts:            deps.Counts,
		dispatcher:        deps.Dispatcher,
		logger:            deps.Logger,
		defaultSLAMinutes: deps.DefaultSLAMinutes,
	}
}

// CreateTicket classifies the description, persists the new ticket with its
// creation entry, and attempts load-balanced assignment.
func (s *IntakeService) CreateTicket(ctx context.Context, raisedBy string, input IntakeInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.PropertyID) == "" {
		return nil, apperrors.NewValidationError("property_id required", nil)
	}

	classification := s.classifier.Classify(input.Description)
	category, err := s.resolveCategory(ctx, classification)
	if err != nil {
		return nil, err
	}

	ticket, result := lifecycle.Create(lifecycle.CreateInput{
		PropertyID:     input.PropertyID,
		Description:    strings.TrimSpace(input.Description),
		RaisedBy:       raisedBy,
		PhotoBeforeURL: input.PhotoBeforeURL,
	}, classification, category, s.defaultSLAMinutes, time.Now())

	if err := s.tickets.Create(ctx, ticket, result.Entries); err != nil {
		return nil, apperrors.NewDependencyFailure("store", err)
	}
	publishEvents(ctx, s.dispatcher, result.Events)

	if ticket.Status == domain.TicketStatusOpen && ticket.SkillGroupID != nil {
		s.tryAutoAssign(ctx, ticket, raisedBy)
	}
	return ticket, nil
}

// tryAutoAssign picks the best-ranked available resolver for the ticket's
// property and skill group. Any failure leaves the ticket open for a later
// manual or re-triggered assignment; it never fails the intake.
func (s *IntakeService) tryAutoAssign(ctx context.Context, ticket *domain.Ticket, actorID string) {
	candidates, err := s.stats.ListAvailable(ctx, ticket.PropertyID, ticket.SkillGroupID)
	if err != nil {
		s.logger.Warn("auto-assign candidate lookup failed",
			zap.String("ticket_id", ticket.ID), zap.Error(err))
		return
	}
	if len(candidates) == 0 {
		s.logger.Info("no resolver available, assignment deferred",
			zap.String("ticket_id", ticket.ID),
			zap.String("property_id", ticket.PropertyID))
		return
	}

	counts, err := s.counts.Snapshot(ctx, ticket.PropertyID)
	if err != nil {
		s.logger.Warn("auto-assign count snapshot failed",
			zap.String("ticket_id", ticket.ID), zap.Error(err))
		return
	}

	ranked := scorer.Rank(candidates, counts)
	best := ranked[0].Stat

	result, err := lifecycle.Assign(ticket, best.UserID, actorID, time.Now())
	if err != nil {
		s.logger.Warn("auto-assign transition rejected",
			zap.String("ticket_id", ticket.ID), zap.Error(err))
		return
	}
	if err := s.tickets.ApplyTransition(ctx, ticket, result.Entries); err != nil {
		s.logger.Warn("auto-assign persist failed",
			zap.String("ticket_id", ticket.ID), zap.Error(err))
		return
	}
	publishEvents(ctx, s.dispatcher, result.Events)
}

func (s *IntakeService) resolveCategory(ctx context.Context, classification domain.ClassificationResult) (*domain.IssueCategory, error) {
	if classification.IssueCode == nil {
		return nil, nil
	}
	category, err := s.catalog.IssueCategoryByCode(ctx, *classification.IssueCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.NewDependencyFailure("store", err)
	}
	return category, nil
}
