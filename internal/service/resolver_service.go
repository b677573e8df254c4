package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/facilityops/resolution-service/internal/domain"
	"github.com/facilityops/resolution-service/internal/pool"
	"github.com/facilityops/resolution-service/internal/repository"
	"github.com/facilityops/resolution-service/internal/scorer"
	apperrors "github.com/facilityops/resolution-service/pkg/util/errorutil"
)

// ResolverService manages the resolver pool: check-in/out, shift attendance,
// and ranked availability listings.
type ResolverService struct {
	stats       repository.ResolverStatRepository
	memberships repository.MembershipRepository
	catalog     repository.CatalogRepository
	counts      *ActiveCountsProvider
	shifts      *redis.Client
	logger      *zap.Logger
}

// ResolverDependencies bundles collaborators for the resolver service.
type ResolverDependencies struct {
	StatRepo       repository.ResolverStatRepository
	MembershipRepo repository.MembershipRepository
	CatalogRepo    repository.CatalogRepository
	Counts         *ActiveCountsProvider
	Shifts         *redis.Client
	Logger         *zap.Logger
}

// NewResolverService constructs the service.
func NewResolverService(deps ResolverDependencies) *ResolverService {
	return &ResolverService{
		stats:       deps.StatRepo,
		memberships: deps.MembershipRepo,
		catalog:     deps.CatalogRepo,
		counts:      deps.Counts,
		shifts:      deps.Shifts,
		logger:      deps.Logger,
	}
}

// CheckIn marks the member available for each qualifying skill group.
// Ineligible members are a silent no-op: eligibility is advisory, not an
// error surface. The first eligible check-in seeds the stat row defaults.
func (s *ResolverService) CheckIn(ctx context.Context, userID, propertyID string, floor int) error {
	membership, err := s.memberships.Get(ctx, userID, propertyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return apperrors.NewDependencyFailure("store", err)
	}

	skills := pool.QualifyingSkills(*membership)
	if len(skills) == 0 {
		return nil
	}
	if floor <= 0 {
		floor = 1
	}

	for _, tag := range skills {
		group, err := s.catalog.SkillGroupByCode(ctx, string(tag))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return apperrors.NewDependencyFailure("store", err)
		}
		stat := &domain.ResolverStat{
			UserID:               userID,
			PropertyID:           propertyID,
			SkillGroupID:         group.ID,
			IsAvailable:          true,
			IsCheckedIn:          true,
			CurrentFloor:         floor,
			TotalResolved:        0,
			AvgResolutionMinutes: 60,
		}
		if err := s.stats.Upsert(ctx, stat); err != nil {
			return apperrors.NewDependencyFailure("store", err)
		}
	}

	s.recordShift(ctx, userID, propertyID, "check_in")
	return nil
}

// CheckOut marks all of the member's stat rows unavailable. Rows are never
// deleted.
func (s *ResolverService) CheckOut(ctx context.Context, userID, propertyID string) error {
	if err := s.stats.SetAvailability(ctx, userID, propertyID, false); err != nil {
		return apperrors.NewDependencyFailure("store", err)
	}
	s.recordShift(ctx, userID, propertyID, "check_out")
	return nil
}

// RankedResolvers lists available resolvers for a property ordered best
// first, optionally filtered by skill group code.
func (s *ResolverService) RankedResolvers(ctx context.Context, propertyID string, skillGroupCode *string) ([]scorer.Ranked, error) {
	var skillGroupID *string
	if skillGroupCode != nil {
		group, err := s.catalog.SkillGroupByCode(ctx, *skillGroupCode)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("skill group", map[string]any{"code": *skillGroupCode})
			}
			return nil, apperrors.NewDependencyFailure("store", err)
		}
		skillGroupID = &group.ID
	}

	candidates, err := s.stats.ListAvailable(ctx, propertyID, skillGroupID)
	if err != nil {
		return nil, apperrors.NewDependencyFailure("store", err)
	}
	counts, err := s.counts.Snapshot(ctx, propertyID)
	if err != nil {
		return nil, apperrors.NewDependencyFailure("store", err)
	}
	return scorer.Rank(candidates, counts), nil
}

// shiftRecord is the attendance entry pushed to Redis. Attendance is a
// physical-shift concept separate from availability and never gates the
// scorer; failures are logged and swallowed.
type shiftRecord struct {
	UserID     string    `json:"user_id"`
	PropertyID string    `json:"property_id"`
	Event      string    `json:"event"`
	At         time.Time `json:"at"`
}

func (s *ResolverService) recordShift(ctx context.Context, userID, propertyID, event string) {
	if s.shifts == nil {
		return
	}
	record := shiftRecord{UserID: userID, PropertyID: propertyID, Event: event, At: time.Now()}
	raw, err := json.Marshal(record)
	if err != nil {
		return
	}
	if err := s.shifts.LPush(ctx, "shift_log:"+propertyID, raw).Err(); err != nil {
		s.logger.Warn("shift attendance record failed",
			zap.String("user_id", userID),
			zap.String("property_id", propertyID),
			zap.Error(err))
	}
}
