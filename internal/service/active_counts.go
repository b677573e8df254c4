package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/facilityops/resolution-service/internal/repository"
)

// ActiveCountsProvider serves the scorer's point-in-time snapshot of open
// workload per resolver. Snapshots are cached briefly in Redis; the ranking
// they feed is advisory and tolerates short staleness. Redis failures fall
// through to a direct count query and are never surfaced.
type ActiveCountsProvider struct {
	tickets repository.TicketRepository
	cache   *redis.Client
	ttl     time.Duration
	logger  *zap.Logger
}

// NewActiveCountsProvider builds the provider. A nil cache disables caching.
func NewActiveCountsProvider(tickets repository.TicketRepository, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *ActiveCountsProvider {
	return &ActiveCountsProvider{tickets: tickets, cache: cache, ttl: ttl, logger: logger}
}

// Snapshot returns active ticket counts keyed by resolver id for a property.
func (p *ActiveCountsProvider) Snapshot(ctx context.Context, propertyID string) (map[string]int, error) {
	key := "active_counts:" + propertyID

	if p.cache != nil {
		raw, err := p.cache.Get(ctx, key).Result()
		if err == nil {
			var counts map[string]int
			if err := json.Unmarshal([]byte(raw), &counts); err == nil {
				return counts, nil
			}
		} else if err != redis.Nil {
			p.logger.Debug("counts cache read failed", zap.Error(err))
		}
	}

	counts, err := p.tickets.CountActiveByResolver(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	if p.cache != nil && p.ttl > 0 {
		if raw, err := json.Marshal(counts); err == nil {
			if err := p.cache.Set(ctx, key, raw, p.ttl).Err(); err != nil {
				p.logger.Debug("counts cache write failed", zap.Error(err))
			}
		}
	}
	return counts, nil
}
