package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/facilityops/resolution-service/internal/domain"
)

// MembershipRepository is the identity-provider boundary for property-scoped
// role lookups, keyed by (user_id, property_id).
type MembershipRepository interface {
	Get(ctx context.Context, userID, propertyID string) (*domain.Membership, error)
}

type membershipRepository struct {
	pool *pgxpool.Pool
}

// NewMembershipRepository instantiates repository.
func NewMembershipRepository(pool *pgxpool.Pool) MembershipRepository {
	return &membershipRepository{pool: pool}
}

func (r *membershipRepository) Get(ctx context.Context, userID, propertyID string) (*domain.Membership, error) {
	const query = `
        SELECT user_id, property_id, role, is_active, skill_tags
        FROM property_memberships WHERE user_id=$1 AND property_id=$2`
	var m domain.Membership
	var tags []string
	if err := r.pool.QueryRow(ctx, query, userID, propertyID).Scan(
		&m.UserID,
		&m.PropertyID,
		&m.Role,
		&m.IsActive,
		&tags,
	); err != nil {
		return nil, err
	}
	m.SkillTags = make([]domain.SkillTag, len(tags))
	for i, tag := range tags {
		m.SkillTags[i] = domain.SkillTag(tag)
	}
	return &m, nil
}
