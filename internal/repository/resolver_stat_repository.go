package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/facilityops/resolution-service/internal/domain"
)

// ResolverStatRepository maintains per-(user, property, skill group)
// availability rows. Upserts are atomic; concurrent check-in/out races on
// the same key resolve last-write-wins.
type ResolverStatRepository interface {
	Upsert(ctx context.Context, stat *domain.ResolverStat) error
	SetAvailability(ctx context.Context, userID, propertyID string, available bool) error
	ListAvailable(ctx context.Context, propertyID string, skillGroupID *string) ([]domain.ResolverStat, error)
	GetByKey(ctx context.Context, userID, propertyID, skillGroupID string) (*domain.ResolverStat, error)
}

type resolverStatRepository struct {
	pool *pgxpool.Pool
}

// NewResolverStatRepository instantiates repository.
func NewResolverStatRepository(pool *pgxpool.Pool) ResolverStatRepository {
	return &resolverStatRepository{pool: pool}
}

const resolverStatColumns = `id, user_id, property_id, skill_group_id, is_available, is_checked_in,
    current_floor, total_resolved, avg_resolution_minutes, created_at, updated_at`

func (r *resolverStatRepository) Upsert(ctx context.Context, stat *domain.ResolverStat) error {
	const query = `
        INSERT INTO resolver_stats (user_id, property_id, skill_group_id, is_available,
            is_checked_in, current_floor, total_resolved, avg_resolution_minutes)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        ON CONFLICT (user_id, property_id, skill_group_id) DO UPDATE SET
            is_available=EXCLUDED.is_available,
            is_checked_in=EXCLUDED.is_checked_in,
            current_floor=EXCLUDED.current_floor,
            updated_at=NOW()
        RETURNING id, total_resolved, avg_resolution_minutes, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		stat.UserID,
		stat.PropertyID,
		stat.SkillGroupID,
		stat.IsAvailable,
		stat.IsCheckedIn,
		stat.CurrentFloor,
		stat.TotalResolved,
		stat.AvgResolutionMinutes,
	).Scan(&stat.ID, &stat.TotalResolved, &stat.AvgResolutionMinutes, &stat.CreatedAt, &stat.UpdatedAt)
}

func (r *resolverStatRepository) SetAvailability(ctx context.Context, userID, propertyID string, available bool) error {
	const query = `
        UPDATE resolver_stats SET is_available=$1, is_checked_in=$1, updated_at=NOW()
        WHERE user_id=$2 AND property_id=$3`
	_, err := r.pool.Exec(ctx, query, available, userID, propertyID)
	return err
}

func (r *resolverStatRepository) ListAvailable(ctx context.Context, propertyID string, skillGroupID *string) ([]domain.ResolverStat, error) {
	query := `SELECT ` + resolverStatColumns + `
        FROM resolver_stats WHERE property_id=$1 AND is_available=TRUE`
	args := []any{propertyID}
	if skillGroupID != nil {
		query += ` AND skill_group_id=$2`
		args = append(args, *skillGroupID)
	}
	query += ` ORDER BY user_id ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanResolverStats(rows)
}

func (r *resolverStatRepository) GetByKey(ctx context.Context, userID, propertyID, skillGroupID string) (*domain.ResolverStat, error) {
	query := `SELECT ` + resolverStatColumns + `
        FROM resolver_stats WHERE user_id=$1 AND property_id=$2 AND skill_group_id=$3`
	var stat domain.ResolverStat
	if err := scanResolverStat(r.pool.QueryRow(ctx, query, userID, propertyID, skillGroupID), &stat); err != nil {
		return nil, err
	}
	return &stat, nil
}

func scanResolverStat(row pgx.Row, stat *domain.ResolverStat) error {
	return row.Scan(
		&stat.ID,
		&stat.UserID,
		&stat.PropertyID,
		&stat.SkillGroupID,
		&stat.IsAvailable,
		&stat.IsCheckedIn,
		&stat.CurrentFloor,
		&stat.TotalResolved,
		&stat.AvgResolutionMinutes,
		&stat.CreatedAt,
		&stat.UpdatedAt,
	)
}

func scanResolverStats(rows pgx.Rows) ([]domain.ResolverStat, error) {
	var result []domain.ResolverStat
	for rows.Next() {
		var stat domain.ResolverStat
		if err := scanResolverStat(rows, &stat); err != nil {
			return nil, err
		}
		result = append(result, stat)
	}
	return result, rows.Err()
}
