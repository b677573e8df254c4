package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/facilityops/resolution-service/internal/domain"
)

// CatalogRepository looks up the skill-group and issue-category tables.
type CatalogRepository interface {
	SkillGroupByID(ctx context.Context, id string) (*domain.SkillGroup, error)
	SkillGroupByCode(ctx context.Context, code string) (*domain.SkillGroup, error)
	IssueCategoryByID(ctx context.Context, id string) (*domain.IssueCategory, error)
	IssueCategoryByCode(ctx context.Context, code string) (*domain.IssueCategory, error)
}

type catalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository instantiates repository.
func NewCatalogRepository(pool *pgxpool.Pool) CatalogRepository {
	return &catalogRepository{pool: pool}
}

func (r *catalogRepository) SkillGroupByID(ctx context.Context, id string) (*domain.SkillGroup, error) {
	return r.fetchSkillGroup(ctx, `SELECT id, code, name FROM skill_groups WHERE id=$1`, id)
}

func (r *catalogRepository) SkillGroupByCode(ctx context.Context, code string) (*domain.SkillGroup, error) {
	return r.fetchSkillGroup(ctx, `SELECT id, code, name FROM skill_groups WHERE code=$1`, code)
}

func (r *catalogRepository) fetchSkillGroup(ctx context.Context, query string, arg any) (*domain.SkillGroup, error) {
	var group domain.SkillGroup
	if err := r.pool.QueryRow(ctx, query, arg).Scan(&group.ID, &group.Code, &group.Name); err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *catalogRepository) IssueCategoryByID(ctx context.Context, id string) (*domain.IssueCategory, error) {
	return r.fetchIssueCategory(ctx,
		`SELECT id, code, name, skill_group_id, sla_minutes FROM issue_categories WHERE id=$1`, id)
}

func (r *catalogRepository) IssueCategoryByCode(ctx context.Context, code string) (*domain.IssueCategory, error) {
	return r.fetchIssueCategory(ctx,
		`SELECT id, code, name, skill_group_id, sla_minutes FROM issue_categories WHERE code=$1`, code)
}

func (r *catalogRepository) fetchIssueCategory(ctx context.Context, query string, arg any) (*domain.IssueCategory, error) {
	var category domain.IssueCategory
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&category.ID,
		&category.Code,
		&category.Name,
		&category.SkillGroupID,
		&category.SLAMinutes,
	); err != nil {
		return nil, err
	}
	return &category, nil
}
