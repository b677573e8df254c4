package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/facilityops/resolution-service/internal/domain"
)

// ErrVersionConflict signals a lost optimistic-concurrency race: another
// transition committed between the caller's read and write.
var ErrVersionConflict = errors.New("ticket version conflict")

// TicketFilter captures listing parameters.
type TicketFilter struct {
	PropertyID *string
	RaisedBy   *string
	AssignedTo *string
	Statuses   []domain.TicketStatus
	IsVague    *bool
	Limit      int
	Offset     int
}

// TicketRepository encapsulates ticket persistence. Transition writes commit
// the ticket row and its activity entries in a single transaction, guarded
// by the row version.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket, entries []domain.ActivityLogEntry) error
	ApplyTransition(ctx context.Context, ticket *domain.Ticket, entries []domain.ActivityLogEntry) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	CountActiveByResolver(ctx context.Context, propertyID string) (map[string]int, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, property_id, description, category_id, skill_group_id, confidence,
    classification_source, is_vague, status, assigned_to, raised_by, assigned_at, accepted_at,
    work_started_at, resolved_at, closed_at, sla_deadline, sla_paused, sla_paused_at,
    sla_pause_reason, total_paused_minutes, rating, photo_before_url, photo_after_url,
    version, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket, entries []domain.ActivityLogEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        INSERT INTO tickets (property_id, description, category_id, skill_group_id, confidence,
            classification_source, is_vague, status, raised_by, sla_deadline, photo_before_url)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, version, created_at, updated_at`
	if err := tx.QueryRow(ctx, query,
		ticket.PropertyID,
		ticket.Description,
		ticket.CategoryID,
		ticket.SkillGroupID,
		ticket.Confidence,
		ticket.ClassificationSource,
		ticket.IsVague,
		ticket.Status,
		ticket.RaisedBy,
		ticket.SLADeadline,
		ticket.PhotoBeforeURL,
	).Scan(&ticket.ID, &ticket.Version, &ticket.CreatedAt, &ticket.UpdatedAt); err != nil {
		return err
	}

	if err := insertActivityEntries(ctx, tx, ticket.ID, entries); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *ticketRepository) ApplyTransition(ctx context.Context, ticket *domain.Ticket, entries []domain.ActivityLogEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        UPDATE tickets SET category_id=$1, skill_group_id=$2, confidence=$3,
            classification_source=$4, is_vague=$5, status=$6, assigned_to=$7, assigned_at=$8,
            accepted_at=$9, work_started_at=$10, resolved_at=$11, closed_at=$12,
            sla_deadline=$13, sla_paused=$14, sla_paused_at=$15, sla_pause_reason=$16,
            total_paused_minutes=$17, rating=$18, photo_before_url=$19, photo_after_url=$20,
            version=version+1, updated_at=NOW()
        WHERE id=$21 AND version=$22`
	cmd, err := tx.Exec(ctx, query,
		ticket.CategoryID,
		ticket.SkillGroupID,
		ticket.Confidence,
		ticket.ClassificationSource,
		ticket.IsVague,
		ticket.Status,
		ticket.AssignedTo,
		ticket.AssignedAt,
		ticket.AcceptedAt,
		ticket.WorkStartedAt,
		ticket.ResolvedAt,
		ticket.ClosedAt,
		ticket.SLADeadline,
		ticket.SLAPaused,
		ticket.SLAPausedAt,
		ticket.SLAPauseReason,
		ticket.TotalPausedMinutes,
		ticket.Rating,
		ticket.PhotoBeforeURL,
		ticket.PhotoAfterURL,
		ticket.ID,
		ticket.Version,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	ticket.Version++

	if err := insertActivityEntries(ctx, tx, ticket.ID, entries); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)
	var ticket domain.Ticket
	if err := scanTicket(r.pool.QueryRow(ctx, query, id), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.PropertyID != nil {
		args = append(args, *filter.PropertyID)
		clauses = append(clauses, fmt.Sprintf("property_id=$%d", len(args)))
	}
	if filter.RaisedBy != nil {
		args = append(args, *filter.RaisedBy)
		clauses = append(clauses, fmt.Sprintf("raised_by=$%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.IsVague != nil {
		args = append(args, *filter.IsVague)
		clauses = append(clauses, fmt.Sprintf("is_vague=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		ticketColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) CountActiveByResolver(ctx context.Context, propertyID string) (map[string]int, error) {
	const query = `
        SELECT assigned_to, COUNT(*) FROM tickets
        WHERE property_id=$1 AND assigned_to IS NOT NULL AND status = ANY($2)
        GROUP BY assigned_to`
	statuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		statuses[i] = string(s)
	}
	rows, err := r.pool.Query(ctx, query, propertyID, statuses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var resolverID string
		var count int
		if err := rows.Scan(&resolverID, &count); err != nil {
			return nil, err
		}
		counts[resolverID] = count
	}
	return counts, rows.Err()
}

func scanTicket(row pgx.Row, ticket *domain.Ticket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.PropertyID,
		&ticket.Description,
		&ticket.CategoryID,
		&ticket.SkillGroupID,
		&ticket.Confidence,
		&ticket.ClassificationSource,
		&ticket.IsVague,
		&ticket.Status,
		&ticket.AssignedTo,
		&ticket.RaisedBy,
		&ticket.AssignedAt,
		&ticket.AcceptedAt,
		&ticket.WorkStartedAt,
		&ticket.ResolvedAt,
		&ticket.ClosedAt,
		&ticket.SLADeadline,
		&ticket.SLAPaused,
		&ticket.SLAPausedAt,
		&ticket.SLAPauseReason,
		&ticket.TotalPausedMinutes,
		&ticket.Rating,
		&ticket.PhotoBeforeURL,
		&ticket.PhotoAfterURL,
		&ticket.Version,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
