package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/facilityops/resolution-service/internal/domain"
)

// ActivityLogRepository reads the append-only audit trail. Writes happen
// inside the ticket repository's transition transaction so a ticket mutation
// and its entries commit together or not at all.
type ActivityLogRepository interface {
	ListByTicket(ctx context.Context, ticketID string) ([]domain.ActivityLogEntry, error)
}

type activityLogRepository struct {
	pool *pgxpool.Pool
}

// NewActivityLogRepository builds repository.
func NewActivityLogRepository(pool *pgxpool.Pool) ActivityLogRepository {
	return &activityLogRepository{pool: pool}
}

func (r *activityLogRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.ActivityLogEntry, error) {
	const query = `
        SELECT id, ticket_id, user_id, action, old_value, new_value, created_at
        FROM ticket_activity_log WHERE ticket_id=$1 ORDER BY seq ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ActivityLogEntry
	for rows.Next() {
		var entry domain.ActivityLogEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&entry.UserID,
			&entry.Action,
			&entry.OldValue,
			&entry.NewValue,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

// insertActivityEntries appends entries within the caller's transaction.
func insertActivityEntries(ctx context.Context, tx pgx.Tx, ticketID string, entries []domain.ActivityLogEntry) error {
	const query = `
        INSERT INTO ticket_activity_log (ticket_id, user_id, action, old_value, new_value)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	for i := range entries {
		entries[i].TicketID = ticketID
		if err := tx.QueryRow(ctx, query,
			ticketID,
			entries[i].UserID,
			entries[i].Action,
			entries[i].OldValue,
			entries[i].NewValue,
		).Scan(&entries[i].ID, &entries[i].CreatedAt); err != nil {
			return err
		}
	}
	return nil
}
