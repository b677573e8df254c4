package dto

import (
	"time"

	"github.com/facilityops/resolution-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	PropertyID     string  `json:"property_id"`
	Description    string  `json:"description"`
	PhotoBeforeURL *string `json:"photo_before_url"`
}

// AssignRequest payload.
type AssignRequest struct {
	ResolverID string `json:"resolver_id"`
}

// OverrideRequest payload.
type OverrideRequest struct {
	CategoryCode string `json:"category_code"`
}

// PauseSLARequest payload.
type PauseSLARequest struct {
	Reason string `json:"reason"`
}

// UpdateStatusRequest payload. A present assignee_id field participates in
// the assignment-precedence rule even when null (null clears assignment).
type UpdateStatusRequest struct {
	Status     string  `json:"status"`
	AssigneeID *string `json:"assignee_id"`
}

// RatingRequest payload.
type RatingRequest struct {
	Rating int `json:"rating"`
}

// PhotosRequest payload.
type PhotosRequest struct {
	BeforeURL *string `json:"before_url"`
	AfterURL  *string `json:"after_url"`
}

// TicketSummary response.
type TicketSummary struct {
	ID             string              `json:"id"`
	PropertyID     string              `json:"property_id"`
	Status         domain.TicketStatus `json:"status"`
	Confidence     domain.Confidence   `json:"confidence"`
	CategoryID     *string             `json:"category_id"`
	SkillGroupID   *string             `json:"skill_group_id"`
	IsVague        bool                `json:"is_vague"`
	AssignedTo     *string             `json:"assigned_to"`
	RaisedBy       string              `json:"raised_by"`
	SLADeadline    *time.Time          `json:"sla_deadline"`
	SLAPaused      bool                `json:"sla_paused"`
	Rating         *int                `json:"rating"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// TicketDetail response includes the full record and activity trail.
type TicketDetail struct {
	TicketSummary
	Description          string                      `json:"description"`
	ClassificationSource domain.ClassificationSource `json:"classification_source"`
	AssignedAt           *time.Time                  `json:"assigned_at"`
	AcceptedAt           *time.Time                  `json:"accepted_at"`
	ResolvedAt           *time.Time                  `json:"resolved_at"`
	ClosedAt             *time.Time                  `json:"closed_at"`
	SLAPausedAt          *time.Time                  `json:"sla_paused_at"`
	SLAPauseReason       *string                     `json:"sla_pause_reason"`
	TotalPausedMinutes   int                         `json:"total_paused_minutes"`
	PhotoBeforeURL       *string                     `json:"photo_before_url"`
	PhotoAfterURL        *string                     `json:"photo_after_url"`
	Activity             []ActivityEntry             `json:"activity"`
}

// ActivityEntry response.
type ActivityEntry struct {
	ID        string         `json:"id"`
	UserID    *string        `json:"user_id"`
	Action    string         `json:"action"`
	OldValue  map[string]any `json:"old_value,omitempty"`
	NewValue  map[string]any `json:"new_value,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// FromTicket builds a summary from the domain aggregate.
func FromTicket(t *domain.Ticket) TicketSummary {
	return TicketSummary{
		ID:           t.ID,
		PropertyID:   t.PropertyID,
		Status:       t.Status,
		Confidence:   t.Confidence,
		CategoryID:   t.CategoryID,
		SkillGroupID: t.SkillGroupID,
		IsVague:      t.IsVague,
		AssignedTo:   t.AssignedTo,
		RaisedBy:     t.RaisedBy,
		SLADeadline:  t.SLADeadline,
		SLAPaused:    t.SLAPaused,
		Rating:       t.Rating,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// FromTicketDetail builds the full response.
func FromTicketDetail(t *domain.Ticket, entries []domain.ActivityLogEntry) TicketDetail {
	activity := make([]ActivityEntry, 0, len(entries))
	for _, e := range entries {
		activity = append(activity, ActivityEntry{
			ID:        e.ID,
			UserID:    e.UserID,
			Action:    string(e.Action),
			OldValue:  e.OldValue,
			NewValue:  e.NewValue,
			CreatedAt: e.CreatedAt,
		})
	}
	return TicketDetail{
		TicketSummary:        FromTicket(t),
		Description:          t.Description,
		ClassificationSource: t.ClassificationSource,
		AssignedAt:           t.AssignedAt,
		AcceptedAt:           t.AcceptedAt,
		ResolvedAt:           t.ResolvedAt,
		ClosedAt:             t.ClosedAt,
		SLAPausedAt:          t.SLAPausedAt,
		SLAPauseReason:       t.SLAPauseReason,
		TotalPausedMinutes:   t.TotalPausedMinutes,
		PhotoBeforeURL:       t.PhotoBeforeURL,
		PhotoAfterURL:        t.PhotoAfterURL,
		Activity:             activity,
	}
}
