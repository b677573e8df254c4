package domain

import "time"

// ActivityAction tags an entry in the ticket audit trail.
type ActivityAction string

const (
	ActionCreated                  ActivityAction = "created"
	ActionAssigned                 ActivityAction = "assigned"
	ActionAccepted                 ActivityAction = "accepted"
	ActionStatusChanged            ActivityAction = "status_changed"
	ActionClassificationOverridden ActivityAction = "classification_overridden"
	ActionReclassified             ActivityAction = "reclassified"
	ActionSLAPaused                ActivityAction = "sla_paused"
	ActionSLAResumed               ActivityAction = "sla_resumed"
	ActionRated                    ActivityAction = "rated"
	ActionPhotosAttached           ActivityAction = "photos_attached"
	ActionClosed                   ActivityAction = "closed"
)

// ActivityLogEntry is one append-only audit record. Entries are never
// updated or deleted; old and new values are stored as loose documents so
// each action can snapshot whichever fields it touched.
type ActivityLogEntry struct {
	ID        string
	TicketID  string
	UserID    *string
	Action    ActivityAction
	OldValue  map[string]any
	NewValue  map[string]any
	CreatedAt time.Time
}
