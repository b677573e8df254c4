package events

import "time"

// EventType enumerates the notification-worthy lifecycle events. Only these
// three reach the external notifier; other transitions are audit-log only.
type EventType string

const (
	EventTicketAssigned   EventType = "assigned"
	EventTicketWaitlisted EventType = "waitlisted"
	EventTicketCompleted  EventType = "completed"
)

// Event represents a domain event emitted by a lifecycle transition.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	ActorID   *string     `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	ResolverID   string  `json:"resolver_id"`
	PropertyID   string  `json:"property_id"`
	SkillGroupID *string `json:"skill_group_id,omitempty"`
}

// TicketWaitlistedPayload payload.
type TicketWaitlistedPayload struct {
	PropertyID string `json:"property_id"`
	IsVague    bool   `json:"is_vague"`
}

// TicketCompletedPayload payload.
type TicketCompletedPayload struct {
	ResolverID *string `json:"resolver_id,omitempty"`
	PropertyID string  `json:"property_id"`
}
