package domain

import "time"

// TicketStatus enumerates lifecycle states for facility tickets.
type TicketStatus string

const (
	TicketStatusWaitlist   TicketStatus = "waitlist"
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusAssigned   TicketStatus = "assigned"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusBlocked    TicketStatus = "blocked"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// ValidStatus reports whether s is a member of the status enum.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusWaitlist, TicketStatusOpen, TicketStatusAssigned,
		TicketStatusInProgress, TicketStatusBlocked, TicketStatusResolved,
		TicketStatusClosed:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves s. Only closed is terminal;
// resolved can still move to closed or be reopened by override/reclassify.
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusClosed
}

// ActiveStatuses are the states counted as open workload for a resolver.
var ActiveStatuses = []TicketStatus{TicketStatusAssigned, TicketStatusInProgress}

// ClassificationSource records how the current category was determined.
type ClassificationSource string

const (
	SourceRules       ClassificationSource = "rules"
	SourceRulesReeval ClassificationSource = "rules_reeval"
	SourceManual      ClassificationSource = "manual"
)

// Ticket is the aggregate for a raised facility issue.
type Ticket struct {
	ID                   string
	PropertyID           string
	Description          string
	CategoryID           *string
	SkillGroupID         *string
	Confidence           Confidence
	ClassificationSource ClassificationSource
	IsVague              bool
	Status               TicketStatus
	AssignedTo           *string
	RaisedBy             string
	AssignedAt           *time.Time
	AcceptedAt           *time.Time
	WorkStartedAt        *time.Time
	ResolvedAt           *time.Time
	ClosedAt             *time.Time
	SLADeadline          *time.Time
	SLAPaused            bool
	SLAPausedAt          *time.Time
	SLAPauseReason       *string
	TotalPausedMinutes   int
	Rating               *int
	PhotoBeforeURL       *string
	PhotoAfterURL        *string
	Version              int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
