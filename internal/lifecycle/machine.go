// Package lifecycle implements the ticket state machine. Every transition
// mutates the ticket in place and returns the activity entries to append and
// the notification events to emit; persistence and delivery are the caller's
// concern, so the machine stays free of I/O.
package lifecycle

import (
	"fmt"
	"time"

	"github.com/facilityops/resolution-service/internal/domain"
	"github.com/facilityops/resolution-service/internal/events"
	apperrors "github.com/facilityops/resolution-service/pkg/util/errorutil"
)

// Result carries the side effects of one transition. Entries must be
// committed atomically with the ticket row; Events are published only after
// that commit succeeds. A Result with no entries means the transition was a
// no-op and nothing needs persisting.
type Result struct {
	Entries []domain.ActivityLogEntry
	Events  []events.Event
}

func (r *Result) appendEntry(t *domain.Ticket, actorID *string, action domain.ActivityAction, oldValue, newValue map[string]any) {
	r.Entries = append(r.Entries, domain.ActivityLogEntry{
		TicketID: t.ID,
		UserID:   actorID,
		Action:   action,
		OldValue: oldValue,
		NewValue: newValue,
	})
}

func (r *Result) appendEvent(t *domain.Ticket, actorID *string, eventType events.EventType, payload interface{}) {
	r.Events = append(r.Events, events.Event{
		Type:     eventType,
		TicketID: t.ID,
		ActorID:  actorID,
		Payload:  payload,
	})
}

// CreateInput describes a new ticket before classification is applied.
type CreateInput struct {
	PropertyID     string
	Description    string
	RaisedBy       string
	PhotoBeforeURL *string
}

// Create builds a fresh ticket from intake input and its classification.
// Low confidence or an unresolved issue code sends the ticket to the
// waitlist for human triage; otherwise it enters the assignment pool as
// open with an SLA deadline.
func Create(input CreateInput, classification domain.ClassificationResult, category *domain.IssueCategory, slaMinutes int, now time.Time) (*domain.Ticket, *Result) {
	ticket := &domain.Ticket{
		PropertyID:           input.PropertyID,
		Description:          input.Description,
		RaisedBy:             input.RaisedBy,
		PhotoBeforeURL:       input.PhotoBeforeURL,
		Confidence:           classification.Confidence,
		ClassificationSource: domain.SourceRules,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	result := &Result{}
	actor := input.RaisedBy

	if classification.Confidence == domain.ConfidenceLow || category == nil {
		ticket.Status = domain.TicketStatusWaitlist
		ticket.IsVague = true
		result.appendEntry(ticket, &actor, domain.ActionCreated, nil, map[string]any{
			"status":     string(ticket.Status),
			"confidence": string(ticket.Confidence),
		})
		result.appendEvent(ticket, &actor, events.EventTicketWaitlisted, events.TicketWaitlistedPayload{
			PropertyID: ticket.PropertyID,
			IsVague:    true,
		})
		return ticket, result
	}

	ticket.Status = domain.TicketStatusOpen
	ticket.CategoryID = &category.ID
	ticket.SkillGroupID = &category.SkillGroupID
	if category.SLAMinutes != nil {
		slaMinutes = *category.SLAMinutes
	}
	deadline := now.Add(time.Duration(slaMinutes) * time.Minute)
	ticket.SLADeadline = &deadline

	result.appendEntry(ticket, &actor, domain.ActionCreated, nil, map[string]any{
		"status":     string(ticket.Status),
		"category":   category.Code,
		"confidence": string(ticket.Confidence),
	})
	return ticket, result
}

// Assign places the ticket with a resolver. Valid from waitlist or open; a
// ticket that already carries a different assignee must be cleared through
// override or UpdateStatus first, never assigned twice.
func Assign(t *domain.Ticket, resolverID, actorID string, now time.Time) (*Result, error) {
	if t.Status != domain.TicketStatusWaitlist && t.Status != domain.TicketStatusOpen {
		return nil, apperrors.NewInvalidTransition(
			fmt.Sprintf("cannot assign ticket in status %s", t.Status), nil)
	}
	if t.AssignedTo != nil && *t.AssignedTo != resolverID {
		return nil, apperrors.NewInvalidTransition("ticket already assigned", map[string]any{
			"assigned_to": *t.AssignedTo,
		})
	}

	oldStatus := t.Status
	t.AssignedTo = &resolverID
	t.AssignedAt = &now
	t.Status = domain.TicketStatusAssigned
	t.UpdatedAt = now

	result := &Result{}
	result.appendEntry(t, &actorID, domain.ActionAssigned,
		map[string]any{"status": string(oldStatus), "assigned_to": nil},
		map[string]any{"status": string(t.Status), "assigned_to": resolverID},
	)
	result.appendEvent(t, &actorID, events.EventTicketAssigned, events.TicketAssignedPayload{
		ResolverID:   resolverID,
		PropertyID:   t.PropertyID,
		SkillGroupID: t.SkillGroupID,
	})
	return result, nil
}

// Accept moves an assigned ticket into progress. Only the current assignee
// may accept, regardless of status.
func Accept(t *domain.Ticket, actorID string, now time.Time) (*Result, error) {
	if t.AssignedTo == nil || *t.AssignedTo != actorID {
		return nil, apperrors.NewForbidden("only the assigned resolver can accept")
	}
	if t.Status == domain.TicketStatusInProgress {
		return nil, apperrors.NewInvalidTransition("ticket already in progress", nil)
	}
	if t.Status != domain.TicketStatusAssigned {
		return nil, apperrors.NewInvalidTransition(
			fmt.Sprintf("cannot accept ticket in status %s", t.Status), nil)
	}

	t.Status = domain.TicketStatusInProgress
	t.AcceptedAt = &now
	t.WorkStartedAt = &now
	t.UpdatedAt = now

	result := &Result{}
	result.appendEntry(t, &actorID, domain.ActionAccepted,
		map[string]any{"status": string(domain.TicketStatusAssigned)},
		map[string]any{"status": string(t.Status)},
	)
	return result, nil
}

// OverrideClassification pins the category manually. Allowed from any
// non-terminal status. A skill-group change invalidates the current
// assignment and re-enters the pool as open.
func OverrideClassification(t *domain.Ticket, category domain.IssueCategory, actorID string, now time.Time) (*Result, error) {
	if t.Status.IsTerminal() {
		return nil, apperrors.NewInvalidTransition("ticket is closed", nil)
	}

	oldCategory := t.CategoryID
	oldSkillGroup := t.SkillGroupID
	oldStatus := t.Status

	t.CategoryID = &category.ID
	t.SkillGroupID = &category.SkillGroupID
	t.ClassificationSource = domain.SourceManual
	t.Confidence = domain.ConfidenceHigh
	t.IsVague = false
	t.UpdatedAt = now

	skillGroupChanged := oldSkillGroup == nil || *oldSkillGroup != category.SkillGroupID
	if skillGroupChanged {
		t.AssignedTo = nil
		t.AssignedAt = nil
		t.Status = domain.TicketStatusOpen
	}

	result := &Result{}
	result.appendEntry(t, &actorID, domain.ActionClassificationOverridden,
		map[string]any{
			"category_id":    derefOrNil(oldCategory),
			"skill_group_id": derefOrNil(oldSkillGroup),
			"status":         string(oldStatus),
		},
		map[string]any{
			"category_id":    category.ID,
			"skill_group_id": category.SkillGroupID,
			"status":         string(t.Status),
		},
	)
	return result, nil
}

// Reclassify applies a fresh rules evaluation over the stored description.
// Low confidence sends the ticket back to the waitlist, anything else to
// open. Either way the ticket leaves its assignee, so the assignment is
// cleared rather than left dangling on an unassigned-looking ticket.
func Reclassify(t *domain.Ticket, classification domain.ClassificationResult, category *domain.IssueCategory, actorID string, now time.Time) (*Result, error) {
	if t.Status.IsTerminal() {
		return nil, apperrors.NewInvalidTransition("ticket is closed", nil)
	}

	oldCategory := t.CategoryID
	oldStatus := t.Status

	t.ClassificationSource = domain.SourceRulesReeval
	t.Confidence = classification.Confidence
	t.UpdatedAt = now

	result := &Result{}
	if classification.Confidence == domain.ConfidenceLow || category == nil {
		t.CategoryID = nil
		t.SkillGroupID = nil
		t.IsVague = true
		t.Status = domain.TicketStatusWaitlist
	} else {
		t.CategoryID = &category.ID
		t.SkillGroupID = &category.SkillGroupID
		t.IsVague = false
		t.Status = domain.TicketStatusOpen
	}
	t.AssignedTo = nil
	t.AssignedAt = nil

	result.appendEntry(t, &actorID, domain.ActionReclassified,
		map[string]any{"category_id": derefOrNil(oldCategory), "status": string(oldStatus)},
		map[string]any{"category_id": derefOrNil(t.CategoryID), "status": string(t.Status), "confidence": string(t.Confidence)},
	)
	if t.Status == domain.TicketStatusWaitlist {
		result.appendEvent(t, &actorID, events.EventTicketWaitlisted, events.TicketWaitlistedPayload{
			PropertyID: t.PropertyID,
			IsVague:    true,
		})
	}
	return result, nil
}

// PauseSLA stops the SLA clock. Pausing an already paused ticket is a no-op
// so the original pause timestamp, and with it the elapsed paused time, is
// never silently discarded.
func PauseSLA(t *domain.Ticket, reason string, actorID string, now time.Time) (*Result, error) {
	if t.Status.IsTerminal() {
		return nil, apperrors.NewInvalidTransition("ticket is closed", nil)
	}
	if t.SLAPaused {
		return &Result{}, nil
	}

	t.SLAPaused = true
	t.SLAPausedAt = &now
	t.SLAPauseReason = &reason
	t.UpdatedAt = now

	result := &Result{}
	result.appendEntry(t, &actorID, domain.ActionSLAPaused,
		map[string]any{"sla_paused": false},
		map[string]any{"sla_paused": true, "reason": reason},
	)
	return result, nil
}

// ResumeSLA restarts the SLA clock and extends the deadline by the paused
// duration, floored to whole minutes. The same clock produced the pause
// timestamp, so the extension matches the time actually spent paused.
func ResumeSLA(t *domain.Ticket, actorID string, now time.Time) (*Result, error) {
	if !t.SLAPaused || t.SLAPausedAt == nil {
		return nil, apperrors.NewInvalidTransition("sla is not paused", nil)
	}

	pausedMinutes := int(now.Sub(*t.SLAPausedAt).Minutes())
	if pausedMinutes < 0 {
		pausedMinutes = 0
	}

	oldDeadline := t.SLADeadline
	t.TotalPausedMinutes += pausedMinutes
	if t.SLADeadline != nil {
		extended := t.SLADeadline.Add(time.Duration(pausedMinutes) * time.Minute)
		t.SLADeadline = &extended
	}
	t.SLAPaused = false
	t.SLAPausedAt = nil
	t.SLAPauseReason = nil
	t.UpdatedAt = now

	result := &Result{}
	result.appendEntry(t, &actorID, domain.ActionSLAResumed,
		map[string]any{"sla_deadline": timeOrNil(oldDeadline)},
		map[string]any{"sla_deadline": timeOrNil(t.SLADeadline), "paused_minutes": pausedMinutes},
	)
	return result, nil
}

// UpdateStatus is the generic drag-and-drop transition. Providing a non-nil
// assignee while the ticket sits in waitlist or open forces the status to
// assigned regardless of the requested status: moving a card into a
// resolver's lane always means accepted-for-assignment.
func UpdateStatus(t *domain.Ticket, newStatus domain.TicketStatus, newAssignee *string, assigneeProvided bool, actorID string, now time.Time) (*Result, error) {
	if !domain.ValidStatus(newStatus) {
		return nil, apperrors.NewInvalidTransition(
			fmt.Sprintf("unknown status %q", newStatus), nil)
	}
	if t.Status.IsTerminal() {
		return nil, apperrors.NewInvalidTransition("ticket is closed", nil)
	}
	if t.Status == domain.TicketStatusResolved && newStatus != domain.TicketStatusClosed {
		return nil, apperrors.NewInvalidTransition(
			"resolved tickets can only be closed; reopen via override or reclassify", nil)
	}

	oldStatus := t.Status
	oldAssignee := t.AssignedTo

	target := newStatus
	if assigneeProvided {
		t.AssignedTo = newAssignee
		if newAssignee != nil {
			t.AssignedAt = &now
			if oldStatus == domain.TicketStatusWaitlist || oldStatus == domain.TicketStatusOpen {
				// Assignment takes precedence over the requested status.
				target = domain.TicketStatusAssigned
			}
		} else {
			t.AssignedAt = nil
		}
	}

	t.Status = target
	switch target {
	case domain.TicketStatusResolved:
		t.ResolvedAt = &now
	case domain.TicketStatusClosed:
		t.ClosedAt = &now
	case domain.TicketStatusWaitlist, domain.TicketStatusOpen:
		// Back in the pool; an assignee on a pool status would contradict
		// the assignment invariant.
		t.AssignedTo = nil
		t.AssignedAt = nil
	}
	t.UpdatedAt = now

	result := &Result{}
	result.appendEntry(t, &actorID, domain.ActionStatusChanged,
		map[string]any{"status": string(oldStatus), "assigned_to": derefOrNil(oldAssignee)},
		map[string]any{"status": string(t.Status), "assigned_to": derefOrNil(t.AssignedTo)},
	)

	if assigneeProvided && newAssignee != nil && target == domain.TicketStatusAssigned {
		result.appendEvent(t, &actorID, events.EventTicketAssigned, events.TicketAssignedPayload{
			ResolverID:   *newAssignee,
			PropertyID:   t.PropertyID,
			SkillGroupID: t.SkillGroupID,
		})
	}
	if target == domain.TicketStatusResolved {
		result.appendEvent(t, &actorID, events.EventTicketCompleted, events.TicketCompletedPayload{
			ResolverID: t.AssignedTo,
			PropertyID: t.PropertyID,
		})
	}
	return result, nil
}

// Rate records the creator's satisfaction score once the work is done.
func Rate(t *domain.Ticket, rating int, actorID string, now time.Time) (*Result, error) {
	if t.RaisedBy != actorID {
		return nil, apperrors.NewForbidden("only the ticket creator can rate")
	}
	if rating < 1 || rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5", map[string]any{
			"rating": rating,
		})
	}
	if t.Status != domain.TicketStatusResolved && t.Status != domain.TicketStatusClosed {
		return nil, apperrors.NewInvalidTransition("ticket is not resolved yet", nil)
	}

	oldRating := t.Rating
	t.Rating = &rating
	t.UpdatedAt = now

	result := &Result{}
	result.appendEntry(t, &actorID, domain.ActionRated,
		map[string]any{"rating": intOrNil(oldRating)},
		map[string]any{"rating": rating},
	)
	return result, nil
}

// Close retires a resolved ticket. Closed is terminal; the row is retained.
func Close(t *domain.Ticket, actorID string, now time.Time) (*Result, error) {
	if t.Status == domain.TicketStatusClosed {
		return nil, apperrors.NewInvalidTransition("ticket already closed", nil)
	}
	if t.Status != domain.TicketStatusResolved {
		return nil, apperrors.NewInvalidTransition(
			fmt.Sprintf("cannot close ticket in status %s", t.Status), nil)
	}

	t.Status = domain.TicketStatusClosed
	t.ClosedAt = &now
	t.UpdatedAt = now

	result := &Result{}
	result.appendEntry(t, &actorID, domain.ActionClosed,
		map[string]any{"status": string(domain.TicketStatusResolved)},
		map[string]any{"status": string(t.Status)},
	)
	return result, nil
}

// AttachPhotos stores before/after photo URLs returned by external storage.
func AttachPhotos(t *domain.Ticket, beforeURL, afterURL *string, actorID string, now time.Time) (*Result, error) {
	if t.Status.IsTerminal() {
		return nil, apperrors.NewInvalidTransition("ticket is closed", nil)
	}
	if beforeURL == nil && afterURL == nil {
		return nil, apperrors.NewValidationError("at least one photo url required", nil)
	}

	oldBefore := t.PhotoBeforeURL
	oldAfter := t.PhotoAfterURL
	if beforeURL != nil {
		t.PhotoBeforeURL = beforeURL
	}
	if afterURL != nil {
		t.PhotoAfterURL = afterURL
	}
	t.UpdatedAt = now

	result := &Result{}
	result.appendEntry(t, &actorID, domain.ActionPhotosAttached,
		map[string]any{"photo_before_url": derefOrNil(oldBefore), "photo_after_url": derefOrNil(oldAfter)},
		map[string]any{"photo_before_url": derefOrNil(t.PhotoBeforeURL), "photo_after_url": derefOrNil(t.PhotoAfterURL)},
	)
	return result, nil
}

func derefOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func intOrNil(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

func timeOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}
