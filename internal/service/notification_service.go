package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/facilityops/resolution-service/internal/events"
	"github.com/facilityops/resolution-service/internal/notifier"
)

// NotificationService bridges lifecycle events to the external notifier.
// Only the three notification-worthy event types are subscribed; delivery
// errors stay inside the notifier and never reach the transition.
type NotificationService struct {
	dispatcher events.Dispatcher
	notifier   notifier.Notifier
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, n notifier.Notifier, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		notifier:   n,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handle)
	n.dispatcher.Subscribe(events.EventTicketWaitlisted, n.handle)
	n.dispatcher.Subscribe(events.EventTicketCompleted, n.handle)
}

func (n *NotificationService) handle(ctx context.Context, event events.Event) error {
	n.logger.Info("dispatching notification",
		zap.String("event_type", string(event.Type)),
		zap.String("ticket_id", event.TicketID))
	n.notifier.Notify(ctx, event)
	return nil
}
