// Package notifier delivers lifecycle events to the external notification
// collaborator. Delivery is strictly fire-and-forget: failures are logged
// and swallowed, never surfaced to the transition that produced the event.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/facilityops/resolution-service/internal/config"
	"github.com/facilityops/resolution-service/internal/events"
)

// Notifier sends one event to the external collaborator.
type Notifier interface {
	Notify(ctx context.Context, event events.Event)
}

// WebhookNotifier posts events as JSON to a configured endpoint.
type WebhookNotifier struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewWebhookNotifier builds the notifier. An empty URL produces a notifier
// that drops everything, which keeps local development quiet.
func NewWebhookNotifier(cfg config.NotifierConfig, logger *zap.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		url:    cfg.WebhookURL,
		client: &http.Client{Timeout: cfg.Timeout()},
		logger: logger,
	}
}

// Notify posts the event. Errors are logged and dropped.
func (n *WebhookNotifier) Notify(ctx context.Context, event events.Event) {
	if n.url == "" {
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		n.logger.Warn("notifier marshal failed", zap.Error(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		n.logger.Warn("notifier request build failed", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Warn("notifier delivery failed",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.Error(err))
		return
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 300 {
		n.logger.Warn("notifier rejected event",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.Int("status", resp.StatusCode))
	}
}
