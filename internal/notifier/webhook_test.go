package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/facilityops/resolution-service/internal/config"
	"github.com/facilityops/resolution-service/internal/events"
)

func TestWebhookNotifierPostsEvent(t *testing.T) {
	var received events.Event
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := NewWebhookNotifier(config.NotifierConfig{WebhookURL: server.URL, TimeoutSeconds: 2}, zap.NewNop())
	n.Notify(context.Background(), events.Event{
		ID:       "evt-1",
		Type:     events.EventTicketAssigned,
		TicketID: "ticket-1",
	})

	assert.Equal(t, "evt-1", received.ID)
	assert.Equal(t, events.EventTicketAssigned, received.Type)
	assert.Equal(t, "ticket-1", received.TicketID)
}

func TestWebhookNotifierEmptyURLDrops(t *testing.T) {
	n := NewWebhookNotifier(config.NotifierConfig{}, zap.NewNop())
	// Must not panic or block.
	n.Notify(context.Background(), events.Event{Type: events.EventTicketCompleted})
}

func TestWebhookNotifierSwallowsServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	n := NewWebhookNotifier(config.NotifierConfig{WebhookURL: server.URL, TimeoutSeconds: 2}, zap.NewNop())
	n.Notify(context.Background(), events.Event{Type: events.EventTicketWaitlisted})
}
