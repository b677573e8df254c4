package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToMatchingSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var assigned, waitlisted []Event
	d.Subscribe(EventTicketAssigned, func(_ context.Context, e Event) error {
		assigned = append(assigned, e)
		return nil
	})
	d.Subscribe(EventTicketWaitlisted, func(_ context.Context, e Event) error {
		waitlisted = append(waitlisted, e)
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTicketAssigned, TicketID: "ticket-1"})
	require.NoError(t, err)

	require.Len(t, assigned, 1)
	assert.Equal(t, "ticket-1", assigned[0].TicketID)
	assert.Empty(t, waitlisted)
}

func TestDispatcherHandlerErrorDoesNotStopDelivery(t *testing.T) {
	d := NewInMemoryDispatcher()

	second := false
	d.Subscribe(EventTicketCompleted, func(context.Context, Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventTicketCompleted, func(context.Context, Event) error {
		second = true
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketCompleted}))
	assert.True(t, second)
}

func TestDispatcherNoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketAssigned}))
}
