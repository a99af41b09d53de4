package eventbus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifedash/lifedash/internal/shared/domain"
)

func TestInProcessBusDispatchesByPrefix(t *testing.T) {
	bus := NewInProcessBus(nil)

	var calendarSeen, allSeen int
	bus.Subscribe("calendar.", func(ctx context.Context, e *Envelope) error {
		calendarSeen++
		return nil
	})
	bus.Subscribe("", func(ctx context.Context, e *Envelope) error {
		allSeen++
		return nil
	})

	evt := domain.NewBaseEvent("evt-1", "calendar_event", "calendar.event.created")
	require.NoError(t, PublishDomainEvent(context.Background(), bus, evt))

	habitEvt := domain.NewBaseEvent("habit-1", "habit", "habits.habit.logged")
	require.NoError(t, PublishDomainEvent(context.Background(), bus, habitEvt))

	assert.Equal(t, 1, calendarSeen)
	assert.Equal(t, 2, allSeen)
}

func TestInProcessBusSwallowsHandlerErrors(t *testing.T) {
	bus := NewInProcessBus(nil)
	bus.Subscribe("", func(ctx context.Context, e *Envelope) error {
		return errors.New("handler failed")
	})

	evt := domain.NewBaseEvent("evt-2", "calendar_event", "calendar.event.deleted")
	assert.NoError(t, PublishDomainEvent(context.Background(), bus, evt))
}

func TestInProcessBusIgnoresMalformedPayload(t *testing.T) {
	bus := NewInProcessBus(nil)
	assert.NoError(t, bus.Publish(context.Background(), "calendar.event.created", []byte("{not json")))
}

func TestEnvelopeCarriesEventIdentity(t *testing.T) {
	bus := NewInProcessBus(nil)

	var got *Envelope
	bus.Subscribe("calendar.", func(ctx context.Context, e *Envelope) error {
		got = e
		return nil
	})

	evt := domain.NewBaseEvent("google_abc", "calendar_event", "calendar.synced")
	require.NoError(t, PublishDomainEvent(context.Background(), bus, evt))

	require.NotNil(t, got)
	assert.Equal(t, evt.EventID(), got.EventID)
	assert.Equal(t, "google_abc", got.AggregateID)
	assert.Equal(t, "calendar.synced", got.RoutingKey)
}
