package events

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSubscribe(t *testing.T) {
	bus := NewEventBus()

	var got []*Event
	bus.Subscribe(EventBookingCreated, func(e *Event) error {
		got = append(got, e)
		return nil
	})
	bus.Subscribe(EventBookingCancelled, func(e *Event) error {
		t.Fatal("handler for another type must not fire")
		return nil
	})

	payload := BookingEventPayload{BookingID: 1, Reference: "BKAAAA0001", Status: "confirmed"}
	require.NoError(t, bus.PublishJSON(EventBookingCreated, payload))

	require.Len(t, got, 1)
	assert.False(t, got[0].CreatedAt.IsZero())

	var decoded BookingEventPayload
	require.NoError(t, json.Unmarshal(got[0].Payload, &decoded))
	assert.Equal(t, payload, decoded)
}

func TestPublishFansOut(t *testing.T) {
	bus := NewEventBus()

	calls := 0
	for i := 0; i < 3; i++ {
		bus.Subscribe(EventPaymentFallback, func(e *Event) error {
			calls++
			return nil
		})
	}
	// A failing handler does not stop the others.
	bus.Subscribe(EventPaymentFallback, func(e *Event) error {
		return errors.New("boom")
	})
	bus.Subscribe(EventPaymentFallback, func(e *Event) error {
		calls++
		return nil
	})

	require.NoError(t, bus.PublishJSON(EventPaymentFallback, map[string]float64{"amount": 10}))
	assert.Equal(t, 4, calls)
}

func TestPublishJSONNilBus(t *testing.T) {
	var bus *EventBus
	assert.NoError(t, bus.PublishJSON(EventBookingCreated, nil))
}

func TestPublishWithoutSubscribers(t *testing.T) {
	bus := NewEventBus()
	assert.NoError(t, bus.PublishJSON("unknown_type", map[string]int{"x": 1}))
}
