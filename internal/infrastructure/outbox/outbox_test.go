package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domevent "github.com/Zhima-Mochi/minishop-checkout/internal/domain/event"
)

type testEvent struct{ name string }

func (e testEvent) EventName() string { return e.name }

func TestBusDeliversToSubscriber(t *testing.T) {
	bus := NewBus(nil)
	got := make(chan domevent.Event, 1)
	bus.Subscribe("checkout.completed", func(_ context.Context, e domevent.Event) error {
		got <- e
		return nil
	})

	ctx := context.Background()
	bus.Start(ctx)
	require.NoError(t, bus.Publish(ctx, testEvent{name: "checkout.completed"}))

	select {
	case e := <-got:
		assert.Equal(t, "checkout.completed", e.EventName())
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
	bus.Stop(ctx)
}

func TestBusStopDrainsQueue(t *testing.T) {
	bus := NewBus(nil)
	delivered := make(chan struct{}, 3)
	bus.Subscribe("ping", func(context.Context, domevent.Event) error {
		delivered <- struct{}{}
		return nil
	})

	ctx := context.Background()
	for range 3 {
		require.NoError(t, bus.Publish(ctx, testEvent{name: "ping"}))
	}
	bus.Start(ctx)
	bus.Stop(ctx)

	assert.Len(t, delivered, 3)
}

func TestBusSurvivesHandlerPanicAndError(t *testing.T) {
	bus := NewBus(nil)
	done := make(chan struct{}, 1)
	bus.Subscribe("boom", func(context.Context, domevent.Event) error {
		panic("handler exploded")
	})
	bus.Subscribe("boom", func(context.Context, domevent.Event) error {
		return errors.New("handler failed")
	})
	bus.Subscribe("boom", func(context.Context, domevent.Event) error {
		done <- struct{}{}
		return nil
	})

	ctx := context.Background()
	bus.Start(ctx)
	require.NoError(t, bus.Publish(ctx, testEvent{name: "boom"}))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("later handler not reached after panic")
	}
	bus.Stop(ctx)
}

func TestBusPublishNilEvent(t *testing.T) {
	bus := NewBus(nil)
	assert.NoError(t, bus.Publish(context.Background(), nil))
}
