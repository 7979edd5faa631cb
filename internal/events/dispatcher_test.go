package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_DeliversToSubscribersOfType(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []EventType
	d.Subscribe(EventSessionCleared, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), NewEvent(EventSessionEstablished, SourceLogin, nil)))
	require.NoError(t, d.Publish(context.Background(), NewEvent(EventSessionCleared, SourceLogout, nil)))

	assert.Equal(t, []EventType{EventSessionCleared}, got)
}

func TestDispatcher_RunsAllHandlersAndJoinsErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")

	calls := 0
	d.Subscribe(EventCredentialDiscarded, func(context.Context, Event) error {
		calls++
		return boom
	})
	d.Subscribe(EventCredentialDiscarded, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), NewEvent(EventCredentialDiscarded, SourceHydrate, CredentialDiscardedPayload{Reason: "x"}))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestNewEvent_StampsIDAndTime(t *testing.T) {
	a := NewEvent(EventSessionEstablished, SourceLogin, nil)
	b := NewEvent(EventSessionEstablished, SourceLogin, nil)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.Timestamp.IsZero())
}

func TestDispatcher_PanickingHandlerDoesNotStopOthers(t *testing.T) {
	d := NewInMemoryDispatcher()

	delivered := false
	d.Subscribe(EventSessionCleared, func(context.Context, Event) error {
		panic("listener bug")
	})
	d.Subscribe(EventSessionCleared, func(context.Context, Event) error {
		delivered = true
		return nil
	})

	err := d.Publish(context.Background(), NewEvent(EventSessionCleared, SourceLogout, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listener bug")
	assert.True(t, delivered)
}

func TestDispatcher_Unsubscribe(t *testing.T) {
	d := NewInMemoryDispatcher()

	calls := 0
	unsubscribe := d.Subscribe(EventSessionEstablished, func(context.Context, Event) error {
		calls++
		return nil
	})
	other := 0
	d.Subscribe(EventSessionEstablished, func(context.Context, Event) error {
		other++
		return nil
	})

	ctx := context.Background()
	require.NoError(t, d.Publish(ctx, NewEvent(EventSessionEstablished, SourceLogin, nil)))
	unsubscribe()
	unsubscribe()
	require.NoError(t, d.Publish(ctx, NewEvent(EventSessionEstablished, SourceLogin, nil)))

	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, other)
}
