package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokerDeliversToSubscribers(t *testing.T) {
	b := NewBroker()

	var got []Event
	unsubscribe := b.Subscribe(func(ev Event) { got = append(got, ev) })
	defer unsubscribe()

	b.Publish(Event{Kind: SignedIn, UserID: "u1"})
	b.Publish(Event{Kind: SignedOut, UserID: "u1"})

	require.Len(t, got, 2)
	assert.Equal(t, SignedIn, got[0].Kind)
	assert.Equal(t, SignedOut, got[1].Kind)
	assert.False(t, got[0].At.IsZero(), "publish should stamp the event time")
}

func TestBrokerUnsubscribeStopsDelivery(t *testing.T) {
	b := NewBroker()

	calls := 0
	unsubscribe := b.Subscribe(func(Event) { calls++ })
	require.Equal(t, 1, b.Len())

	b.Publish(Event{Kind: TokenRefreshed})
	unsubscribe()
	unsubscribe()
	b.Publish(Event{Kind: TokenRefreshed})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, b.Len())
}

func TestBrokerListenerMayUnsubscribeDuringPublish(t *testing.T) {
	b := NewBroker()

	var unsubscribe func()
	calls := 0
	unsubscribe = b.Subscribe(func(Event) {
		calls++
		unsubscribe()
	})

	b.Publish(Event{Kind: SignedIn})
	b.Publish(Event{Kind: SignedIn})

	assert.Equal(t, 1, calls)
}
