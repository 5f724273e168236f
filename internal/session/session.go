// Package session delivers auth session changes to registered listeners.
// A Broker is owned by whoever wires the application together; there is no
// package-level instance.
package session

import (
	"sync"
	"time"
)

type Kind string

const (
	SignedIn       Kind = "signed_in"
	TokenRefreshed Kind = "token_refreshed"
	SignedOut      Kind = "signed_out"
)

// Event describes one session change. UserID is empty when the provider did
// not tell us who the session belonged to.
type Event struct {
	Kind      Kind
	UserID    string
	ExpiresAt time.Time
	At        time.Time
}

type Listener func(Event)

type Broker struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[int]Listener
}

func NewBroker() *Broker {
	return &Broker{listeners: make(map[int]Listener)}
}

// Subscribe registers l and returns the function that removes it. Calling
// the returned function more than once is harmless.
func (b *Broker) Subscribe(l Listener) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = l
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, id)
			b.mu.Unlock()
		})
	}
}

// Publish hands ev to every listener registered at the time of the call.
// Listeners run synchronously on the caller's goroutine.
func (b *Broker) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	b.mu.RLock()
	snapshot := make([]Listener, 0, len(b.listeners))
	for _, l := range b.listeners {
		snapshot = append(snapshot, l)
	}
	b.mu.RUnlock()

	for _, l := range snapshot {
		l(ev)
	}
}

// Len reports how many listeners are registered.
func (b *Broker) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}
