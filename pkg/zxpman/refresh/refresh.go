// Package refresh provides the shared refresh token the UI observes to
// know when the installed-plugin list is stale. Only change carries
// meaning; the value itself is opaque.
package refresh

import (
	"sync"

	"github.com/google/uuid"
)

// Subscriber receives the new token value after each bump.
type Subscriber struct {
	ID     string
	Events chan uint64
}

// Token is a monotonically increasing counter with change fan-out.
type Token struct {
	mu     sync.RWMutex
	value  uint64
	subs   map[string]*Subscriber
	closed bool
}

// New creates a Token starting at zero.
func New() *Token {
	return &Token{
		subs: make(map[string]*Subscriber),
	}
}

// Bump increments the token and notifies subscribers. Slow subscribers
// miss intermediate values but always observe that a change happened.
func (t *Token) Bump() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}

	t.value++
	for _, sub := range t.subs {
		select {
		case sub.Events <- t.value:
		default:
			// Channel full, value dropped
		}
	}
}

// Value returns the current token value.
func (t *Token) Value() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.value
}

// Subscribe registers a listener for bumps. Returns nil if the token
// is closed.
func (t *Token) Subscribe() *Subscriber {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}

	sub := &Subscriber{
		ID:     uuid.New().String(),
		Events: make(chan uint64, 16),
	}
	t.subs[sub.ID] = sub
	return sub
}

// Unsubscribe removes a subscription and closes its channel.
func (t *Token) Unsubscribe(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if sub, ok := t.subs[id]; ok {
		close(sub.Events)
		delete(t.subs, id)
	}
}

// Close closes all subscriptions. Further bumps are ignored.
func (t *Token) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}

	t.closed = true
	for _, sub := range t.subs {
		close(sub.Events)
	}
	t.subs = make(map[string]*Subscriber)
}
