// Package notify implements the single-slot notification center. At
// most one notification is live at a time: posting overwrites the slot
// and restarts its expiry, and an expiry clears the slot only when no
// newer post has superseded it.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Category classifies a notification.
type Category int

const (
	// None is the cleared state; the zero Notification carries it.
	None Category = iota
	Success
	Error
	Info
)

// String returns the lowercase category name.
func (c Category) String() string {
	switch c {
	case Success:
		return "success"
	case Error:
		return "error"
	case Info:
		return "info"
	default:
		return "none"
	}
}

// Display durations by category. An errored operation stays visible
// slightly longer than a successful one.
const (
	SuccessTTL = 3 * time.Second
	ErrorTTL   = 4 * time.Second
	InfoTTL    = 5 * time.Second
)

// Notification is the value held by the slot. The zero value is the
// cleared state.
type Notification struct {
	Text     string
	Category Category
}

// IsZero reports whether n is the cleared state.
func (n Notification) IsZero() bool {
	return n.Text == "" && n.Category == None
}

// Subscriber receives every slot transition, including clears.
type Subscriber struct {
	ID     string
	Events chan Notification
}

// Center is the single-slot notification state shared by the whole
// process. The slot, its generation counter, and the pending expiry
// handle share one mutex so that cancel-then-overwrite is atomic with
// respect to concurrent posts.
type Center struct {
	mu      sync.RWMutex
	current Notification
	gen     uint64
	cancel  context.CancelFunc
	ttl     map[Category]time.Duration
	subs    map[string]*Subscriber
	closed  bool
}

// Option is a functional option for configuring a Center.
type Option func(*Center)

// WithTTL overrides the display duration for one category.
func WithTTL(cat Category, d time.Duration) Option {
	return func(c *Center) {
		c.ttl[cat] = d
	}
}

// New creates a Center with the default display durations.
func New(opts ...Option) *Center {
	c := &Center{
		ttl: map[Category]time.Duration{
			Success: SuccessTTL,
			Error:   ErrorTTL,
			Info:    InfoTTL,
		},
		subs: make(map[string]*Subscriber),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Post overwrites the slot with a new notification. Any pending expiry
// is cancelled before the new one starts, so two concurrent posts can
// never both believe they own the live expiry.
func (c *Center) Post(text string, cat Category) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.cancelExpiryLocked()

	c.gen++
	c.current = Notification{Text: text, Category: cat}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go c.expire(ctx, c.gen, c.ttlFor(cat))

	c.broadcastLocked(c.current)
}

// Current returns the slot value; the zero Notification means idle.
func (c *Center) Current() Notification {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Clear empties the slot immediately and cancels the pending expiry.
func (c *Center) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.current.IsZero() {
		return
	}

	c.cancelExpiryLocked()
	c.gen++
	c.current = Notification{}
	c.broadcastLocked(c.current)
}

// Subscribe registers a listener for slot transitions. Returns nil if
// the center is closed.
func (c *Center) Subscribe() *Subscriber {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	sub := &Subscriber{
		ID:     uuid.New().String(),
		Events: make(chan Notification, 16),
	}
	c.subs[sub.ID] = sub
	return sub
}

// Unsubscribe removes a subscription and closes its channel.
func (c *Center) Unsubscribe(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sub, ok := c.subs[id]; ok {
		close(sub.Events)
		delete(c.subs, id)
	}
}

// SubscriberCount returns the number of active subscribers.
func (c *Center) SubscriberCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.subs)
}

// Close cancels any pending expiry and closes all subscriptions.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	c.cancelExpiryLocked()
	for _, sub := range c.subs {
		close(sub.Events)
	}
	c.subs = make(map[string]*Subscriber)
}

// expire clears the slot after d unless superseded first. The
// generation check closes the race where the timer fires while a
// superseding Post holds the lock.
func (c *Center) expire(ctx context.Context, gen uint64, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.gen != gen {
		return
	}
	c.cancel = nil
	c.current = Notification{}
	c.broadcastLocked(c.current)
}

func (c *Center) cancelExpiryLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Center) ttlFor(cat Category) time.Duration {
	if d, ok := c.ttl[cat]; ok {
		return d
	}
	return InfoTTL
}

func (c *Center) broadcastLocked(n Notification) {
	for _, sub := range c.subs {
		select {
		case sub.Events <- n:
		default:
			// Channel full, event dropped
		}
	}
}
