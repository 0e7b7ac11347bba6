// Package events carries navigation intents between the sign-in flow and
// whatever shell is rendering views.
package events

import (
	"slices"
	"sync"

	"github.com/felixgeelhaar/backoffice/internal/authz"
	"github.com/felixgeelhaar/backoffice/internal/log"
)

// Navigation asks the shell to render View.
type Navigation struct {
	View authz.View
	// Reason names what triggered the navigation, e.g. "signed-in".
	Reason string
}

// Handler receives published navigations.
type Handler func(Navigation)

// Bus is a synchronous publish/subscribe channel for Navigation values.
// Publishing is fire-and-forget: it never fails and a panicking handler does
// not stop delivery to the others.
type Bus struct {
	mu       sync.RWMutex
	handlers map[uint64]Handler
	nextID   uint64
	logger   *log.Logger
}

// NewBus creates a bus with no subscribers.
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[uint64]Handler),
		logger:   log.Discard(),
	}
}

// SetLogger sets where recovered handler panics are reported.
func (b *Bus) SetLogger(logger *log.Logger) {
	if logger == nil {
		return
	}
	b.mu.Lock()
	b.logger = logger.With("component", "events")
	b.mu.Unlock()
}

// Subscribe registers fn and returns a function that removes it. Calling the
// returned function more than once is harmless.
func (b *Bus) Subscribe(fn Handler) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.handlers, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers n to every subscriber in subscription order, on the
// caller's goroutine. Handlers may subscribe or unsubscribe while being
// called; such changes apply from the next Publish.
func (b *Bus) Publish(n Navigation) {
	b.mu.RLock()
	ids := make([]uint64, 0, len(b.handlers))
	for id := range b.handlers {
		ids = append(ids, id)
	}
	handlers := make([]Handler, 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		handlers = append(handlers, b.handlers[id])
	}
	logger := b.logger
	b.mu.RUnlock()

	for _, h := range handlers {
		deliver(logger, h, n)
	}
}

// Len returns the number of subscribers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}

func deliver(logger *log.Logger, h Handler, n Navigation) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("navigation handler panicked", "view", string(n.View), "panic", r)
		}
	}()
	h(n)
}
