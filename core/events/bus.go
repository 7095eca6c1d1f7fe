package events

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrSubscribed is returned when a tag already has a subscriber.
	ErrSubscribed = errors.New("tag already has a subscriber")
	// ErrNoSubscriber is returned when publishing to a tag nobody listens on.
	ErrNoSubscriber = errors.New("tag has no subscriber")
)

// Handler reacts to an incremental load.
type Handler func(ctx context.Context) error

// Bus routes published tags to their subscriber.
type Bus struct {
	mu       sync.Mutex
	handlers map[string]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[string]Handler)}
}

// Subscribe registers fn for tag.
func (b *Bus) Subscribe(tag string, fn Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.handlers[tag]; ok {
		return ErrSubscribed
	}
	b.handlers[tag] = fn
	return nil
}

// Unsubscribe removes the subscriber of tag. It reports whether one existed.
func (b *Bus) Unsubscribe(tag string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, ok := b.handlers[tag]
	delete(b.handlers, tag)
	return ok
}

// Subscribed reports whether tag has a subscriber.
func (b *Bus) Subscribed(tag string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, ok := b.handlers[tag]
	return ok
}

// Publish runs the subscriber of tag. The lock is not held while the handler
// runs.
func (b *Bus) Publish(ctx context.Context, tag string) error {
	b.mu.Lock()
	fn, ok := b.handlers[tag]
	b.mu.Unlock()

	if !ok {
		return ErrNoSubscriber
	}
	return fn(ctx)
}
