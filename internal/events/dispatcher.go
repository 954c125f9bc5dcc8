package events

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// EventHandler handles a published session event.
type EventHandler func(context.Context, Event) error

// Dispatcher fans session events out to in-process handlers.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	// Subscribe registers handler for eventType and returns a func that
	// removes it again.
	Subscribe(eventType EventType, handler EventHandler) (unsubscribe func())
}

type registration struct {
	id      uint64
	handler EventHandler
}

// inMemoryDispatcher delivers synchronously on the publisher's goroutine,
// so a logout's events are handled before the logout returns.
type inMemoryDispatcher struct {
	mu        sync.RWMutex
	nextID    uint64
	listeners map[EventType][]registration
	logger    *zap.Logger
}

// NewInMemoryDispatcher creates a dispatcher instance.
func NewInMemoryDispatcher(logger *zap.Logger) Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &inMemoryDispatcher{
		listeners: make(map[EventType][]registration),
		logger:    logger,
	}
}

// Publish invokes the handlers registered for event.Type in subscription
// order. A failing or panicking handler is logged and never stops the
// others, nor the session transition that published the event.
func (d *inMemoryDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	regs := append([]registration(nil), d.listeners[event.Type]...)
	d.mu.RUnlock()

	for _, reg := range regs {
		if err := d.deliver(ctx, reg.handler, event); err != nil {
			d.logger.Warn("session event handler failed",
				zap.String("event_type", string(event.Type)),
				zap.String("event_id", event.ID),
				zap.Int("actor_id", event.Actor.UserID),
				zap.Error(err))
		}
	}
	return nil
}

func (d *inMemoryDispatcher) deliver(ctx context.Context, handler EventHandler, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return handler(ctx, event)
}

func (d *inMemoryDispatcher) Subscribe(eventType EventType, handler EventHandler) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.listeners[eventType] = append(d.listeners[eventType], registration{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() { d.remove(eventType, id) })
	}
}

func (d *inMemoryDispatcher) remove(eventType EventType, id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	regs := d.listeners[eventType]
	for i, reg := range regs {
		if reg.id == id {
			d.listeners[eventType] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}
