// Package bus provides an in-process publish/subscribe service.
//
// The bus is constructed once by the composition root and injected into the
// components that need it; there are no package-level instances. It carries
// local coordination events only (role changes, connectivity changes) and is
// not a substitute for the websocket message path between devices.
package bus

import (
	"sync"

	"github.com/slatepos/slate/internal/shared/goroutine"
	"github.com/slatepos/slate/internal/shared/logger"
)

// Topic identifies an event stream on the bus.
type Topic string

const (
	TopicRoleChanged         Topic = "device.role_changed"
	TopicConnectivityChanged Topic = "connectivity.changed"
)

// RoleChangedEvent is published when the device role is reassigned.
type RoleChangedEvent struct {
	DeviceID string
	OldRole  string
	NewRole  string
}

// ConnectivityChangedEvent is published when the backend probe result flips.
type ConnectivityChangedEvent struct {
	Online bool
}

// Handler receives events published on a subscribed topic.
type Handler func(event any)

// Publisher publishes events to a topic.
type Publisher interface {
	Publish(topic Topic, event any)
}

// Subscriber registers handlers for a topic.
type Subscriber interface {
	Subscribe(topic Topic, handler Handler) (unsubscribe func())
}

// Bus combines the publisher and subscriber interfaces.
type Bus interface {
	Publisher
	Subscriber
}

// InProcessBus is an in-memory Bus implementation. Handlers are invoked on
// their own goroutines so a slow subscriber cannot stall the publisher.
type InProcessBus struct {
	mu       sync.RWMutex
	handlers map[Topic]map[int]Handler
	nextID   int
	logger   logger.Interface
}

// NewInProcessBus creates a new in-memory bus.
func NewInProcessBus(log logger.Interface) *InProcessBus {
	return &InProcessBus{
		handlers: make(map[Topic]map[int]Handler),
		logger:   log,
	}
}

// Subscribe registers a handler for a topic and returns an unsubscribe func.
// Unsubscribing twice is a no-op.
func (b *InProcessBus) Subscribe(topic Topic, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers[topic] == nil {
		b.handlers[topic] = make(map[int]Handler)
	}
	id := b.nextID
	b.nextID++
	b.handlers[topic][id] = handler

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers[topic], id)
	}
}

// Publish delivers the event to every handler subscribed to the topic.
func (b *InProcessBus) Publish(topic Topic, event any) {
	b.mu.RLock()
	subs := make([]Handler, 0, len(b.handlers[topic]))
	for _, h := range b.handlers[topic] {
		subs = append(subs, h)
	}
	b.mu.RUnlock()

	for _, h := range subs {
		handler := h
		goroutine.SafeGo(b.logger, string(topic), func() {
			handler(event)
		})
	}
}
