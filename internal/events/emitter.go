package events

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

// HandlerFunc adapts a function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent calls f(ctx, event).
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

type subscription struct {
	handler EventHandler
	types   []string
}

func (s subscription) wants(eventType string) bool {
	return len(s.types) == 0 || slices.Contains(s.types, eventType)
}

// InMemoryEventEmitter dispatches events synchronously to the handlers
// registered on it.
type InMemoryEventEmitter struct {
	subs   []subscription
	mu     sync.RWMutex
	logger *slog.Logger
}

// Ensure InMemoryEventEmitter implements EventEmitter
var _ EventEmitter = (*InMemoryEventEmitter)(nil)

// NewInMemoryEventEmitter creates a new instance of InMemoryEventEmitter.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventEmitter{
		logger: logger.With("component", "event_emitter"),
	}
}

// RegisterHandler subscribes handler to the given event types, or to every
// event when no type is given.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler, types ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = append(e.subs, subscription{handler: handler, types: types})
	e.logger.Debug("registered event handler",
		"handler_count", len(e.subs),
		"types", types)
}

// EmitEvent publishes the event to every subscribed handler.
// A failing handler does not stop delivery to the others; the first
// error encountered is returned.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *Event) error {
	e.mu.RLock()
	subs := slices.Clone(e.subs)
	e.mu.RUnlock()

	var firstErr error
	delivered := 0
	for i, sub := range subs {
		if !sub.wants(event.Type) {
			continue
		}
		delivered++
		if err := sub.handler.HandleEvent(ctx, event); err != nil {
			e.logger.Error("handler failed to process event",
				"error", err,
				"handler_index", i,
				"event_id", event.ID,
				"event_type", event.Type)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	e.logger.Debug("event emitted",
		"event_id", event.ID,
		"event_type", event.Type,
		"delivered", delivered)
	return firstErr
}
