package events

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
)

type subscription struct {
	handler EventHandler
	types   []Type
}

func (s subscription) wants(t Type) bool {
	return len(s.types) == 0 || slices.Contains(s.types, t)
}

// InMemoryEventEmitter dispatches account events synchronously to handlers
// registered in process, in registration order.
type InMemoryEventEmitter struct {
	mu     sync.RWMutex
	subs   []subscription
	logger *slog.Logger
}

// NewInMemoryEventEmitter creates an emitter with no handlers.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventEmitter{
		logger: logger.With("component", "account_events"),
	}
}

// RegisterHandler subscribes handler to the given event types, or to every
// type when none are given.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler, types ...Type) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = append(e.subs, subscription{handler: handler, types: types})
	e.logger.Debug("registered event handler",
		"handler_count", len(e.subs),
		"types", types)
}

// EmitEvent delivers event to every subscribed handler. A failing handler
// does not stop delivery; all handler errors are joined.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *AccountEvent) error {
	e.mu.RLock()
	subs := slices.Clone(e.subs)
	e.mu.RUnlock()

	var errs []error
	delivered := 0
	for i, sub := range subs {
		if !sub.wants(event.Type) {
			continue
		}
		delivered++
		if err := sub.handler.HandleEvent(ctx, event); err != nil {
			e.logger.Error("event handler failed",
				"error", err,
				"handler_index", i,
				"event_id", event.ID,
				"event_type", event.Type)
			errs = append(errs, err)
		}
	}

	e.logger.Debug("event emitted",
		"event_id", event.ID,
		"event_type", event.Type,
		"delivered", delivered)
	return errors.Join(errs...)
}
