package engine

import (
	"context"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-palette/internal/errors"
	"github.com/KirkDiggler/rpg-palette/internal/orchestrators/dispatch"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/clock"
)

// subscriberPriority is the priority of the tally handlers
const subscriberPriority = 100

// Config holds the dependencies for the engine
type Config struct {
	EventBus events.EventBus
	Clock    clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	return vb.Build()
}

type engine struct {
	bus   events.EventBus
	clock clock.Clock

	mu    sync.RWMutex
	stats map[string]*Stats

	subscriptions []string
}

// New subscribes to the dispatch events on the bus
func New(cfg *Config) (Engine, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	e := &engine{
		bus:   cfg.EventBus,
		clock: cfg.Clock,
		stats: make(map[string]*Stats),
	}
	for _, eventType := range []string{dispatch.EventDispatchSucceeded, dispatch.EventDispatchExhausted} {
		id := e.bus.SubscribeFunc(eventType, subscriberPriority, e.handle)
		e.subscriptions = append(e.subscriptions, id)
	}
	return e, nil
}

func (e *engine) handle(_ context.Context, event events.Event) error {
	source := event.Source()
	if source == nil {
		return nil
	}
	actorID := source.GetID()

	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.stats[actorID]
	if !ok {
		s = &Stats{ActorID: actorID}
		e.stats[actorID] = s
	}
	switch event.Type() {
	case dispatch.EventDispatchSucceeded:
		s.Succeeded++
	case dispatch.EventDispatchExhausted:
		s.Exhausted++
	default:
		return nil
	}
	s.LastEvent = event.Type()
	s.LastTarget = ""
	if target := event.Target(); target != nil {
		s.LastTarget = target.GetID()
	}
	s.LastAt = e.clock.Now()

	slog.Debug("dispatch event tallied",
		"actor_id", actorID,
		"event", s.LastEvent,
		"succeeded", s.Succeeded,
		"exhausted", s.Exhausted)
	return nil
}

// Stats returns a copy of the actor's tallies
func (e *engine) Stats(actorID string) Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if s, ok := e.stats[actorID]; ok {
		return *s
	}
	return Stats{ActorID: actorID}
}

// Close unsubscribes every handler; the first failure is returned
func (e *engine) Close() error {
	var first error
	for _, id := range e.subscriptions {
		if err := e.bus.Unsubscribe(id); err != nil && first == nil {
			first = errors.Wrapf(err, "failed to unsubscribe %s", id)
		}
	}
	e.subscriptions = nil
	return first
}
