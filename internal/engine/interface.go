// Package engine follows the dispatch events on the rpg-toolkit event bus
// and keeps per actor tallies of how palette clicks resolved.
package engine

//go:generate mockgen -destination=mock/mock_engine.go -package=enginemock github.com/KirkDiggler/rpg-palette/internal/engine Engine

import (
	"time"
)

// Engine reports dispatch outcomes seen on the event bus
type Engine interface {
	// Stats returns the tallies for one actor; an unseen actor has zero
	// counts
	Stats(actorID string) Stats

	// Close unsubscribes from the event bus
	Close() error
}

// Stats tallies the dispatch events of one actor
type Stats struct {
	ActorID   string
	Succeeded int
	Exhausted int
	// LastEvent is the type of the most recent event, e.g.
	// "palette.dispatch.succeeded"
	LastEvent string
	// LastTarget is the item the last click acted on, if any
	LastTarget string
	LastAt     time.Time
}
