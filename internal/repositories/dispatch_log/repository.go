// Package dispatchlog stores the outcome of palette clicks per actor and
// action kind
package dispatchlog

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=dispatchlogmock github.com/KirkDiggler/rpg-palette/internal/repositories/dispatch_log Repository

// Journal groups the attempts made for one actor and action kind
type Journal struct {
	// Actor the clicks acted on
	ActorID string

	// Action kind, e.g. "skill", "ring" or "armor"
	Kind string

	// Attempts in click order
	Attempts []Attempt

	CreatedAt time.Time
	ExpiresAt time.Time
}

// Attempt records the terminal state of one click
type Attempt struct {
	AttemptID string

	// ActionID is the id half of the encoded action value
	ActionID string

	// Receiver and Method name the winning candidate; empty when exhausted
	Receiver string
	Method   string

	// Probes counts every invocation made for the click
	Probes int

	Succeeded bool

	At time.Time
}

// CreateInput contains parameters for creating a journal
type CreateInput struct {
	ActorID  string
	Kind     string
	Attempts []Attempt
	TTL      time.Duration
}

// CreateOutput contains the created journal
type CreateOutput struct {
	Journal *Journal
}

// GetInput identifies a journal
type GetInput struct {
	ActorID string
	Kind    string
}

// GetOutput contains the retrieved journal
type GetOutput struct {
	Journal *Journal
}

// DeleteInput identifies a journal to remove
type DeleteInput struct {
	ActorID string
	Kind    string
}

// DeleteOutput reports how many attempts were dropped
type DeleteOutput struct {
	AttemptsDeleted int32
}

// Repository defines storage for dispatch journals
type Repository interface {
	// Create stores a new journal with the specified TTL
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a journal by actor and kind
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Delete removes a journal
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// Update replaces an existing journal, keeping its expiry
	Update(ctx context.Context, journal *Journal) error
}
