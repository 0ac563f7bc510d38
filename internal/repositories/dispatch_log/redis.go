package dispatchlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-palette/internal/errors"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/rpg-palette/internal/redis"
)

const (
	// Key pattern: dispatch_log:{actor_id}:{kind}
	journalKeyPrefix = "dispatch_log:"
	defaultTTL       = 24 * time.Hour

	// maxAttempts caps how many clicks one journal keeps
	maxAttempts = 100

	errJournalNil     = "journal cannot be nil"
	errActorIDEmpty   = "actor ID cannot be empty"
	errKindEmpty      = "kind cannot be empty"
	errJournalExpired = "journal has already expired"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// NewRedisRepository creates a new Redis repository for dispatch journals
func NewRedisRepository(cfg *Config) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
	}, nil
}

var _ Repository = (*redisRepository)(nil)

// Create stores a new journal with the specified TTL
func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.ActorID == "" {
		return nil, errors.InvalidArgument(errActorIDEmpty)
	}
	if input.Kind == "" {
		return nil, errors.InvalidArgument(errKindEmpty)
	}

	now := r.clock.Now()
	ttl := input.TTL
	if ttl == 0 {
		ttl = defaultTTL
	}

	journal := &Journal{
		ActorID:   input.ActorID,
		Kind:      input.Kind,
		Attempts:  capAttempts(input.Attempts),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	raw, err := json.Marshal(journal)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal journal")
	}

	key := r.buildKey(input.ActorID, input.Kind)
	if err := r.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to store journal in Redis")
	}

	return &CreateOutput{Journal: journal}, nil
}

// Get retrieves a journal by actor and kind
func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ActorID == "" {
		return nil, errors.InvalidArgument(errActorIDEmpty)
	}
	if input.Kind == "" {
		return nil, errors.InvalidArgument(errKindEmpty)
	}

	key := r.buildKey(input.ActorID, input.Kind)

	raw, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFound("dispatch journal not found").
				WithMeta("actor_id", input.ActorID).
				WithMeta("kind", input.Kind)
		}
		return nil, errors.Wrapf(err, "failed to get journal from Redis")
	}

	var journal Journal
	if err := json.Unmarshal([]byte(raw), &journal); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal journal")
	}

	if r.clock.Now().After(journal.ExpiresAt) {
		_ = r.client.Del(ctx, key)
		return nil, errors.NotFound("dispatch journal has expired")
	}

	return &GetOutput{Journal: &journal}, nil
}

// Delete removes a journal
func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ActorID == "" {
		return nil, errors.InvalidArgument(errActorIDEmpty)
	}
	if input.Kind == "" {
		return nil, errors.InvalidArgument(errKindEmpty)
	}

	key := r.buildKey(input.ActorID, input.Kind)

	var deleted int32
	if out, err := r.Get(ctx, GetInput(input)); err == nil && out.Journal != nil {
		// nolint:gosec // capped at maxAttempts
		deleted = int32(len(out.Journal.Attempts))
	}

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to delete journal from Redis")
	}

	return &DeleteOutput{AttemptsDeleted: deleted}, nil
}

// Update replaces an existing journal, keeping its remaining TTL
func (r *redisRepository) Update(ctx context.Context, journal *Journal) error {
	if journal == nil {
		return errors.InvalidArgument(errJournalNil)
	}
	if journal.ActorID == "" {
		return errors.InvalidArgument(errActorIDEmpty)
	}
	if journal.Kind == "" {
		return errors.InvalidArgument(errKindEmpty)
	}

	now := r.clock.Now()
	if now.After(journal.ExpiresAt) {
		return errors.InvalidArgument(errJournalExpired)
	}
	remaining := journal.ExpiresAt.Sub(now)

	journal.Attempts = capAttempts(journal.Attempts)
	raw, err := json.Marshal(journal)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal journal")
	}

	key := r.buildKey(journal.ActorID, journal.Kind)
	if err := r.client.Set(ctx, key, raw, remaining).Err(); err != nil {
		return errors.Wrapf(err, "failed to update journal in Redis")
	}

	return nil
}

// capAttempts keeps the newest attempts
func capAttempts(attempts []Attempt) []Attempt {
	if len(attempts) <= maxAttempts {
		return attempts
	}
	return attempts[len(attempts)-maxAttempts:]
}

func (r *redisRepository) buildKey(actorID, kind string) string {
	return fmt.Sprintf("%s%s:%s", journalKeyPrefix, actorID, kind)
}
