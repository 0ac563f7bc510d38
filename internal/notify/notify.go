// Package notify delivers user facing messages produced by dispatch: the
// warning shown when nothing could open a dice picker and the chat card
// posted when no item chat handler exists.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/KirkDiggler/rpg-palette/internal/errors"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/rpg-palette/internal/redis"
)

//go:generate mockgen -destination=mock/mock_notifier.go -package=notifymock github.com/KirkDiggler/rpg-palette/internal/notify Notifier

// Level distinguishes warnings from chat messages
type Level string

// Levels
const (
	LevelWarn Level = "warn"
	LevelChat Level = "chat"
)

// DefaultListKey is the Redis list notifications are pushed onto
const DefaultListKey = "palette:notifications"

// DefaultListLimit caps the Redis list length
const DefaultListLimit = 200

// Notification is one delivered message
type Notification struct {
	Level   Level     `json:"level"`
	ActorID string    `json:"actor_id,omitempty"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier delivers messages to the user
type Notifier interface {
	// Warn shows a warning toast
	Warn(ctx context.Context, actorID, message string) error
	// Chat posts a chat message on behalf of the actor
	Chat(ctx context.Context, actorID, content string) error
}

// Log writes notifications to slog
type Log struct {
	logger *slog.Logger
}

// NewLog creates a slog notifier. A nil logger uses slog.Default.
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger}
}

// Warn implements Notifier
func (l *Log) Warn(ctx context.Context, actorID, message string) error {
	l.logger.WarnContext(ctx, message, "actor_id", actorID, "level", LevelWarn)
	return nil
}

// Chat implements Notifier
func (l *Log) Chat(ctx context.Context, actorID, content string) error {
	l.logger.InfoContext(ctx, content, "actor_id", actorID, "level", LevelChat)
	return nil
}

// RedisConfig configures the Redis list notifier
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
	// Key defaults to DefaultListKey
	Key string
	// Limit defaults to DefaultListLimit
	Limit int64
}

// Validate ensures all required dependencies are provided
func (c *RedisConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Client == nil {
		vb.RequiredField("Client")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	return vb.Build()
}

// Redis pushes notifications onto a capped list, newest first
type Redis struct {
	client redisclient.Client
	clock  clock.Clock
	key    string
	limit  int64
}

// NewRedis creates a Redis list notifier
func NewRedis(cfg *RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid notifier config")
	}
	n := &Redis{
		client: cfg.Client,
		clock:  cfg.Clock,
		key:    cfg.Key,
		limit:  cfg.Limit,
	}
	if n.key == "" {
		n.key = DefaultListKey
	}
	if n.limit <= 0 {
		n.limit = DefaultListLimit
	}
	return n, nil
}

// Warn implements Notifier
func (r *Redis) Warn(ctx context.Context, actorID, message string) error {
	return r.push(ctx, LevelWarn, actorID, message)
}

// Chat implements Notifier
func (r *Redis) Chat(ctx context.Context, actorID, content string) error {
	return r.push(ctx, LevelChat, actorID, content)
}

func (r *Redis) push(ctx context.Context, level Level, actorID, message string) error {
	raw, err := json.Marshal(Notification{
		Level:   level,
		ActorID: actorID,
		Message: message,
		At:      r.clock.Now(),
	})
	if err != nil {
		return errors.Wrapf(err, "failed to marshal notification")
	}

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, r.key, raw)
	pipe.LTrim(ctx, r.key, 0, r.limit-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrapf(err, "failed to push notification")
	}
	return nil
}

// Recent returns up to n notifications, newest first
func (r *Redis) Recent(ctx context.Context, n int64) ([]Notification, error) {
	if n <= 0 {
		return nil, nil
	}
	raws, err := r.client.LRange(ctx, r.key, 0, n-1).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read notifications")
	}
	out := make([]Notification, 0, len(raws))
	for _, raw := range raws {
		var note Notification
		if err := json.Unmarshal([]byte(raw), &note); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal notification")
		}
		out = append(out, note)
	}
	return out, nil
}

// Multi fans every message out to each notifier in order. All notifiers
// are tried; the first error is returned.
type Multi []Notifier

// Warn implements Notifier
func (m Multi) Warn(ctx context.Context, actorID, message string) error {
	var first error
	for _, n := range m {
		if err := n.Warn(ctx, actorID, message); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Chat implements Notifier
func (m Multi) Chat(ctx context.Context, actorID, content string) error {
	var first error
	for _, n := range m {
		if err := n.Chat(ctx, actorID, content); err != nil && first == nil {
			first = err
		}
	}
	return first
}

var (
	_ Notifier = (*Log)(nil)
	_ Notifier = (*Redis)(nil)
	_ Notifier = Multi(nil)
)
