package host

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/KirkDiggler/rpg-palette/internal/entities"
	"github.com/KirkDiggler/rpg-palette/internal/errors"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/value"
)

// World is the host data snapshot: configuration tree, actors with their
// items, tokens, the controlled selection and the combat tracker.
type World struct {
	mu  sync.RWMutex
	raw []byte
}

// LoadWorld reads a snapshot file
func LoadWorld(path string) (*World, error) {
	raw, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read world snapshot %s", path)
	}
	return NewWorld(raw)
}

// NewWorld wraps raw snapshot JSON
func NewWorld(raw []byte) (*World, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errors.InvalidArgument("world snapshot is not valid JSON")
	}
	if !gjson.ParseBytes(raw).IsObject() {
		return nil, errors.InvalidArgument("world snapshot must be a JSON object")
	}
	buf := make([]byte, len(raw))
	copy(buf, raw)
	return &World{raw: buf}, nil
}

// Replace swaps in a new snapshot
func (w *World) Replace(raw []byte) error {
	next, err := NewWorld(raw)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.raw = next.raw
	return nil
}

// Bytes returns a copy of the current snapshot
func (w *World) Bytes() []byte {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]byte, len(w.raw))
	copy(out, w.raw)
	return out
}

func (w *World) get(path string) gjson.Result {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return gjson.GetBytes(w.raw, path)
}

// ConfigRoot returns the whole system configuration tree
func (w *World) ConfigRoot() value.Value {
	return value.FromResult(w.get("config"))
}

// Config reads a dotted path from the configuration tree. Missing segments
// read as Null. Only the addressed subtree is decoded.
func (w *World) Config(path string) value.Value {
	if path == "" {
		return w.ConfigRoot()
	}
	segments := strings.Split(path, ".")
	for i, segment := range segments {
		if segment == "" {
			return w.ConfigRoot().Get(path)
		}
		segments[i] = gjson.Escape(segment)
	}
	return value.FromResult(w.get("config." + strings.Join(segments, ".")))
}

// Actors returns every actor in the snapshot
func (w *World) Actors() []*entities.Actor {
	var out []*entities.Actor
	w.get("actors").ForEach(func(_, a gjson.Result) bool {
		out = append(out, decodeActor(a))
		return true
	})
	return out
}

// Actor looks up one actor by id
func (w *World) Actor(id string) (*entities.Actor, error) {
	if id == "" {
		return nil, errors.InvalidArgument("actor id is required")
	}
	a, _, ok := w.findActor(id)
	if !ok {
		return nil, errors.NotFoundf("actor %s not found", id).WithMeta("actor_id", id)
	}
	return decodeActor(a), nil
}

func (w *World) findActor(id string) (gjson.Result, int, bool) {
	var (
		found gjson.Result
		index = -1
		i     int
	)
	w.get("actors").ForEach(func(_, a gjson.Result) bool {
		if a.Get("id").String() == id {
			found = a
			index = i
			return false
		}
		i++
		return true
	})
	return found, index, index >= 0
}

// UpdateActor writes one value under the actor document, e.g.
// UpdateActor(id, "system.stance", "fire").
func (w *World) UpdateActor(id, path string, v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	index := -1
	i := 0
	gjson.GetBytes(w.raw, "actors").ForEach(func(_, a gjson.Result) bool {
		if a.Get("id").String() == id {
			index = i
			return false
		}
		i++
		return true
	})
	if index < 0 {
		return errors.NotFoundf("actor %s not found", id).WithMeta("actor_id", id)
	}

	next, err := sjson.SetBytes(w.raw, "actors."+strconv.Itoa(index)+"."+path, v)
	if err != nil {
		return errors.Wrapf(err, "failed to update actor %s at %s", id, path)
	}
	w.raw = next
	return nil
}

// Token looks up a token by id
func (w *World) Token(id string) (*entities.Token, error) {
	var out *entities.Token
	w.get("tokens").ForEach(func(_, t gjson.Result) bool {
		if t.Get("id").String() == id {
			out = decodeToken(t)
			return false
		}
		return true
	})
	if out == nil {
		return nil, errors.NotFoundf("token %s not found", id).WithMeta("token_id", id)
	}
	return out, nil
}

// Controlled returns the currently selected tokens in selection order.
// Ids without a matching token are skipped.
func (w *World) Controlled() []*entities.Token {
	var out []*entities.Token
	w.get("controlled").ForEach(func(_, id gjson.Result) bool {
		if t, err := w.Token(id.String()); err == nil {
			out = append(out, t)
		}
		return true
	})
	return out
}

// CurrentCombatToken returns the token id whose turn it is, or ""
func (w *World) CurrentCombatToken() string {
	return w.get("combat.current.tokenId").String()
}

func decodeActor(a gjson.Result) *entities.Actor {
	actor := &entities.Actor{
		ID:       a.Get("id").String(),
		UUID:     a.Get("uuid").String(),
		Type:     a.Get("type").String(),
		Name:     a.Get("name").String(),
		Editable: true,
		Data:     value.FromResult(a),
	}
	if editable := a.Get("editable"); editable.Exists() {
		actor.Editable = editable.Bool()
	}
	a.Get("items").ForEach(func(_, it gjson.Result) bool {
		actor.Items = append(actor.Items, &entities.Item{
			ID:   it.Get("id").String(),
			UUID: it.Get("uuid").String(),
			Type: it.Get("type").String(),
			Name: it.Get("name").String(),
			Data: value.FromResult(it),
		})
		return true
	})
	return actor
}

func decodeToken(t gjson.Result) *entities.Token {
	return &entities.Token{
		ID:        t.Get("id").String(),
		UUID:      t.Get("uuid").String(),
		ActorID:   t.Get("actorId").String(),
		SceneID:   t.Get("sceneId").String(),
		SceneUUID: t.Get("sceneUuid").String(),
	}
}
