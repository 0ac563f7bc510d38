package entities

import (
	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/rpg-palette/internal/pkg/value"
)

// Actor types the palette acts on
const (
	ActorTypeCharacter = "character"
	ActorTypeNPC       = "npc"
)

// Actor is a host actor decoded from the world snapshot
type Actor struct {
	ID       string
	UUID     string
	Type     string
	Name     string
	Editable bool
	Data     value.Value
	Items    []*Item
}

// GetID returns the actor's ID
func (a *Actor) GetID() string {
	return a.ID
}

// GetType returns the entity type for rpg-toolkit
func (a *Actor) GetType() string {
	return "actor"
}

// System returns the actor's system data section
func (a *Actor) System() value.Value {
	if a == nil {
		return value.Null()
	}
	return a.Data.Field("system")
}

// Get reads a dotted path under the actor's system data
func (a *Actor) Get(path string) value.Value {
	return a.System().Get(path)
}

// Item looks up an owned item by id
func (a *Actor) Item(id string) (*Item, bool) {
	if a == nil {
		return nil, false
	}
	for _, item := range a.Items {
		if item.ID == id {
			return item, true
		}
	}
	return nil, false
}

// IsPlayable reports whether the palette builds actions for this actor type
func (a *Actor) IsPlayable() bool {
	return a != nil && (a.Type == ActorTypeCharacter || a.Type == ActorTypeNPC)
}

// Item is an owned item, technique or peculiarity
type Item struct {
	ID   string
	UUID string
	Type string
	Name string
	Data value.Value
}

// GetID returns the item's ID
func (i *Item) GetID() string {
	return i.ID
}

// GetType returns the item's host type
func (i *Item) GetType() string {
	return i.Type
}

// System returns the item's system data section
func (i *Item) System() value.Value {
	if i == nil {
		return value.Null()
	}
	return i.Data.Field("system")
}

// Token places an actor on a scene
type Token struct {
	ID        string
	UUID      string
	ActorID   string
	SceneID   string
	SceneUUID string
}

// Compile-time check that actors and items implement core.Entity
var (
	_ core.Entity = (*Actor)(nil)
	_ core.Entity = (*Item)(nil)
)
