// Package host describes the volatile surfaces exposed by the tabletop host:
// the helper namespace, the system namespace, actor and item receivers and
// the world snapshot. Nothing here assumes a fixed method contract; members
// are discovered by name before every call.
package host

import (
	"context"
	"strings"

	"github.com/KirkDiggler/rpg-palette/internal/entities"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/value"
)

// Func invokes a host function. The receiver, when any, is already bound.
type Func func(ctx context.Context, args []Arg) (value.Value, error)

// Constructor invokes a host function and returns the object it builds,
// or nil when the call produced plain data.
type Constructor func(ctx context.Context, args []Arg) (Object, error)

// Global namespaces besides the helper, system and combat ones
const (
	GlobalConfig      = "CONFIG"
	GlobalChatMessage = "ChatMessage"
)

// UnknownArity marks functions whose declared parameter count is unknown
const UnknownArity = -1

// Member is one named slot on a host object
type Member struct {
	// Func is set when the member is callable
	Func Func
	// Construct is set when the runtime can hand back returned objects
	Construct Constructor
	// Arity is the declared parameter count excluding the receiver
	Arity int
	// Object is set when the member is itself a table of members
	Object Object
}

// Callable reports whether the member can be invoked
func (m Member) Callable() bool {
	return m.Func != nil
}

// Object is a duck-typed host object
type Object interface {
	// Name identifies the object in logs and journal entries
	Name() string
	// Keys lists member names in declaration order
	Keys() []string
	// Member looks up a member by name
	Member(name string) (Member, bool)
	// Data returns the object's plain data view
	Data() value.Value
	// Ref returns the handle passed back into host calls
	Ref() any
}

// Runtime exposes the host namespaces and receivers
type Runtime interface {
	// Helpers returns the system helper namespace
	Helpers() (Object, bool)
	// System returns the game system namespace
	System() (Object, bool)
	// Combat returns the combat tracker helper
	Combat() (Object, bool)
	// Global returns any other global namespace by name
	Global(name string) (Object, bool)
	// Actor binds an actor receiver
	Actor(actor *entities.Actor) Object
	// Item binds an item receiver owned by actor
	Item(actor *entities.Actor, item *entities.Item) Object
	// Token binds a token reference
	Token(token *entities.Token) Object
}

// Method looks up a callable member
func Method(obj Object, name string) (Func, bool) {
	if obj == nil {
		return nil, false
	}
	m, ok := obj.Member(name)
	if !ok || !m.Callable() {
		return nil, false
	}
	return m.Func, true
}

// Child looks up a nested object member
func Child(obj Object, name string) (Object, bool) {
	if obj == nil {
		return nil, false
	}
	m, ok := obj.Member(name)
	if !ok || m.Object == nil {
		return nil, false
	}
	return m.Object, true
}

// Walk resolves a dotted path of nested objects. An empty path returns obj.
func Walk(obj Object, path string) (Object, bool) {
	if obj == nil {
		return nil, false
	}
	if path == "" {
		return obj, true
	}
	cur := obj
	for _, segment := range strings.Split(path, ".") {
		next, ok := Child(cur, segment)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}
