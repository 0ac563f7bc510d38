// Package hostfake provides in-memory host objects for tests
package hostfake

import (
	"context"
	"errors"
	"sync"

	"github.com/KirkDiggler/rpg-palette/internal/clients/host"
	"github.com/KirkDiggler/rpg-palette/internal/entities"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/value"
)

// Call records one invocation made through a fake object
type Call struct {
	Object string
	Method string
	Args   []host.Arg
}

// Log collects calls across fake objects in invocation order
type Log struct {
	mu    sync.Mutex
	calls []Call
}

func (l *Log) add(c Call) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, c)
}

// Calls returns a copy of the recorded calls
func (l *Log) Calls() []Call {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Call, len(l.calls))
	copy(out, l.calls)
	return out
}

// Methods returns "object.method" for every recorded call
func (l *Log) Methods() []string {
	calls := l.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Object + "." + c.Method
	}
	return out
}

// Object is a fake host object with members in declaration order
type Object struct {
	name    string
	keys    []string
	members map[string]host.Member
	data    value.Value
	log     *Log
}

// NewObject creates an empty fake object. Calls are recorded in log when
// it is not nil.
func NewObject(name string, log *Log) *Object {
	return &Object{
		name:    name,
		members: map[string]host.Member{},
		data:    value.Rec(value.NewRecord()),
		log:     log,
	}
}

func (o *Object) set(name string, m host.Member) *Object {
	if _, exists := o.members[name]; !exists {
		o.keys = append(o.keys, name)
	}
	o.members[name] = m
	return o
}

// Func adds a method with unknown arity
func (o *Object) Func(name string, fn host.Func) *Object {
	return o.FuncN(name, host.UnknownArity, fn)
}

// FuncN adds a method with a declared arity
func (o *Object) FuncN(name string, arity int, fn host.Func) *Object {
	recorded := func(ctx context.Context, args []host.Arg) (value.Value, error) {
		o.log.add(Call{Object: o.name, Method: name, Args: args})
		return fn(ctx, args)
	}
	return o.set(name, host.Member{Func: recorded, Arity: arity})
}

// Constructor adds a method that builds a new object
func (o *Object) Constructor(name string, build func(args []host.Arg) (*Object, error)) *Object {
	construct := func(_ context.Context, args []host.Arg) (host.Object, error) {
		o.log.add(Call{Object: o.name, Method: name, Args: args})
		obj, err := build(args)
		if err != nil || obj == nil {
			return nil, err
		}
		return obj, nil
	}
	call := func(ctx context.Context, args []host.Arg) (value.Value, error) {
		obj, err := construct(ctx, args)
		if err != nil || obj == nil {
			return value.Null(), err
		}
		return obj.Data(), nil
	}
	return o.set(name, host.Member{Func: call, Construct: construct, Arity: host.UnknownArity})
}

// Child adds a nested object
func (o *Object) Child(name string, child *Object) *Object {
	return o.set(name, host.Member{Object: child, Arity: host.UnknownArity})
}

// WithData sets the plain data view
func (o *Object) WithData(v value.Value) *Object {
	o.data = v
	return o
}

// Name implements host.Object
func (o *Object) Name() string { return o.name }

// Keys implements host.Object
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Member implements host.Object
func (o *Object) Member(name string) (host.Member, bool) {
	m, ok := o.members[name]
	return m, ok
}

// Data implements host.Object
func (o *Object) Data() value.Value { return o.data }

// Ref implements host.Object
func (o *Object) Ref() any { return o }

// Returns is a host function that always returns v
func Returns(v value.Value) host.Func {
	return func(context.Context, []host.Arg) (value.Value, error) {
		return v, nil
	}
}

// Fails is a host function that always errors
func Fails(msg string) host.Func {
	return func(context.Context, []host.Arg) (value.Value, error) {
		return value.Null(), errors.New(msg)
	}
}

// Panics is a host function that always panics
func Panics(msg string) host.Func {
	return func(context.Context, []host.Arg) (value.Value, error) {
		panic(msg)
	}
}

// Blocks is a host function that waits for ctx to end
func Blocks() host.Func {
	return func(ctx context.Context, _ []host.Arg) (value.Value, error) {
		<-ctx.Done()
		return value.Null(), ctx.Err()
	}
}

// Runtime is a fake host.Runtime. Receivers not registered explicitly are
// built as empty objects carrying the entity's data.
type Runtime struct {
	HelpersObject *Object
	SystemObject  *Object
	CombatObject  *Object
	Globals       map[string]*Object
	Actors        map[string]*Object
	Items         map[string]*Object
	Log           *Log
}

// NewRuntime creates an empty fake runtime sharing log
func NewRuntime(log *Log) *Runtime {
	return &Runtime{
		Globals: map[string]*Object{},
		Actors:  map[string]*Object{},
		Items:   map[string]*Object{},
		Log:     log,
	}
}

// Helpers implements host.Runtime
func (r *Runtime) Helpers() (host.Object, bool) {
	if r.HelpersObject == nil {
		return nil, false
	}
	return r.HelpersObject, true
}

// System implements host.Runtime
func (r *Runtime) System() (host.Object, bool) {
	if r.SystemObject == nil {
		return nil, false
	}
	return r.SystemObject, true
}

// Combat implements host.Runtime
func (r *Runtime) Combat() (host.Object, bool) {
	if r.CombatObject == nil {
		return nil, false
	}
	return r.CombatObject, true
}

// Global implements host.Runtime
func (r *Runtime) Global(name string) (host.Object, bool) {
	obj, ok := r.Globals[name]
	if !ok || obj == nil {
		return nil, false
	}
	return obj, true
}

// Actor implements host.Runtime
func (r *Runtime) Actor(actor *entities.Actor) host.Object {
	if obj, ok := r.Actors[actor.ID]; ok {
		return obj
	}
	return NewObject("actor:"+actor.ID, r.Log).WithData(actor.Data)
}

// Item implements host.Runtime
func (r *Runtime) Item(_ *entities.Actor, item *entities.Item) host.Object {
	if obj, ok := r.Items[item.ID]; ok {
		return obj
	}
	return NewObject("item:"+item.ID, r.Log).WithData(item.Data)
}

// Token implements host.Runtime
func (r *Runtime) Token(token *entities.Token) host.Object {
	return NewObject("token:"+token.ID, r.Log).WithData(value.Rec(value.NewRecord().
		Set("id", value.String(token.ID)).
		Set("actorId", value.String(token.ActorID))))
}

// Compile-time checks
var (
	_ host.Object  = (*Object)(nil)
	_ host.Runtime = (*Runtime)(nil)
)
